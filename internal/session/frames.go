package session

import (
	"sync"

	"github.com/Starpact/tlc/internal/engine"
)

// FrameLatch implements last-issued-wins for frame requests. Scrubbing fires
// many overlapping getFrame round trips that may resolve out of order; a
// result is installed only if it still matches the most recently wanted
// index, otherwise it is discarded silently. Stale results are not errors.
type FrameLatch struct {
	mu      sync.Mutex
	desired int
	frame   engine.Frame
	present bool
}

func NewFrameLatch() *FrameLatch {
	return &FrameLatch{desired: -1}
}

// Want records the operator's current intent and returns the index to
// request. Every issued request must be tagged with this value.
func (l *FrameLatch) Want(index int) int {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.desired = index
	return index
}

func (l *FrameLatch) Desired() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.desired
}

// Install applies a resolved frame iff its index still equals the desired
// one. The boolean reports whether the frame was applied; false means the
// result was superseded while in flight.
func (l *FrameLatch) Install(frame engine.Frame) bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	if frame.Index != l.desired {
		return false
	}
	l.frame = frame
	l.present = true
	return true
}

func (l *FrameLatch) Current() (engine.Frame, bool) {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.frame, l.present
}

// Reset drops the displayed frame and any recorded intent, used when the
// video source changes under us.
func (l *FrameLatch) Reset() {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.desired = -1
	l.present = false
	l.frame = engine.Frame{}
}
