package session

import (
	"testing"

	"github.com/Starpact/tlc/internal/engine"
)

func TestStaleFrameResultIsDiscarded(t *testing.T) {
	latch := NewFrameLatch()

	latch.Want(5)
	latch.Want(9)

	if latch.Install(engine.Frame{Index: 5}) {
		t.Fatal("result for 5 resolved after 9 was wanted, must be discarded")
	}
	if !latch.Install(engine.Frame{Index: 9}) {
		t.Fatal("result for the latest wanted index must be installed")
	}
	frame, ok := latch.Current()
	if !ok || frame.Index != 9 {
		t.Fatalf("current frame = %+v ok=%v, want index 9", frame, ok)
	}
}

func TestLateArrivalForCurrentIntentStillInstalls(t *testing.T) {
	latch := NewFrameLatch()
	latch.Want(3)

	if !latch.Install(engine.Frame{Index: 3}) {
		t.Fatal("result matching the current intent must install regardless of latency")
	}
}

func TestResetDropsFrameAndIntent(t *testing.T) {
	latch := NewFrameLatch()
	latch.Want(7)
	latch.Install(engine.Frame{Index: 7})

	latch.Reset()
	if _, ok := latch.Current(); ok {
		t.Fatal("no frame should remain after reset")
	}
	if latch.Install(engine.Frame{Index: 7}) {
		t.Fatal("results from before the reset must not install")
	}
	if got := latch.Desired(); got != -1 {
		t.Fatalf("desired = %d after reset, want -1", got)
	}
}
