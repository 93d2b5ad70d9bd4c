package enginestub

import (
	"context"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"github.com/Starpact/tlc/internal/engine"
)

// ProgressHub fans solve progress out to every connected websocket. Slow
// subscribers lose ticks rather than stalling the solver.
type ProgressHub struct {
	logger   *slog.Logger
	upgrader websocket.Upgrader

	mu   sync.Mutex
	subs map[chan engine.Progress]struct{}
}

func NewProgressHub(logger *slog.Logger) *ProgressHub {
	return &ProgressHub{
		logger: logger,
		upgrader: websocket.Upgrader{
			CheckOrigin: func(*http.Request) bool { return true },
		},
		subs: map[chan engine.Progress]struct{}{},
	}
}

func (h *ProgressHub) Publish(progress engine.Progress) {
	h.mu.Lock()
	defer h.mu.Unlock()
	for sub := range h.subs {
		select {
		case sub <- progress:
		default:
		}
	}
}

// ServeHTTP upgrades the request and streams progress ticks until the client
// goes away.
func (h *ProgressHub) ServeHTTP(w http.ResponseWriter, req *http.Request) {
	conn, err := h.upgrader.Upgrade(w, req, nil)
	if err != nil {
		h.logger.Warn("progress upgrade failed", "error", err)
		return
	}
	defer conn.Close()

	sub := make(chan engine.Progress, 16)
	h.mu.Lock()
	h.subs[sub] = struct{}{}
	h.mu.Unlock()
	defer func() {
		h.mu.Lock()
		delete(h.subs, sub)
		h.mu.Unlock()
	}()

	for {
		select {
		case <-req.Context().Done():
			return
		case progress := <-sub:
			if err := conn.WriteJSON(progress); err != nil {
				return
			}
		}
	}
}

// Solver runs fake solve jobs, ticking progress through the stages the real
// engine reports.
type Solver struct {
	hub    *ProgressHub
	logger *slog.Logger

	mu      sync.Mutex
	running bool
}

func NewSolver(hub *ProgressHub, logger *slog.Logger) *Solver {
	return &Solver{hub: hub, logger: logger}
}

// Start launches one job; a second start while a job runs is rejected.
func (s *Solver) Start(ctx context.Context, frameNum int) (engine.SolveJob, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.running {
		return engine.SolveJob{}, false
	}
	s.running = true

	job := engine.SolveJob{JobID: "solve-" + uuid.NewString()}
	go s.run(ctx, job, frameNum)
	return job, true
}

func (s *Solver) run(ctx context.Context, job engine.SolveJob, frameNum int) {
	defer func() {
		s.mu.Lock()
		s.running = false
		s.mu.Unlock()
	}()
	s.logger.Info("solve started", "job_id", job.JobID, "frame_num", frameNum)

	for _, stage := range []string{"build_green_history", "detect_peaks", "interpolate", "solve_nusselt"} {
		for done := 0; done <= frameNum; done += maxStep(frameNum) {
			select {
			case <-ctx.Done():
				return
			case <-time.After(20 * time.Millisecond):
			}
			s.hub.Publish(engine.Progress{JobID: job.JobID, Stage: stage, Done: done, Total: frameNum})
		}
	}
	s.hub.Publish(engine.Progress{JobID: job.JobID, Stage: "done", Done: frameNum, Total: frameNum})
	s.logger.Info("solve finished", "job_id", job.JobID)
}

func maxStep(total int) int {
	step := total / 20
	if step < 1 {
		step = 1
	}
	return step
}
