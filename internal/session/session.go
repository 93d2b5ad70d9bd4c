// Package session is the client-side synchronization core: the canonical
// configuration store, the command dispatch guards, the frame-request latch
// and the shared alert slot. It owns no presentation; the TUI renders from it
// and the engine client talks for it.
package session

import (
	"log/slog"
)

// Session bundles the shared state every front-end component works against.
// It is passed explicitly rather than living in package globals so tests can
// build isolated sessions.
type Session struct {
	Store   *Store
	Alert   *Alert
	Frames  *FrameLatch
	Control *Controller
}

func New(client CommandClient, logger *slog.Logger) *Session {
	store := NewStore()
	alert := NewAlert()
	return &Session{
		Store:   store,
		Alert:   alert,
		Frames:  NewFrameLatch(),
		Control: NewController(client, store, alert, logger),
	}
}
