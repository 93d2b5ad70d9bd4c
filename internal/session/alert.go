package session

import "sync"

// Alert is the process-wide last-error slot. A non-empty alert gates the
// primary action surface until the operator dismisses it; Set and Clear are
// the only operations.
type Alert struct {
	mu      sync.RWMutex
	message string
}

func NewAlert() *Alert {
	return &Alert{}
}

func (a *Alert) Set(message string) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.message = message
}

func (a *Alert) Clear() {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.message = ""
}

func (a *Alert) Message() string {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.message
}

func (a *Alert) Active() bool {
	return a.Message() != ""
}
