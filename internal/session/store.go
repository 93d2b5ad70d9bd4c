package session

import (
	"sync"

	"github.com/Starpact/tlc/internal/engine"
)

// Store holds the single canonical configuration. It is single-writer: the
// only legitimate write path is Replace with the result of a successful
// command round trip. Readers always get a value copy.
type Store struct {
	mu     sync.RWMutex
	config engine.Config
	loaded bool
	dirty  bool
}

func NewStore() *Store {
	return &Store{}
}

func (s *Store) Current() engine.Config {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.config
}

// Loaded reports whether any configuration has been installed yet. Before the
// first successful loadDefaultConfig/loadConfig the session is uninitialized.
func (s *Store) Loaded() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.loaded
}

func (s *Store) Replace(cfg engine.Config) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.config = cfg
	s.loaded = true
	s.dirty = true
}

// Dirty reports whether the canonical configuration changed since the last
// successful save. Used by the autosave service.
func (s *Store) Dirty() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.dirty
}

func (s *Store) MarkSaved() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.dirty = false
}
