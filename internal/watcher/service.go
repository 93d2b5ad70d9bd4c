// Package watcher notifies the session when experiment source files change on
// disk. A video or DAQ file rewritten mid-session invalidates cached frames
// and data, so the front end needs to refetch.
package watcher

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"sync"

	"github.com/fsnotify/fsnotify"
)

// Service watches individual source files. Paths are added and removed as the
// operator repoints the session at different files.
type Service struct {
	logger   *slog.Logger
	onChange func(context.Context, string)
	watcher  *fsnotify.Watcher

	mu      sync.Mutex
	tracked map[string]struct{}
}

func New(logger *slog.Logger, onChange func(context.Context, string)) (*Service, error) {
	fileWatcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("create fsnotify watcher: %w", err)
	}
	return &Service{
		logger:   logger,
		onChange: onChange,
		watcher:  fileWatcher,
		tracked:  map[string]struct{}{},
	}, nil
}

// Watch replaces the watched set with the given files. Watching the parent
// directory instead of the file itself survives editors that replace by
// rename.
func (s *Service) Watch(paths ...string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, existing := range s.watcher.WatchList() {
		if err := s.watcher.Remove(existing); err != nil {
			s.logger.Warn("failed to unwatch directory", "path", existing, "error", err)
		}
	}
	s.tracked = map[string]struct{}{}
	for _, path := range paths {
		if path == "" {
			continue
		}
		s.tracked[filepath.Clean(path)] = struct{}{}
		dir := filepath.Dir(path)
		if err := s.watcher.Add(dir); err != nil {
			return fmt.Errorf("watch path %s: %w", dir, err)
		}
	}
	return nil
}

// Close releases the fsnotify handle for a service that never started.
// Start closes it itself on the way out.
func (s *Service) Close() error {
	return s.watcher.Close()
}

func (s *Service) Start(ctx context.Context) error {
	defer s.watcher.Close()
	s.logger.Info("source watcher started")

	for {
		select {
		case <-ctx.Done():
			s.logger.Info("source watcher stopped")
			return nil
		case event := <-s.watcher.Events:
			s.handleEvent(ctx, event)
		case err := <-s.watcher.Errors:
			if err != nil {
				s.logger.Error("file watcher error", "error", err)
			}
		}
	}
}

func (s *Service) handleEvent(ctx context.Context, event fsnotify.Event) {
	s.mu.Lock()
	_, ok := s.tracked[filepath.Clean(event.Name)]
	s.mu.Unlock()
	if !ok {
		return
	}
	if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) == 0 {
		return
	}
	s.logger.Info("source file changed", "path", event.Name, "op", event.Op.String())
	s.onChange(ctx, event.Name)
}
