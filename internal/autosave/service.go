// Package autosave periodically persists the case configuration so an engine
// or terminal crash loses at most one interval of setup work.
package autosave

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/Starpact/tlc/internal/session"
)

var scheduleParser = cron.NewParser(
	cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow | cron.Descriptor,
)

type Service struct {
	session  *session.Session
	schedule cron.Schedule
	logger   *slog.Logger
}

// New parses the cron expression up front so a bad schedule fails at startup
// instead of silently never saving.
func New(s *session.Session, cronExpr string, logger *slog.Logger) (*Service, error) {
	cronExpr = strings.Join(strings.Fields(strings.TrimSpace(cronExpr)), " ")
	if cronExpr == "" {
		return nil, nil
	}
	schedule, err := scheduleParser.Parse(cronExpr)
	if err != nil {
		return nil, fmt.Errorf("parse autosave schedule: %w", err)
	}
	return &Service{session: s, schedule: schedule, logger: logger}, nil
}

func (s *Service) Start(ctx context.Context) error {
	s.logger.Info("autosave started")
	for {
		next := s.schedule.Next(time.Now())
		timer := time.NewTimer(time.Until(next))
		select {
		case <-ctx.Done():
			timer.Stop()
			s.logger.Info("autosave stopped")
			return nil
		case <-timer.C:
			s.tick(ctx)
		}
	}
}

// tick saves only when there is something to save: a loaded, dirty
// configuration with a save directory already chosen. Everything else is
// skipped without raising the alert.
func (s *Service) tick(ctx context.Context) {
	if !s.session.Store.Loaded() || !s.session.Store.Dirty() {
		return
	}
	cfg := s.session.Store.Current()
	if cfg.SaveDir == "" {
		s.logger.Debug("autosave skipped, save directory not set")
		return
	}
	if err := s.session.Control.Save(ctx); err != nil {
		s.logger.Warn("autosave failed", "error", err)
		return
	}
	s.logger.Info("autosaved case configuration", "case", cfg.CaseName)
}
