package enginestub

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/Starpact/tlc/internal/config"
)

// Service ties the stub together: state, case history, progress hub and the
// HTTP server.
type Service struct {
	cfg        config.Config
	logger     *slog.Logger
	cases      *CaseStore
	httpServer *http.Server
}

func NewService(cfg config.Config, logger *slog.Logger) (*Service, error) {
	if err := os.MkdirAll(filepath.Dir(cfg.DBPath), 0o755); err != nil {
		return nil, fmt.Errorf("create data directory: %w", err)
	}
	cases, err := NewCaseStore(cfg.DBPath)
	if err != nil {
		return nil, err
	}
	if err := cases.AutoMigrate(context.Background()); err != nil {
		cases.Close()
		return nil, err
	}

	hub := NewProgressHub(logger.With("component", "progress"))
	handler := NewRouter(Dependencies{
		State:  NewState(),
		Cases:  cases,
		Hub:    hub,
		Solver: NewSolver(hub, logger.With("component", "solver")),
		Logger: logger,
	})
	return &Service{
		cfg:    cfg,
		logger: logger,
		cases:  cases,
		httpServer: &http.Server{
			Addr:              cfg.HTTPAddr,
			Handler:           handler,
			ReadHeaderTimeout: 5 * time.Second,
		},
	}, nil
}

func (s *Service) Run(ctx context.Context) error {
	s.logger.Info("engine stub starting", "addr", s.cfg.HTTPAddr, "db", s.cfg.DBPath)

	group, groupCtx := errgroup.WithContext(ctx)
	group.Go(func() error {
		err := s.httpServer.ListenAndServe()
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	})
	group.Go(func() error {
		<-groupCtx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return s.httpServer.Shutdown(shutdownCtx)
	})
	return group.Wait()
}

func (s *Service) Close() error {
	if s.cases == nil {
		return nil
	}
	return s.cases.Close()
}
