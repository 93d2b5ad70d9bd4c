package autosave

import (
	"context"
	"io"
	"log/slog"
	"sync/atomic"
	"testing"
	"time"

	"github.com/Starpact/tlc/internal/engine"
	"github.com/Starpact/tlc/internal/session"
)

type countingClient struct {
	saves atomic.Int64
	cfg   engine.Config
}

func (c *countingClient) LoadDefaultConfig(ctx context.Context) (engine.Config, error) {
	return c.cfg, nil
}

func (c *countingClient) LoadConfig(ctx context.Context, path string) (engine.Config, error) {
	return c.cfg, nil
}

func (c *countingClient) SaveConfig(ctx context.Context) error {
	c.saves.Add(1)
	return nil
}

func (c *countingClient) SetSaveDir(ctx context.Context, path string) (engine.Config, error) {
	return c.cfg, nil
}

func (c *countingClient) SetVideoPath(ctx context.Context, path string) (engine.Config, error) {
	return c.cfg, nil
}

func (c *countingClient) SetDaqPath(ctx context.Context, path string) (engine.Config, error) {
	return c.cfg, nil
}

func (c *countingClient) SetStartFrame(ctx context.Context, index int) (engine.Config, error) {
	return c.cfg, nil
}

func (c *countingClient) SetStartRow(ctx context.Context, index int) (engine.Config, error) {
	return c.cfg, nil
}

func (c *countingClient) SetRegion(ctx context.Context, topLeft, shape [2]int) (engine.Config, error) {
	return c.cfg, nil
}

func (c *countingClient) Synchronize(ctx context.Context, frameIndex, rowIndex int) (engine.Config, error) {
	return c.cfg, nil
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestEmptyScheduleDisablesService(t *testing.T) {
	service, err := New(nil, "  ", discardLogger())
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if service != nil {
		t.Fatal("blank schedule should yield no service")
	}
}

func TestBadScheduleFailsAtStartup(t *testing.T) {
	if _, err := New(nil, "not a schedule", discardLogger()); err == nil {
		t.Fatal("expected parse error for a bad schedule")
	}
}

func TestTickSavesDirtyConfigured(t *testing.T) {
	client := &countingClient{cfg: engine.Config{SaveDir: "/out"}}
	s := session.New(client, discardLogger())
	if err := s.Control.SetSaveDir(context.Background(), "/out"); err != nil {
		t.Fatalf("seed: %v", err)
	}

	service, err := New(s, "@every 1s", discardLogger())
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go service.Start(ctx)

	deadline := time.Now().Add(3 * time.Second)
	for client.saves.Load() == 0 {
		if time.Now().After(deadline) {
			t.Fatal("timed out waiting for an autosave")
		}
		time.Sleep(20 * time.Millisecond)
	}
	if s.Store.Dirty() {
		t.Fatal("store should be clean after the autosave")
	}
}

func TestTickSkipsWithoutSaveDir(t *testing.T) {
	client := &countingClient{cfg: engine.Config{}}
	s := session.New(client, discardLogger())
	if err := s.Control.LoadDefault(context.Background()); err != nil {
		t.Fatalf("seed: %v", err)
	}

	service, err := New(s, "@every 1s", discardLogger())
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	ctx, cancel := context.WithTimeout(context.Background(), 1500*time.Millisecond)
	defer cancel()
	_ = service.Start(ctx)

	if got := client.saves.Load(); got != 0 {
		t.Fatalf("saved %d times without a save dir, want 0", got)
	}
	if s.Alert.Active() {
		t.Fatal("skipped autosave must not raise the alert")
	}
}
