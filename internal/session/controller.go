package session

import (
	"context"
	"errors"
	"log/slog"

	"github.com/Starpact/tlc/internal/engine"
)

var (
	ErrNegativeIndex = errors.New("index must be non-negative")
	ErrNoSelection   = errors.New("no data row selected")
	ErrSaveDirUnset  = errors.New("save directory is not set")
)

// CommandClient is the slice of the engine command channel the controller
// dispatches through.
type CommandClient interface {
	LoadDefaultConfig(ctx context.Context) (engine.Config, error)
	LoadConfig(ctx context.Context, path string) (engine.Config, error)
	SaveConfig(ctx context.Context) error
	SetSaveDir(ctx context.Context, path string) (engine.Config, error)
	SetVideoPath(ctx context.Context, path string) (engine.Config, error)
	SetDaqPath(ctx context.Context, path string) (engine.Config, error)
	SetStartFrame(ctx context.Context, index int) (engine.Config, error)
	SetStartRow(ctx context.Context, index int) (engine.Config, error)
	SetRegion(ctx context.Context, topLeft, shape [2]int) (engine.Config, error)
	Synchronize(ctx context.Context, frameIndex, rowIndex int) (engine.Config, error)
}

// Controller owns the mutation path of the canonical configuration: local
// fast-fail guards, no-op short circuits, one command round trip, and the
// install of the engine's reply. Local and engine failures both land in the
// alert slot; nothing else may write it besides dismissal.
type Controller struct {
	client CommandClient
	store  *Store
	alert  *Alert
	logger *slog.Logger
}

func NewController(client CommandClient, store *Store, alert *Alert, logger *slog.Logger) *Controller {
	return &Controller{client: client, store: store, alert: alert, logger: logger}
}

func (c *Controller) LoadDefault(ctx context.Context) error {
	cfg, err := c.client.LoadDefaultConfig(ctx)
	if err != nil {
		return c.fail(err)
	}
	c.store.Replace(cfg)
	return nil
}

func (c *Controller) Load(ctx context.Context, path string) error {
	cfg, err := c.client.LoadConfig(ctx, path)
	if err != nil {
		return c.fail(err)
	}
	c.store.Replace(cfg)
	return nil
}

func (c *Controller) Save(ctx context.Context) error {
	if c.store.Current().SaveDir == "" {
		return c.fail(ErrSaveDirUnset)
	}
	if err := c.client.SaveConfig(ctx); err != nil {
		return c.fail(err)
	}
	c.store.MarkSaved()
	return nil
}

func (c *Controller) SetSaveDir(ctx context.Context, path string) error {
	if path == c.store.Current().SaveDir {
		return nil
	}
	return c.installResult(c.client.SetSaveDir(ctx, path))
}

func (c *Controller) SetVideoPath(ctx context.Context, path string) error {
	if path == c.store.Current().VideoPath {
		return nil
	}
	return c.installResult(c.client.SetVideoPath(ctx, path))
}

func (c *Controller) SetDaqPath(ctx context.Context, path string) error {
	if path == c.store.Current().DaqPath {
		return nil
	}
	return c.installResult(c.client.SetDaqPath(ctx, path))
}

func (c *Controller) SetStartFrame(ctx context.Context, index int) error {
	if index < 0 {
		return c.fail(ErrNegativeIndex)
	}
	if index == c.store.Current().StartFrame {
		return nil
	}
	return c.installResult(c.client.SetStartFrame(ctx, index))
}

func (c *Controller) SetStartRow(ctx context.Context, index int) error {
	if index < 0 {
		return c.fail(ErrNegativeIndex)
	}
	if index == c.store.Current().StartRow {
		return nil
	}
	return c.installResult(c.client.SetStartRow(ctx, index))
}

func (c *Controller) SetRegion(ctx context.Context, topLeft, shape [2]int) error {
	if topLeft[0] < 0 || topLeft[1] < 0 {
		return c.fail(ErrNegativeIndex)
	}
	return c.installResult(c.client.SetRegion(ctx, topLeft, shape))
}

// Synchronize anchors the given video frame and DAQ row to the same instant.
// Both indices must denote an actual selection; re-anchoring later simply
// replaces the implied offset.
func (c *Controller) Synchronize(ctx context.Context, frameIndex, rowIndex int) error {
	if frameIndex < 0 || rowIndex < 0 {
		return c.fail(ErrNoSelection)
	}
	return c.installResult(c.client.Synchronize(ctx, frameIndex, rowIndex))
}

func (c *Controller) installResult(cfg engine.Config, err error) error {
	if err != nil {
		return c.fail(err)
	}
	c.store.Replace(cfg)
	return nil
}

func (c *Controller) fail(err error) error {
	c.alert.Set(err.Error())
	var engineErr *engine.Error
	if errors.As(err, &engineErr) {
		c.logger.Warn("command rejected by engine", "command", engineErr.Command, "error", engineErr.Message)
	} else {
		c.logger.Warn("command rejected locally", "error", err)
	}
	return err
}
