package engine

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/Starpact/tlc/internal/config"
)

// Client is the command channel to the computation engine. Every method is one
// request/response round trip; a non-2xx reply decodes the engine's error
// message and returns it as *Error. No retries are performed here.
type Client struct {
	baseURL string
	http    *http.Client
	logger  *slog.Logger
}

func New(cfg config.Config, logger *slog.Logger) *Client {
	timeout := time.Duration(cfg.EngineTimeoutSec) * time.Second
	if timeout < time.Second {
		timeout = 8 * time.Second
	}
	return &Client{
		baseURL: strings.TrimRight(cfg.EngineURL, "/"),
		http:    &http.Client{Timeout: timeout},
		logger:  logger,
	}
}

func (c *Client) WithTimeout(timeout time.Duration) *Client {
	if c == nil {
		return nil
	}
	if timeout < time.Second {
		return c
	}
	clone := *c
	httpClone := *c.http
	httpClone.Timeout = timeout
	clone.http = &httpClone
	return &clone
}

func (c *Client) BaseURL() string {
	return c.baseURL
}

func (c *Client) LoadDefaultConfig(ctx context.Context) (Config, error) {
	return c.postConfig(ctx, "loadDefaultConfig", "/api/v1/config/default", nil)
}

func (c *Client) LoadConfig(ctx context.Context, path string) (Config, error) {
	return c.postConfig(ctx, "loadConfig", "/api/v1/config/load", map[string]string{"path": path})
}

func (c *Client) SaveConfig(ctx context.Context) error {
	req, err := c.newRequest(ctx, http.MethodPost, "/api/v1/config/save", nil)
	if err != nil {
		return err
	}
	return c.doJSON(req, "saveConfig", nil)
}

func (c *Client) SetSaveDir(ctx context.Context, path string) (Config, error) {
	return c.postConfig(ctx, "setSaveDir", "/api/v1/config/save-dir", map[string]string{"path": path})
}

func (c *Client) SetVideoPath(ctx context.Context, path string) (Config, error) {
	return c.postConfig(ctx, "setVideoPath", "/api/v1/config/video-path", map[string]string{"path": path})
}

func (c *Client) SetDaqPath(ctx context.Context, path string) (Config, error) {
	return c.postConfig(ctx, "setDaqPath", "/api/v1/config/daq-path", map[string]string{"path": path})
}

func (c *Client) SetStartFrame(ctx context.Context, index int) (Config, error) {
	return c.postConfig(ctx, "setStartFrame", "/api/v1/config/start-frame", map[string]int{"index": index})
}

func (c *Client) SetStartRow(ctx context.Context, index int) (Config, error) {
	return c.postConfig(ctx, "setStartRow", "/api/v1/config/start-row", map[string]int{"index": index})
}

func (c *Client) SetRegion(ctx context.Context, topLeft, shape [2]int) (Config, error) {
	return c.postConfig(ctx, "setRegion", "/api/v1/config/region", map[string][2]int{
		"top_left": topLeft,
		"shape":    shape,
	})
}

func (c *Client) Synchronize(ctx context.Context, frameIndex, rowIndex int) (Config, error) {
	return c.postConfig(ctx, "synchronize", "/api/v1/config/synchronize", map[string]int{
		"frame_index": frameIndex,
		"row_index":   rowIndex,
	})
}

func (c *Client) GetFrame(ctx context.Context, index int) (Frame, error) {
	endpoint := "/api/v1/frame?" + url.Values{"index": {fmt.Sprintf("%d", index)}}.Encode()
	req, err := c.newRequest(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return Frame{}, err
	}
	var frame Frame
	if err := c.doJSON(req, "getFrame", &frame); err != nil {
		return Frame{}, err
	}
	return frame, nil
}

func (c *Client) GetDAQ(ctx context.Context) (DAQ, error) {
	req, err := c.newRequest(ctx, http.MethodGet, "/api/v1/daq", nil)
	if err != nil {
		return DAQ{}, err
	}
	var daq DAQ
	if err := c.doJSON(req, "getDaq", &daq); err != nil {
		return DAQ{}, err
	}
	if daq.Dim[0]*daq.Dim[1] != len(daq.Data) {
		return DAQ{}, &Error{Command: "getDaq", Message: "daq dimensions do not match buffer length"}
	}
	return daq, nil
}

func (c *Client) StartSolve(ctx context.Context) (SolveJob, error) {
	req, err := c.newRequest(ctx, http.MethodPost, "/api/v1/solve", nil)
	if err != nil {
		return SolveJob{}, err
	}
	var job SolveJob
	if err := c.doJSON(req, "startSolve", &job); err != nil {
		return SolveJob{}, err
	}
	return job, nil
}

func (c *Client) postConfig(ctx context.Context, command, endpoint string, payload any) (Config, error) {
	var body *bytes.Reader
	if payload != nil {
		encoded, err := json.Marshal(payload)
		if err != nil {
			return Config{}, fmt.Errorf("encode %s payload: %w", command, err)
		}
		body = bytes.NewReader(encoded)
	} else {
		body = bytes.NewReader(nil)
	}
	req, err := c.newRequest(ctx, http.MethodPost, endpoint, body)
	if err != nil {
		return Config{}, err
	}
	var cfg Config
	if err := c.doJSON(req, command, &cfg); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c *Client) newRequest(ctx context.Context, method, endpoint string, body *bytes.Reader) (*http.Request, error) {
	var req *http.Request
	var err error
	if body == nil {
		req, err = http.NewRequestWithContext(ctx, method, c.baseURL+endpoint, nil)
	} else {
		req, err = http.NewRequestWithContext(ctx, method, c.baseURL+endpoint, body)
	}
	if err != nil {
		return nil, err
	}
	if method == http.MethodPost {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("X-Request-ID", uuid.NewString())
	return req, nil
}

func (c *Client) doJSON(req *http.Request, command string, out any) error {
	started := time.Now()
	res, err := c.http.Do(req)
	if err != nil {
		return &Error{Command: command, Message: err.Error()}
	}
	defer res.Body.Close()

	if res.StatusCode >= http.StatusBadRequest {
		var apiError struct {
			Error string `json:"error"`
		}
		_ = json.NewDecoder(res.Body).Decode(&apiError)
		if strings.TrimSpace(apiError.Error) == "" {
			apiError.Error = res.Status
		}
		c.logger.Warn("engine rejected command",
			"command", command,
			"request_id", req.Header.Get("X-Request-ID"),
			"status", res.StatusCode,
			"error", apiError.Error,
		)
		return &Error{Command: command, Message: apiError.Error}
	}

	c.logger.Debug("engine command completed",
		"command", command,
		"request_id", req.Header.Get("X-Request-ID"),
		"elapsed_ms", time.Since(started).Milliseconds(),
	)
	if out == nil {
		return nil
	}
	if err := json.NewDecoder(res.Body).Decode(out); err != nil {
		return &Error{Command: command, Message: fmt.Sprintf("decode response: %v", err)}
	}
	return nil
}
