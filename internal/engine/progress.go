package engine

import (
	"context"
	"fmt"
	"strings"

	"github.com/gorilla/websocket"
)

// WatchProgress subscribes to the engine's job progress feed. The returned
// channel is closed when the connection drops or ctx is cancelled; a slow
// reader never blocks the feed because ticks are dropped, not queued.
func (c *Client) WatchProgress(ctx context.Context) (<-chan Progress, error) {
	endpoint := wsURL(c.baseURL) + "/api/v1/progress"
	conn, _, err := websocket.DefaultDialer.DialContext(ctx, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("dial progress feed: %w", err)
	}

	ticks := make(chan Progress, 16)
	go func() {
		defer close(ticks)
		defer conn.Close()
		go func() {
			<-ctx.Done()
			conn.Close()
		}()
		for {
			var tick Progress
			if err := conn.ReadJSON(&tick); err != nil {
				return
			}
			select {
			case ticks <- tick:
			default:
			}
		}
	}()
	return ticks, nil
}

func wsURL(baseURL string) string {
	switch {
	case strings.HasPrefix(baseURL, "https://"):
		return "wss://" + strings.TrimPrefix(baseURL, "https://")
	case strings.HasPrefix(baseURL, "http://"):
		return "ws://" + strings.TrimPrefix(baseURL, "http://")
	default:
		return baseURL
	}
}
