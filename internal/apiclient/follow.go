package apiclient

import (
	"context"
	"fmt"
	"net/url"

	"github.com/gorilla/websocket"

	"portal/internal/logline"
)

// FollowHandler receives each streamed record. A non-nil error stops the
// stream.
type FollowHandler func(logline.Record) error

// FollowLogs connects to the daemon's websocket log stream and invokes
// the handler for every record until ctx is canceled, the handler
// errors, or the server closes the stream. A server-side error frame
// surfaces as an error.
func (c *Client) FollowLogs(ctx context.Context, q LogQuery, handler FollowHandler) error {
	endpoint := c.base.ResolveReference(&url.URL{Path: "/ws/logs"})
	switch endpoint.Scheme {
	case "https":
		endpoint.Scheme = "wss"
	default:
		endpoint.Scheme = "ws"
	}
	endpoint.RawQuery = q.values().Encode()

	conn, resp, err := websocket.DefaultDialer.DialContext(ctx, endpoint.String(), nil)
	if err != nil {
		if resp != nil {
			return fmt.Errorf("dial log stream: %w (status %d)", err, resp.StatusCode)
		}
		return fmt.Errorf("dial log stream: %w", err)
	}
	defer conn.Close()

	// Closing the connection on cancellation unblocks the blocking read.
	done := make(chan struct{})
	defer close(done)
	go func() {
		select {
		case <-ctx.Done():
			_ = conn.Close()
		case <-done:
		}
	}()

	for {
		var frame struct {
			Type    string          `json:"type"`
			Item    *logline.Record `json:"item"`
			Message string          `json:"message"`
		}
		if err := conn.ReadJSON(&frame); err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			if websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				return nil
			}
			return fmt.Errorf("read log stream: %w", err)
		}
		switch frame.Type {
		case "log":
			if frame.Item == nil {
				continue
			}
			if err := handler(*frame.Item); err != nil {
				return err
			}
		case "error":
			return fmt.Errorf("log stream error: %s", frame.Message)
		}
	}
}
