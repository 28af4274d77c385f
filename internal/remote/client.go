package remote

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/Dicklesworthstone/tln/internal/timeline"
)

// Client talks to a Server from another process.
type Client struct {
	baseURL string
	http    *http.Client
}

// NewClient creates a client for the given host:port.
func NewClient(addr string) *Client {
	return &Client{
		baseURL: "http://" + addr,
		http:    &http.Client{Timeout: 10 * time.Second},
	}
}

func (c *Client) do(ctx context.Context, method, path string, body, out interface{}) error {
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			return err
		}
	}
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, &buf)
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		var apiErr struct {
			Error string `json:"error"`
		}
		if json.NewDecoder(resp.Body).Decode(&apiErr) == nil && apiErr.Error != "" {
			return fmt.Errorf("remote: %s", apiErr.Error)
		}
		return fmt.Errorf("remote: unexpected status %s", resp.Status)
	}
	if out != nil {
		return json.NewDecoder(resp.Body).Decode(out)
	}
	return nil
}

// Snapshot fetches the current navigation state.
func (c *Client) Snapshot(ctx context.Context) (timeline.Snapshot, error) {
	var snap timeline.Snapshot
	err := c.do(ctx, http.MethodGet, "/api/v1/state", nil, &snap)
	return snap, err
}

// SetCursor moves the cursor.
func (c *Client) SetCursor(ctx context.Context, t time.Time) (timeline.Snapshot, error) {
	var snap timeline.Snapshot
	err := c.do(ctx, http.MethodPost, "/api/v1/cursor", cursorRequest{Cursor: t}, &snap)
	return snap, err
}

// SetMode switches the navigation mode ("live" or "playback").
func (c *Client) SetMode(ctx context.Context, mode string) (timeline.Snapshot, error) {
	var snap timeline.Snapshot
	err := c.do(ctx, http.MethodPost, "/api/v1/mode", modeRequest{Mode: mode}, &snap)
	return snap, err
}

// Play starts playback at the given speed.
func (c *Client) Play(ctx context.Context, speed float64) (timeline.Snapshot, error) {
	var snap timeline.Snapshot
	err := c.do(ctx, http.MethodPost, "/api/v1/play", playRequest{Speed: speed}, &snap)
	return snap, err
}

// Stop stops playback.
func (c *Client) Stop(ctx context.Context) (timeline.Snapshot, error) {
	var snap timeline.Snapshot
	err := c.do(ctx, http.MethodPost, "/api/v1/stop", nil, &snap)
	return snap, err
}

// Zoom sets the view range.
func (c *Client) Zoom(ctx context.Context, start, end time.Time) (timeline.Snapshot, error) {
	var snap timeline.Snapshot
	err := c.do(ctx, http.MethodPost, "/api/v1/zoom", zoomRequest{Start: start, End: end}, &snap)
	return snap, err
}
