// Package score talks to the remote leaderboard service. The service is a
// best-effort, unauthenticated score mirror: pushes are fire-and-forget and
// a failed read is surfaced as an explicit offline state.
package score

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

// ErrUnavailable marks the leaderboard as unreachable, distinct from an
// empty board.
var ErrUnavailable = errors.New("leaderboard unavailable")

// Entry is one leaderboard row.
type Entry struct {
	Username string `json:"username"`
	Score    int64  `json:"score"`
}

// Client is the HTTP client for the score service. The short timeout only
// frees resources; stuck syncs must never hold up game progression.
type Client struct {
	baseURL string
	http    *http.Client
}

func NewClient(baseURL string, timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = 3 * time.Second
	}
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: timeout},
	}
}

// Push mirrors the score. Callers run it in a detached goroutine and only
// log the returned error; it never feeds back into game state.
func (c *Client) Push(ctx context.Context, username string, score int64) error {
	body, err := json.Marshal(map[string]any{
		"username": username,
		"score":    score,
	})
	if err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/score", bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	// The response body is never consumed; drain for connection reuse.
	_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, 1<<10))

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return fmt.Errorf("score sync: unexpected status %d", resp.StatusCode)
	}
	return nil
}

// Top fetches the current rankings. Any transport or server failure maps
// to ErrUnavailable so the view can distinguish offline from empty.
func (c *Client) Top(ctx context.Context) ([]Entry, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/leaderboard", nil)
	if err != nil {
		return nil, err
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%w: status %d", ErrUnavailable, resp.StatusCode)
	}

	var entries []Entry
	if err := json.NewDecoder(resp.Body).Decode(&entries); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	return entries, nil
}
