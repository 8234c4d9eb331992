// Package httpsource implements the non-core HTTP data source (spec §6:
// "Optional HTTP endpoint URL ... for the non-core data source"): a
// one-shot fetch of a JSON array endpoint, and an optional websocket
// channel that signals when the remote data has changed so the engine
// can re-fetch and swap the active table.
package httpsource

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/gorilla/websocket"

	"sqlcli/internal/datatable"
	"sqlcli/internal/loaders"
)

const fetchTimeout = 30 * time.Second

// Fetch retrieves the JSON array at url and loads it the same way a
// local JSON file would be loaded (spec §4.2/§6: identical contract,
// only the byte source differs).
func Fetch(ctx context.Context, url string) (*datatable.Table, error) {
	ctx, cancel := context.WithTimeout(ctx, fetchTimeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetching %s: %w", url, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("fetching %s: unexpected status %s", url, resp.Status)
	}
	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}
	return loaders.LoadJSONBytes(tableNameFromURL(url), data)
}

func tableNameFromURL(url string) string {
	base := url
	for i := len(base) - 1; i >= 0; i-- {
		if base[i] == '/' {
			base = base[i+1:]
			break
		}
	}
	if base == "" {
		return "http_source"
	}
	return base
}

// RefreshWatcher holds a live websocket connection to a refresh channel:
// the remote side pushes an empty message whenever the underlying data
// changes, and the caller re-Fetches on each notification. This mirrors
// the teacher's websocket usage for server-push notifications, adapted
// to a client role.
type RefreshWatcher struct {
	conn *websocket.Conn
}

// DialRefreshChannel connects to a ws(s):// URL that the HTTP data
// source advertises for live-refresh notifications (spec §6 environment
// variable scope: optional, non-core).
func DialRefreshChannel(ctx context.Context, wsURL string) (*RefreshWatcher, error) {
	dialer := websocket.Dialer{HandshakeTimeout: 10 * time.Second}
	conn, _, err := dialer.DialContext(ctx, wsURL, nil)
	if err != nil {
		return nil, fmt.Errorf("dialing refresh channel %s: %w", wsURL, err)
	}
	return &RefreshWatcher{conn: conn}, nil
}

// Wait blocks until the next refresh notification arrives, or ctx is
// done, or the connection closes.
func (w *RefreshWatcher) Wait(ctx context.Context) error {
	type result struct{ err error }
	done := make(chan result, 1)
	go func() {
		_, _, err := w.conn.ReadMessage()
		done <- result{err: err}
	}()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case r := <-done:
		return r.err
	}
}

// Close terminates the refresh channel connection.
func (w *RefreshWatcher) Close() error {
	return w.conn.Close()
}
