// Package webdriver implements a minimal W3C WebDriver (JSON over HTTP)
// client: just enough of the wire protocol for the Browser Pool and Fetcher
// to open a session, manage windows, navigate, and read page source.
package webdriver

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net"
	"net/http"
	"time"
)

// Client talks W3C WebDriver JSON-over-HTTP to a single driver endpoint
// (e.g. http://127.0.0.1:9515). It is not goroutine-safe for concurrent
// calls against the same session id; callers serialize per session.
type Client struct {
	endpoint string
	http     *http.Client
}

// New returns a Client bound to endpoint, an "http://host:port" base URL
// with no trailing slash.
func New(endpoint string) *Client {
	return &Client{
		endpoint: endpoint,
		http:     &http.Client{Timeout: 30 * time.Second},
	}
}

// Endpoint returns the base URL this client talks to.
func (c *Client) Endpoint() string { return c.endpoint }

// Probe performs a short TCP connect to the endpoint's host:port, the
// cheap health signal spec §4.A/§4.B call for instead of a full /status
// round trip.
func Probe(endpoint string, timeout time.Duration) bool {
	host, port, err := splitEndpoint(endpoint)
	if err != nil {
		return false
	}
	conn, err := net.DialTimeout("tcp", net.JoinHostPort(host, port), timeout)
	if err != nil {
		return false
	}
	conn.Close()
	return true
}

func splitEndpoint(endpoint string) (host, port string, err error) {
	trimmed := endpoint
	for _, prefix := range []string{"http://", "https://"} {
		if len(trimmed) >= len(prefix) && trimmed[:len(prefix)] == prefix {
			trimmed = trimmed[len(prefix):]
			break
		}
	}
	return net.SplitHostPort(trimmed)
}

// NewSessionCapabilities carries the W3C "alwaysMatch" capability set for
// session creation.
type NewSessionCapabilities map[string]any

// NewSession opens a WebDriver session and returns its session id.
func (c *Client) NewSession(ctx context.Context, caps NewSessionCapabilities) (string, error) {
	body := map[string]any{
		"capabilities": map[string]any{
			"alwaysMatch": caps,
		},
	}
	var out struct {
		Value struct {
			SessionID string `json:"sessionId"`
		} `json:"value"`
	}
	if err := c.do(ctx, http.MethodPost, "/session", body, &out); err != nil {
		return "", err
	}
	return out.Value.SessionID, nil
}

// NewWindow opens a new top-level browsing context within session.
func (c *Client) NewWindow(ctx context.Context, session string) error {
	return c.do(ctx, http.MethodPost, "/session/"+session+"/window/new", map[string]any{"type": "tab"}, nil)
}

// SwitchToWindow switches the given session's current top-level context.
func (c *Client) SwitchToWindow(ctx context.Context, session, handle string) error {
	return c.do(ctx, http.MethodPost, "/session/"+session+"/window", map[string]any{"handle": handle}, nil)
}

// Navigate directs the session's current window to url.
func (c *Client) Navigate(ctx context.Context, session, url string) error {
	return c.do(ctx, http.MethodPost, "/session/"+session+"/url", map[string]any{"url": url}, nil)
}

// PageSource returns the current window's serialized DOM.
func (c *Client) PageSource(ctx context.Context, session string) (string, error) {
	var out struct {
		Value string `json:"value"`
	}
	if err := c.do(ctx, http.MethodGet, "/session/"+session+"/source", nil, &out); err != nil {
		return "", err
	}
	return out.Value, nil
}

// Quit ends the session and releases the underlying browser resources.
func (c *Client) Quit(ctx context.Context, session string) error {
	return c.do(ctx, http.MethodDelete, "/session/"+session, nil, nil)
}

func (c *Client) do(ctx context.Context, method, path string, reqBody any, out any) error {
	var reader io.Reader
	if reqBody != nil {
		buf, err := json.Marshal(reqBody)
		if err != nil {
			return fmt.Errorf("webdriver: encode request: %w", err)
		}
		reader = bytes.NewReader(buf)
	}
	req, err := http.NewRequestWithContext(ctx, method, c.endpoint+path, reader)
	if err != nil {
		return fmt.Errorf("webdriver: build request: %w", err)
	}
	if reqBody != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("webdriver: %s %s: %w", method, path, err)
	}
	defer resp.Body.Close()
	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("webdriver: read response: %w", err)
	}
	if resp.StatusCode >= 400 {
		return fmt.Errorf("webdriver: %s %s: status %d: %s", method, path, resp.StatusCode, string(data))
	}
	if out != nil && len(data) > 0 {
		if err := json.Unmarshal(data, out); err != nil {
			return fmt.Errorf("webdriver: decode response: %w", err)
		}
	}
	return nil
}
