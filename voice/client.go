// Package voice is the HTTP client for the assistant's voice-session
// backend, the service the smoke tester drives.
package voice

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"syscall"
	"time"
)

// DefaultBaseURL is where the voice backend listens in development.
const DefaultBaseURL = "http://localhost:3000"

// probeTimeout bounds the health probe. The backend either accepts the
// connection within this window or is considered down.
const probeTimeout = 2000 * time.Millisecond

// ErrServerDown reports that the probe could not connect at all.
var ErrServerDown = errors.New("voice API server is not reachable")

type (
	// Session is the response of POST /voice/session/start.
	Session struct {
		SessionID string `json:"sessionId"`
		Greeting  string `json:"greeting"`
	}

	// Reply is the response of POST /voice/session/{id}/message.
	Reply struct {
		Response    string `json:"response"`
		State       string `json:"state"`
		BookingCode string `json:"bookingCode,omitempty"`
	}

	// History is the response of GET /voice/session/{id}/history.
	History struct {
		Messages []json.RawMessage `json:"messages"`
	}

	// Client talks to the voice-session API.
	Client struct {
		baseURL string
		hc      *http.Client
	}
)

// NewClient creates a client for baseURL. An empty baseURL falls back to
// DefaultBaseURL; a nil httpClient gets a default with a 10s timeout.
func NewClient(baseURL string, httpClient *http.Client) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 10 * time.Second}
	}
	return &Client{baseURL: strings.TrimRight(baseURL, "/"), hc: httpClient}
}

// Probe checks that the backend accepts connections. Only a refused
// connection means down: an HTTP error status or an empty dataset still
// proves a listening server.
func (c *Client) Probe(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, probeTimeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/voice/logs/all", nil)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}

	resp, err := c.hc.Do(req)
	if err != nil {
		if errors.Is(err, syscall.ECONNREFUSED) {
			return fmt.Errorf("%w: %v", ErrServerDown, err)
		}
		return nil
	}
	_ = resp.Body.Close()
	return nil
}

// StartSession opens a new conversation.
func (c *Client) StartSession(ctx context.Context) (*Session, error) {
	var out Session
	if err := c.postJSON(ctx, "/voice/session/start", nil, &out); err != nil {
		return nil, fmt.Errorf("start session: %w", err)
	}
	return &out, nil
}

// SendMessage delivers one user utterance and returns the assistant's turn.
func (c *Client) SendMessage(ctx context.Context, sessionID, message string) (*Reply, error) {
	payload := map[string]string{"message": message}
	var out Reply
	path := fmt.Sprintf("/voice/session/%s/message", url.PathEscape(sessionID))
	if err := c.postJSON(ctx, path, payload, &out); err != nil {
		return nil, fmt.Errorf("send message: %w", err)
	}
	return &out, nil
}

// History returns the conversation transcript recorded so far.
func (c *Client) History(ctx context.Context, sessionID string) (*History, error) {
	var out History
	path := fmt.Sprintf("/voice/session/%s/history", url.PathEscape(sessionID))
	if err := c.getJSON(ctx, path, &out); err != nil {
		return nil, fmt.Errorf("fetch history: %w", err)
	}
	return &out, nil
}

// Logs returns the backend's global interaction log.
func (c *Client) Logs(ctx context.Context) ([]json.RawMessage, error) {
	var out []json.RawMessage
	if err := c.getJSON(ctx, "/voice/logs/all", &out); err != nil {
		return nil, fmt.Errorf("fetch logs: %w", err)
	}
	return out, nil
}

func (c *Client) postJSON(ctx context.Context, path string, payload, out any) error {
	var body io.Reader
	if payload != nil {
		data, err := json.Marshal(payload)
		if err != nil {
			return fmt.Errorf("marshal request: %w", err)
		}
		body = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, body)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	return c.do(req, out)
}

func (c *Client) getJSON(ctx context.Context, path string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	return c.do(req, out)
}

func (c *Client) do(req *http.Request, out any) error {
	resp, err := c.hc.Do(req)
	if err != nil {
		return err
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		data, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return fmt.Errorf("%s %s: status %d: %s", req.Method, req.URL.Path, resp.StatusCode, strings.TrimSpace(string(data)))
	}

	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}
	return nil
}
