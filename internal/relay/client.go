package relay

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"github.com/fateforge/sync-service/internal/domain"
)

// Config задаёт доступ к внешнему SFU.
type Config struct {
	URL   string // base URL, e.g. https://rtc.example.com/v1
	AppID string
	Token string // bearer token
}

// Client is a thin REST client for the external SFU. SDP payloads pass
// through as opaque JSON; the negotiator on top decides fallback policy.
// The client sets no timeout of its own, callers bound requests via ctx.
type Client struct {
	cfg   Config
	httpc *http.Client
}

func NewClient(cfg Config) *Client {
	return &Client{cfg: cfg, httpc: &http.Client{}}
}

// TrackInfo describes one track the SFU reports on a session.
type TrackInfo struct {
	Location  string `json:"location,omitempty"`
	TrackName string `json:"trackName,omitempty"`
	Mid       string `json:"mid,omitempty"`
}

// SessionReply is the SFU's response shape for session-create and
// add-track calls. Soft failures come back as errorCode in a 2xx body.
type SessionReply struct {
	SessionID          string          `json:"sessionId,omitempty"`
	SessionDescription json.RawMessage `json:"sessionDescription,omitempty"`
	Tracks             []TrackInfo     `json:"tracks,omitempty"`
	ErrorCode          string          `json:"errorCode,omitempty"`
	ErrorDescription   string          `json:"errorDescription,omitempty"`
}

// CheckCredential fails fast when no bearer token is configured.
// Surfaced before any network call is attempted.
func (c *Client) CheckCredential() error {
	if c.cfg.Token == "" {
		return domain.ErrMissingCredential
	}
	return nil
}

// NewSession requests a brand-new SFU session for the given offer.
func (c *Client) NewSession(ctx context.Context, offer json.RawMessage) (*SessionReply, error) {
	body := map[string]any{"sessionDescription": offer}
	var reply SessionReply
	if err := c.do(ctx, http.MethodPost, "/sessions/new", body, &reply); err != nil {
		return nil, err
	}
	return &reply, nil
}

// AddTrack pushes a new local track into an existing SFU session.
func (c *Client) AddTrack(ctx context.Context, sessionID string, offer json.RawMessage, trackName string) (*SessionReply, error) {
	body := map[string]any{
		"sessionDescription": offer,
		"tracks": []TrackInfo{
			{Location: "local", TrackName: trackName},
		},
	}
	path := fmt.Sprintf("/sessions/%s/tracks/new", sessionID)
	var reply SessionReply
	if err := c.do(ctx, http.MethodPost, path, body, &reply); err != nil {
		return nil, err
	}
	return &reply, nil
}

// Renegotiate sends the local answer to the session's renegotiate endpoint.
func (c *Client) Renegotiate(ctx context.Context, sessionID string, answer json.RawMessage) (json.RawMessage, error) {
	body := map[string]any{"sessionDescription": answer}
	path := fmt.Sprintf("/sessions/%s/renegotiate", sessionID)
	var reply json.RawMessage
	if err := c.do(ctx, http.MethodPut, path, body, &reply); err != nil {
		return nil, err
	}
	return reply, nil
}

func (c *Client) do(ctx context.Context, method, path string, body, out any) error {
	if err := c.CheckCredential(); err != nil {
		return err
	}

	raw, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("marshal request: %w", err)
	}

	url := fmt.Sprintf("%s/apps/%s%s", c.cfg.URL, c.cfg.AppID, path)
	req, err := http.NewRequestWithContext(ctx, method, url, bytes.NewReader(raw))
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.cfg.Token)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpc.Do(req)
	if err != nil {
		return fmt.Errorf("relay request: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("read relay response: %w", err)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return &domain.UpstreamError{Status: resp.StatusCode, Body: string(data)}
	}
	if out != nil {
		if err := json.Unmarshal(data, out); err != nil {
			return fmt.Errorf("decode relay response: %w", err)
		}
	}
	return nil
}
