package relay

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/fateforge/sync-service/pkg/logger"
)

// Result of one negotiation attempt.
type Result struct {
	SessionID string
	Answer    json.RawMessage
	Tracks    []TrackInfo
}

// Negotiator establishes (or reuses) an SFU session for a client's offer.
// Join-then-create is best effort: an unreachable existing session falls
// back to a fresh one instead of failing the client.
type Negotiator struct {
	client *Client

	// для тестов; по умолчанию userID-unixmilli
	trackName func(userID string) string
}

func NewNegotiator(client *Client) *Negotiator {
	return &Negotiator{
		client: client,
		trackName: func(userID string) string {
			return fmt.Sprintf("%s-%d", userID, time.Now().UnixMilli())
		},
	}
}

// Connect runs the ordered strategy list: add a track to the existing
// session when one was offered, otherwise (or on any failure) create a new
// session. First success wins.
func (n *Negotiator) Connect(ctx context.Context, userID string, offer json.RawMessage, existingSessionID string) (*Result, error) {
	if err := n.client.CheckCredential(); err != nil {
		return nil, err
	}

	type strategy struct {
		name string
		run  func() (*Result, error)
	}

	var strategies []strategy
	if existingSessionID != "" {
		strategies = append(strategies, strategy{
			name: "join-existing",
			run:  func() (*Result, error) { return n.joinExisting(ctx, userID, offer, existingSessionID) },
		})
	}
	strategies = append(strategies, strategy{
		name: "create-new",
		run:  func() (*Result, error) { return n.createNew(ctx, offer) },
	})

	var lastErr error
	for _, st := range strategies {
		res, err := st.run()
		if err == nil {
			return res, nil
		}
		lastErr = err
		slog.LogAttrs(ctx, slog.LevelWarn, "relay negotiation strategy failed",
			append(logger.AttrsFromCtx(ctx),
				slog.String("strategy", st.name),
				slog.String("user", userID),
				slog.Any("err", err))...)
	}
	return nil, lastErr
}

// Renegotiate передаёт локальный answer; fallback-а здесь нет,
// UpstreamError уходит вызывающему как есть.
func (n *Negotiator) Renegotiate(ctx context.Context, sessionID string, answer json.RawMessage) (json.RawMessage, error) {
	if err := n.client.CheckCredential(); err != nil {
		return nil, err
	}
	return n.client.Renegotiate(ctx, sessionID, answer)
}

func (n *Negotiator) joinExisting(ctx context.Context, userID string, offer json.RawMessage, sessionID string) (*Result, error) {
	reply, err := n.client.AddTrack(ctx, sessionID, offer, n.trackName(userID))
	if err != nil {
		return nil, err
	}
	if reply.ErrorCode != "" {
		return nil, fmt.Errorf("relay rejected track: %s (%s)", reply.ErrorCode, reply.ErrorDescription)
	}
	return &Result{
		SessionID: sessionID,
		Answer:    reply.SessionDescription,
		Tracks:    reply.Tracks,
	}, nil
}

func (n *Negotiator) createNew(ctx context.Context, offer json.RawMessage) (*Result, error) {
	reply, err := n.client.NewSession(ctx, offer)
	if err != nil {
		return nil, err
	}
	if reply.ErrorCode != "" {
		return nil, fmt.Errorf("relay rejected session: %s (%s)", reply.ErrorCode, reply.ErrorDescription)
	}
	return &Result{
		SessionID: reply.SessionID,
		Answer:    reply.SessionDescription,
		Tracks:    reply.Tracks,
	}, nil
}
