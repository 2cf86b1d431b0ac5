package http

import (
	"encoding/json"
	"time"

	"github.com/fateforge/sync-service/internal/relay"
)

type ErrorResponse struct {
	Error string `json:"error"`
}

// UpstreamErrorResponse embeds the relay's status and body verbatim.
type UpstreamErrorResponse struct {
	Error          string `json:"error"`
	UpstreamStatus int    `json:"upstreamStatus"`
	UpstreamBody   string `json:"upstreamBody"`
}

// --- signaling ---

type SignalingRoomResponse struct {
	SessionID string `json:"sessionId"`
	Room      string `json:"room"`
	Clients   int    `json:"clients"`
}

type SignalingActionRequest struct {
	SessionID string `json:"sessionId"`
	Action    string `json:"action"` // join|leave
	UserID    string `json:"userId"`
}

type SignalingActionResponse struct {
	SessionID string `json:"sessionId"`
	Clients   int    `json:"clients"`
}

// --- negotiation ---

type ConnectRequest struct {
	UserID             string          `json:"userId"`
	SessionDescription json.RawMessage `json:"sessionDescription"`
	ExistingSessionID  string          `json:"existingSessionId,omitempty"`
}

type SessionData struct {
	SessionID          string            `json:"sessionId"`
	SessionDescription json.RawMessage   `json:"sessionDescription"`
	Tracks             []relay.TrackInfo `json:"tracks"`
	AppID              string            `json:"appId"`
}

type ConnectResponse struct {
	SessionID   string      `json:"sessionId"`
	UserID      string      `json:"userId"`
	SessionData SessionData `json:"sessionData"`
}

type RenegotiateRequest struct {
	SessionID string          `json:"sessionId"`
	Answer    json.RawMessage `json:"answer"`
}

type RenegotiateResponse struct {
	SessionID string          `json:"sessionId"`
	Result    json.RawMessage `json:"result"`
}

// --- characters ---

type CharacterItem struct {
	ID        string          `json:"id"`
	Name      string          `json:"name"`
	Data      json.RawMessage `json:"data"`
	CreatedAt time.Time       `json:"createdAt"`
	UpdatedAt time.Time       `json:"updatedAt"`
}

type SaveCharacterRequest struct {
	Name     string          `json:"name"`
	Data     json.RawMessage `json:"data"`
	Password string          `json:"password"`
}

type DeleteCharacterRequest struct {
	Password string `json:"password"`
}

type CharactersListResponse struct {
	Items []CharacterItem `json:"items"`
}
