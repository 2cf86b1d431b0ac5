package http

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"github.com/fateforge/sync-service/internal/domain"
	"github.com/fateforge/sync-service/internal/relay"
	"github.com/fateforge/sync-service/internal/service"
	"github.com/fateforge/sync-service/internal/signaling"

	"github.com/go-chi/chi/v5"
)

type SignalDirectory interface {
	GetOrCreate(room string) signaling.RoomEntry
	Join(sessionID, userID string) (int, error)
	Leave(sessionID, userID string) (int, error)
}

type Negotiator interface {
	Connect(ctx context.Context, userID string, offer json.RawMessage, existingSessionID string) (*relay.Result, error)
	Renegotiate(ctx context.Context, sessionID string, answer json.RawMessage) (json.RawMessage, error)
}

type Handler struct {
	directory  SignalDirectory
	negotiator Negotiator
	charSvc    *service.CharacterService
	appID      string
}

func NewHandler(directory SignalDirectory, negotiator Negotiator, charSvc *service.CharacterService, appID string) *Handler {
	return &Handler{
		directory:  directory,
		negotiator: negotiator,
		charSvc:    charSvc,
		appID:      appID,
	}
}

// sdpProvided reports whether the client sent an SDP payload. An absent
// field and an explicit JSON null both count as missing.
func sdpProvided(raw json.RawMessage) bool {
	return len(raw) > 0 && string(raw) != "null"
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// GET /api/signaling?room=<name>
func (h *Handler) GetSignalingRoom(w http.ResponseWriter, r *http.Request) {
	room := strings.TrimSpace(r.URL.Query().Get("room"))
	if room == "" {
		writeJSON(w, http.StatusBadRequest, ErrorResponse{Error: "missing room"})
		return
	}

	entry := h.directory.GetOrCreate(room)
	writeJSON(w, http.StatusOK, SignalingRoomResponse{
		SessionID: entry.SessionID,
		Room:      entry.Room,
		Clients:   entry.Clients,
	})
}

// POST /api/signaling
func (h *Handler) PostSignalingAction(w http.ResponseWriter, r *http.Request) {
	var req SignalingActionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, ErrorResponse{Error: "invalid json"})
		return
	}

	var (
		clients int
		err     error
	)
	switch req.Action {
	case "join":
		clients, err = h.directory.Join(req.SessionID, req.UserID)
	case "leave":
		clients, err = h.directory.Leave(req.SessionID, req.UserID)
	default:
		writeJSON(w, http.StatusBadRequest, ErrorResponse{Error: "unknown action"})
		return
	}
	if err != nil {
		if errors.Is(err, domain.ErrSessionNotFound) {
			writeJSON(w, http.StatusNotFound, ErrorResponse{Error: "session not found"})
			return
		}
		slog.Error("handler.PostSignalingAction:", slog.Any("err", err))
		writeJSON(w, http.StatusInternalServerError, ErrorResponse{Error: err.Error()})
		return
	}

	writeJSON(w, http.StatusOK, SignalingActionResponse{SessionID: req.SessionID, Clients: clients})
}

// POST /api/rtc/connect
func (h *Handler) Connect(w http.ResponseWriter, r *http.Request) {
	var req ConnectRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, ErrorResponse{Error: "invalid json"})
		return
	}
	if !sdpProvided(req.SessionDescription) {
		writeJSON(w, http.StatusBadRequest, ErrorResponse{Error: "missing sessionDescription"})
		return
	}

	res, err := h.negotiator.Connect(r.Context(), req.UserID, req.SessionDescription, req.ExistingSessionID)
	if err != nil {
		h.writeNegotiationError(w, "handler.Connect", err)
		return
	}

	writeJSON(w, http.StatusOK, ConnectResponse{
		SessionID: res.SessionID,
		UserID:    req.UserID,
		SessionData: SessionData{
			SessionID:          res.SessionID,
			SessionDescription: res.Answer,
			Tracks:             res.Tracks,
			AppID:              h.appID,
		},
	})
}

// PUT /api/rtc/renegotiate
func (h *Handler) Renegotiate(w http.ResponseWriter, r *http.Request) {
	var req RenegotiateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, ErrorResponse{Error: "invalid json"})
		return
	}
	if req.SessionID == "" {
		writeJSON(w, http.StatusBadRequest, ErrorResponse{Error: "missing sessionId"})
		return
	}
	if !sdpProvided(req.Answer) {
		writeJSON(w, http.StatusBadRequest, ErrorResponse{Error: "missing answer"})
		return
	}

	result, err := h.negotiator.Renegotiate(r.Context(), req.SessionID, req.Answer)
	if err != nil {
		h.writeNegotiationError(w, "handler.Renegotiate", err)
		return
	}

	writeJSON(w, http.StatusOK, RenegotiateResponse{SessionID: req.SessionID, Result: result})
}

func (h *Handler) writeNegotiationError(w http.ResponseWriter, op string, err error) {
	var upstream *domain.UpstreamError
	switch {
	case errors.Is(err, domain.ErrMissingCredential):
		writeJSON(w, http.StatusInternalServerError, ErrorResponse{Error: "relay is not configured"})
	case errors.As(err, &upstream):
		writeJSON(w, http.StatusBadGateway, UpstreamErrorResponse{
			Error:          "relay request failed",
			UpstreamStatus: upstream.Status,
			UpstreamBody:   upstream.Body,
		})
	default:
		slog.Error(op+":", slog.Any("err", err))
		writeJSON(w, http.StatusBadGateway, ErrorResponse{Error: err.Error()})
	}
}

// --- characters ---

// GET /api/characters?limit=
func (h *Handler) ListCharacters(w http.ResponseWriter, r *http.Request) {
	if h.charSvc == nil {
		writeJSON(w, http.StatusNotImplemented, ErrorResponse{Error: "character store disabled"})
		return
	}
	limit := 50
	if s := r.URL.Query().Get("limit"); s != "" {
		if n, err := strconv.Atoi(s); err == nil {
			limit = n
		}
	}

	chars, err := h.charSvc.List(r.Context(), limit)
	if err != nil {
		slog.Error("handler.ListCharacters:", slog.Any("err", err))
		writeJSON(w, http.StatusInternalServerError, ErrorResponse{Error: err.Error()})
		return
	}

	resp := CharactersListResponse{Items: make([]CharacterItem, 0, len(chars))}
	for _, ch := range chars {
		resp.Items = append(resp.Items, CharacterItem{
			ID:        ch.ID,
			Name:      ch.Name,
			Data:      ch.Data,
			CreatedAt: ch.CreatedAt,
			UpdatedAt: ch.UpdatedAt,
		})
	}
	writeJSON(w, http.StatusOK, resp)
}

// GET /api/characters/{id}
func (h *Handler) GetCharacter(w http.ResponseWriter, r *http.Request) {
	if h.charSvc == nil {
		writeJSON(w, http.StatusNotImplemented, ErrorResponse{Error: "character store disabled"})
		return
	}
	id := chi.URLParam(r, "id")

	ch, err := h.charSvc.Get(r.Context(), id)
	if err != nil {
		if errors.Is(err, domain.ErrCharacterNotFound) {
			writeJSON(w, http.StatusNotFound, ErrorResponse{Error: "character not found"})
			return
		}
		slog.Error("handler.GetCharacter:", slog.Any("err", err))
		writeJSON(w, http.StatusInternalServerError, ErrorResponse{Error: err.Error()})
		return
	}

	writeJSON(w, http.StatusOK, CharacterItem{
		ID:        ch.ID,
		Name:      ch.Name,
		Data:      ch.Data,
		CreatedAt: ch.CreatedAt,
		UpdatedAt: ch.UpdatedAt,
	})
}

// PUT /api/characters/{id}
func (h *Handler) SaveCharacter(w http.ResponseWriter, r *http.Request) {
	if h.charSvc == nil {
		writeJSON(w, http.StatusNotImplemented, ErrorResponse{Error: "character store disabled"})
		return
	}
	id := chi.URLParam(r, "id")

	var req SaveCharacterRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, ErrorResponse{Error: "invalid json"})
		return
	}

	ch := &domain.Character{ID: id, Name: req.Name, Data: req.Data}
	if err := h.charSvc.Save(r.Context(), ch, req.Password); err != nil {
		if errors.Is(err, domain.ErrInvalidPassword) {
			writeJSON(w, http.StatusForbidden, ErrorResponse{Error: "invalid password"})
			return
		}
		slog.Error("handler.SaveCharacter:", slog.Any("err", err))
		writeJSON(w, http.StatusInternalServerError, ErrorResponse{Error: err.Error()})
		return
	}

	writeJSON(w, http.StatusOK, CharacterItem{
		ID:        ch.ID,
		Name:      ch.Name,
		Data:      ch.Data,
		CreatedAt: ch.CreatedAt,
		UpdatedAt: ch.UpdatedAt,
	})
}

// DELETE /api/characters/{id}
func (h *Handler) DeleteCharacter(w http.ResponseWriter, r *http.Request) {
	if h.charSvc == nil {
		writeJSON(w, http.StatusNotImplemented, ErrorResponse{Error: "character store disabled"})
		return
	}
	id := chi.URLParam(r, "id")

	var req DeleteCharacterRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, ErrorResponse{Error: "invalid json"})
		return
	}

	if err := h.charSvc.Delete(r.Context(), id, req.Password); err != nil {
		switch {
		case errors.Is(err, domain.ErrInvalidPassword):
			writeJSON(w, http.StatusForbidden, ErrorResponse{Error: "invalid password"})
		case errors.Is(err, domain.ErrCharacterNotFound):
			writeJSON(w, http.StatusNotFound, ErrorResponse{Error: "character not found"})
		default:
			slog.Error("handler.DeleteCharacter:", slog.Any("err", err))
			writeJSON(w, http.StatusInternalServerError, ErrorResponse{Error: err.Error()})
		}
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"status": "deleted"})
}
