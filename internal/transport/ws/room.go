package ws

import (
	"encoding/json"
	"errors"
	"log/slog"
	"time"
)

type eventKind int

const (
	evConnect eventKind = iota
	evMessage
	evClose
)

type event struct {
	kind eventKind
	sess *Session
	raw  []byte
}

// Room is the actor owning one room's session registry. A single
// goroutine consumes its event channel, so handlers for the same room
// never run concurrently and the registry needs no locking.
type Room struct {
	name     string
	events   chan event
	sessions map[string]*Session // session id -> session

	now func() time.Time
}

func newRoom(name string) *Room {
	return &Room{
		name:     name,
		events:   make(chan event, 64),
		sessions: make(map[string]*Session),
		now:      time.Now,
	}
}

func (r *Room) run() {
	for ev := range r.events {
		r.dispatch(ev)
	}
}

// dispatch confines a handler panic to the event that caused it; the
// actor loop keeps consuming.
func (r *Room) dispatch(ev event) {
	defer func() {
		if rec := recover(); rec != nil {
			slog.Error("ws room handler panic", "room", r.name, "panic", rec)
		}
	}()

	switch ev.kind {
	case evConnect:
		r.handleConnect(ev.sess)
	case evMessage:
		r.handleMessage(ev.sess, ev.raw)
	case evClose:
		r.handleClose(ev.sess)
	}
}

func (r *Room) handleConnect(s *Session) {
	r.sessions[s.ID] = s
	ts := r.now().UnixMilli()

	r.broadcast(presenceMsg{
		Type:      TypeUserJoined,
		UserID:    s.UserID,
		Timestamp: ts,
		Room:      r.name,
	}, s.ID)

	// снапшот участников, включая нового
	users := make([]string, 0, len(r.sessions))
	for _, sess := range r.sessions {
		users = append(users, sess.UserID)
	}
	s.enqueue(connectedMsg{
		Type:           TypeConnected,
		Message:        "Connected to character sync",
		UserID:         s.UserID,
		Timestamp:      ts,
		ConnectedUsers: users,
	})

	slog.Info("ws session joined", "room", r.name, "user", s.UserID, "session", s.ID)
}

func (r *Room) handleMessage(s *Session, raw []byte) {
	var envelope map[string]any
	err := json.Unmarshal(raw, &envelope)
	if err == nil && envelope == nil {
		// "null" is valid JSON but decodes to a nil map
		err = errors.New("message must be a JSON object")
	}
	if err != nil {
		// parse errors are local to the sender: no broadcast, no
		// registry change, connection stays open
		s.enqueue(errorMsg{
			Type:    TypeError,
			Message: "Invalid message format",
			Error:   err.Error(),
		})
		return
	}

	stampEnvelope(envelope, s.UserID, r.name, r.now().UnixMilli())
	if strField(envelope, "type") == TypeDiceRoll {
		applyDiceDefaults(envelope)
	}

	r.broadcast(envelope, s.ID)
}

func (r *Room) handleClose(s *Session) {
	if _, ok := r.sessions[s.ID]; !ok {
		// already evicted by a failed broadcast
		s.close()
		return
	}
	delete(r.sessions, s.ID)
	s.close()

	r.broadcast(presenceMsg{
		Type:      TypeUserLeft,
		UserID:    s.UserID,
		Timestamp: r.now().UnixMilli(),
		Room:      r.name,
	}, s.ID)

	slog.Info("ws session left", "room", r.name, "user", s.UserID, "session", s.ID)
}

// broadcast delivers msg to every open session in the room except the
// excluded one. A dead peer is evicted on the spot, silently; its later
// close event becomes a no-op.
func (r *Room) broadcast(msg any, excludeID string) {
	for id, sess := range r.sessions {
		if id == excludeID {
			continue
		}
		if sess.Room != r.name {
			continue
		}
		if sess.isClosed() || !sess.enqueue(msg) {
			delete(r.sessions, id)
			sess.close()
			slog.Warn("ws session evicted on send failure", "room", r.name, "user", sess.UserID, "session", id)
		}
	}
}
