package ws

import (
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
)

// Conn is the transport side of a session. *gorilla/websocket.Conn is
// wrapped by wsConn below; tests substitute their own.
type Conn interface {
	WriteJSON(v any) error
	Ping(deadline time.Time) error
	Close() error
}

const sendBuffer = 32

// Session is one connection's membership in a room. Owned by the room
// actor that accepted it; destroyed on disconnect or send failure.
type Session struct {
	ID          string
	UserID      string
	Room        string
	ConnectedAt time.Time

	conn      Conn
	send      chan any
	closed    chan struct{}
	closeOnce sync.Once
}

func newSession(conn Conn, room, userID string, connectedAt time.Time) *Session {
	return &Session{
		// uuid суффикс: один пользователь может подключиться дважды
		// в ту же миллисекунду
		ID:          fmt.Sprintf("%s:%d:%s", userID, connectedAt.UnixMilli(), uuid.NewString()[:8]),
		UserID:      userID,
		Room:        room,
		ConnectedAt: connectedAt,
		conn:        conn,
		send:        make(chan any, sendBuffer),
		closed:      make(chan struct{}),
	}
}

// enqueue hands a message to the write pump without blocking the actor.
// False means the session is closed or its buffer is full; the caller
// treats either as a dead peer.
func (s *Session) enqueue(msg any) bool {
	select {
	case <-s.closed:
		return false
	default:
	}
	select {
	case s.send <- msg:
		return true
	default:
		return false
	}
}

// writePump drains the send channel onto the transport and keeps the
// connection alive with pings. At most one writer per connection.
func (s *Session) writePump(pingEvery time.Duration) {
	ticker := time.NewTicker(pingEvery)
	defer func() {
		ticker.Stop()
		s.close()
	}()

	for {
		select {
		case msg := <-s.send:
			if err := s.conn.WriteJSON(msg); err != nil {
				return
			}
		case <-ticker.C:
			if err := s.conn.Ping(time.Now().Add(5 * time.Second)); err != nil {
				return
			}
		case <-s.closed:
			return
		}
	}
}

func (s *Session) close() {
	s.closeOnce.Do(func() {
		close(s.closed)
		_ = s.conn.Close()
	})
}

func (s *Session) isClosed() bool {
	select {
	case <-s.closed:
		return true
	default:
		return false
	}
}
