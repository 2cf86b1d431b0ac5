package ws

import (
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/gorilla/websocket"
)

const (
	DefaultRoom   = "character-sync"
	DefaultUserID = "anonymous"
)

type Server struct {
	upgrader websocket.Upgrader
	hub      *Hub

	pingEvery time.Duration
}

func NewServer(hub *Hub, pingEvery time.Duration) *Server {
	if pingEvery <= 0 {
		pingEvery = 15 * time.Second
	}
	return &Server{
		hub: hub,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     func(r *http.Request) bool { return true },
		},
		pingEvery: pingEvery,
	}
}

// WS endpoint: GET /ws?room=...&userId=...
func (s *Server) HandleWS(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	room := strings.TrimSpace(q.Get("room"))
	if room == "" {
		room = DefaultRoom
	}
	userID := strings.TrimSpace(q.Get("userId"))
	if userID == "" {
		userID = DefaultUserID
	}

	// non-upgrade requests get a 400 from the upgrader itself
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		slog.Warn("ws upgrade failed", "err", err)
		return
	}

	rm := s.hub.Resolve(room)
	sess := newSession(newWSConn(conn), room, userID, time.Now())

	go sess.writePump(s.pingEvery)
	rm.events <- event{kind: evConnect, sess: sess}

	s.readLoop(rm, sess, conn)

	rm.events <- event{kind: evClose, sess: sess}
}

func (s *Server) readLoop(rm *Room, sess *Session, conn *websocket.Conn) {
	conn.SetReadLimit(1 << 20)
	_ = conn.SetReadDeadline(time.Now().Add(2 * s.pingEvery))
	conn.SetPongHandler(func(string) error {
		return conn.SetReadDeadline(time.Now().Add(2 * s.pingEvery))
	})

	for {
		_, data, err := conn.ReadMessage()
		if err != nil {
			break
		}
		rm.events <- event{kind: evMessage, sess: sess, raw: data}
	}
}

// wsConn адаптирует *websocket.Conn под Conn; сериализует записи.
type wsConn struct {
	conn   *websocket.Conn
	sendMu chan struct{}
}

func newWSConn(c *websocket.Conn) *wsConn {
	return &wsConn{conn: c, sendMu: make(chan struct{}, 1)}
}

func (c *wsConn) WriteJSON(v any) error {
	c.sendMu <- struct{}{}
	defer func() { <-c.sendMu }()
	_ = c.conn.SetWriteDeadline(time.Now().Add(5 * time.Second))

	return c.conn.WriteJSON(v)
}

func (c *wsConn) Ping(deadline time.Time) error {
	return c.conn.WriteControl(websocket.PingMessage, nil, deadline)
}

func (c *wsConn) Close() error {
	return c.conn.Close()
}
