package ws

import (
	"sync"
)

// Hub maps a room name to exactly one live Room actor. Creation is lazy
// and idempotent under concurrent first access; actors live for the
// process lifetime.
type Hub struct {
	mu    sync.Mutex
	rooms map[string]*Room
}

func NewHub() *Hub {
	return &Hub{rooms: make(map[string]*Room)}
}

// Resolve returns the room's actor, starting it on first access.
func (h *Hub) Resolve(name string) *Room {
	h.mu.Lock()
	defer h.mu.Unlock()

	rm, ok := h.rooms[name]
	if !ok {
		rm = newRoom(name)
		h.rooms[name] = rm
		go rm.run()
	}
	return rm
}
