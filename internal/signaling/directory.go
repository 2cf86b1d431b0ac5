package signaling

import (
	"sync"
	"time"

	"github.com/fateforge/sync-service/internal/domain"

	"github.com/google/uuid"
)

// RoomEntry is a shareable SFU session descriptor for one named room.
type RoomEntry struct {
	SessionID    string
	Room         string
	Clients      int
	CreatedAt    time.Time
	LastActivity time.Time
}

// Directory lets independent clients agree on a shared relay session id
// for a room, capping how many clients share one session. Entries expire
// by age and are pruned lazily on the next access.
type Directory struct {
	mu         sync.Mutex
	entries    map[string]*RoomEntry // sessionID -> entry
	ttl        time.Duration
	maxClients int

	now func() time.Time
}

func NewDirectory(ttl time.Duration, maxClients int) *Directory {
	if ttl <= 0 {
		ttl = 10 * time.Minute
	}
	if maxClients <= 0 {
		maxClients = 10
	}
	return &Directory{
		entries:    make(map[string]*RoomEntry),
		ttl:        ttl,
		maxClients: maxClients,
		now:        time.Now,
	}
}

// GetOrCreate returns a non-full live entry for the room, creating a fresh
// one when every existing entry is expired, full, or for another room.
func (d *Directory) GetOrCreate(room string) RoomEntry {
	d.mu.Lock()
	defer d.mu.Unlock()

	d.prune()

	for _, e := range d.entries {
		if e.Room == room && e.Clients < d.maxClients {
			return *e
		}
	}

	now := d.now()
	e := &RoomEntry{
		SessionID:    uuid.NewString(),
		Room:         room,
		CreatedAt:    now,
		LastActivity: now,
	}
	d.entries[e.SessionID] = e
	return *e
}

// Join increments the entry's client count, clamped to the cap.
func (d *Directory) Join(sessionID, userID string) (int, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	d.prune()

	e, ok := d.entries[sessionID]
	if !ok {
		return 0, domain.ErrSessionNotFound
	}
	e.Clients = min(e.Clients+1, d.maxClients)
	e.LastActivity = d.now()
	return e.Clients, nil
}

// Leave decrements the entry's client count, clamped to zero.
func (d *Directory) Leave(sessionID, userID string) (int, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	d.prune()

	e, ok := d.entries[sessionID]
	if !ok {
		return 0, domain.ErrSessionNotFound
	}
	e.Clients = max(e.Clients-1, 0)
	e.LastActivity = d.now()
	return e.Clients, nil
}

// prune удаляет записи старше ttl; вызывается под mu.
func (d *Directory) prune() {
	now := d.now()
	for id, e := range d.entries {
		if now.Sub(e.CreatedAt) > d.ttl {
			delete(d.entries, id)
		}
	}
}
