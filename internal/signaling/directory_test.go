package signaling

import (
	"testing"
	"time"

	"github.com/fateforge/sync-service/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestDirectory() (*Directory, *time.Time) {
	d := NewDirectory(10*time.Minute, 10)
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	d.now = func() time.Time { return now }
	return d, &now
}

func TestDirectory_GetOrCreateReusesLiveEntry(t *testing.T) {
	d, _ := newTestDirectory()

	first := d.GetOrCreate("table-1")
	second := d.GetOrCreate("table-1")

	assert.Equal(t, first.SessionID, second.SessionID)
	assert.Equal(t, "table-1", first.Room)
	assert.Zero(t, first.Clients)
}

func TestDirectory_RoomsGetSeparateEntries(t *testing.T) {
	d, _ := newTestDirectory()

	a := d.GetOrCreate("table-1")
	b := d.GetOrCreate("table-2")

	assert.NotEqual(t, a.SessionID, b.SessionID)
}

func TestDirectory_FullEntryIsNeverReturned(t *testing.T) {
	d, _ := newTestDirectory()

	entry := d.GetOrCreate("table-1")
	for i := 0; i < 10; i++ {
		_, err := d.Join(entry.SessionID, "u")
		require.NoError(t, err)
	}

	fresh := d.GetOrCreate("table-1")
	assert.NotEqual(t, entry.SessionID, fresh.SessionID)
	assert.Less(t, fresh.Clients, 10)
}

func TestDirectory_JoinClampsAtCap(t *testing.T) {
	d, _ := newTestDirectory()

	entry := d.GetOrCreate("table-1")
	var clients int
	var err error
	for i := 0; i < 12; i++ {
		clients, err = d.Join(entry.SessionID, "u")
		require.NoError(t, err)
	}

	assert.Equal(t, 10, clients)
}

func TestDirectory_LeaveClampsAtZero(t *testing.T) {
	d, _ := newTestDirectory()

	entry := d.GetOrCreate("table-1")
	_, err := d.Join(entry.SessionID, "u")
	require.NoError(t, err)

	clients, err := d.Leave(entry.SessionID, "u")
	require.NoError(t, err)
	assert.Zero(t, clients)

	clients, err = d.Leave(entry.SessionID, "u")
	require.NoError(t, err)
	assert.Zero(t, clients)
}

func TestDirectory_UnknownSession(t *testing.T) {
	d, _ := newTestDirectory()

	_, err := d.Join("nope", "u")
	assert.ErrorIs(t, err, domain.ErrSessionNotFound)

	_, err = d.Leave("nope", "u")
	assert.ErrorIs(t, err, domain.ErrSessionNotFound)
}

func TestDirectory_ExpiredEntriesArePruned(t *testing.T) {
	d, now := newTestDirectory()

	old := d.GetOrCreate("table-1")

	// прошло больше TTL
	*now = now.Add(10*time.Minute + time.Second)

	fresh := d.GetOrCreate("table-1")
	assert.NotEqual(t, old.SessionID, fresh.SessionID)

	_, err := d.Join(old.SessionID, "u")
	assert.ErrorIs(t, err, domain.ErrSessionNotFound)
	_, err = d.Leave(old.SessionID, "u")
	assert.ErrorIs(t, err, domain.ErrSessionNotFound)
}

func TestDirectory_ActivityDoesNotExtendTTL(t *testing.T) {
	d, now := newTestDirectory()

	entry := d.GetOrCreate("table-1")

	*now = now.Add(9 * time.Minute)
	_, err := d.Join(entry.SessionID, "u")
	require.NoError(t, err)

	// TTL считается от createdAt, не от lastActivity
	*now = now.Add(2 * time.Minute)
	_, err = d.Join(entry.SessionID, "u")
	assert.ErrorIs(t, err, domain.ErrSessionNotFound)
}
