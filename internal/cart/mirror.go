package cart

import (
	"context"
	"sync"
	"time"
)

// Mirror is the fast snapshot layer in front of the authoritative store.
// It is written optimistically before store calls and rolled back when the
// first store call of a sequence fails. Entries expire after a TTL so the
// next read repairs any drift from racing writes.
type Mirror interface {
	Load(ctx context.Context, userKey string) (Snapshot, bool, error)
	Store(ctx context.Context, userKey string, snap Snapshot) error
	Invalidate(ctx context.Context, userKey string) error
}

// InMemoryMirror is used for tests and single-process deployments.
type InMemoryMirror struct {
	mu      sync.Mutex
	ttl     time.Duration
	entries map[string]mirrorEntry
}

type mirrorEntry struct {
	snap    Snapshot
	expires time.Time
}

func NewInMemoryMirror(ttl time.Duration) *InMemoryMirror {
	return &InMemoryMirror{ttl: ttl, entries: make(map[string]mirrorEntry)}
}

func (m *InMemoryMirror) Load(_ context.Context, userKey string) (Snapshot, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	e, ok := m.entries[userKey]
	if !ok || time.Now().After(e.expires) {
		delete(m.entries, userKey)
		return Snapshot{}, false, nil
	}
	return copySnapshot(e.snap), true, nil
}

func (m *InMemoryMirror) Store(_ context.Context, userKey string, snap Snapshot) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.entries[userKey] = mirrorEntry{snap: copySnapshot(snap), expires: time.Now().Add(m.ttl)}
	return nil
}

func (m *InMemoryMirror) Invalidate(_ context.Context, userKey string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.entries, userKey)
	return nil
}

func copySnapshot(snap Snapshot) Snapshot {
	out := Snapshot{RestaurantID: snap.RestaurantID, Quantities: make(map[string]int, len(snap.Quantities))}
	for k, v := range snap.Quantities {
		out.Quantities[k] = v
	}
	return out
}
