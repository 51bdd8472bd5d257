package cart

import (
	"context"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"
)

// RedisMirror shares the snapshot layer between instances. The TTL doubles
// as the reconciliation interval: once a snapshot expires, the next read
// rebuilds it from the store.
type RedisMirror struct {
	client *redis.Client
	ttl    time.Duration
}

func NewRedisMirror(client *redis.Client, ttl time.Duration) *RedisMirror {
	return &RedisMirror{client: client, ttl: ttl}
}

func (m *RedisMirror) key(userKey string) string {
	return "cart:mirror:" + userKey
}

func (m *RedisMirror) Load(ctx context.Context, userKey string) (Snapshot, bool, error) {
	raw, err := m.client.Get(ctx, m.key(userKey)).Result()
	if err == redis.Nil {
		return Snapshot{}, false, nil
	}
	if err != nil {
		return Snapshot{}, false, err
	}

	var snap Snapshot
	if err := json.Unmarshal([]byte(raw), &snap); err != nil {
		return Snapshot{}, false, err
	}
	if snap.Quantities == nil {
		snap.Quantities = make(map[string]int)
	}
	return snap, true, nil
}

func (m *RedisMirror) Store(ctx context.Context, userKey string, snap Snapshot) error {
	raw, err := json.Marshal(snap)
	if err != nil {
		return err
	}
	return m.client.Set(ctx, m.key(userKey), raw, m.ttl).Err()
}

func (m *RedisMirror) Invalidate(ctx context.Context, userKey string) error {
	return m.client.Del(ctx, m.key(userKey)).Err()
}
