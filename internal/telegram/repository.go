package telegram

import (
	"sync"
	"time"

	"github.com/google/uuid"
)

// Repository persists user profiles keyed by UserKey.
type Repository interface {
	// Upsert creates the profile on first sight and refreshes the
	// mutable fields afterwards.
	Upsert(p Profile) (Profile, error)
	GetByUserKey(userKey string) (Profile, error)
}

// InMemoryRepository is used for tests and local scenarios.
type InMemoryRepository struct {
	mu       sync.RWMutex
	profiles map[string]Profile
}

func NewInMemoryRepository() *InMemoryRepository {
	return &InMemoryRepository{profiles: make(map[string]Profile)}
}

func (r *InMemoryRepository) Upsert(p Profile) (Profile, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	now := time.Now().UTC().Format(time.RFC3339)
	existing, ok := r.profiles[p.UserKey]
	if ok {
		p.ID = existing.ID
		p.CreatedAt = existing.CreatedAt
	} else {
		p.ID = uuid.NewString()
		p.CreatedAt = now
	}
	p.UpdatedAt = now
	r.profiles[p.UserKey] = p
	return p, nil
}

func (r *InMemoryRepository) GetByUserKey(userKey string) (Profile, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	p, ok := r.profiles[userKey]
	if !ok {
		return Profile{}, ErrNotFound
	}
	return p, nil
}
