package restaurant

import (
	"errors"
	"sort"
	"sync"
)

var ErrNotFound = errors.New("restaurant not found")

// Repository provides read access to the restaurant catalog.
type Repository interface {
	// ListActive returns active restaurants sorted by rating descending.
	ListActive() ([]Restaurant, error)
	GetByID(id string) (Restaurant, error)
}

// InMemoryRepository is used for tests and local scenarios.
type InMemoryRepository struct {
	mu          sync.RWMutex
	restaurants []Restaurant
}

func NewInMemoryRepository(seed []Restaurant) *InMemoryRepository {
	r := &InMemoryRepository{restaurants: make([]Restaurant, 0, len(seed))}
	r.restaurants = append(r.restaurants, seed...)
	return r
}

func (r *InMemoryRepository) ListActive() ([]Restaurant, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]Restaurant, 0, len(r.restaurants))
	for _, rest := range r.restaurants {
		if rest.IsActive {
			out = append(out, rest)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Rating > out[j].Rating })
	return out, nil
}

func (r *InMemoryRepository) GetByID(id string) (Restaurant, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, rest := range r.restaurants {
		if rest.ID == id {
			return rest, nil
		}
	}
	return Restaurant{}, ErrNotFound
}
