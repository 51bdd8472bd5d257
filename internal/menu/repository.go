package menu

import (
	"errors"
	"sort"
	"sync"
)

var ErrNotFound = errors.New("menu item not found")

// Repository provides read access to menu items.
type Repository interface {
	// ListAvailable returns available items of one restaurant sorted by
	// category ascending.
	ListAvailable(restaurantID string) ([]Item, error)
	GetByID(id string) (Item, error)
	// ListByIDs returns the items whose id is present in the provided
	// slice, ordered the same way as the ids argument. An empty slice
	// must return an empty result without hitting the database.
	ListByIDs(ids []string) ([]Item, error)
}

// InMemoryRepository is used for tests and local scenarios.
type InMemoryRepository struct {
	mu    sync.RWMutex
	items []Item
}

func NewInMemoryRepository(seed []Item) *InMemoryRepository {
	r := &InMemoryRepository{items: make([]Item, 0, len(seed))}
	r.items = append(r.items, seed...)
	return r
}

func (r *InMemoryRepository) ListAvailable(restaurantID string) ([]Item, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]Item, 0)
	for _, it := range r.items {
		if it.RestaurantID == restaurantID && it.IsAvailable {
			out = append(out, it)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		return derefCategory(out[i].Category) < derefCategory(out[j].Category)
	})
	return out, nil
}

func (r *InMemoryRepository) GetByID(id string) (Item, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, it := range r.items {
		if it.ID == id {
			return it, nil
		}
	}
	return Item{}, ErrNotFound
}

func (r *InMemoryRepository) ListByIDs(ids []string) ([]Item, error) {
	if len(ids) == 0 {
		return []Item{}, nil
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]Item, 0, len(ids))
	for _, id := range ids {
		for _, it := range r.items {
			if it.ID == id {
				out = append(out, it)
				break
			}
		}
	}
	return out, nil
}

func derefCategory(c *string) string {
	if c == nil {
		return ""
	}
	return *c
}
