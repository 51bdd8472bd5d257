package cart

import (
	"sync"
	"time"

	"github.com/google/uuid"

	"food-miniapp-backend/internal/menu"
	"food-miniapp-backend/internal/restaurant"
)

// Repository provides access to the authoritative cart store. No call is
// transactional with any other; multi-step guarantees live in the service.
type Repository interface {
	// GetCart returns the user's lines enriched with menu item and
	// restaurant. An empty cart is an empty slice, not an error.
	GetCart(userKey string) ([]Line, error)
	// UpsertLine replaces the quantity for (userKey, menuItemID); it
	// never increments. qty must be >= 1.
	UpsertLine(userKey, menuItemID, restaurantID string, qty int) error
	DeleteLine(userKey, menuItemID string) error
	ClearCart(userKey string) error
}

// InMemoryRepository is used for tests and local scenarios. It is seeded
// with catalog data so GetCart can enrich lines the same way the postgres
// implementation does with joins.
type InMemoryRepository struct {
	mu          sync.RWMutex
	lines       map[string]map[string]Line // userKey -> menuItemID -> line
	items       map[string]menu.Item
	restaurants map[string]restaurant.Restaurant
}

func NewInMemoryRepository(items []menu.Item, restaurants []restaurant.Restaurant) *InMemoryRepository {
	r := &InMemoryRepository{
		lines:       make(map[string]map[string]Line),
		items:       make(map[string]menu.Item, len(items)),
		restaurants: make(map[string]restaurant.Restaurant, len(restaurants)),
	}
	for _, it := range items {
		r.items[it.ID] = it
	}
	for _, rest := range restaurants {
		r.restaurants[rest.ID] = rest
	}
	return r
}

func (r *InMemoryRepository) GetCart(userKey string) ([]Line, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]Line, 0, len(r.lines[userKey]))
	for _, l := range r.lines[userKey] {
		if it, ok := r.items[l.MenuItemID]; ok {
			item := it
			l.MenuItem = &item
		}
		if rest, ok := r.restaurants[l.RestaurantID]; ok {
			res := rest
			l.Restaurant = &res
		}
		out = append(out, l)
	}
	return out, nil
}

func (r *InMemoryRepository) UpsertLine(userKey, menuItemID, restaurantID string, qty int) error {
	if qty < 1 {
		return ErrQuantity
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if r.lines[userKey] == nil {
		r.lines[userKey] = make(map[string]Line)
	}
	now := time.Now().UTC().Format(time.RFC3339)
	l, ok := r.lines[userKey][menuItemID]
	if !ok {
		l = Line{
			ID:         uuid.NewString(),
			UserKey:    userKey,
			MenuItemID: menuItemID,
			CreatedAt:  now,
		}
	}
	l.RestaurantID = restaurantID
	l.Quantity = qty
	l.UpdatedAt = now
	r.lines[userKey][menuItemID] = l
	return nil
}

func (r *InMemoryRepository) DeleteLine(userKey, menuItemID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.lines[userKey], menuItemID)
	return nil
}

func (r *InMemoryRepository) ClearCart(userKey string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.lines, userKey)
	return nil
}
