package favorite

import (
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"

	"food-miniapp-backend/internal/restaurant"
)

var (
	ErrAlreadyFavorite = errors.New("restaurant already in favorites")
	ErrNotFavorite     = errors.New("restaurant not in favorites")
)

// Repository provides access to favorite operations.
type Repository interface {
	Add(userKey, restaurantID string) (Favorite, error)
	Remove(userKey, restaurantID string) error
	// List returns the user's favorites newest first, enriched with the
	// restaurant.
	List(userKey string) ([]Favorite, error)
}

// InMemoryRepository is used for tests and local scenarios.
type InMemoryRepository struct {
	mu          sync.RWMutex
	favorites   map[string][]Favorite // userKey -> favorites
	restaurants map[string]restaurant.Restaurant
}

func NewInMemoryRepository(restaurants []restaurant.Restaurant) *InMemoryRepository {
	r := &InMemoryRepository{
		favorites:   make(map[string][]Favorite),
		restaurants: make(map[string]restaurant.Restaurant, len(restaurants)),
	}
	for _, rest := range restaurants {
		r.restaurants[rest.ID] = rest
	}
	return r
}

func (r *InMemoryRepository) Add(userKey, restaurantID string) (Favorite, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, f := range r.favorites[userKey] {
		if f.RestaurantID == restaurantID {
			return Favorite{}, ErrAlreadyFavorite
		}
	}
	f := Favorite{
		ID:           uuid.NewString(),
		UserKey:      userKey,
		RestaurantID: restaurantID,
		CreatedAt:    time.Now().UTC().Format(time.RFC3339),
	}
	r.favorites[userKey] = append(r.favorites[userKey], f)
	return f, nil
}

func (r *InMemoryRepository) Remove(userKey, restaurantID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	favs := r.favorites[userKey]
	for i, f := range favs {
		if f.RestaurantID == restaurantID {
			r.favorites[userKey] = append(favs[:i], favs[i+1:]...)
			return nil
		}
	}
	return ErrNotFavorite
}

func (r *InMemoryRepository) List(userKey string) ([]Favorite, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	favs := r.favorites[userKey]
	out := make([]Favorite, 0, len(favs))
	for i := len(favs) - 1; i >= 0; i-- {
		f := favs[i]
		if rest, ok := r.restaurants[f.RestaurantID]; ok {
			res := rest
			f.Restaurant = &res
		}
		out = append(out, f)
	}
	return out, nil
}
