package order

import (
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
)

// Repository defines persistence for orders and order lines. Create and
// CreateLines are separate calls on purpose: there is no transaction
// spanning them, and the service reports their failures independently.
type Repository interface {
	Create(ord Order) (Order, error)
	CreateLines(orderID string, lines []Line) ([]Line, error)
	// ListByUser returns the user's orders newest first, lines included.
	ListByUser(userKey string) ([]Order, error)
	GetByID(id string) (Order, error)
	// ListActiveByUser returns orders in a non-terminal status.
	ListActiveByUser(userKey string) ([]Order, error)
	UpdateStatus(id string, status Status) (Order, error)
}

// InMemoryRepository is used for tests and local scenarios.
type InMemoryRepository struct {
	mu     sync.RWMutex
	orders map[string]Order
}

func NewInMemoryRepository() *InMemoryRepository {
	return &InMemoryRepository{orders: make(map[string]Order)}
}

func (r *InMemoryRepository) Create(ord Order) (Order, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	now := time.Now().UTC().Format(time.RFC3339)
	ord.ID = uuid.NewString()
	if ord.Status == "" {
		ord.Status = StatusPending
	}
	ord.CreatedAt = now
	ord.UpdatedAt = now
	ord.Items = nil
	r.orders[ord.ID] = ord
	return ord, nil
}

func (r *InMemoryRepository) CreateLines(orderID string, lines []Line) ([]Line, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	ord, ok := r.orders[orderID]
	if !ok {
		return nil, ErrNotFound
	}
	now := time.Now().UTC().Format(time.RFC3339)
	out := make([]Line, 0, len(lines))
	for _, l := range lines {
		l.ID = uuid.NewString()
		l.OrderID = orderID
		l.CreatedAt = now
		out = append(out, l)
	}
	ord.Items = append(ord.Items, out...)
	r.orders[orderID] = ord
	return out, nil
}

func (r *InMemoryRepository) ListByUser(userKey string) ([]Order, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]Order, 0)
	for _, ord := range r.orders {
		if ord.UserKey == userKey {
			out = append(out, ord)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].CreatedAt > out[j].CreatedAt })
	return out, nil
}

func (r *InMemoryRepository) GetByID(id string) (Order, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	ord, ok := r.orders[id]
	if !ok {
		return Order{}, ErrNotFound
	}
	return ord, nil
}

func (r *InMemoryRepository) ListActiveByUser(userKey string) ([]Order, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]Order, 0)
	for _, ord := range r.orders {
		if ord.UserKey == userKey && !ord.Status.Terminal() {
			out = append(out, ord)
		}
	}
	return out, nil
}

func (r *InMemoryRepository) UpdateStatus(id string, status Status) (Order, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	ord, ok := r.orders[id]
	if !ok {
		return Order{}, ErrNotFound
	}
	ord.Status = status
	ord.UpdatedAt = time.Now().UTC().Format(time.RFC3339)
	r.orders[id] = ord
	return ord, nil
}
