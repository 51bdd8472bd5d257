package order

import (
	"context"
	"fmt"
	"log"

	"food-miniapp-backend/internal/cart"
)

// Service implements the order submission sequence and user cancellation.
// Submission is a best-effort multi-step sequence, not a transaction: each
// step has its own failure handling and later steps are never rolled back.
type Service struct {
	repo Repository
	cart cart.ServiceInterface
}

func NewService(repo Repository, cartService cart.ServiceInterface) *Service {
	return &Service{repo: repo, cart: cartService}
}

// Submit snapshots the cart, validates the preconditions in order (each a
// hard stop with no store mutation), then creates the order, its lines and
// clears the cart.
func (s *Service) Submit(ctx context.Context, userKey string, deliveryAddress, deliveryInstructions *string) (Order, error) {
	// refresh rather than trust the mirror: the snapshot an order is cut
	// from must come from the authoritative store
	lines, err := s.cart.Refresh(ctx, userKey)
	if err != nil {
		return Order{}, err
	}

	if len(lines) == 0 {
		return Order{}, ErrEmptyCart
	}
	restaurantID := lines[0].RestaurantID
	for _, l := range lines {
		// stronger than the add-time gate: a mixed cart blocks
		// submission entirely however it came to exist
		if l.RestaurantID != restaurantID {
			return Order{}, ErrMixedCart
		}
	}
	active, err := s.repo.ListActiveByUser(userKey)
	if err != nil {
		return Order{}, err
	}
	if len(active) > 0 {
		return Order{}, ErrActiveOrder
	}

	created, err := s.repo.Create(Order{
		UserKey:              userKey,
		RestaurantID:         restaurantID,
		TotalAmount:          cart.Total(lines),
		Status:               StatusPending,
		DeliveryAddress:      deliveryAddress,
		DeliveryInstructions: deliveryInstructions,
	})
	if err != nil {
		// nothing was written; the cart stays intact
		return Order{}, err
	}

	orderLines := make([]Line, 0, len(lines))
	for _, l := range lines {
		var price float64
		if l.MenuItem != nil {
			price = l.MenuItem.Price
		}
		orderLines = append(orderLines, Line{
			MenuItemID: l.MenuItemID,
			Quantity:   l.Quantity,
			Price:      price,
		})
	}
	written, err := s.repo.CreateLines(created.ID, orderLines)
	if err != nil {
		log.Printf("warning: order %s exists without complete lines: %v", created.ID, err)
		return Order{}, fmt.Errorf("%w: %v", ErrLinesFailed, err)
	}
	created.Items = written

	if err := s.cart.Clear(ctx, userKey); err != nil {
		// the order is valid; the stale cart is corrected by the next
		// refresh
		log.Printf("warning: cart not cleared after order %s: %v", created.ID, err)
	}
	return created, nil
}

func (s *Service) ListByUser(userKey string) ([]Order, error) {
	return s.repo.ListByUser(userKey)
}

// Active returns the user's orders in a non-terminal status; the client
// uses it to gate new submissions and to show the tracking view.
func (s *Service) Active(userKey string) ([]Order, error) {
	return s.repo.ListActiveByUser(userKey)
}

// Cancel transitions the user's own order from pending to cancelled. Any
// other status is rejected; later transitions belong to restaurant staff.
func (s *Service) Cancel(ctx context.Context, userKey, orderID string) (Order, error) {
	ord, err := s.repo.GetByID(orderID)
	if err != nil {
		return Order{}, err
	}
	if ord.UserKey != userKey {
		return Order{}, ErrNotFound
	}
	if ord.Status != StatusPending {
		return Order{}, ErrNotCancellable
	}
	return s.repo.UpdateStatus(orderID, StatusCancelled)
}
