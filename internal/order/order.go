package order

import (
	"errors"

	"food-miniapp-backend/internal/menu"
	"food-miniapp-backend/internal/restaurant"
)

var (
	ErrNotFound = errors.New("order not found")
	// submission preconditions, each checked before any store mutation
	ErrEmptyCart   = errors.New("cart is empty")
	ErrMixedCart   = errors.New("cart holds items from more than one restaurant")
	ErrActiveOrder = errors.New("an active order is already in progress")
	// ErrLinesFailed marks the accepted inconsistent state where the
	// order row exists but its lines could not be written.
	ErrLinesFailed    = errors.New("order created but order lines could not be written")
	ErrNotCancellable = errors.New("only pending orders can be cancelled")
)

type Status string

const (
	StatusPending    Status = "pending"
	StatusConfirmed  Status = "confirmed"
	StatusPreparing  Status = "preparing"
	StatusReady      Status = "ready"
	StatusDelivering Status = "delivering"
	StatusCompleted  Status = "completed"
	StatusCancelled  Status = "cancelled"
)

// ActiveStatuses are the non-terminal states that block a new submission.
var ActiveStatuses = []string{
	string(StatusPending), string(StatusConfirmed), string(StatusPreparing),
	string(StatusReady), string(StatusDelivering),
}

func (s Status) Terminal() bool {
	return s == StatusCompleted || s == StatusCancelled
}

// Order is immutable once created except for status transitions. Statuses
// past pending are advanced by restaurant staff outside this system; the
// client may only request cancellation while pending.
type Order struct {
	ID                   string                 `json:"id"`
	UserKey              string                 `json:"userKey"`
	RestaurantID         string                 `json:"restaurantId"`
	TotalAmount          float64                `json:"totalAmount"`
	Status               Status                 `json:"status"`
	DeliveryAddress      *string                `json:"deliveryAddress,omitempty"`
	DeliveryInstructions *string                `json:"deliveryInstructions,omitempty"`
	CreatedAt            string                 `json:"createdAt,omitempty"`
	UpdatedAt            string                 `json:"updatedAt,omitempty"`
	Restaurant           *restaurant.Restaurant `json:"restaurant,omitempty"`
	Items                []Line                 `json:"items,omitempty"`
}

// Line copies quantity and the menu item's price at order time; it is
// never mutated afterwards, so placed orders keep their prices.
type Line struct {
	ID         string     `json:"id"`
	OrderID    string     `json:"orderId"`
	MenuItemID string     `json:"menuItemId"`
	Quantity   int        `json:"quantity"`
	Price      float64    `json:"price"`
	CreatedAt  string     `json:"createdAt,omitempty"`
	MenuItem   *menu.Item `json:"menuItem,omitempty"`
}
