package cart

import (
	"errors"
	"fmt"

	"food-miniapp-backend/internal/menu"
	"food-miniapp-backend/internal/restaurant"
)

var (
	ErrInvalidItem = errors.New("invalid menu item reference")
	// ErrQuantity guards direct upserts; the workflow itself clamps at
	// zero and deletes instead of storing zero.
	ErrQuantity = errors.New("quantity must be a positive integer")
)

// Line is one (user, menu item) row with a quantity. RestaurantID is
// denormalized from the menu item so the conflict rule can be checked
// without extra lookups.
type Line struct {
	ID           string                 `json:"id"`
	UserKey      string                 `json:"userKey"`
	MenuItemID   string                 `json:"menuItemId"`
	RestaurantID string                 `json:"restaurantId"`
	Quantity     int                    `json:"quantity"`
	CreatedAt    string                 `json:"createdAt,omitempty"`
	UpdatedAt    string                 `json:"updatedAt,omitempty"`
	MenuItem     *menu.Item             `json:"menuItem,omitempty"`
	Restaurant   *restaurant.Restaurant `json:"restaurant,omitempty"`
}

// Snapshot is the fast quantity view kept in the mirror. RestaurantID is
// empty for an empty cart and recomputed from the full cart on refresh.
type Snapshot struct {
	RestaurantID string         `json:"restaurantId"`
	Quantities   map[string]int `json:"quantities"`
}

func (s Snapshot) quantity(menuItemID string) int {
	return s.Quantities[menuItemID]
}

// ConflictError is the decision state raised when a net addition targets a
// different restaurant than the one the cart already holds. It is not a
// failure: the caller must resolve it via ReplaceCart or drop the addition.
type ConflictError struct {
	CartRestaurantID  string `json:"cartRestaurantId"`
	PendingMenuItemID string `json:"pendingMenuItemId"`
	PendingQuantity   int    `json:"pendingQuantity"`
}

func (e *ConflictError) Error() string {
	return fmt.Sprintf("cart already holds items from restaurant %s", e.CartRestaurantID)
}

// Total sums price x quantity over the lines. Lines missing their menu
// item enrichment contribute nothing.
func Total(lines []Line) float64 {
	var total float64
	for _, l := range lines {
		if l.MenuItem != nil {
			total += l.MenuItem.Price * float64(l.Quantity)
		}
	}
	return total
}

func snapshotFromLines(lines []Line) Snapshot {
	snap := Snapshot{Quantities: make(map[string]int, len(lines))}
	for _, l := range lines {
		snap.Quantities[l.MenuItemID] = l.Quantity
		if snap.RestaurantID == "" {
			snap.RestaurantID = l.RestaurantID
		}
	}
	return snap
}
