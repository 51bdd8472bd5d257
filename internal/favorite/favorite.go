package favorite

import (
	"food-miniapp-backend/internal/restaurant"
)

// Favorite marks a restaurant the user wants quick access to.
type Favorite struct {
	ID           string                 `json:"id"`
	UserKey      string                 `json:"userKey"`
	RestaurantID string                 `json:"restaurantId"`
	CreatedAt    string                 `json:"createdAt,omitempty"`
	Restaurant   *restaurant.Restaurant `json:"restaurant,omitempty"`
}
