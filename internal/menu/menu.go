package menu

// Item is a dish on a restaurant's menu. Prices are copied by value into
// order lines at order time, so editing an item never reprices past orders.
type Item struct {
	ID           string  `json:"id"`
	RestaurantID string  `json:"restaurantId"`
	Name         string  `json:"name"`
	Description  *string `json:"description,omitempty"`
	Price        float64 `json:"price"`
	ImageURL     *string `json:"imageUrl,omitempty"`
	Category     *string `json:"category,omitempty"`
	IsAvailable  bool    `json:"isAvailable"`
	CreatedAt    string  `json:"createdAt,omitempty"`
	UpdatedAt    string  `json:"updatedAt,omitempty"`
}
