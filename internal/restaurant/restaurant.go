package restaurant

// Restaurant is read-only reference data shown on the map and list views.
// JSON tags follow the camelCase convention used across the API.
type Restaurant struct {
	ID              string   `json:"id"`
	Name            string   `json:"name"`
	Description     *string  `json:"description,omitempty"`
	Address         *string  `json:"address,omitempty"`
	Phone           *string  `json:"phone,omitempty"`
	Latitude        *float64 `json:"latitude,omitempty"`
	Longitude       *float64 `json:"longitude,omitempty"`
	Rating          float64  `json:"rating"`
	DeliveryTimeMin int      `json:"deliveryTimeMin"`
	DeliveryTimeMax int      `json:"deliveryTimeMax"`
	MinOrderAmount  float64  `json:"minOrderAmount"`
	IsActive        bool     `json:"isActive"`
	CreatedAt       string   `json:"createdAt,omitempty"`
	UpdatedAt       string   `json:"updatedAt,omitempty"`
}
