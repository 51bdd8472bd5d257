package cart

import (
	"database/sql"
	"time"

	"github.com/google/uuid"

	"food-miniapp-backend/internal/menu"
	"food-miniapp-backend/internal/restaurant"
)

type PostgresRepository struct {
	db *sql.DB
}

const (
	getCartQuery = `
        SELECT c.id, c.user_key, c.menu_item_id, c.restaurant_id, c.quantity,
               c.created_at, c.updated_at,
               m.id, m.restaurant_id, m.name, m.description, m.price,
               m.image_url, m.category, m.is_available,
               r.id, r.name, r.description, r.address, r.phone,
               r.latitude, r.longitude, r.rating, r.delivery_time_min,
               r.delivery_time_max, r.min_order_amount, r.is_active
        FROM cart_items c
        JOIN menu_items m ON m.id = c.menu_item_id
        JOIN restaurants r ON r.id = c.restaurant_id
        WHERE c.user_key = $1
        ORDER BY c.created_at DESC
    `

	// conflict key is (user_key, menu_item_id); a second upsert replaces
	// the quantity rather than incrementing it.
	upsertLineQuery = `
        INSERT INTO cart_items (id, user_key, menu_item_id, restaurant_id, quantity, created_at, updated_at)
        VALUES ($1, $2, $3, $4, $5, $6, $6)
        ON CONFLICT (user_key, menu_item_id)
        DO UPDATE SET quantity = EXCLUDED.quantity,
                      restaurant_id = EXCLUDED.restaurant_id,
                      updated_at = EXCLUDED.updated_at
    `
)

func NewPostgresRepository(db *sql.DB) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) GetCart(userKey string) ([]Line, error) {
	rows, err := r.db.Query(getCartQuery, userKey)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]Line, 0)
	for rows.Next() {
		var l Line
		var it menu.Item
		var rest restaurant.Restaurant
		var createdAt, updatedAt sql.NullString
		if err := rows.Scan(&l.ID, &l.UserKey, &l.MenuItemID, &l.RestaurantID, &l.Quantity,
			&createdAt, &updatedAt,
			&it.ID, &it.RestaurantID, &it.Name, &it.Description, &it.Price,
			&it.ImageURL, &it.Category, &it.IsAvailable,
			&rest.ID, &rest.Name, &rest.Description, &rest.Address, &rest.Phone,
			&rest.Latitude, &rest.Longitude, &rest.Rating, &rest.DeliveryTimeMin,
			&rest.DeliveryTimeMax, &rest.MinOrderAmount, &rest.IsActive); err != nil {
			return nil, err
		}
		l.CreatedAt = createdAt.String
		l.UpdatedAt = updatedAt.String
		l.MenuItem = &it
		l.Restaurant = &rest
		out = append(out, l)
	}
	return out, rows.Err()
}

func (r *PostgresRepository) UpsertLine(userKey, menuItemID, restaurantID string, qty int) error {
	if qty < 1 {
		return ErrQuantity
	}
	now := time.Now().UTC().Format(time.RFC3339)
	_, err := r.db.Exec(upsertLineQuery, uuid.NewString(), userKey, menuItemID, restaurantID, qty, now)
	return err
}

func (r *PostgresRepository) DeleteLine(userKey, menuItemID string) error {
	_, err := r.db.Exec(`DELETE FROM cart_items WHERE user_key = $1 AND menu_item_id = $2`, userKey, menuItemID)
	return err
}

func (r *PostgresRepository) ClearCart(userKey string) error {
	_, err := r.db.Exec(`DELETE FROM cart_items WHERE user_key = $1`, userKey)
	return err
}
