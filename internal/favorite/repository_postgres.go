package favorite

import (
	"database/sql"
	"time"

	"github.com/google/uuid"

	"food-miniapp-backend/internal/restaurant"
)

type PostgresRepository struct {
	db *sql.DB
}

const listFavoritesQuery = `
        SELECT f.id, f.user_key, f.restaurant_id, f.created_at,
               r.id, r.name, r.description, r.address, r.phone,
               r.latitude, r.longitude, r.rating, r.delivery_time_min,
               r.delivery_time_max, r.min_order_amount, r.is_active
        FROM favorites f
        JOIN restaurants r ON r.id = f.restaurant_id
        WHERE f.user_key = $1
        ORDER BY f.created_at DESC
    `

func NewPostgresRepository(db *sql.DB) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) Add(userKey, restaurantID string) (Favorite, error) {
	f := Favorite{
		ID:           uuid.NewString(),
		UserKey:      userKey,
		RestaurantID: restaurantID,
		CreatedAt:    time.Now().UTC().Format(time.RFC3339),
	}
	res, err := r.db.Exec(`
        INSERT INTO favorites (id, user_key, restaurant_id, created_at)
        VALUES ($1, $2, $3, $4)
        ON CONFLICT (user_key, restaurant_id) DO NOTHING`,
		f.ID, f.UserKey, f.RestaurantID, f.CreatedAt)
	if err != nil {
		return Favorite{}, err
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return Favorite{}, ErrAlreadyFavorite
	}
	return f, nil
}

func (r *PostgresRepository) Remove(userKey, restaurantID string) error {
	res, err := r.db.Exec(`DELETE FROM favorites WHERE user_key = $1 AND restaurant_id = $2`,
		userKey, restaurantID)
	if err != nil {
		return err
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return ErrNotFavorite
	}
	return nil
}

func (r *PostgresRepository) List(userKey string) ([]Favorite, error) {
	rows, err := r.db.Query(listFavoritesQuery, userKey)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]Favorite, 0)
	for rows.Next() {
		var f Favorite
		var rest restaurant.Restaurant
		var createdAt sql.NullString
		if err := rows.Scan(&f.ID, &f.UserKey, &f.RestaurantID, &createdAt,
			&rest.ID, &rest.Name, &rest.Description, &rest.Address, &rest.Phone,
			&rest.Latitude, &rest.Longitude, &rest.Rating, &rest.DeliveryTimeMin,
			&rest.DeliveryTimeMax, &rest.MinOrderAmount, &rest.IsActive); err != nil {
			return nil, err
		}
		f.CreatedAt = createdAt.String
		f.Restaurant = &rest
		out = append(out, f)
	}
	return out, rows.Err()
}
