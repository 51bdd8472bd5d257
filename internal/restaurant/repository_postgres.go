package restaurant

import (
	"database/sql"
)

type PostgresRepository struct {
	db *sql.DB
}

const listActiveQuery = `
        SELECT id, name, description, address, phone, latitude, longitude,
               rating, delivery_time_min, delivery_time_max, min_order_amount,
               is_active, created_at, updated_at
        FROM restaurants
        WHERE is_active = TRUE
        ORDER BY rating DESC
    `

func NewPostgresRepository(db *sql.DB) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) ListActive() ([]Restaurant, error) {
	rows, err := r.db.Query(listActiveQuery)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]Restaurant, 0)
	for rows.Next() {
		rest, err := scanRestaurant(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, rest)
	}
	return out, rows.Err()
}

func (r *PostgresRepository) GetByID(id string) (Restaurant, error) {
	row := r.db.QueryRow(`
        SELECT id, name, description, address, phone, latitude, longitude,
               rating, delivery_time_min, delivery_time_max, min_order_amount,
               is_active, created_at, updated_at
        FROM restaurants
        WHERE id = $1`, id)

	rest, err := scanRestaurant(row)
	if err == sql.ErrNoRows {
		return Restaurant{}, ErrNotFound
	}
	if err != nil {
		return Restaurant{}, err
	}
	return rest, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanRestaurant(row rowScanner) (Restaurant, error) {
	var rest Restaurant
	var createdAt, updatedAt sql.NullString
	err := row.Scan(&rest.ID, &rest.Name, &rest.Description, &rest.Address,
		&rest.Phone, &rest.Latitude, &rest.Longitude, &rest.Rating,
		&rest.DeliveryTimeMin, &rest.DeliveryTimeMax, &rest.MinOrderAmount,
		&rest.IsActive, &createdAt, &updatedAt)
	if err != nil {
		return Restaurant{}, err
	}
	rest.CreatedAt = createdAt.String
	rest.UpdatedAt = updatedAt.String
	return rest, nil
}
