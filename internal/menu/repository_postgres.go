package menu

import (
	"database/sql"

	"github.com/lib/pq"
)

type PostgresRepository struct {
	db *sql.DB
}

const (
	itemColumns = `id, restaurant_id, name, description, price, image_url,
               category, is_available, created_at, updated_at`

	listAvailableQuery = `
        SELECT id, restaurant_id, name, description, price, image_url,
               category, is_available, created_at, updated_at
        FROM menu_items
        WHERE restaurant_id = $1 AND is_available = TRUE
        ORDER BY category ASC
    `

	listByIDsQuery = `
        SELECT id, restaurant_id, name, description, price, image_url,
               category, is_available, created_at, updated_at
        FROM menu_items
        WHERE id = ANY($1::text[])
        ORDER BY array_position($1::text[], id)
    `
)

func NewPostgresRepository(db *sql.DB) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) ListAvailable(restaurantID string) ([]Item, error) {
	rows, err := r.db.Query(listAvailableQuery, restaurantID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectItems(rows)
}

func (r *PostgresRepository) GetByID(id string) (Item, error) {
	row := r.db.QueryRow(`SELECT `+itemColumns+` FROM menu_items WHERE id = $1`, id)
	it, err := scanItem(row)
	if err == sql.ErrNoRows {
		return Item{}, ErrNotFound
	}
	if err != nil {
		return Item{}, err
	}
	return it, nil
}

// ListByIDs preserves the order of the ids argument in its result, which
// keeps order-line enrichment aligned with the lines themselves.
func (r *PostgresRepository) ListByIDs(ids []string) ([]Item, error) {
	if len(ids) == 0 {
		return []Item{}, nil
	}

	rows, err := r.db.Query(listByIDsQuery, pq.Array(ids))
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectItems(rows)
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanItem(row rowScanner) (Item, error) {
	var it Item
	var createdAt, updatedAt sql.NullString
	err := row.Scan(&it.ID, &it.RestaurantID, &it.Name, &it.Description,
		&it.Price, &it.ImageURL, &it.Category, &it.IsAvailable,
		&createdAt, &updatedAt)
	if err != nil {
		return Item{}, err
	}
	it.CreatedAt = createdAt.String
	it.UpdatedAt = updatedAt.String
	return it, nil
}

func collectItems(rows *sql.Rows) ([]Item, error) {
	out := make([]Item, 0)
	for rows.Next() {
		it, err := scanItem(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, it)
	}
	return out, rows.Err()
}
