package order

import (
	"database/sql"
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
)

type PostgresRepository struct {
	db *sql.DB
}

const (
	orderColumns = `id, user_key, restaurant_id, total_amount, status,
               delivery_address, delivery_instructions, created_at, updated_at`

	createOrderQuery = `
        INSERT INTO orders (id, user_key, restaurant_id, total_amount, status,
                            delivery_address, delivery_instructions, created_at, updated_at)
        VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $8)
        RETURNING id, user_key, restaurant_id, total_amount, status,
                  delivery_address, delivery_instructions, created_at, updated_at
    `

	listByUserQuery = `
        SELECT id, user_key, restaurant_id, total_amount, status,
               delivery_address, delivery_instructions, created_at, updated_at
        FROM orders
        WHERE user_key = $1
        ORDER BY created_at DESC
    `

	listActiveQuery = `
        SELECT id, user_key, restaurant_id, total_amount, status,
               delivery_address, delivery_instructions, created_at, updated_at
        FROM orders
        WHERE user_key = $1 AND status = ANY($2::text[])
    `

	linesByOrderIDsQuery = `
        SELECT id, order_id, menu_item_id, quantity, price, created_at
        FROM order_items
        WHERE order_id = ANY($1::text[])
        ORDER BY created_at ASC
    `
)

func NewPostgresRepository(db *sql.DB) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) Create(ord Order) (Order, error) {
	now := time.Now().UTC().Format(time.RFC3339)
	if ord.Status == "" {
		ord.Status = StatusPending
	}
	row := r.db.QueryRow(createOrderQuery, uuid.NewString(), ord.UserKey, ord.RestaurantID,
		ord.TotalAmount, string(ord.Status), ord.DeliveryAddress, ord.DeliveryInstructions, now)
	return scanOrder(row)
}

func (r *PostgresRepository) CreateLines(orderID string, lines []Line) ([]Line, error) {
	now := time.Now().UTC().Format(time.RFC3339)
	out := make([]Line, 0, len(lines))
	for _, l := range lines {
		l.ID = uuid.NewString()
		l.OrderID = orderID
		l.CreatedAt = now
		if _, err := r.db.Exec(`
            INSERT INTO order_items (id, order_id, menu_item_id, quantity, price, created_at)
            VALUES ($1, $2, $3, $4, $5, $6)`,
			l.ID, l.OrderID, l.MenuItemID, l.Quantity, l.Price, l.CreatedAt); err != nil {
			return out, err
		}
		out = append(out, l)
	}
	return out, nil
}

func (r *PostgresRepository) ListByUser(userKey string) ([]Order, error) {
	rows, err := r.db.Query(listByUserQuery, userKey)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	orders, err := collectOrders(rows)
	if err != nil {
		return nil, err
	}
	return r.attachLines(orders)
}

func (r *PostgresRepository) GetByID(id string) (Order, error) {
	row := r.db.QueryRow(`SELECT `+orderColumns+` FROM orders WHERE id = $1`, id)
	ord, err := scanOrder(row)
	if err == sql.ErrNoRows {
		return Order{}, ErrNotFound
	}
	if err != nil {
		return Order{}, err
	}

	enriched, err := r.attachLines([]Order{ord})
	if err != nil {
		return Order{}, err
	}
	return enriched[0], nil
}

func (r *PostgresRepository) ListActiveByUser(userKey string) ([]Order, error) {
	rows, err := r.db.Query(listActiveQuery, userKey, pq.Array(ActiveStatuses))
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectOrders(rows)
}

func (r *PostgresRepository) UpdateStatus(id string, status Status) (Order, error) {
	now := time.Now().UTC().Format(time.RFC3339)
	row := r.db.QueryRow(`
        UPDATE orders SET status = $1, updated_at = $2
        WHERE id = $3
        RETURNING `+orderColumns, string(status), now, id)

	ord, err := scanOrder(row)
	if err == sql.ErrNoRows {
		return Order{}, ErrNotFound
	}
	return ord, err
}

// attachLines loads the order lines for all given orders in one query,
// preserving the order slice as-is.
func (r *PostgresRepository) attachLines(orders []Order) ([]Order, error) {
	if len(orders) == 0 {
		return orders, nil
	}

	ids := make([]string, 0, len(orders))
	index := make(map[string]int, len(orders))
	for i, ord := range orders {
		ids = append(ids, ord.ID)
		index[ord.ID] = i
	}

	rows, err := r.db.Query(linesByOrderIDsQuery, pq.Array(ids))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		var l Line
		var createdAt sql.NullString
		if err := rows.Scan(&l.ID, &l.OrderID, &l.MenuItemID, &l.Quantity, &l.Price, &createdAt); err != nil {
			return nil, err
		}
		l.CreatedAt = createdAt.String
		if i, ok := index[l.OrderID]; ok {
			orders[i].Items = append(orders[i].Items, l)
		}
	}
	return orders, rows.Err()
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanOrder(row rowScanner) (Order, error) {
	var ord Order
	var status string
	var createdAt, updatedAt sql.NullString
	err := row.Scan(&ord.ID, &ord.UserKey, &ord.RestaurantID, &ord.TotalAmount, &status,
		&ord.DeliveryAddress, &ord.DeliveryInstructions, &createdAt, &updatedAt)
	if err != nil {
		return Order{}, err
	}
	ord.Status = Status(status)
	ord.CreatedAt = createdAt.String
	ord.UpdatedAt = updatedAt.String
	return ord, nil
}

func collectOrders(rows *sql.Rows) ([]Order, error) {
	out := make([]Order, 0)
	for rows.Next() {
		ord, err := scanOrder(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, ord)
	}
	return out, rows.Err()
}
