package order

import (
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/lib/pq"
)

var orderCols = []string{
	"id", "user_key", "restaurant_id", "total_amount", "status",
	"delivery_address", "delivery_instructions", "created_at", "updated_at",
}

func TestPostgresRepository_Create(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("failed to create sqlmock: %v", err)
	}
	defer db.Close()
	repo := NewPostgresRepository(db)

	rows := sqlmock.NewRows(orderCols).AddRow(
		"order-1", "telegram_42", "rest-a", 250.0, "pending",
		nil, nil, "2026-01-01T00:00:00Z", "2026-01-01T00:00:00Z",
	)
	mock.ExpectQuery("INSERT INTO orders").
		WithArgs(sqlmock.AnyArg(), "telegram_42", "rest-a", 250.0, "pending", nil, nil, sqlmock.AnyArg()).
		WillReturnRows(rows)

	ord, err := repo.Create(Order{UserKey: "telegram_42", RestaurantID: "rest-a", TotalAmount: 250})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if ord.ID != "order-1" || ord.Status != StatusPending {
		t.Fatalf("unexpected order %+v", ord)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unmet expectations: %v", err)
	}
}

func TestPostgresRepository_CreateLines_StopsOnFirstFailure(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("failed to create sqlmock: %v", err)
	}
	defer db.Close()
	repo := NewPostgresRepository(db)

	mock.ExpectExec("INSERT INTO order_items").
		WithArgs(sqlmock.AnyArg(), "order-1", "item-x", 2, 100.0, sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec("INSERT INTO order_items").
		WithArgs(sqlmock.AnyArg(), "order-1", "item-y", 1, 50.0, sqlmock.AnyArg()).
		WillReturnError(errStore)

	written, err := repo.CreateLines("order-1", []Line{
		{MenuItemID: "item-x", Quantity: 2, Price: 100},
		{MenuItemID: "item-y", Quantity: 1, Price: 50},
	})
	if err == nil {
		t.Fatal("expected an error from the second insert")
	}
	if len(written) != 1 || written[0].MenuItemID != "item-x" {
		t.Fatalf("expected the first line to be reported as written, got %+v", written)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unmet expectations: %v", err)
	}
}

func TestPostgresRepository_ListByUser_AttachesLines(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("failed to create sqlmock: %v", err)
	}
	defer db.Close()
	repo := NewPostgresRepository(db)

	orders := sqlmock.NewRows(orderCols).AddRow(
		"order-1", "telegram_42", "rest-a", 250.0, "completed",
		nil, nil, "2026-01-01T00:00:00Z", "2026-01-01T00:00:00Z",
	)
	mock.ExpectQuery("FROM orders").WithArgs("telegram_42").WillReturnRows(orders)

	lines := sqlmock.NewRows([]string{"id", "order_id", "menu_item_id", "quantity", "price", "created_at"}).
		AddRow("line-1", "order-1", "item-x", 2, 100.0, "2026-01-01T00:00:00Z").
		AddRow("line-2", "order-1", "item-y", 1, 50.0, "2026-01-01T00:00:00Z")
	mock.ExpectQuery("FROM order_items").
		WithArgs(pq.Array([]string{"order-1"})).
		WillReturnRows(lines)

	out, err := repo.ListByUser("telegram_42")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(out) != 1 || len(out[0].Items) != 2 {
		t.Fatalf("expected one order with two lines, got %+v", out)
	}
	if out[0].Items[0].Price != 100 {
		t.Fatalf("expected captured price 100, got %v", out[0].Items[0].Price)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unmet expectations: %v", err)
	}
}

func TestPostgresRepository_ListActiveByUser(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("failed to create sqlmock: %v", err)
	}
	defer db.Close()
	repo := NewPostgresRepository(db)

	rows := sqlmock.NewRows(orderCols).AddRow(
		"order-1", "telegram_42", "rest-a", 250.0, "delivering",
		nil, nil, "2026-01-01T00:00:00Z", "2026-01-01T00:00:00Z",
	)
	mock.ExpectQuery("status = ANY").
		WithArgs("telegram_42", pq.Array(ActiveStatuses)).
		WillReturnRows(rows)

	out, err := repo.ListActiveByUser("telegram_42")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(out) != 1 || out[0].Status != StatusDelivering {
		t.Fatalf("unexpected active orders %+v", out)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unmet expectations: %v", err)
	}
}

func TestPostgresRepository_UpdateStatus_NotFound(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("failed to create sqlmock: %v", err)
	}
	defer db.Close()
	repo := NewPostgresRepository(db)

	mock.ExpectQuery("UPDATE orders SET status").
		WithArgs("cancelled", sqlmock.AnyArg(), "missing").
		WillReturnRows(sqlmock.NewRows(orderCols))

	if _, err := repo.UpdateStatus("missing", StatusCancelled); err != ErrNotFound {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unmet expectations: %v", err)
	}
}
