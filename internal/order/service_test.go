package order

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"food-miniapp-backend/internal/cart"
	"food-miniapp-backend/internal/menu"
	"food-miniapp-backend/internal/restaurant"
)

const userKey = "telegram_42"

// failingOrderRepository injects failures into the submission steps.
type failingOrderRepository struct {
	*InMemoryRepository
	failCreate      bool
	failCreateLines bool
}

var errStore = errors.New("store unavailable")

func (r *failingOrderRepository) Create(ord Order) (Order, error) {
	if r.failCreate {
		return Order{}, errStore
	}
	return r.InMemoryRepository.Create(ord)
}

func (r *failingOrderRepository) CreateLines(orderID string, lines []Line) ([]Line, error) {
	if r.failCreateLines {
		return nil, errStore
	}
	return r.InMemoryRepository.CreateLines(orderID, lines)
}

// failingClearCart fails the cart clear step after submission.
type failingClearCart struct {
	*cart.Service
	failClear bool
}

func (c *failingClearCart) Clear(ctx context.Context, userKey string) error {
	if c.failClear {
		return errStore
	}
	return c.Service.Clear(ctx, userKey)
}

type fixture struct {
	svc      *Service
	repo     *failingOrderRepository
	cartSvc  *cart.Service
	cartRepo *cart.InMemoryRepository
}

func newFixture() fixture {
	items := []menu.Item{
		{ID: "item-x", RestaurantID: "rest-a", Name: "Margherita", Price: 100, IsAvailable: true},
		{ID: "item-y", RestaurantID: "rest-a", Name: "Pepperoni", Price: 50, IsAvailable: true},
		{ID: "item-z", RestaurantID: "rest-b", Name: "Philadelphia", Price: 15, IsAvailable: true},
	}
	restaurants := []restaurant.Restaurant{
		{ID: "rest-a", Name: "Pizza Palace", IsActive: true},
		{ID: "rest-b", Name: "Sushi Master", IsActive: true},
	}
	cartRepo := cart.NewInMemoryRepository(items, restaurants)
	cartSvc := cart.NewService(cartRepo, cart.NewInMemoryMirror(time.Minute))
	repo := &failingOrderRepository{InMemoryRepository: NewInMemoryRepository()}
	return fixture{
		svc:      NewService(repo, cartSvc),
		repo:     repo,
		cartSvc:  cartSvc,
		cartRepo: cartRepo,
	}
}

func (f fixture) fillCart(t *testing.T) {
	t.Helper()
	ctx := context.Background()
	_, err := f.cartSvc.ChangeQuantity(ctx, userKey, "rest-a", "item-x", 2)
	require.NoError(t, err)
	_, err = f.cartSvc.ChangeQuantity(ctx, userKey, "rest-a", "item-y", 1)
	require.NoError(t, err)
}

func TestSubmit_HappyPath(t *testing.T) {
	f := newFixture()
	f.fillCart(t)
	ctx := context.Background()

	created, err := f.svc.Submit(ctx, userKey, nil, nil)
	require.NoError(t, err)

	assert.Equal(t, StatusPending, created.Status)
	assert.Equal(t, "rest-a", created.RestaurantID)
	assert.InDelta(t, 250.0, created.TotalAmount, 1e-9)

	require.Len(t, created.Items, 2)
	prices := map[string]float64{}
	quantities := map[string]int{}
	for _, l := range created.Items {
		prices[l.MenuItemID] = l.Price
		quantities[l.MenuItemID] = l.Quantity
	}
	assert.Equal(t, 100.0, prices["item-x"])
	assert.Equal(t, 50.0, prices["item-y"])
	assert.Equal(t, 2, quantities["item-x"])
	assert.Equal(t, 1, quantities["item-y"])

	// the cart is empty afterwards
	lines, err := f.cartSvc.Get(ctx, userKey)
	require.NoError(t, err)
	assert.Empty(t, lines)

	// exactly one order exists
	orders, err := f.svc.ListByUser(userKey)
	require.NoError(t, err)
	assert.Len(t, orders, 1)
}

func TestSubmit_EmptyCart(t *testing.T) {
	f := newFixture()

	_, err := f.svc.Submit(context.Background(), userKey, nil, nil)
	assert.ErrorIs(t, err, ErrEmptyCart)
}

func TestSubmit_MixedCart(t *testing.T) {
	f := newFixture()
	f.fillCart(t)
	// a mixed cart cannot arise through the workflow; write past it the
	// way an external client would
	require.NoError(t, f.cartRepo.UpsertLine(userKey, "item-z", "rest-b", 1))

	_, err := f.svc.Submit(context.Background(), userKey, nil, nil)
	assert.ErrorIs(t, err, ErrMixedCart)

	orders, err := f.svc.ListByUser(userKey)
	require.NoError(t, err)
	assert.Empty(t, orders, "a blocked submission must not create an order")
}

func TestSubmit_ActiveOrderBlocks(t *testing.T) {
	f := newFixture()
	f.fillCart(t)
	ctx := context.Background()

	first, err := f.svc.Submit(ctx, userKey, nil, nil)
	require.NoError(t, err)

	for _, status := range []Status{StatusPending, StatusConfirmed, StatusPreparing, StatusReady, StatusDelivering} {
		_, err = f.repo.UpdateStatus(first.ID, status)
		require.NoError(t, err)

		f.fillCart(t)
		_, err = f.svc.Submit(ctx, userKey, nil, nil)
		assert.ErrorIs(t, err, ErrActiveOrder, "status %s must block submission", status)

		// the blocked submission left the cart untouched
		lines, err := f.cartSvc.Get(ctx, userKey)
		require.NoError(t, err)
		assert.Len(t, lines, 2)
	}

	// a terminal status frees the gate
	_, err = f.repo.UpdateStatus(first.ID, StatusCompleted)
	require.NoError(t, err)
	_, err = f.svc.Submit(ctx, userKey, nil, nil)
	assert.NoError(t, err)
}

func TestSubmit_LineFailureLeavesOrderRow(t *testing.T) {
	f := newFixture()
	f.fillCart(t)
	f.repo.failCreateLines = true
	ctx := context.Background()

	_, err := f.svc.Submit(ctx, userKey, nil, nil)
	require.ErrorIs(t, err, ErrLinesFailed)

	// the order row exists without lines; this intermediate state is
	// accepted, not rolled back
	orders, err := f.svc.ListByUser(userKey)
	require.NoError(t, err)
	require.Len(t, orders, 1)
	assert.Empty(t, orders[0].Items)

	// the cart was not cleared
	lines, err := f.cartSvc.Get(ctx, userKey)
	require.NoError(t, err)
	assert.Len(t, lines, 2)
}

func TestSubmit_ClearFailureKeepsOrderValid(t *testing.T) {
	f := newFixture()
	f.fillCart(t)
	ctx := context.Background()

	failing := &failingClearCart{Service: f.cartSvc, failClear: true}
	svc := NewService(f.repo, failing)

	// the clear failure is only logged; the order stands as created
	created, err := svc.Submit(ctx, userKey, nil, nil)
	require.NoError(t, err)
	assert.Equal(t, StatusPending, created.Status)
	require.Len(t, created.Items, 2)

	// the stale cart is left for the next refresh to correct
	lines, err := f.cartSvc.Get(ctx, userKey)
	require.NoError(t, err)
	assert.Len(t, lines, 2)
}

func TestSubmit_CreateFailureLeavesCartIntact(t *testing.T) {
	f := newFixture()
	f.fillCart(t)
	f.repo.failCreate = true
	ctx := context.Background()

	_, err := f.svc.Submit(ctx, userKey, nil, nil)
	require.ErrorIs(t, err, errStore)

	lines, err := f.cartSvc.Get(ctx, userKey)
	require.NoError(t, err)
	assert.Len(t, lines, 2)
}

func TestCancel(t *testing.T) {
	f := newFixture()
	f.fillCart(t)
	ctx := context.Background()

	created, err := f.svc.Submit(ctx, userKey, nil, nil)
	require.NoError(t, err)

	t.Run("other_user", func(t *testing.T) {
		_, err := f.svc.Cancel(ctx, "telegram_7", created.ID)
		assert.ErrorIs(t, err, ErrNotFound)
	})

	t.Run("pending_cancels", func(t *testing.T) {
		ord, err := f.svc.Cancel(ctx, userKey, created.ID)
		require.NoError(t, err)
		assert.Equal(t, StatusCancelled, ord.Status)
	})

	t.Run("non_pending_rejected", func(t *testing.T) {
		f.fillCart(t)
		second, err := f.svc.Submit(ctx, userKey, nil, nil)
		require.NoError(t, err)
		_, err = f.repo.UpdateStatus(second.ID, StatusConfirmed)
		require.NoError(t, err)

		_, err = f.svc.Cancel(ctx, userKey, second.ID)
		assert.ErrorIs(t, err, ErrNotCancellable)
	})
}
