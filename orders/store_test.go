package orders

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/uptrace/bun"

	catalogx "github.com/aryansharma/shopassistant/catalog"
)

func newTestStore(t *testing.T) (*Store, *bun.DB) {
	t.Helper()

	db, err := NewSQLiteDB(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	require.NoError(t, Init(context.Background(), db))

	cat := catalogx.New([]catalogx.Product{
		{ID: "P1", Name: "Mouse", Category: "Electronics", Price: 19.99},
		{ID: "P2", Name: "Keyboard", Category: "Electronics", Price: 45.00},
		{ID: "P3", Name: "Free Sticker", Category: "Swag", Price: 0},
	})
	return NewStore(db, cat, "Aryan Sharma"), db
}

func countRows(t *testing.T, db *bun.DB, model any) int {
	t.Helper()
	n, err := db.NewSelect().Model(model).Count(context.Background())
	require.NoError(t, err)
	return n
}

func TestPlaceOrderComputesAndPersistsTotal(t *testing.T) {
	store, _ := newTestStore(t)
	ctx := context.Background()

	placed, err := store.PlaceOrder(ctx, []LineItem{
		{ProductID: "P1", Quantity: 2},
		{ProductID: "P2", Quantity: 1},
	})
	require.NoError(t, err)
	assert.InDelta(t, 2*19.99+45.00, placed.TotalPrice, 1e-9)
	assert.NotEmpty(t, placed.OrderID)
	assert.Len(t, placed.Lines, 2)

	got, err := store.GetOrder(ctx, placed.OrderID)
	require.NoError(t, err)
	assert.Equal(t, "Aryan Sharma", got.UserID)
	assert.Equal(t, StatusProcessing, got.Status)
	assert.InDelta(t, placed.TotalPrice, got.TotalPrice, 1e-9)
	require.Len(t, got.Items, 2)
}

func TestGetOrderUsesStoredTotalAfterCatalogChange(t *testing.T) {
	db, err := NewSQLiteDB(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	require.NoError(t, Init(context.Background(), db))

	ctx := context.Background()
	store := NewStore(db, catalogx.New([]catalogx.Product{
		{ID: "P1", Name: "Mouse", Category: "Electronics", Price: 19.99},
	}), "u1")

	placed, err := store.PlaceOrder(ctx, []LineItem{{ProductID: "P1", Quantity: 2}})
	require.NoError(t, err)
	assert.InDelta(t, 39.98, placed.TotalPrice, 1e-9)

	// Price change after placement must not affect the stored total.
	store.resolver = catalogx.New([]catalogx.Product{
		{ID: "P1", Name: "Mouse", Category: "Electronics", Price: 99.99},
	})

	got, err := store.GetOrder(ctx, placed.OrderID)
	require.NoError(t, err)
	assert.InDelta(t, 39.98, got.TotalPrice, 1e-9)
	require.Len(t, got.Items, 1)
	assert.InDelta(t, 19.99, got.Items[0].Price, 1e-9)
}

func TestPlaceOrderUnknownProductWritesNothing(t *testing.T) {
	store, db := newTestStore(t)
	ctx := context.Background()

	_, err := store.PlaceOrder(ctx, []LineItem{
		{ProductID: "P1", Quantity: 1},
		{ProductID: "NOPE-1", Quantity: 1},
		{ProductID: "NOPE-2", Quantity: 3},
	})
	require.Error(t, err)

	var notFound *ProductNotFoundError
	require.ErrorAs(t, err, &notFound)
	assert.Equal(t, []string{"NOPE-1", "NOPE-2"}, notFound.IDs)

	assert.Zero(t, countRows(t, db, (*Order)(nil)))
	assert.Zero(t, countRows(t, db, (*OrderItem)(nil)))
}

func TestPlaceOrderValidation(t *testing.T) {
	store, db := newTestStore(t)
	ctx := context.Background()

	_, err := store.PlaceOrder(ctx, []LineItem{{ProductID: "P1", Quantity: 0}})
	assert.ErrorIs(t, err, ErrInvalidQuantity)

	_, err = store.PlaceOrder(ctx, []LineItem{{ProductID: "  ", Quantity: 1}})
	assert.ErrorIs(t, err, ErrMissingProduct)

	_, err = store.PlaceOrder(ctx, nil)
	assert.ErrorIs(t, err, ErrMissingProduct)

	assert.Zero(t, countRows(t, db, (*Order)(nil)))
	assert.Zero(t, countRows(t, db, (*OrderItem)(nil)))
}

func TestPlaceOrderZeroPriceProductIsValid(t *testing.T) {
	store, _ := newTestStore(t)

	placed, err := store.PlaceOrder(context.Background(), []LineItem{{ProductID: "P3", Quantity: 5}})
	require.NoError(t, err)
	assert.Zero(t, placed.TotalPrice)
}

func TestRemoveOrder(t *testing.T) {
	store, db := newTestStore(t)
	ctx := context.Background()

	_, err := store.RemoveOrder(ctx, "unknown-id")
	assert.ErrorIs(t, err, ErrOrderNotFound)

	placed, err := store.PlaceOrder(ctx, []LineItem{
		{ProductID: "P1", Quantity: 1},
		{ProductID: "P2", Quantity: 2},
	})
	require.NoError(t, err)
	require.Equal(t, 1, countRows(t, db, (*Order)(nil)))
	require.Equal(t, 2, countRows(t, db, (*OrderItem)(nil)))

	removed, err := store.RemoveOrder(ctx, placed.OrderID)
	require.NoError(t, err)
	assert.Equal(t, 2, removed)
	assert.Zero(t, countRows(t, db, (*Order)(nil)))
	assert.Zero(t, countRows(t, db, (*OrderItem)(nil)))
}

func TestListOrders(t *testing.T) {
	store, _ := newTestStore(t)
	ctx := context.Background()

	_, err := store.ListOrders(ctx)
	assert.ErrorIs(t, err, ErrNoOrders)

	base := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	var ids []string
	for i := 0; i < 3; i++ {
		tick := base.Add(time.Duration(i) * time.Minute)
		store.now = func() time.Time { return tick }
		placed, err := store.PlaceOrder(ctx, []LineItem{{ProductID: "P1", Quantity: 1}})
		require.NoError(t, err)
		ids = append(ids, placed.OrderID)
	}

	all, err := store.ListOrders(ctx)
	require.NoError(t, err)
	require.Len(t, all, 3)
	// newest first
	assert.Equal(t, ids[2], all[0].OrderID)
	assert.Equal(t, ids[1], all[1].OrderID)
	assert.Equal(t, ids[0], all[2].OrderID)
}

func TestRoundTrip(t *testing.T) {
	store, _ := newTestStore(t)
	ctx := context.Background()

	placed, err := store.PlaceOrder(ctx, []LineItem{{ProductID: "P2", Quantity: 1}})
	require.NoError(t, err)

	_, err = store.GetOrder(ctx, placed.OrderID)
	require.NoError(t, err)

	_, err = store.RemoveOrder(ctx, placed.OrderID)
	require.NoError(t, err)

	_, err = store.GetOrder(ctx, placed.OrderID)
	assert.ErrorIs(t, err, ErrOrderNotFound)
}
