package orders_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hanifwid/go-shop-api/internal/apperr"
	"github.com/hanifwid/go-shop-api/internal/catalog"
	"github.com/hanifwid/go-shop-api/internal/memstore"
	"github.com/hanifwid/go-shop-api/internal/orders"
	"github.com/hanifwid/go-shop-api/internal/users"
)

type env struct {
	db      *memstore.DB
	svc     *orders.Service
	user    users.User
	product catalog.Product
}

func newEnv(t *testing.T, stock int) *env {
	t.Helper()
	db := memstore.New()
	return &env{
		db:  db,
		svc: orders.NewService(db.Orders()),
		user: db.SeedUser(users.User{
			Name: "Alice", Email: "alice@example.com", Password: "pw", Role: users.RoleUser,
		}),
		product: db.SeedProduct(catalog.Product{
			Name: "Keyboard", Quantity: stock, Cost: decimal.NewFromInt(49),
		}),
	}
}

func TestPlace_ReservesStockAndCreatesPendingOrder(t *testing.T) {
	e := newEnv(t, 10)
	start := time.Now()

	det, err := e.svc.Place(context.Background(), e.user.ID, e.product.ID, 3)
	require.NoError(t, err)

	assert.Equal(t, 7, e.db.ProductQuantity(e.product.ID))
	assert.Equal(t, orders.StatusPending, det.Status)
	assert.Equal(t, 3, det.Quantity)
	assert.Equal(t, e.user.ID, det.UserID)
	assert.Equal(t, e.product.ID, det.ProductID)
	assert.Equal(t, "Alice", det.UserName)
	assert.Equal(t, "Keyboard", det.ProductName)
	assert.False(t, det.CreatedAt.Before(start.UTC().Add(-time.Second)))
}

func TestPlace_InsufficientStock_LeavesEverythingUntouched(t *testing.T) {
	e := newEnv(t, 2)

	_, err := e.svc.Place(context.Background(), e.user.ID, e.product.ID, 3)

	require.Error(t, err)
	var ise *apperr.InsufficientStockError
	require.ErrorAs(t, err, &ise)
	assert.Equal(t, 2, ise.Available)
	assert.Equal(t, 3, ise.Requested)
	assert.Equal(t, 2, e.db.ProductQuantity(e.product.ID))
	assert.Equal(t, 0, e.db.OrderCount())
}

func TestPlace_ExactStockDrainsToZero(t *testing.T) {
	e := newEnv(t, 4)

	_, err := e.svc.Place(context.Background(), e.user.ID, e.product.ID, 4)

	require.NoError(t, err)
	assert.Equal(t, 0, e.db.ProductQuantity(e.product.ID))
}

func TestPlace_UnknownUserOrProduct(t *testing.T) {
	e := newEnv(t, 10)

	_, err := e.svc.Place(context.Background(), 999, e.product.ID, 1)
	assert.True(t, apperr.IsNotFound(err))

	_, err = e.svc.Place(context.Background(), e.user.ID, 999, 1)
	assert.True(t, apperr.IsNotFound(err))

	assert.Equal(t, 10, e.db.ProductQuantity(e.product.ID))
	assert.Equal(t, 0, e.db.OrderCount())
}

func TestPlace_RejectsNonPositiveQuantity(t *testing.T) {
	e := newEnv(t, 10)

	_, err := e.svc.Place(context.Background(), e.user.ID, e.product.ID, 0)
	assert.Error(t, err)
	_, err = e.svc.Place(context.Background(), e.user.ID, e.product.ID, -2)
	assert.Error(t, err)
	assert.Equal(t, 10, e.db.ProductQuantity(e.product.ID))
}

func TestCancel_RestoresStockExactlyOnce(t *testing.T) {
	e := newEnv(t, 10)
	ctx := context.Background()

	det, err := e.svc.Place(ctx, e.user.ID, e.product.ID, 4)
	require.NoError(t, err)
	require.Equal(t, 6, e.db.ProductQuantity(e.product.ID))

	ch, err := e.svc.UpdateStatus(ctx, det.ID, orders.StatusCancelled)
	require.NoError(t, err)
	assert.Equal(t, orders.StatusPending, ch.From)
	assert.Equal(t, orders.StatusCancelled, ch.Detail.Status)
	assert.Equal(t, 4, ch.Restocked)
	assert.Equal(t, 10, e.db.ProductQuantity(e.product.ID))

	// cancelling again is a status no-op and must not double-restore
	ch, err = e.svc.UpdateStatus(ctx, det.ID, orders.StatusCancelled)
	require.NoError(t, err)
	assert.Equal(t, 0, ch.Restocked)
	assert.Equal(t, 10, e.db.ProductQuantity(e.product.ID))
}

func TestUpdateStatus_OrdinaryTransitionsDoNotTouchStock(t *testing.T) {
	e := newEnv(t, 10)
	ctx := context.Background()

	det, err := e.svc.Place(ctx, e.user.ID, e.product.ID, 2)
	require.NoError(t, err)

	for _, next := range []orders.Status{
		orders.StatusConfirmed, orders.StatusProcessing,
		orders.StatusShipped, orders.StatusDelivered,
	} {
		ch, err := e.svc.UpdateStatus(ctx, det.ID, next)
		require.NoError(t, err)
		assert.Equal(t, next, ch.Detail.Status)
		assert.Equal(t, 0, ch.Restocked)
		assert.Equal(t, 8, e.db.ProductQuantity(e.product.ID))
	}
}

func TestUpdateStatus_CancelAfterDeliveryStillRestores(t *testing.T) {
	e := newEnv(t, 5)
	ctx := context.Background()

	det, err := e.svc.Place(ctx, e.user.ID, e.product.ID, 5)
	require.NoError(t, err)

	_, err = e.svc.UpdateStatus(ctx, det.ID, orders.StatusDelivered)
	require.NoError(t, err)

	ch, err := e.svc.UpdateStatus(ctx, det.ID, orders.StatusCancelled)
	require.NoError(t, err)
	assert.Equal(t, 5, ch.Restocked)
	assert.Equal(t, 5, e.db.ProductQuantity(e.product.ID))
}

func TestUpdateStatus_UnknownOrder(t *testing.T) {
	e := newEnv(t, 10)

	_, err := e.svc.UpdateStatus(context.Background(), 42, orders.StatusShipped)
	assert.True(t, apperr.IsNotFound(err))
}

func TestDelete_LiveOrderRestoresStock(t *testing.T) {
	e := newEnv(t, 10)
	ctx := context.Background()

	det, err := e.svc.Place(ctx, e.user.ID, e.product.ID, 3)
	require.NoError(t, err)
	require.Equal(t, 7, e.db.ProductQuantity(e.product.ID))

	del, err := e.svc.Delete(ctx, det.ID)
	require.NoError(t, err)
	assert.Equal(t, 3, del.Restocked)
	assert.Equal(t, 10, e.db.ProductQuantity(e.product.ID))
	assert.Equal(t, 0, e.db.OrderCount())

	_, err = e.svc.Get(ctx, det.ID)
	assert.True(t, apperr.IsNotFound(err))
}

func TestDelete_CancelledOrderDoesNotDoubleCredit(t *testing.T) {
	e := newEnv(t, 10)
	ctx := context.Background()

	det, err := e.svc.Place(ctx, e.user.ID, e.product.ID, 3)
	require.NoError(t, err)
	_, err = e.svc.UpdateStatus(ctx, det.ID, orders.StatusCancelled)
	require.NoError(t, err)
	require.Equal(t, 10, e.db.ProductQuantity(e.product.ID))

	del, err := e.svc.Delete(ctx, det.ID)
	require.NoError(t, err)
	assert.Equal(t, 0, del.Restocked)
	assert.Equal(t, 10, e.db.ProductQuantity(e.product.ID))
	assert.Equal(t, 0, e.db.OrderCount())
}

func TestDelete_UnknownOrder(t *testing.T) {
	e := newEnv(t, 10)

	_, err := e.svc.Delete(context.Background(), 7)
	assert.True(t, apperr.IsNotFound(err))
}

func TestPlaceThenCancel_RoundTrip(t *testing.T) {
	e := newEnv(t, 10)
	ctx := context.Background()

	det, err := e.svc.Place(ctx, e.user.ID, e.product.ID, 3)
	require.NoError(t, err)
	assert.Equal(t, 7, e.db.ProductQuantity(e.product.ID))

	_, err = e.svc.UpdateStatus(ctx, det.ID, orders.StatusCancelled)
	require.NoError(t, err)
	assert.Equal(t, 10, e.db.ProductQuantity(e.product.ID))
}

func TestConcurrentPlacements_ExactlyOneWins(t *testing.T) {
	e := newEnv(t, 10)
	ctx := context.Background()

	var wg sync.WaitGroup
	errs := make([]error, 2)
	for i := 0; i < 2; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, errs[i] = e.svc.Place(ctx, e.user.ID, e.product.ID, 6)
		}(i)
	}
	wg.Wait()

	var okCount, stockCount int
	for _, err := range errs {
		switch {
		case err == nil:
			okCount++
		case apperr.IsInsufficientStock(err):
			stockCount++
		default:
			t.Fatalf("unexpected error: %v", err)
		}
	}
	assert.Equal(t, 1, okCount)
	assert.Equal(t, 1, stockCount)
	assert.Equal(t, 4, e.db.ProductQuantity(e.product.ID))
	assert.Equal(t, 1, e.db.OrderCount())
}

func TestList_FiltersAndEmptyResults(t *testing.T) {
	e := newEnv(t, 20)
	ctx := context.Background()
	bob := e.db.SeedUser(users.User{Name: "Bob", Email: "bob@example.com", Password: "pw", Role: users.RoleUser})

	first, err := e.svc.Place(ctx, e.user.ID, e.product.ID, 1)
	require.NoError(t, err)
	second, err := e.svc.Place(ctx, bob.ID, e.product.ID, 2)
	require.NoError(t, err)
	_, err = e.svc.UpdateStatus(ctx, second.ID, orders.StatusShipped)
	require.NoError(t, err)

	all, err := e.svc.List(ctx, orders.Filter{})
	require.NoError(t, err)
	assert.Len(t, all, 2)

	byUser, err := e.svc.List(ctx, orders.Filter{UserID: &bob.ID})
	require.NoError(t, err)
	require.Len(t, byUser, 1)
	assert.Equal(t, second.ID, byUser[0].ID)
	assert.Equal(t, "Bob", byUser[0].UserName)

	shipped := orders.StatusShipped
	byStatus, err := e.svc.List(ctx, orders.Filter{Status: &shipped})
	require.NoError(t, err)
	require.Len(t, byStatus, 1)
	assert.Equal(t, second.ID, byStatus[0].ID)

	pending := orders.StatusPending
	both, err := e.svc.List(ctx, orders.Filter{UserID: &first.UserID, Status: &pending})
	require.NoError(t, err)
	require.Len(t, both, 1)
	assert.Equal(t, first.ID, both[0].ID)

	// a user with no orders gets an empty slice, not an error
	nobody := int64(12345)
	empty, err := e.svc.List(ctx, orders.Filter{UserID: &nobody})
	require.NoError(t, err)
	assert.Empty(t, empty)
}

func TestGet_ReturnsDenormalizedNames(t *testing.T) {
	e := newEnv(t, 10)
	ctx := context.Background()

	det, err := e.svc.Place(ctx, e.user.ID, e.product.ID, 1)
	require.NoError(t, err)

	got, err := e.svc.Get(ctx, det.ID)
	require.NoError(t, err)
	assert.Equal(t, "Alice", got.UserName)
	assert.Equal(t, "Keyboard", got.ProductName)
	assert.Equal(t, det.ID, got.ID)
}
