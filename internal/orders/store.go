package orders

import (
	"context"

	"github.com/hanifwid/go-shop-api/internal/catalog"
	"github.com/hanifwid/go-shop-api/internal/users"
)

// Tx is the transactional surface a single lifecycle operation runs
// against. ProductForUpdate and OrderForUpdate must lock the row for the
// remainder of the transaction, so a concurrent lifecycle operation on the
// same product observes either none or all of this operation's writes.
type Tx interface {
	UserByID(ctx context.Context, id int64) (users.User, error)
	ProductForUpdate(ctx context.Context, id int64) (catalog.Product, error)
	SetProductQuantity(ctx context.Context, id int64, quantity int) error
	InsertOrder(ctx context.Context, o Order) (int64, error)
	OrderForUpdate(ctx context.Context, id int64) (Order, error)
	SetOrderStatus(ctx context.Context, id int64, status Status) error
	DeleteOrder(ctx context.Context, id int64) error
}

// Store provides transactions for lifecycle operations and plain reads for
// projections. InTx commits when fn returns nil and rolls back otherwise;
// callers can never observe a half-applied lifecycle operation.
type Store interface {
	InTx(ctx context.Context, fn func(tx Tx) error) error
	OrderDetail(ctx context.Context, id int64) (OrderDetail, error)
	Orders(ctx context.Context, f Filter) ([]OrderDetail, error)
}
