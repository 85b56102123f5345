// Package orders owns the order lifecycle and the inventory accounting
// coupled to it. Placing an order reserves product stock, and exactly one
// of cancellation or deletion releases that reservation again. Each
// lifecycle operation is a single store transaction.
package orders

import (
	"context"
	"fmt"
	"time"

	"github.com/hanifwid/go-shop-api/internal/apperr"
)

type Service struct {
	store Store
	now   func() time.Time
}

func NewService(store Store) *Service {
	return &Service{store: store, now: time.Now}
}

// Place reserves stock and creates a PENDING order as one atomic unit.
// The stock check and the decrement both use the product row as locked at
// the start of the transaction, so two placements racing for the same
// stock serialize and at most one wins.
func (s *Service) Place(ctx context.Context, userID, productID int64, quantity int) (OrderDetail, error) {
	if quantity < 1 {
		return OrderDetail{}, fmt.Errorf("order quantity must be at least 1, got %d", quantity)
	}

	var det OrderDetail
	err := s.store.InTx(ctx, func(tx Tx) error {
		u, err := tx.UserByID(ctx, userID)
		if err != nil {
			return err
		}
		p, err := tx.ProductForUpdate(ctx, productID)
		if err != nil {
			return err
		}
		if p.Quantity < quantity {
			return &apperr.InsufficientStockError{Available: p.Quantity, Requested: quantity}
		}
		if err := tx.SetProductQuantity(ctx, p.ID, p.Quantity-quantity); err != nil {
			return err
		}

		o := Order{
			UserID:    userID,
			ProductID: productID,
			Quantity:  quantity,
			Status:    StatusPending,
			CreatedAt: s.now().UTC(),
		}
		id, err := tx.InsertOrder(ctx, o)
		if err != nil {
			return err
		}
		o.ID = id
		det = OrderDetail{Order: o, UserName: u.Name, ProductName: p.Name}
		return nil
	})
	if err != nil {
		return OrderDetail{}, err
	}
	return det, nil
}

// StatusChange reports the outcome of UpdateStatus: the updated order plus
// what the transition did to stock, for callers that publish events.
type StatusChange struct {
	Detail    OrderDetail
	From      Status
	Restocked int
}

// Deletion reports the outcome of Delete.
type Deletion struct {
	Order     Order
	Restocked int
}

// UpdateStatus persists the new status and applies the stock side effect
// the transition table prescribes. Entering CANCELLED releases the
// reservation once; all other transitions leave stock alone.
func (s *Service) UpdateStatus(ctx context.Context, id int64, status Status) (StatusChange, error) {
	var ch StatusChange
	err := s.store.InTx(ctx, func(tx Tx) error {
		o, err := tx.OrderForUpdate(ctx, id)
		if err != nil {
			return err
		}
		p, err := tx.ProductForUpdate(ctx, o.ProductID)
		if err != nil {
			return err
		}
		restocked := 0
		if Restocks(o.Status, status) {
			if err := tx.SetProductQuantity(ctx, p.ID, p.Quantity+o.Quantity); err != nil {
				return err
			}
			restocked = o.Quantity
		}
		if err := tx.SetOrderStatus(ctx, id, status); err != nil {
			return err
		}

		u, err := tx.UserByID(ctx, o.UserID)
		if err != nil {
			return err
		}
		from := o.Status
		o.Status = status
		ch = StatusChange{
			Detail:    OrderDetail{Order: o, UserName: u.Name, ProductName: p.Name},
			From:      from,
			Restocked: restocked,
		}
		return nil
	})
	if err != nil {
		return StatusChange{}, err
	}
	return ch, nil
}

// Delete removes the order. A not-yet-cancelled order still holds its
// reservation, so its stock is released first; a cancelled order was
// already released on cancellation and must not be credited again.
func (s *Service) Delete(ctx context.Context, id int64) (Deletion, error) {
	var del Deletion
	err := s.store.InTx(ctx, func(tx Tx) error {
		o, err := tx.OrderForUpdate(ctx, id)
		if err != nil {
			return err
		}
		restocked := 0
		if Restocks(o.Status, StatusCancelled) {
			p, err := tx.ProductForUpdate(ctx, o.ProductID)
			if err != nil {
				return err
			}
			if err := tx.SetProductQuantity(ctx, p.ID, p.Quantity+o.Quantity); err != nil {
				return err
			}
			restocked = o.Quantity
		}
		if err := tx.DeleteOrder(ctx, id); err != nil {
			return err
		}
		del = Deletion{Order: o, Restocked: restocked}
		return nil
	})
	if err != nil {
		return Deletion{}, err
	}
	return del, nil
}

func (s *Service) Get(ctx context.Context, id int64) (OrderDetail, error) {
	return s.store.OrderDetail(ctx, id)
}

// List returns matching orders; no match is an empty slice, not an error.
func (s *Service) List(ctx context.Context, f Filter) ([]OrderDetail, error) {
	return s.store.Orders(ctx, f)
}
