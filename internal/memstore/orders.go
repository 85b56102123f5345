package memstore

import (
	"context"
	"sort"

	"github.com/hanifwid/go-shop-api/internal/apperr"
	"github.com/hanifwid/go-shop-api/internal/catalog"
	"github.com/hanifwid/go-shop-api/internal/orders"
	"github.com/hanifwid/go-shop-api/internal/users"
)

type OrderStore struct{ db *DB }

var _ orders.Store = (*OrderStore)(nil)

// InTx holds the one mutex for the whole transaction and snapshots state up
// front, so a failing fn rolls back and concurrent transactions serialize.
func (s *OrderStore) InTx(ctx context.Context, fn func(tx orders.Tx) error) error {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()

	usersSnap := cloneMap(s.db.users)
	productsSnap := cloneMap(s.db.products)
	ordersSnap := cloneMap(s.db.orders)
	nextOrderSnap := s.db.nextOrder

	if err := fn(&orderTx{db: s.db}); err != nil {
		s.db.users = usersSnap
		s.db.products = productsSnap
		s.db.orders = ordersSnap
		s.db.nextOrder = nextOrderSnap
		return err
	}
	return nil
}

type orderTx struct{ db *DB }

var _ orders.Tx = (*orderTx)(nil)

func (t *orderTx) UserByID(ctx context.Context, id int64) (users.User, error) {
	u, ok := t.db.users[id]
	if !ok {
		return users.User{}, apperr.NotFound("user", id)
	}
	return u, nil
}

func (t *orderTx) ProductForUpdate(ctx context.Context, id int64) (catalog.Product, error) {
	p, ok := t.db.products[id]
	if !ok {
		return catalog.Product{}, apperr.NotFound("product", id)
	}
	return p, nil
}

func (t *orderTx) SetProductQuantity(ctx context.Context, id int64, quantity int) error {
	p, ok := t.db.products[id]
	if !ok {
		return apperr.NotFound("product", id)
	}
	p.Quantity = quantity
	t.db.products[id] = p
	return nil
}

func (t *orderTx) InsertOrder(ctx context.Context, o orders.Order) (int64, error) {
	o.ID = t.db.nextOrder
	t.db.nextOrder++
	t.db.orders[o.ID] = o
	return o.ID, nil
}

func (t *orderTx) OrderForUpdate(ctx context.Context, id int64) (orders.Order, error) {
	o, ok := t.db.orders[id]
	if !ok {
		return orders.Order{}, apperr.NotFound("order", id)
	}
	return o, nil
}

func (t *orderTx) SetOrderStatus(ctx context.Context, id int64, status orders.Status) error {
	o, ok := t.db.orders[id]
	if !ok {
		return apperr.NotFound("order", id)
	}
	o.Status = status
	t.db.orders[id] = o
	return nil
}

func (t *orderTx) DeleteOrder(ctx context.Context, id int64) error {
	if _, ok := t.db.orders[id]; !ok {
		return apperr.NotFound("order", id)
	}
	delete(t.db.orders, id)
	return nil
}

func (s *OrderStore) detail(o orders.Order) orders.OrderDetail {
	return orders.OrderDetail{
		Order:       o,
		UserName:    s.db.users[o.UserID].Name,
		ProductName: s.db.products[o.ProductID].Name,
	}
}

func (s *OrderStore) OrderDetail(ctx context.Context, id int64) (orders.OrderDetail, error) {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()
	o, ok := s.db.orders[id]
	if !ok {
		return orders.OrderDetail{}, apperr.NotFound("order", id)
	}
	return s.detail(o), nil
}

func (s *OrderStore) Orders(ctx context.Context, f orders.Filter) ([]orders.OrderDetail, error) {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()
	out := []orders.OrderDetail{}
	for _, o := range s.db.orders {
		if f.UserID != nil && o.UserID != *f.UserID {
			continue
		}
		if f.Status != nil && o.Status != *f.Status {
			continue
		}
		out = append(out, s.detail(o))
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}
