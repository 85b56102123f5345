// Package memstore provides map-backed implementations of the users,
// catalog, and orders store interfaces. Tests run the services against it;
// a single mutex spans every transaction, giving the serializable
// read-modify-write behavior the PostgreSQL repos get from row locks.
package memstore

import (
	"sync"

	"github.com/hanifwid/go-shop-api/internal/catalog"
	"github.com/hanifwid/go-shop-api/internal/orders"
	"github.com/hanifwid/go-shop-api/internal/users"
)

// DB is the shared in-memory state. All three stores hang off one DB so an
// order transaction can reach users and products, as in the real schema.
type DB struct {
	mu sync.Mutex

	users       map[int64]users.User
	products    map[int64]catalog.Product
	orders      map[int64]orders.Order
	nextUser    int64
	nextProduct int64
	nextOrder   int64
}

func New() *DB {
	return &DB{
		users:       map[int64]users.User{},
		products:    map[int64]catalog.Product{},
		orders:      map[int64]orders.Order{},
		nextUser:    1,
		nextProduct: 1,
		nextOrder:   1,
	}
}

func (db *DB) Users() *UserStore       { return &UserStore{db: db} }
func (db *DB) Products() *ProductStore { return &ProductStore{db: db} }
func (db *DB) Orders() *OrderStore     { return &OrderStore{db: db} }

// SeedUser and SeedProduct insert fixture rows, assigning ids.
func (db *DB) SeedUser(u users.User) users.User {
	db.mu.Lock()
	defer db.mu.Unlock()
	u.ID = db.nextUser
	db.nextUser++
	db.users[u.ID] = u
	return u
}

func (db *DB) SeedProduct(p catalog.Product) catalog.Product {
	db.mu.Lock()
	defer db.mu.Unlock()
	p.ID = db.nextProduct
	db.nextProduct++
	db.products[p.ID] = p
	return p
}

// ProductQuantity reads a stock level directly, for assertions.
func (db *DB) ProductQuantity(id int64) int {
	db.mu.Lock()
	defer db.mu.Unlock()
	return db.products[id].Quantity
}

// OrderCount reports how many orders exist, for assertions.
func (db *DB) OrderCount() int {
	db.mu.Lock()
	defer db.mu.Unlock()
	return len(db.orders)
}

func cloneMap[K comparable, V any](m map[K]V) map[K]V {
	out := make(map[K]V, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}
