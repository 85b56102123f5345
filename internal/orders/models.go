package orders

import "time"

type Order struct {
	ID        int64
	UserID    int64
	ProductID int64
	Quantity  int
	Status    Status
	CreatedAt time.Time
}

// OrderDetail is the read shape: the bare order plus the linked user and
// product display names, assembled by a read-side join. Nothing here is
// stored state.
type OrderDetail struct {
	Order
	UserName    string
	ProductName string
}

// Filter narrows order listings. Nil fields mean "any".
type Filter struct {
	UserID *int64
	Status *Status
}
