package orders

import "fmt"

type Status string

const (
	StatusPending    Status = "PENDING"
	StatusConfirmed  Status = "CONFIRMED"
	StatusProcessing Status = "PROCESSING"
	StatusShipped    Status = "SHIPPED"
	StatusDelivered  Status = "DELIVERED"
	StatusCancelled  Status = "CANCELLED"
)

var allStatuses = []Status{
	StatusPending, StatusConfirmed, StatusProcessing,
	StatusShipped, StatusDelivered, StatusCancelled,
}

func (s Status) Valid() bool {
	for _, v := range allStatuses {
		if s == v {
			return true
		}
	}
	return false
}

func ParseStatus(s string) (Status, error) {
	st := Status(s)
	if !st.Valid() {
		return "", fmt.Errorf("unknown order status: %q", s)
	}
	return st, nil
}

// Any status may follow any status; the system validates no transition
// legality. The only transition with a stock side effect is entering
// CANCELLED from a not-yet-cancelled status, which returns the order's
// reserved quantity to the product. Re-cancelling an already cancelled
// order is in the table as a no-op, so restoration happens at most once.
type transition struct{ From, To Status }

var restockOnTransition = map[transition]bool{}

func init() {
	for _, from := range allStatuses {
		if from == StatusCancelled {
			continue
		}
		restockOnTransition[transition{From: from, To: StatusCancelled}] = true
	}
}

// Restocks reports whether moving an order from one status to another
// releases its reservation back to product stock. Deleting an order in
// status `from` follows the (from, CANCELLED) entry: removal of a live
// order releases its reservation, removal of a cancelled one does not.
func Restocks(from, to Status) bool {
	return restockOnTransition[transition{From: from, To: to}]
}
