package ports

import (
	"orderflow/internal/core/domain/model/kernel"
	"orderflow/internal/core/domain/model/order"
)

// OrderBoard is the locally held, converged view of orders shown on
// dashboards. Implementations must be safe for concurrent use.
type OrderBoard interface {
	// Get returns the held order, if any.
	Get(id kernel.OrderID) (order.Order, bool)

	// Put merges o into the board. It returns false and keeps the held
	// order when o would move the order backwards.
	Put(o order.Order) bool

	// Snapshot returns every held order, ordered by id.
	Snapshot() []order.Order

	// IDs returns the ids of every held order, ascending.
	IDs() []kernel.OrderID
}
