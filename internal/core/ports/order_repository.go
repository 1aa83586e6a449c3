package ports

import (
	"context"

	"orderflow/internal/core/domain/model/kernel"
	"orderflow/internal/core/domain/model/order"
)

// OrderRepository defines the database persistence contract for orders.
// It backs the OrderStore when orders live in this service's own database.
type OrderRepository interface {
	// Add persists a new order and returns it with the id the database assigned.
	Add(ctx context.Context, aggregate order.Order) (order.Order, error)

	// Update persists the status and modification fields of a stored order
	// whose status is still from. Returns errs.ObjectNotFoundError when the
	// order does not exist and *StatusConflictError when its status moved on.
	Update(ctx context.Context, aggregate order.Order, from order.Status) error

	// Get retrieves an order by id.
	Get(ctx context.Context, id kernel.OrderID) (order.Order, error)

	// ListByStatus retrieves the orders in any of statuses ordered by creation.
	ListByStatus(ctx context.Context, statuses []order.Status) ([]order.Order, error)

	// ListByCreator retrieves the orders created under identity, newest first.
	ListByCreator(ctx context.Context, identity string) ([]order.Order, error)
}
