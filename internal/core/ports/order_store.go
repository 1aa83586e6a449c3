package ports

import (
	"context"

	"orderflow/internal/core/domain/model/kernel"
	"orderflow/internal/core/domain/model/order"
)

// OrderStore is the source of truth for orders. Every call carries the acting
// credentials; a store that checks them reports rejection with an error
// wrapping ErrUnauthorized.
type OrderStore interface {
	// Get reads one order. A missing order yields errs.ObjectNotFoundError.
	Get(ctx context.Context, creds Credentials, id kernel.OrderID) (order.Order, error)

	// UpdateStatus writes the status carried by updated and returns the
	// stored order. The write only applies while the stored order is still in
	// status from; otherwise it fails with an error wrapping ErrStatusConflict.
	// Stores fronting a backend leave that check to the backend.
	UpdateStatus(ctx context.Context, creds Credentials, updated order.Order, from order.Status) (order.Order, error)

	// Create stores a new order and returns it with its assigned id.
	Create(ctx context.Context, creds Credentials, created order.Order) (order.Order, error)

	// ListByStatus returns the orders currently in any of statuses, oldest first.
	ListByStatus(ctx context.Context, creds Credentials, statuses []order.Status) ([]order.Order, error)

	// ListByUser returns the orders placed by the user creds belong to,
	// newest first.
	ListByUser(ctx context.Context, creds Credentials) ([]order.Order, error)
}
