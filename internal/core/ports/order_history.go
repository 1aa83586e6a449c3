package ports

import (
	"context"
	"time"

	"orderflow/internal/core/domain/model/kernel"
	"orderflow/internal/core/domain/model/order"
)

// StatusChange is one entry of an order's status history: the status
// entered, who moved the order there and when.
type StatusChange struct {
	Status    order.Status
	UpdatedBy string
	UpdatedAt time.Time
}

// OrderHistoryReader reads the statuses an order went through.
type OrderHistoryReader interface {
	// History returns the order's status changes oldest first. A missing
	// order yields errs.ObjectNotFoundError.
	History(ctx context.Context, creds Credentials, id kernel.OrderID) ([]StatusChange, error)
}
