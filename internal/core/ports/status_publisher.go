package ports

import (
	"context"
	"time"

	"orderflow/internal/core/domain/model/kernel"
	"orderflow/internal/core/domain/model/order"
)

// StatusChanged tells subscribers that an order moved. Subscribers treat it
// as a hint to re-read the order, never as the order's state.
type StatusChanged struct {
	EventID   kernel.UUID
	OrderID   kernel.OrderID
	Status    order.Status
	UpdatedAt time.Time
	UpdatedBy string
}

// NewStatusChanged builds the event for a stored order.
func NewStatusChanged(o order.Order) StatusChanged {
	return StatusChanged{
		EventID:   kernel.NewUUID(),
		OrderID:   o.ID(),
		Status:    o.CurrentStatus(),
		UpdatedAt: o.ModifiedAt(),
		UpdatedBy: o.ModifiedBy(),
	}
}

// StatusPublisher fans status changes out to every open dashboard.
type StatusPublisher interface {
	Publish(ctx context.Context, event StatusChanged) error
}
