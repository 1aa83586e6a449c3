package queries

import (
	"errors"
	"time"

	"orderflow/internal/core/domain/model/kernel"
	"orderflow/internal/core/domain/model/order"
	"orderflow/internal/core/ports"
	"orderflow/internal/pkg/guard"
)

var (
	ErrGetOrderHistoryQueryIsNotConstructed = errors.New(
		"GetOrderHistoryQuery must be created via NewGetOrderHistoryQuery constructor",
	)
)

// GetOrderHistoryQuery retrieves every status an order went through.
//
// Example:
//
//	id, _ := kernel.NewOrderID(42)
//	query, _ := NewGetOrderHistoryQuery(id, creds)
//	handler := NewGetOrderHistoryQueryHandler(reader, refresher)
//
//	result, err := handler.Handle(ctx, query)
//	if err != nil {
//	    return fmt.Errorf("failed to get history: %w", err)
//	}
//
//	for _, e := range result.Entries {
//	    fmt.Printf("%s %s by %s\n", e.UpdatedAt.Format(time.Kitchen), e.Status, e.UpdatedBy)
//	}
type GetOrderHistoryQuery struct {
	orderID     kernel.OrderID
	credentials ports.Credentials

	guard guard.ConstructorGuard
}

// NewGetOrderHistoryQuery creates a history query for a stored order.
func NewGetOrderHistoryQuery(orderID kernel.OrderID, credentials ports.Credentials) (GetOrderHistoryQuery, error) {
	if err := orderID.Validate(); err != nil {
		return GetOrderHistoryQuery{}, err
	}
	return GetOrderHistoryQuery{orderID: orderID, credentials: credentials, guard: guard.NewConstructorGuard()}, nil
}

// Validate ensures the query was created through the constructor.
// Returns ErrGetOrderHistoryQueryIsNotConstructed if validation fails.
func (q GetOrderHistoryQuery) Validate() error {
	return q.guard.Validate(ErrGetOrderHistoryQueryIsNotConstructed)
}

func (q GetOrderHistoryQuery) OrderID() kernel.OrderID        { return q.orderID }
func (q GetOrderHistoryQuery) Credentials() ports.Credentials { return q.credentials }

// GetOrderHistoryQueryResponse is one history entry: the status entered, who
// moved the order there and when.
type GetOrderHistoryQueryResponse struct {
	Status    order.Status
	UpdatedBy string
	UpdatedAt time.Time
}
