package queries

import (
	"errors"

	"orderflow/internal/core/domain/model/kernel"
	"orderflow/internal/core/ports"
	"orderflow/internal/pkg/guard"
)

var ErrGetOrderQueryIsNotConstructed = errors.New(
	"GetOrderQuery must be created via NewGetOrderQuery constructor",
)

// GetOrderQuery reads one order from the store.
type GetOrderQuery struct {
	orderID     kernel.OrderID
	credentials ports.Credentials

	guard guard.ConstructorGuard
}

func NewGetOrderQuery(orderID kernel.OrderID, credentials ports.Credentials) (GetOrderQuery, error) {
	if err := orderID.Validate(); err != nil {
		return GetOrderQuery{}, err
	}
	return GetOrderQuery{
		orderID:     orderID,
		credentials: credentials,
		guard:       guard.NewConstructorGuard(),
	}, nil
}

// Validate ensures the query was created through the constructor.
func (q GetOrderQuery) Validate() error {
	return q.guard.Validate(ErrGetOrderQueryIsNotConstructed)
}

func (q GetOrderQuery) OrderID() kernel.OrderID        { return q.orderID }
func (q GetOrderQuery) Credentials() ports.Credentials { return q.credentials }
