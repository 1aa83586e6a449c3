package queries

import (
	"context"
	"errors"

	"orderflow/internal/core/domain/model/order"
	"orderflow/internal/pkg/guard"
)

var ErrGetAllowedTransitionsQueryIsNotConstructed = errors.New(
	"GetAllowedTransitionsQuery must be created via NewGetAllowedTransitionsQuery constructor",
)

// GetAllowedTransitionsQuery asks which statuses a role may move an order to
// from its current status. Dashboards use it to build their action buttons.
//
// Example:
//
//	query, err := NewGetAllowedTransitionsQuery(order.Waiter, order.DeliveredUnpaid)
//	views, _ := NewGetAllowedTransitionsQueryHandler().Handle(ctx, query)
//	// views: DY "Delivered - Paid", CA "Cancelled"
type GetAllowedTransitionsQuery struct {
	role    order.Role
	current order.Status

	guard guard.ConstructorGuard
}

// NewGetAllowedTransitionsQuery validates role and current status.
func NewGetAllowedTransitionsQuery(role order.Role, current order.Status) (GetAllowedTransitionsQuery, error) {
	if err := errors.Join(role.Validate(), current.Validate()); err != nil {
		return GetAllowedTransitionsQuery{}, err
	}
	return GetAllowedTransitionsQuery{
		role:    role,
		current: current,
		guard:   guard.NewConstructorGuard(),
	}, nil
}

// Validate ensures the query was created through the constructor.
func (q GetAllowedTransitionsQuery) Validate() error {
	return q.guard.Validate(ErrGetAllowedTransitionsQueryIsNotConstructed)
}

func (q GetAllowedTransitionsQuery) Role() order.Role      { return q.role }
func (q GetAllowedTransitionsQuery) Current() order.Status { return q.current }

// GetAllowedTransitionsQueryHandler answers from the transition table.
type GetAllowedTransitionsQueryHandler struct{}

func NewGetAllowedTransitionsQueryHandler() GetAllowedTransitionsQueryHandler {
	return GetAllowedTransitionsQueryHandler{}
}

// Handle returns the allowed next statuses in lifecycle order; an empty
// slice when the role has no move from the current status.
func (h GetAllowedTransitionsQueryHandler) Handle(
	_ context.Context,
	query GetAllowedTransitionsQuery,
) ([]StatusView, error) {
	if err := query.Validate(); err != nil {
		return nil, err
	}
	return statusViews(order.AllowedTransitions(query.Role(), query.Current()))
}
