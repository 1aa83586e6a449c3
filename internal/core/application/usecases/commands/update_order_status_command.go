package commands

import (
	"errors"

	"orderflow/internal/core/domain/model/kernel"
	"orderflow/internal/core/domain/model/order"
	"orderflow/internal/core/ports"
	"orderflow/internal/pkg/errs"
	"orderflow/internal/pkg/guard"
)

var ErrUpdateOrderStatusCommandIsNotConstructed = errors.New(
	"UpdateOrderStatusCommand must be created via NewUpdateOrderStatusCommand constructor",
)

// UpdateOrderStatusCommand asks to move an order to a new status on behalf of
// an acting role.
//
// Example:
//
//	id, _ := kernel.NewOrderID(42)
//	cmd, err := NewUpdateOrderStatusCommand(id, order.Kitchen, order.Accepted, creds)
//	if err != nil {
//	    return fmt.Errorf("invalid request: %w", err)
//	}
//	result, err := handler.Handle(ctx, cmd)
type UpdateOrderStatusCommand struct {
	orderID     kernel.OrderID
	role        order.Role
	target      order.Status
	credentials ports.Credentials

	guard guard.ConstructorGuard
}

// NewUpdateOrderStatusCommand validates every field and joins the errors.
// The identity is required because it is recorded as modifiedBy.
func NewUpdateOrderStatusCommand(
	orderID kernel.OrderID,
	role order.Role,
	target order.Status,
	credentials ports.Credentials,
) (UpdateOrderStatusCommand, error) {
	if err := errors.Join(
		orderID.Validate(),
		role.Validate(),
		target.Validate(),
		validateIdentity(credentials),
	); err != nil {
		return UpdateOrderStatusCommand{}, err
	}

	return UpdateOrderStatusCommand{
		orderID:     orderID,
		role:        role,
		target:      target,
		credentials: credentials,
		guard:       guard.NewConstructorGuard(),
	}, nil
}

// Validate ensures the command was created through the constructor.
func (c UpdateOrderStatusCommand) Validate() error {
	return c.guard.Validate(ErrUpdateOrderStatusCommandIsNotConstructed)
}

func (c UpdateOrderStatusCommand) OrderID() kernel.OrderID          { return c.orderID }
func (c UpdateOrderStatusCommand) Role() order.Role                 { return c.role }
func (c UpdateOrderStatusCommand) Target() order.Status             { return c.target }
func (c UpdateOrderStatusCommand) Credentials() ports.Credentials { return c.credentials }

func validateIdentity(credentials ports.Credentials) error {
	if credentials.Identity == "" {
		return errs.NewValueIsRequiredError("identity")
	}
	return nil
}
