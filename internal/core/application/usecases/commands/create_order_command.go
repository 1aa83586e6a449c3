package commands

import (
	"errors"
	"time"

	"orderflow/internal/core/domain/model/order"
	"orderflow/internal/core/ports"
	"orderflow/internal/pkg/errs"
	"orderflow/internal/pkg/guard"
)

var ErrCreateOrderCommandIsNotConstructed = errors.New(
	"CreateOrderCommand must be created via NewCreateOrderCommand constructor",
)

// CreateOrderCommand represents a request to place a new order, by a client at
// checkout or by staff on a client's behalf.
//
// Example:
//
//	items := []order.Item{{ProductID: 3, Quantity: 1, UnitPrice: 1450}}
//	cmd, err := NewCreateOrderCommand(userID, items, nil, creds)
//	if err != nil {
//	    return fmt.Errorf("invalid order data: %w", err)
//	}
//	result, err := handler.Handle(ctx, cmd)
type CreateOrderCommand struct { //nolint:recvcheck //using for validation
	userID      int64
	items       []order.Item
	scheduledAt *time.Time
	credentials ports.Credentials

	guard guard.ConstructorGuard
}

// NewCreateOrderCommand validates the request shape. The scheduling rule is
// checked by the handler against the current time.
func NewCreateOrderCommand(
	userID int64,
	items []order.Item,
	scheduledAt *time.Time,
	credentials ports.Credentials,
) (CreateOrderCommand, error) {
	cmd := CreateOrderCommand{
		guard: guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		cmd.setUserID(userID),
		cmd.setItems(items),
		validateIdentity(credentials),
	); err != nil {
		return CreateOrderCommand{}, err
	}

	cmd.credentials = credentials
	if scheduledAt != nil {
		at := *scheduledAt
		cmd.scheduledAt = &at
	}
	return cmd, nil
}

// Validate ensures the command was created through the constructor.
func (c CreateOrderCommand) Validate() error {
	return c.guard.Validate(ErrCreateOrderCommandIsNotConstructed)
}

func (c CreateOrderCommand) UserID() int64                  { return c.userID }
func (c CreateOrderCommand) Items() []order.Item            { return append([]order.Item(nil), c.items...) }
func (c CreateOrderCommand) ScheduledAt() *time.Time        { return c.scheduledAt }
func (c CreateOrderCommand) Credentials() ports.Credentials { return c.credentials }

func (c *CreateOrderCommand) setUserID(userID int64) error {
	if userID <= 0 {
		return errs.NewValueIsRequiredError("userId")
	}
	c.userID = userID
	return nil
}

func (c *CreateOrderCommand) setItems(items []order.Item) error {
	if len(items) == 0 {
		return errs.NewValueIsRequiredError("items")
	}
	c.items = append([]order.Item(nil), items...)
	return nil
}
