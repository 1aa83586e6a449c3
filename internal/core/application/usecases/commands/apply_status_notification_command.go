package commands

import (
	"errors"

	"orderflow/internal/core/ports"
	"orderflow/internal/pkg/guard"
)

var ErrApplyStatusNotificationCommandIsNotConstructed = errors.New(
	"ApplyStatusNotificationCommand must be created via NewApplyStatusNotificationCommand constructor",
)

// ApplyStatusNotificationCommand hands a pushed status-change event to the
// board. The event is a hint that the order changed, not its new state.
type ApplyStatusNotificationCommand struct {
	event ports.StatusChanged

	guard guard.ConstructorGuard
}

// NewApplyStatusNotificationCommand validates the event's order id and status.
func NewApplyStatusNotificationCommand(event ports.StatusChanged) (ApplyStatusNotificationCommand, error) {
	if err := errors.Join(event.OrderID.Validate(), event.Status.Validate()); err != nil {
		return ApplyStatusNotificationCommand{}, err
	}
	return ApplyStatusNotificationCommand{event: event, guard: guard.NewConstructorGuard()}, nil
}

// Validate ensures the command was created through the constructor.
func (c ApplyStatusNotificationCommand) Validate() error {
	return c.guard.Validate(ErrApplyStatusNotificationCommandIsNotConstructed)
}

// Event returns the pushed event.
func (c ApplyStatusNotificationCommand) Event() ports.StatusChanged {
	return c.event
}
