package order

import (
	"errors"
	"fmt"
)

var (
	// ErrUnknownStatus is returned for a status code outside the catalog.
	ErrUnknownStatus = errors.New("unknown status")

	// ErrInvalidTransition is returned when the acting role may not move the
	// order from its current status to the requested one.
	ErrInvalidTransition = errors.New("invalid transition")

	// ErrOrderNotFound is returned when a status change is requested for an
	// order that has no persisted identity yet.
	ErrOrderNotFound = errors.New("order not found")
)

// InvalidTransitionError carries the rejected (role, from, to) triple so the
// caller can render a role-appropriate message.
type InvalidTransitionError struct {
	Role Role
	From Status
	To   Status
}

func (e *InvalidTransitionError) Error() string {
	return fmt.Sprintf("%s: role %s cannot move order from %s to %s", ErrInvalidTransition, e.Role, e.From, e.To)
}

func (e *InvalidTransitionError) Unwrap() error {
	return ErrInvalidTransition
}

func unknownStatusError(code string) error {
	return fmt.Errorf("%w: %q", ErrUnknownStatus, code)
}
