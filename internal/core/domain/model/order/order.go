package order

import (
	"errors"
	"fmt"
	"slices"
	"time"

	"orderflow/internal/core/domain/model/kernel"
	"orderflow/internal/pkg/errs"
)

// MinScheduleLead is how far ahead of creation a scheduled order must be.
const MinScheduleLead = time.Hour

// Order is one customer order as seen by the status workflow.
//
// Order is a value: every method has a value receiver and the only mutation,
// RequestTransition, returns a new Order. Callers replace the value they hold.
//
// Order follows these invariants:
//   - Status is always a catalog status
//   - Items are immutable after creation and there is at least one
//   - TotalPrice is derived from the items and never negative
//   - Status only changes along the transition table for the acting role
type Order struct {
	id          kernel.OrderID
	userID      int64
	items       []Item
	status      Status
	scheduledAt *time.Time
	createdAt   time.Time
	modifiedAt  time.Time
	createdBy   string
	modifiedBy  string
}

// NewOrder builds a Pending order that has not been stored yet.
//
// Parameters:
//   - userID: the owning client, positive
//   - items: at least one valid line; the slice is copied
//   - scheduledAt: optional; when set it must be at least MinScheduleLead after now
//   - createdBy: identity (email) of whoever placed the order
//   - now: creation time
//
// Returns the validation errors of every invalid argument joined together.
//
// Example:
//
//	o, err := order.NewOrder(7, []order.Item{{ProductID: 3, Quantity: 2, UnitPrice: 1250}}, nil, "client@pizza.local", time.Now())
func NewOrder(userID int64, items []Item, scheduledAt *time.Time, createdBy string, now time.Time) (Order, error) {
	o := Order{
		userID:     userID,
		items:      slices.Clone(items),
		status:     Pending,
		createdAt:  now,
		modifiedAt: now,
		createdBy:  createdBy,
		modifiedBy: createdBy,
	}

	if err := errors.Join(
		validateUser(userID),
		validateItems(items),
		validateSchedule(scheduledAt, now),
		validateIdentity("createdBy", createdBy),
	); err != nil {
		return Order{}, err
	}

	if scheduledAt != nil {
		at := *scheduledAt
		o.scheduledAt = &at
	}
	return o, nil
}

// State is the persisted form of an Order, used to rebuild it from a store.
type State struct {
	ID          kernel.OrderID
	UserID      int64
	Items       []Item
	Status      Status
	ScheduledAt *time.Time
	CreatedAt   time.Time
	ModifiedAt  time.Time
	CreatedBy   string
	ModifiedBy  string
}

// RestoreOrder rebuilds an Order read from a store. The id must be assigned
// and the status must be a catalog status; other fields are trusted.
func RestoreOrder(s State) (Order, error) {
	if err := errors.Join(s.ID.Validate(), s.Status.Validate(), validateItems(s.Items)); err != nil {
		return Order{}, err
	}
	o := Order{
		id:         s.ID,
		userID:     s.UserID,
		items:      slices.Clone(s.Items),
		status:     s.Status,
		createdAt:  s.CreatedAt,
		modifiedAt: s.ModifiedAt,
		createdBy:  s.CreatedBy,
		modifiedBy: s.ModifiedBy,
	}
	if s.ScheduledAt != nil {
		at := *s.ScheduledAt
		o.scheduledAt = &at
	}
	return o, nil
}

// State returns the persisted form of the order.
func (o Order) State() State {
	return State{
		ID:          o.id,
		UserID:      o.userID,
		Items:       o.Items(),
		Status:      o.status,
		ScheduledAt: o.ScheduledAt(),
		CreatedAt:   o.createdAt,
		ModifiedAt:  o.modifiedAt,
		CreatedBy:   o.createdBy,
		ModifiedBy:  o.modifiedBy,
	}
}

// ID returns the store-assigned id; the zero OrderID before creation.
func (o Order) ID() kernel.OrderID { return o.id }

// UserID returns the owning client.
func (o Order) UserID() int64 { return o.userID }

// Items returns a copy of the order lines.
func (o Order) Items() []Item { return slices.Clone(o.items) }

// CurrentStatus returns the order's status.
func (o Order) CurrentStatus() Status { return o.status }

// ScheduledAt returns a copy of the requested delivery time, nil if unscheduled.
func (o Order) ScheduledAt() *time.Time {
	if o.scheduledAt == nil {
		return nil
	}
	at := *o.scheduledAt
	return &at
}

func (o Order) CreatedAt() time.Time  { return o.createdAt }
func (o Order) ModifiedAt() time.Time { return o.modifiedAt }
func (o Order) CreatedBy() string     { return o.createdBy }
func (o Order) ModifiedBy() string    { return o.modifiedBy }

// TotalPrice sums the item subtotals, in minor currency units.
func (o Order) TotalPrice() int64 {
	var total int64
	for _, item := range o.items {
		total += item.Subtotal()
	}
	return total
}

// IsPersisted reports whether the store has assigned an id.
func (o Order) IsPersisted() bool {
	return o.id.IsPersisted()
}

// WithID returns a copy carrying the id assigned by the store.
func (o Order) WithID(id kernel.OrderID) Order {
	o.items = slices.Clone(o.items)
	o.id = id
	return o
}

// RequestTransition moves the order to target on behalf of role.
//
// Checks, in order:
//   - the order has a persisted id, otherwise ErrOrderNotFound
//   - target is a catalog status, otherwise ErrUnknownStatus
//   - CanTransition(role, CurrentStatus(), target), otherwise an
//     *InvalidTransitionError wrapping ErrInvalidTransition
//
// On success it returns a new Order with the target status, modifiedAt set to
// now and modifiedBy set. The receiver is left untouched.
//
// Example:
//
//	next, err := o.RequestTransition(order.Kitchen, order.Accepted, "chef@pizza.local", time.Now())
//	if errors.Is(err, order.ErrInvalidTransition) {
//	    // tell the user the move is not allowed for their role
//	}
//	o = next
func (o Order) RequestTransition(role Role, target Status, modifiedBy string, now time.Time) (Order, error) {
	if !o.IsPersisted() {
		return Order{}, ErrOrderNotFound
	}
	if err := target.Validate(); err != nil {
		return Order{}, err
	}
	if !CanTransition(role, o.status, target) {
		return Order{}, &InvalidTransitionError{Role: role, From: o.status, To: target}
	}

	next := o
	next.items = slices.Clone(o.items)
	next.status = target
	next.modifiedAt = now
	next.modifiedBy = modifiedBy
	return next, nil
}

func validateUser(userID int64) error {
	if userID <= 0 {
		return errs.NewValueIsInvalidErrorWithCause("userId", fmt.Errorf("%d is not greater than 0", userID))
	}
	return nil
}

func validateItems(items []Item) error {
	if len(items) == 0 {
		return errs.NewValueIsRequiredError("items")
	}
	var result []error
	for i, item := range items {
		if err := item.Validate(); err != nil {
			result = append(result, fmt.Errorf("item %d: %w", i, err))
		}
	}
	return errors.Join(result...)
}

func validateSchedule(scheduledAt *time.Time, now time.Time) error {
	if scheduledAt == nil {
		return nil
	}
	earliest := now.Add(MinScheduleLead)
	if scheduledAt.Before(earliest) {
		return errs.NewValueIsInvalidErrorWithCause(
			"scheduledAt",
			fmt.Errorf("%s is earlier than %s", scheduledAt.Format(time.RFC3339), earliest.Format(time.RFC3339)),
		)
	}
	return nil
}

func validateIdentity(param, identity string) error {
	if identity == "" {
		return errs.NewValueIsRequiredError(param)
	}
	return nil
}
