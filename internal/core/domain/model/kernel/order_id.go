package kernel

import (
	"math"
	"strconv"

	"orderflow/internal/pkg/errs"
)

// ErrOrderIDIsNotPersisted is returned when validating the zero OrderID.
var ErrOrderIDIsNotPersisted = errs.NewValueIsRequiredError("order id is assigned by the order store on creation")

// OrderID identifies a persisted order. The order store assigns it; the zero
// value stands for an order that has not been stored yet.
type OrderID struct {
	value int64
}

// NewOrderID wraps a store-assigned identifier. The value must be positive.
func NewOrderID(value int64) (OrderID, error) {
	if value <= 0 {
		return OrderID{}, errs.NewValueIsOutOfRangeError("orderId", value, int64(1), int64(math.MaxInt64))
	}
	return OrderID{value: value}, nil
}

// OrderIDFromString parses a decimal identifier, as found in URLs.
func OrderIDFromString(s string) (OrderID, error) {
	value, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return OrderID{}, errs.NewValueIsInvalidErrorWithCause("orderId", err)
	}
	return NewOrderID(value)
}

// Int64 returns the raw identifier (0 for an unpersisted order).
func (id OrderID) Int64() int64 {
	return id.value
}

func (id OrderID) String() string {
	return strconv.FormatInt(id.value, 10)
}

// IsPersisted reports whether the store has assigned the identifier.
func (id OrderID) IsPersisted() bool {
	return id.value > 0
}

// Validate returns ErrOrderIDIsNotPersisted for the zero value.
func (id OrderID) Validate() error {
	if !id.IsPersisted() {
		return ErrOrderIDIsNotPersisted
	}
	return nil
}
