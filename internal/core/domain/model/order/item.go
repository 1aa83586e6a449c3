package order

import (
	"errors"
	"fmt"

	"orderflow/internal/pkg/errs"
)

// Item is one order line. Prices are in minor currency units (cents).
type Item struct {
	ProductID int64
	Quantity  int
	UnitPrice int64
}

// Validate checks the line: positive product id and quantity, non-negative price.
func (i Item) Validate() error {
	var result []error
	if i.ProductID <= 0 {
		result = append(result, errs.NewValueIsInvalidErrorWithCause("productId", fmt.Errorf("%d is not greater than 0", i.ProductID)))
	}
	if i.Quantity <= 0 {
		result = append(result, errs.NewValueIsInvalidErrorWithCause("quantity", fmt.Errorf("%d is not greater than 0", i.Quantity)))
	}
	if i.UnitPrice < 0 {
		result = append(result, errs.NewValueIsInvalidErrorWithCause("unitPrice", fmt.Errorf("%d is negative", i.UnitPrice)))
	}
	return errors.Join(result...)
}

// Subtotal is Quantity x UnitPrice.
func (i Item) Subtotal() int64 {
	return int64(i.Quantity) * i.UnitPrice
}
