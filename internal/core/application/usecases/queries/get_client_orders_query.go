package queries

import (
	"errors"
	"strings"

	"orderflow/internal/core/ports"
	"orderflow/internal/pkg/errs"
	"orderflow/internal/pkg/guard"
)

var ErrGetClientOrdersQueryIsNotConstructed = errors.New(
	"GetClientOrdersQuery must be created via NewGetClientOrdersQuery constructor",
)

// GetClientOrdersQuery lists the caller's own orders with their current
// statuses, for client-side order tracking.
type GetClientOrdersQuery struct {
	credentials ports.Credentials

	guard guard.ConstructorGuard
}

// NewGetClientOrdersQuery requires the caller's identity.
func NewGetClientOrdersQuery(credentials ports.Credentials) (GetClientOrdersQuery, error) {
	if strings.TrimSpace(credentials.Identity) == "" {
		return GetClientOrdersQuery{}, errs.NewValueIsRequiredError("identity")
	}
	return GetClientOrdersQuery{credentials: credentials, guard: guard.NewConstructorGuard()}, nil
}

// Validate ensures the query was created through the constructor.
func (q GetClientOrdersQuery) Validate() error {
	return q.guard.Validate(ErrGetClientOrdersQueryIsNotConstructed)
}

func (q GetClientOrdersQuery) Credentials() ports.Credentials { return q.credentials }
