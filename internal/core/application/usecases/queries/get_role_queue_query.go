package queries

import (
	"errors"

	"orderflow/internal/core/domain/model/order"
	"orderflow/internal/core/ports"
	"orderflow/internal/pkg/guard"
)

var ErrGetRoleQueueQueryIsNotConstructed = errors.New(
	"GetRoleQueueQuery must be created via NewGetRoleQueueQuery constructor",
)

// GetRoleQueueQuery lists the orders a role can act on right now: every order
// whose status is one of order.QueueStatuses(role).
type GetRoleQueueQuery struct {
	role        order.Role
	credentials ports.Credentials

	guard guard.ConstructorGuard
}

func NewGetRoleQueueQuery(role order.Role, credentials ports.Credentials) (GetRoleQueueQuery, error) {
	if err := role.Validate(); err != nil {
		return GetRoleQueueQuery{}, err
	}
	return GetRoleQueueQuery{
		role:        role,
		credentials: credentials,
		guard:       guard.NewConstructorGuard(),
	}, nil
}

// Validate ensures the query was created through the constructor.
func (q GetRoleQueueQuery) Validate() error {
	return q.guard.Validate(ErrGetRoleQueueQueryIsNotConstructed)
}

func (q GetRoleQueueQuery) Role() order.Role               { return q.role }
func (q GetRoleQueueQuery) Credentials() ports.Credentials { return q.credentials }
