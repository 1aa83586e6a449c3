package queries

import (
	"context"

	"orderflow/internal/core/application/usecases/session"
	"orderflow/internal/core/domain/model/order"
	"orderflow/internal/core/ports"
)

// GetRoleQueueResult is a role's queue and the caller's credentials from now on.
type GetRoleQueueResult struct {
	Orders      []order.Order
	Credentials ports.Credentials
}

// GetRoleQueueQueryHandler reads a role's queue from the order store.
// Roles without any transition, such as Client, get an empty queue without a
// store call.
type GetRoleQueueQueryHandler struct {
	store     ports.OrderStore
	refresher ports.TokenRefresher
}

func NewGetRoleQueueQueryHandler(store ports.OrderStore, refresher ports.TokenRefresher) GetRoleQueueQueryHandler {
	return GetRoleQueueQueryHandler{store: store, refresher: refresher}
}

// Handle returns the queue oldest first, as the store lists it.
func (h GetRoleQueueQueryHandler) Handle(ctx context.Context, query GetRoleQueueQuery) (GetRoleQueueResult, error) {
	if err := query.Validate(); err != nil {
		return GetRoleQueueResult{}, err
	}

	result := GetRoleQueueResult{Orders: []order.Order{}, Credentials: query.Credentials()}
	statuses := order.QueueStatuses(query.Role())
	if len(statuses) == 0 {
		return result, nil
	}

	attempt := session.NewAttempt(h.refresher, query.Credentials())
	err := attempt.Do(ctx, "list role queue", func(ctx context.Context, creds ports.Credentials) error {
		orders, listErr := h.store.ListByStatus(ctx, creds, statuses)
		if listErr != nil {
			return listErr
		}
		result.Orders = orders
		return nil
	})
	result.Credentials = attempt.Credentials()
	if err != nil {
		return result, session.StoreError("list role queue", err)
	}
	return result, nil
}
