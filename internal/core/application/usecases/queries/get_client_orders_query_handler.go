package queries

import (
	"context"

	"orderflow/internal/core/application/usecases/session"
	"orderflow/internal/core/domain/model/order"
	"orderflow/internal/core/ports"
)

// GetClientOrdersResult is the caller's orders and credentials from now on.
type GetClientOrdersResult struct {
	Orders      []order.Order
	Credentials ports.Credentials
}

// GetClientOrdersQueryHandler reads the caller's orders from the order store.
type GetClientOrdersQueryHandler struct {
	store     ports.OrderStore
	refresher ports.TokenRefresher
}

func NewGetClientOrdersQueryHandler(store ports.OrderStore, refresher ports.TokenRefresher) GetClientOrdersQueryHandler {
	return GetClientOrdersQueryHandler{store: store, refresher: refresher}
}

// Handle returns the orders newest first, terminal ones included.
func (h GetClientOrdersQueryHandler) Handle(ctx context.Context, query GetClientOrdersQuery) (GetClientOrdersResult, error) {
	if err := query.Validate(); err != nil {
		return GetClientOrdersResult{}, err
	}

	result := GetClientOrdersResult{Orders: []order.Order{}}
	attempt := session.NewAttempt(h.refresher, query.Credentials())
	err := attempt.Do(ctx, "list client orders", func(ctx context.Context, creds ports.Credentials) error {
		orders, listErr := h.store.ListByUser(ctx, creds)
		if listErr != nil {
			return listErr
		}
		result.Orders = orders
		return nil
	})
	result.Credentials = attempt.Credentials()
	if err != nil {
		return result, session.StoreError("list client orders", err)
	}
	return result, nil
}
