package queries

import (
	"context"

	"orderflow/internal/core/application/usecases/session"
	"orderflow/internal/core/domain/model/order"
	"orderflow/internal/core/ports"
)

// GetOrderResult is the stored order and the caller's credentials from now on.
type GetOrderResult struct {
	Order       order.Order
	Credentials ports.Credentials
}

// GetOrderQueryHandler reads an order through the store. A missing order is
// reported as order.ErrOrderNotFound.
type GetOrderQueryHandler struct {
	store     ports.OrderStore
	refresher ports.TokenRefresher
}

func NewGetOrderQueryHandler(store ports.OrderStore, refresher ports.TokenRefresher) GetOrderQueryHandler {
	return GetOrderQueryHandler{store: store, refresher: refresher}
}

func (h GetOrderQueryHandler) Handle(ctx context.Context, query GetOrderQuery) (GetOrderResult, error) {
	if err := query.Validate(); err != nil {
		return GetOrderResult{}, err
	}

	var result GetOrderResult
	attempt := session.NewAttempt(h.refresher, query.Credentials())
	err := attempt.Do(ctx, "read order", func(ctx context.Context, creds ports.Credentials) error {
		o, getErr := h.store.Get(ctx, creds, query.OrderID())
		if getErr != nil {
			return getErr
		}
		result.Order = o
		return nil
	})
	result.Credentials = attempt.Credentials()
	if err != nil {
		return result, session.StoreError("read order", err)
	}
	return result, nil
}
