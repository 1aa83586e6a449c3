package queries

import (
	"context"

	"orderflow/internal/core/application/usecases/session"
	"orderflow/internal/core/ports"
)

// GetOrderHistoryResult is the order's history and the caller's credentials
// from now on.
type GetOrderHistoryResult struct {
	Entries     []GetOrderHistoryQueryResponse
	Credentials ports.Credentials
}

// GetOrderHistoryQueryHandler reads status history through the history
// reader of the configured store.
type GetOrderHistoryQueryHandler struct {
	reader    ports.OrderHistoryReader
	refresher ports.TokenRefresher
}

// NewGetOrderHistoryQueryHandler creates a handler for history queries.
func NewGetOrderHistoryQueryHandler(reader ports.OrderHistoryReader, refresher ports.TokenRefresher) GetOrderHistoryQueryHandler {
	return GetOrderHistoryQueryHandler{reader: reader, refresher: refresher}
}

// Handle returns the order's history oldest first. An unknown order yields
// order.ErrOrderNotFound.
func (h GetOrderHistoryQueryHandler) Handle(
	ctx context.Context,
	query GetOrderHistoryQuery,
) (GetOrderHistoryResult, error) {
	if err := query.Validate(); err != nil {
		return GetOrderHistoryResult{}, err
	}

	var changes []ports.StatusChange
	attempt := session.NewAttempt(h.refresher, query.Credentials())
	err := attempt.Do(ctx, "read order history", func(ctx context.Context, creds ports.Credentials) error {
		var readErr error
		changes, readErr = h.reader.History(ctx, creds, query.OrderID())
		return readErr
	})

	result := GetOrderHistoryResult{Credentials: attempt.Credentials()}
	if err != nil {
		return result, session.StoreError("read order history", err)
	}

	result.Entries = make([]GetOrderHistoryQueryResponse, len(changes))
	for i, c := range changes {
		result.Entries[i] = GetOrderHistoryQueryResponse(c)
	}
	return result, nil
}
