package queries_test

import (
	"errors"
	"testing"
	"time"

	"orderflow/internal/core/application/usecases/queries"
	"orderflow/internal/core/domain/model/order"
	"orderflow/internal/core/ports"
	"orderflow/internal/pkg/errs"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

var historyStart = time.Date(2026, 4, 2, 19, 0, 0, 0, time.UTC)

func historyQuery(t *testing.T, id int64) queries.GetOrderHistoryQuery {
	t.Helper()
	q, err := queries.NewGetOrderHistoryQuery(orderID(t, id), staleCreds)
	require.NoError(t, err)
	return q
}

func TestGetOrderHistoryQueryHandler_Handle(t *testing.T) {
	t.Run("returns the reader's entries", func(t *testing.T) {
		// Given
		reader := new(MockOrderHistoryReader)
		changes := []ports.StatusChange{
			{Status: order.Pending, UpdatedBy: "client@pizza.local", UpdatedAt: historyStart},
			{Status: order.Accepted, UpdatedBy: "chef@pizza.local", UpdatedAt: historyStart.Add(time.Minute)},
		}
		reader.On("History", mock.Anything, staleCreds, orderID(t, 21)).Return(changes, nil).Once()

		// When
		result, err := queries.NewGetOrderHistoryQueryHandler(reader, new(MockTokenRefresher)).Handle(t.Context(), historyQuery(t, 21))

		// Then
		require.NoError(t, err)
		require.Len(t, result.Entries, 2)
		assert.Equal(t, order.Pending, result.Entries[0].Status)
		assert.Equal(t, "chef@pizza.local", result.Entries[1].UpdatedBy)
		assert.True(t, historyStart.Add(time.Minute).Equal(result.Entries[1].UpdatedAt))
		assert.Equal(t, staleCreds, result.Credentials)
		reader.AssertExpectations(t)
	})

	t.Run("unknown order is not found", func(t *testing.T) {
		reader := new(MockOrderHistoryReader)
		reader.On("History", mock.Anything, staleCreds, mock.Anything).
			Return([]ports.StatusChange(nil), errs.NewObjectNotFoundError("orderId", int64(31337))).Once()

		result, err := queries.NewGetOrderHistoryQueryHandler(reader, new(MockTokenRefresher)).Handle(t.Context(), historyQuery(t, 31337))

		require.ErrorIs(t, err, order.ErrOrderNotFound)
		assert.Nil(t, result.Entries)
	})

	t.Run("rejected read refreshes once", func(t *testing.T) {
		reader := new(MockOrderHistoryReader)
		refresher := new(MockTokenRefresher)
		mock.InOrder(
			reader.On("History", mock.Anything, staleCreds, mock.Anything).Return([]ports.StatusChange(nil), unauthorized()).Once(),
			refresher.On("Refresh", mock.Anything, staleCreds).Return(freshCreds, nil).Once(),
			reader.On("History", mock.Anything, freshCreds, mock.Anything).
				Return([]ports.StatusChange{{Status: order.Pending, UpdatedBy: "client@pizza.local", UpdatedAt: historyStart}}, nil).Once(),
		)

		result, err := queries.NewGetOrderHistoryQueryHandler(reader, refresher).Handle(t.Context(), historyQuery(t, 21))

		require.NoError(t, err)
		assert.Len(t, result.Entries, 1)
		assert.Equal(t, freshCreds, result.Credentials)
	})

	t.Run("reader failure is remote", func(t *testing.T) {
		reader := new(MockOrderHistoryReader)
		reader.On("History", mock.Anything, mock.Anything, mock.Anything).
			Return([]ports.StatusChange(nil), errors.New("connection refused")).Once()

		_, err := queries.NewGetOrderHistoryQueryHandler(reader, new(MockTokenRefresher)).Handle(t.Context(), historyQuery(t, 21))

		assert.ErrorIs(t, err, ports.ErrRemote)
	})

	t.Run("query not built by its constructor", func(t *testing.T) {
		reader := new(MockOrderHistoryReader)

		_, err := queries.NewGetOrderHistoryQueryHandler(reader, new(MockTokenRefresher)).Handle(t.Context(), queries.GetOrderHistoryQuery{})

		require.ErrorIs(t, err, queries.ErrGetOrderHistoryQueryIsNotConstructed)
		reader.AssertNotCalled(t, "History", mock.Anything, mock.Anything, mock.Anything)
	})
}
