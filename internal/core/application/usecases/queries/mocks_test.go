package queries_test

import (
	"context"
	"testing"

	"orderflow/internal/core/domain/model/kernel"
	"orderflow/internal/core/domain/model/order"
	"orderflow/internal/core/ports"

	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type MockOrderStore struct{ mock.Mock }

func (m *MockOrderStore) Get(ctx context.Context, creds ports.Credentials, id kernel.OrderID) (order.Order, error) {
	args := m.Called(ctx, creds, id)
	return args.Get(0).(order.Order), args.Error(1)
}

func (m *MockOrderStore) UpdateStatus(ctx context.Context, creds ports.Credentials, updated order.Order, from order.Status) (order.Order, error) {
	args := m.Called(ctx, creds, updated, from)
	return args.Get(0).(order.Order), args.Error(1)
}

func (m *MockOrderStore) Create(ctx context.Context, creds ports.Credentials, created order.Order) (order.Order, error) {
	args := m.Called(ctx, creds, created)
	return args.Get(0).(order.Order), args.Error(1)
}

func (m *MockOrderStore) ListByStatus(ctx context.Context, creds ports.Credentials, statuses []order.Status) ([]order.Order, error) {
	args := m.Called(ctx, creds, statuses)
	return args.Get(0).([]order.Order), args.Error(1)
}

func (m *MockOrderStore) ListByUser(ctx context.Context, creds ports.Credentials) ([]order.Order, error) {
	args := m.Called(ctx, creds)
	return args.Get(0).([]order.Order), args.Error(1)
}

type MockTokenRefresher struct{ mock.Mock }

func (m *MockTokenRefresher) Refresh(ctx context.Context, current ports.Credentials) (ports.Credentials, error) {
	args := m.Called(ctx, current)
	return args.Get(0).(ports.Credentials), args.Error(1)
}

type MockOrderBoard struct{ mock.Mock }

func (m *MockOrderBoard) Get(id kernel.OrderID) (order.Order, bool) {
	args := m.Called(id)
	return args.Get(0).(order.Order), args.Bool(1)
}

func (m *MockOrderBoard) Put(o order.Order) bool {
	return m.Called(o).Bool(0)
}

func (m *MockOrderBoard) Snapshot() []order.Order {
	return m.Called().Get(0).([]order.Order)
}

func (m *MockOrderBoard) IDs() []kernel.OrderID {
	return m.Called().Get(0).([]kernel.OrderID)
}

var (
	staleCreds = ports.Credentials{Identity: "chef@pizza.local", AccessToken: "old", RefreshToken: "r1"}
	freshCreds = ports.Credentials{Identity: "chef@pizza.local", AccessToken: "new", RefreshToken: "r2"}
)

func orderID(t *testing.T, v int64) kernel.OrderID {
	t.Helper()
	id, err := kernel.NewOrderID(v)
	require.NoError(t, err)
	return id
}

func storedOrder(t *testing.T, id int64, status order.Status) order.Order {
	t.Helper()
	o, err := order.RestoreOrder(order.State{
		ID:     orderID(t, id),
		UserID: 5,
		Items:  []order.Item{{ProductID: 2, Quantity: 1, UnitPrice: 1100}},
		Status: status,
	})
	require.NoError(t, err)
	return o
}

func unauthorized() error {
	return &ports.RemoteError{Op: "list orders", StatusCode: 401, Err: ports.ErrUnauthorized}
}

type MockOrderHistoryReader struct{ mock.Mock }

func (m *MockOrderHistoryReader) History(ctx context.Context, creds ports.Credentials, id kernel.OrderID) ([]ports.StatusChange, error) {
	args := m.Called(ctx, creds, id)
	return args.Get(0).([]ports.StatusChange), args.Error(1)
}
