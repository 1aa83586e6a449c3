package commands_test

import (
	"context"
	"testing"
	"time"

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

type MockStatusPublisher struct{ mock.Mock }

func (m *MockStatusPublisher) Publish(ctx context.Context, event ports.StatusChanged) error {
	args := m.Called(ctx, event)
	return args.Error(0)
}

type MockOrderBoard struct{ mock.Mock }

func (m *MockOrderBoard) Get(id kernel.OrderID) (order.Order, bool) {
	args := m.Called(id)
	return args.Get(0).(order.Order), args.Bool(1)
}

func (m *MockOrderBoard) Put(o order.Order) bool {
	args := m.Called(o)
	return args.Bool(0)
}

func (m *MockOrderBoard) Snapshot() []order.Order {
	args := m.Called()
	return args.Get(0).([]order.Order)
}

func (m *MockOrderBoard) IDs() []kernel.OrderID {
	args := m.Called()
	return args.Get(0).([]kernel.OrderID)
}

var (
	fixedNow = time.Date(2026, 5, 1, 12, 0, 0, 0, time.UTC)
	clock    = func() time.Time { return fixedNow }

	staleCreds = ports.Credentials{Identity: "staff@pizza.local", AccessToken: "old", RefreshToken: "r1"}
	freshCreds = ports.Credentials{Identity: "staff@pizza.local", AccessToken: "new", RefreshToken: "r2"}
)

func orderID(t *testing.T, value int64) kernel.OrderID {
	t.Helper()
	id, err := kernel.NewOrderID(value)
	require.NoError(t, err)
	return id
}

func storedOrder(t *testing.T, id int64, status order.Status) order.Order {
	t.Helper()
	o, err := order.RestoreOrder(order.State{
		ID:         orderID(t, id),
		UserID:     7,
		Items:      []order.Item{{ProductID: 1, Quantity: 2, UnitPrice: 1000}},
		Status:     status,
		CreatedAt:  fixedNow.Add(-time.Hour),
		ModifiedAt: fixedNow.Add(-time.Hour),
		CreatedBy:  "client@pizza.local",
		ModifiedBy: "client@pizza.local",
	})
	require.NoError(t, err)
	return o
}

func unauthorized() error {
	return &ports.RemoteError{Op: "backend", StatusCode: 401, Err: ports.ErrUnauthorized}
}
