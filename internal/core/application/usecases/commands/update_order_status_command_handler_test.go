package commands_test

import (
	"context"
	"errors"
	"sync"
	"testing"

	"orderflow/internal/core/application/usecases/commands"
	"orderflow/internal/core/domain/model/kernel"
	"orderflow/internal/core/domain/model/order"
	"orderflow/internal/core/ports"
	"orderflow/internal/pkg/errs"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

type updateFixture struct {
	store     *MockOrderStore
	refresher *MockTokenRefresher
	publisher *MockStatusPublisher
	logs      *observer.ObservedLogs
	handler   commands.UpdateOrderStatusCommandHandler
}

func newUpdateFixture() updateFixture {
	core, logs := observer.New(zapcore.DebugLevel)
	f := updateFixture{
		store:     new(MockOrderStore),
		refresher: new(MockTokenRefresher),
		publisher: new(MockStatusPublisher),
		logs:      logs,
	}
	f.handler = commands.NewUpdateOrderStatusCommandHandler(f.store, f.refresher, f.publisher, clock, zap.New(core))
	return f
}

func (f updateFixture) assertExpectations(t *testing.T) {
	f.store.AssertExpectations(t)
	f.refresher.AssertExpectations(t)
	f.publisher.AssertExpectations(t)
}

func updateCommand(t *testing.T, role order.Role, target order.Status) commands.UpdateOrderStatusCommand {
	t.Helper()
	cmd, err := commands.NewUpdateOrderStatusCommand(orderID(t, 42), role, target, staleCreds)
	require.NoError(t, err)
	return cmd
}

func updatedTo(status order.Status) any {
	return mock.MatchedBy(func(o order.Order) bool {
		return o.CurrentStatus() == status && o.ModifiedAt().Equal(fixedNow) && o.ModifiedBy() == staleCreds.Identity
	})
}

func TestUpdateOrderStatusCommandHandler_Handle_KitchenAcceptsPending(t *testing.T) {
	// Given
	ctx := t.Context()
	f := newUpdateFixture()
	current := storedOrder(t, 42, order.Pending)
	accepted, err := current.RequestTransition(order.Kitchen, order.Accepted, staleCreds.Identity, fixedNow)
	require.NoError(t, err)

	f.store.On("Get", mock.Anything, staleCreds, current.ID()).Return(current, nil).Once()
	f.store.On("UpdateStatus", mock.Anything, staleCreds, updatedTo(order.Accepted), order.Pending).Return(accepted, nil).Once()
	f.publisher.On("Publish", mock.Anything, mock.MatchedBy(func(e ports.StatusChanged) bool {
		return e.OrderID == current.ID() && e.Status == order.Accepted && e.UpdatedBy == staleCreds.Identity &&
			e.UpdatedAt.Equal(fixedNow) && e.EventID.Validate() == nil
	})).Return(nil).Once()

	// When
	result, err := f.handler.Handle(ctx, updateCommand(t, order.Kitchen, order.Accepted))

	// Then
	require.NoError(t, err)
	assert.True(t, result.Changed)
	assert.Equal(t, order.Accepted, result.Order.CurrentStatus())
	assert.Equal(t, staleCreds, result.Credentials)
	f.assertExpectations(t)
}

func TestUpdateOrderStatusCommandHandler_Handle_InvalidTransition(t *testing.T) {
	testCases := []struct {
		name    string
		role    order.Role
		current order.Status
		target  order.Status
	}{
		{"kitchen cannot skip to ready", order.Kitchen, order.Pending, order.Ready},
		{"delivery cannot hand over unpaid", order.Delivery, order.Ready, order.DeliveredUnpaid},
		{"client cannot cancel", order.Client, order.Pending, order.Cancelled},
		{"admin cannot leave terminal status", order.Admin, order.Cancelled, order.Pending},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			f := newUpdateFixture()
			current := storedOrder(t, 42, tc.current)
			f.store.On("Get", mock.Anything, staleCreds, current.ID()).Return(current, nil).Once()

			_, err := f.handler.Handle(t.Context(), updateCommand(t, tc.role, tc.target))

			require.ErrorIs(t, err, order.ErrInvalidTransition)
			assert.NotErrorIs(t, err, ports.ErrRemote)
			f.store.AssertNotCalled(t, "UpdateStatus", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
			f.publisher.AssertNotCalled(t, "Publish", mock.Anything, mock.Anything)
		})
	}
}

func TestUpdateOrderStatusCommandHandler_Handle_AdminCancelsAccepted(t *testing.T) {
	f := newUpdateFixture()
	current := storedOrder(t, 42, order.Accepted)
	cancelled, err := current.RequestTransition(order.Admin, order.Cancelled, staleCreds.Identity, fixedNow)
	require.NoError(t, err)
	f.store.On("Get", mock.Anything, staleCreds, current.ID()).Return(current, nil).Once()
	f.store.On("UpdateStatus", mock.Anything, staleCreds, updatedTo(order.Cancelled), mock.Anything).Return(cancelled, nil).Once()
	f.publisher.On("Publish", mock.Anything, mock.Anything).Return(nil).Once()

	result, err := f.handler.Handle(t.Context(), updateCommand(t, order.Admin, order.Cancelled))

	require.NoError(t, err)
	assert.Equal(t, order.Cancelled, result.Order.CurrentStatus())
	f.assertExpectations(t)
}

func TestUpdateOrderStatusCommandHandler_Handle_DeliveryPicksUpReady(t *testing.T) {
	f := newUpdateFixture()
	current := storedOrder(t, 42, order.Ready)
	onTheWay, err := current.RequestTransition(order.Delivery, order.OnTheWay, staleCreds.Identity, fixedNow)
	require.NoError(t, err)
	f.store.On("Get", mock.Anything, staleCreds, current.ID()).Return(current, nil).Once()
	f.store.On("UpdateStatus", mock.Anything, staleCreds, updatedTo(order.OnTheWay), mock.Anything).Return(onTheWay, nil).Once()
	f.publisher.On("Publish", mock.Anything, mock.Anything).Return(nil).Once()

	result, err := f.handler.Handle(t.Context(), updateCommand(t, order.Delivery, order.OnTheWay))

	require.NoError(t, err)
	assert.Equal(t, order.OnTheWay, result.Order.CurrentStatus())
	f.assertExpectations(t)
}

func TestUpdateOrderStatusCommandHandler_Handle_AlreadyAtTarget(t *testing.T) {
	// Given a duplicate request for a status the order already has
	f := newUpdateFixture()
	current := storedOrder(t, 42, order.OnTheWay)
	f.store.On("Get", mock.Anything, staleCreds, current.ID()).Return(current, nil).Once()

	// When any role repeats it, even one that could not make the move
	result, err := f.handler.Handle(t.Context(), updateCommand(t, order.Kitchen, order.OnTheWay))

	// Then it succeeds without a write or a publish
	require.NoError(t, err)
	assert.False(t, result.Changed)
	assert.Equal(t, current, result.Order)
	f.store.AssertNotCalled(t, "UpdateStatus", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	f.publisher.AssertNotCalled(t, "Publish", mock.Anything, mock.Anything)
}

func TestUpdateOrderStatusCommandHandler_Handle_ReadUnauthorizedRefreshesOnce(t *testing.T) {
	// Given the read is rejected with the stale token
	f := newUpdateFixture()
	current := storedOrder(t, 42, order.Pending)
	accepted, err := current.RequestTransition(order.Kitchen, order.Accepted, staleCreds.Identity, fixedNow)
	require.NoError(t, err)

	mock.InOrder(
		f.store.On("Get", mock.Anything, staleCreds, current.ID()).Return(order.Order{}, unauthorized()).Once(),
		f.refresher.On("Refresh", mock.Anything, staleCreds).Return(freshCreds, nil).Once(),
		f.store.On("Get", mock.Anything, freshCreds, current.ID()).Return(current, nil).Once(),
		f.store.On("UpdateStatus", mock.Anything, freshCreds, updatedTo(order.Accepted), mock.Anything).Return(accepted, nil).Once(),
		f.publisher.On("Publish", mock.Anything, mock.Anything).Return(nil).Once(),
	)

	// When
	result, err := f.handler.Handle(t.Context(), updateCommand(t, order.Kitchen, order.Accepted))

	// Then the write is retried with the refreshed credentials, which are handed back
	require.NoError(t, err)
	assert.Equal(t, freshCreds, result.Credentials)
	f.refresher.AssertNumberOfCalls(t, "Refresh", 1)
	f.assertExpectations(t)
}

func TestUpdateOrderStatusCommandHandler_Handle_WriteUnauthorizedRetriesOnce(t *testing.T) {
	f := newUpdateFixture()
	current := storedOrder(t, 42, order.Ready)
	unpaid, err := current.RequestTransition(order.Waiter, order.DeliveredUnpaid, staleCreds.Identity, fixedNow)
	require.NoError(t, err)

	mock.InOrder(
		f.store.On("Get", mock.Anything, staleCreds, current.ID()).Return(current, nil).Once(),
		f.store.On("UpdateStatus", mock.Anything, staleCreds, updatedTo(order.DeliveredUnpaid), mock.Anything).Return(order.Order{}, unauthorized()).Once(),
		f.refresher.On("Refresh", mock.Anything, staleCreds).Return(freshCreds, nil).Once(),
		f.store.On("UpdateStatus", mock.Anything, freshCreds, updatedTo(order.DeliveredUnpaid), mock.Anything).Return(unpaid, nil).Once(),
		f.publisher.On("Publish", mock.Anything, mock.Anything).Return(nil).Once(),
	)

	result, err := f.handler.Handle(t.Context(), updateCommand(t, order.Waiter, order.DeliveredUnpaid))

	require.NoError(t, err)
	assert.Equal(t, order.DeliveredUnpaid, result.Order.CurrentStatus())
	assert.Equal(t, freshCreds, result.Credentials)
	f.assertExpectations(t)
}

func TestUpdateOrderStatusCommandHandler_Handle_AuthExpired(t *testing.T) {
	t.Run("when the retried write is rejected again", func(t *testing.T) {
		f := newUpdateFixture()
		current := storedOrder(t, 42, order.Pending)
		f.store.On("Get", mock.Anything, staleCreds, current.ID()).Return(current, nil).Once()
		f.store.On("UpdateStatus", mock.Anything, mock.Anything, mock.Anything, mock.Anything).Return(order.Order{}, unauthorized()).Twice()
		f.refresher.On("Refresh", mock.Anything, staleCreds).Return(freshCreds, nil).Once()

		_, err := f.handler.Handle(t.Context(), updateCommand(t, order.Kitchen, order.Accepted))

		require.ErrorIs(t, err, ports.ErrAuthExpired)
		f.publisher.AssertNotCalled(t, "Publish", mock.Anything, mock.Anything)
		f.assertExpectations(t)
	})

	t.Run("when the refresh is rejected", func(t *testing.T) {
		f := newUpdateFixture()
		current := storedOrder(t, 42, order.Pending)
		f.store.On("Get", mock.Anything, staleCreds, current.ID()).Return(order.Order{}, unauthorized()).Once()
		f.refresher.On("Refresh", mock.Anything, staleCreds).Return(ports.Credentials{}, unauthorized()).Once()

		_, err := f.handler.Handle(t.Context(), updateCommand(t, order.Kitchen, order.Accepted))

		require.ErrorIs(t, err, ports.ErrAuthExpired)
		f.store.AssertNotCalled(t, "UpdateStatus", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
		f.assertExpectations(t)
	})

	t.Run("when the write is rejected after the read used the refresh", func(t *testing.T) {
		f := newUpdateFixture()
		current := storedOrder(t, 42, order.Pending)
		mock.InOrder(
			f.store.On("Get", mock.Anything, staleCreds, current.ID()).Return(order.Order{}, unauthorized()).Once(),
			f.refresher.On("Refresh", mock.Anything, staleCreds).Return(freshCreds, nil).Once(),
			f.store.On("Get", mock.Anything, freshCreds, current.ID()).Return(current, nil).Once(),
			f.store.On("UpdateStatus", mock.Anything, freshCreds, mock.Anything, mock.Anything).Return(order.Order{}, unauthorized()).Once(),
		)

		result, err := f.handler.Handle(t.Context(), updateCommand(t, order.Kitchen, order.Accepted))

		require.ErrorIs(t, err, ports.ErrAuthExpired)
		assert.Equal(t, freshCreds, result.Credentials)
		f.refresher.AssertNumberOfCalls(t, "Refresh", 1)
		f.assertExpectations(t)
	})
}

func TestUpdateOrderStatusCommandHandler_Handle_RemoteFailureIsNotRetried(t *testing.T) {
	f := newUpdateFixture()
	current := storedOrder(t, 42, order.Pending)
	f.store.On("Get", mock.Anything, staleCreds, current.ID()).Return(current, nil).Once()
	f.store.On("UpdateStatus", mock.Anything, staleCreds, mock.Anything, mock.Anything).
		Return(order.Order{}, &ports.RemoteError{Op: "PUT /api/orders/42", StatusCode: 503, Err: errors.New("unavailable")}).Once()

	_, err := f.handler.Handle(t.Context(), updateCommand(t, order.Kitchen, order.Accepted))

	require.ErrorIs(t, err, ports.ErrRemote)
	assert.NotErrorIs(t, err, order.ErrInvalidTransition)
	var remote *ports.RemoteError
	require.ErrorAs(t, err, &remote)
	assert.Equal(t, 503, remote.StatusCode)
	f.refresher.AssertNotCalled(t, "Refresh", mock.Anything, mock.Anything)
	f.publisher.AssertNotCalled(t, "Publish", mock.Anything, mock.Anything)
	f.assertExpectations(t)
}

func TestUpdateOrderStatusCommandHandler_Handle_PlainStoreErrorBecomesRemote(t *testing.T) {
	f := newUpdateFixture()
	f.store.On("Get", mock.Anything, staleCreds, mock.Anything).Return(order.Order{}, errors.New("connection refused")).Once()

	_, err := f.handler.Handle(t.Context(), updateCommand(t, order.Kitchen, order.Accepted))

	assert.ErrorIs(t, err, ports.ErrRemote)
}

func TestUpdateOrderStatusCommandHandler_Handle_MissingOrder(t *testing.T) {
	f := newUpdateFixture()
	f.store.On("Get", mock.Anything, staleCreds, mock.Anything).
		Return(order.Order{}, errs.NewObjectNotFoundError("orderId", int64(42))).Once()

	_, err := f.handler.Handle(t.Context(), updateCommand(t, order.Kitchen, order.Accepted))

	require.ErrorIs(t, err, order.ErrOrderNotFound)
	assert.NotErrorIs(t, err, ports.ErrRemote)
}

func TestUpdateOrderStatusCommandHandler_Handle_PublishFailureIsLogged(t *testing.T) {
	f := newUpdateFixture()
	current := storedOrder(t, 42, order.Pending)
	accepted, err := current.RequestTransition(order.Kitchen, order.Accepted, staleCreds.Identity, fixedNow)
	require.NoError(t, err)
	f.store.On("Get", mock.Anything, staleCreds, current.ID()).Return(current, nil).Once()
	f.store.On("UpdateStatus", mock.Anything, staleCreds, mock.Anything, mock.Anything).Return(accepted, nil).Once()
	f.publisher.On("Publish", mock.Anything, mock.Anything).Return(errors.New("broker down")).Once()

	result, err := f.handler.Handle(t.Context(), updateCommand(t, order.Kitchen, order.Accepted))

	require.NoError(t, err)
	assert.True(t, result.Changed)
	assert.Equal(t, 1, f.logs.FilterMessage("status change not published").Len())
}

func TestUpdateOrderStatusCommandHandler_Handle_ValidationError(t *testing.T) {
	f := newUpdateFixture()

	_, err := f.handler.Handle(t.Context(), commands.UpdateOrderStatusCommand{})

	require.ErrorIs(t, err, commands.ErrUpdateOrderStatusCommandIsNotConstructed)
	f.store.AssertNotCalled(t, "Get", mock.Anything, mock.Anything, mock.Anything)
}

func TestUpdateOrderStatusCommandHandler_Handle_StaleWriteIsRevalidated(t *testing.T) {
	// Given the kitchen read PE but the waiter cancelled before the write landed
	f := newUpdateFixture()
	pending := storedOrder(t, 42, order.Pending)
	cancelled := storedOrder(t, 42, order.Cancelled)

	mock.InOrder(
		f.store.On("Get", mock.Anything, staleCreds, pending.ID()).Return(pending, nil).Once(),
		f.store.On("UpdateStatus", mock.Anything, staleCreds, updatedTo(order.Accepted), order.Pending).
			Return(order.Order{}, ports.NewStatusConflictError(pending.ID(), order.Pending)).Once(),
		f.store.On("Get", mock.Anything, staleCreds, pending.ID()).Return(cancelled, nil).Once(),
	)

	// When
	_, err := f.handler.Handle(t.Context(), updateCommand(t, order.Kitchen, order.Accepted))

	// Then the move is checked against CA and refused
	var rejected *order.InvalidTransitionError
	require.ErrorAs(t, err, &rejected)
	assert.Equal(t, order.Cancelled, rejected.From)
	f.store.AssertNumberOfCalls(t, "UpdateStatus", 1)
	f.publisher.AssertNotCalled(t, "Publish", mock.Anything, mock.Anything)
	assert.Equal(t, 1, f.logs.FilterMessage("order status moved during update, re-reading").Len())
	f.assertExpectations(t)
}

func TestUpdateOrderStatusCommandHandler_Handle_StaleWriteFindsTargetReached(t *testing.T) {
	f := newUpdateFixture()
	pending := storedOrder(t, 42, order.Pending)
	accepted := storedOrder(t, 42, order.Accepted)

	mock.InOrder(
		f.store.On("Get", mock.Anything, staleCreds, pending.ID()).Return(pending, nil).Once(),
		f.store.On("UpdateStatus", mock.Anything, staleCreds, mock.Anything, order.Pending).
			Return(order.Order{}, ports.NewStatusConflictError(pending.ID(), order.Pending)).Once(),
		f.store.On("Get", mock.Anything, staleCreds, pending.ID()).Return(accepted, nil).Once(),
	)

	result, err := f.handler.Handle(t.Context(), updateCommand(t, order.Kitchen, order.Accepted))

	require.NoError(t, err)
	assert.False(t, result.Changed)
	assert.Equal(t, accepted, result.Order)
	f.publisher.AssertNotCalled(t, "Publish", mock.Anything, mock.Anything)
}

func TestUpdateOrderStatusCommandHandler_Handle_StaleWriteRetriedFromNewStatus(t *testing.T) {
	// Given an admin cancel that first races an acceptance
	f := newUpdateFixture()
	pending := storedOrder(t, 42, order.Pending)
	accepted := storedOrder(t, 42, order.Accepted)
	cancelled, err := accepted.RequestTransition(order.Admin, order.Cancelled, staleCreds.Identity, fixedNow)
	require.NoError(t, err)

	mock.InOrder(
		f.store.On("Get", mock.Anything, staleCreds, pending.ID()).Return(pending, nil).Once(),
		f.store.On("UpdateStatus", mock.Anything, staleCreds, updatedTo(order.Cancelled), order.Pending).
			Return(order.Order{}, ports.NewStatusConflictError(pending.ID(), order.Pending)).Once(),
		f.store.On("Get", mock.Anything, staleCreds, pending.ID()).Return(accepted, nil).Once(),
		f.store.On("UpdateStatus", mock.Anything, staleCreds, updatedTo(order.Cancelled), order.Accepted).
			Return(cancelled, nil).Once(),
		f.publisher.On("Publish", mock.Anything, mock.Anything).Return(nil).Once(),
	)

	// When
	result, err := f.handler.Handle(t.Context(), updateCommand(t, order.Admin, order.Cancelled))

	// Then the second write is conditioned on AP
	require.NoError(t, err)
	assert.True(t, result.Changed)
	assert.Equal(t, order.Cancelled, result.Order.CurrentStatus())
	f.assertExpectations(t)
}

func TestUpdateOrderStatusCommandHandler_Handle_ConflictsExhausted(t *testing.T) {
	f := newUpdateFixture()
	pending := storedOrder(t, 42, order.Pending)
	f.store.On("Get", mock.Anything, staleCreds, pending.ID()).Return(pending, nil).Times(3)
	f.store.On("UpdateStatus", mock.Anything, staleCreds, mock.Anything, order.Pending).
		Return(order.Order{}, ports.NewStatusConflictError(pending.ID(), order.Pending)).Times(3)

	_, err := f.handler.Handle(t.Context(), updateCommand(t, order.Kitchen, order.Accepted))

	require.ErrorIs(t, err, ports.ErrStatusConflict)
	assert.NotErrorIs(t, err, ports.ErrRemote)
	f.publisher.AssertNotCalled(t, "Publish", mock.Anything, mock.Anything)
	f.assertExpectations(t)
}

// casOrderStore holds a single order and applies a status write only while
// the stored status equals the one the writer read. The first two reads wait
// for each other so both writers start from the same status.
type casOrderStore struct {
	mu      sync.Mutex
	current order.Order
	reads   int
	writes  []order.Status
	barrier sync.WaitGroup
}

func newCASOrderStore(current order.Order, writers int) *casOrderStore {
	s := &casOrderStore{current: current}
	s.barrier.Add(writers)
	return s
}

func (s *casOrderStore) Get(context.Context, ports.Credentials, kernel.OrderID) (order.Order, error) {
	s.mu.Lock()
	current := s.current
	s.reads++
	first := s.reads <= 2
	s.mu.Unlock()

	if first {
		s.barrier.Done()
		s.barrier.Wait()
	}
	return current, nil
}

func (s *casOrderStore) UpdateStatus(_ context.Context, _ ports.Credentials, updated order.Order, from order.Status) (order.Order, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.current.CurrentStatus() != from {
		return order.Order{}, ports.NewStatusConflictError(updated.ID(), from)
	}
	s.current = updated
	s.writes = append(s.writes, updated.CurrentStatus())
	return updated, nil
}

func (s *casOrderStore) Create(context.Context, ports.Credentials, order.Order) (order.Order, error) {
	return order.Order{}, errors.New("not supported")
}

func (s *casOrderStore) ListByStatus(context.Context, ports.Credentials, []order.Status) ([]order.Order, error) {
	return nil, errors.New("not supported")
}

func (s *casOrderStore) ListByUser(context.Context, ports.Credentials) ([]order.Order, error) {
	return nil, errors.New("not supported")
}

func TestUpdateOrderStatusCommandHandler_Handle_ConcurrentDashboardsKeepTerminalStatus(t *testing.T) {
	// Given a waiter cancelling and the kitchen accepting the same pending order
	store := newCASOrderStore(storedOrder(t, 42, order.Pending), 2)
	publisher := new(MockStatusPublisher)
	publisher.On("Publish", mock.Anything, mock.Anything).Return(nil)
	handler := commands.NewUpdateOrderStatusCommandHandler(store, new(MockTokenRefresher), publisher, clock, zap.NewNop())

	type outcome struct {
		result commands.UpdateOrderStatusResult
		err    error
	}
	outcomes := make(chan outcome, 2)
	for _, cmd := range []commands.UpdateOrderStatusCommand{
		updateCommand(t, order.Waiter, order.Cancelled),
		updateCommand(t, order.Kitchen, order.Accepted),
	} {
		go func() {
			result, err := handler.Handle(t.Context(), cmd)
			outcomes <- outcome{result: result, err: err}
		}()
	}

	// When both finish
	var changed, rejected int
	for range 2 {
		o := <-outcomes
		switch {
		case o.err == nil && o.result.Changed:
			changed++
		case errors.Is(o.err, order.ErrInvalidTransition):
			rejected++
		default:
			t.Fatalf("unexpected outcome: changed=%v err=%v", o.result.Changed, o.err)
		}
	}

	// Then exactly one move was written and the other was judged against it
	assert.Equal(t, 1, changed)
	assert.Equal(t, 1, rejected)
	require.Len(t, store.writes, 1)
	assert.Equal(t, store.writes[0], store.current.CurrentStatus())
	publisher.AssertNumberOfCalls(t, "Publish", 1)
}
