package postgres

import (
	"context"

	"orderflow/internal/core/domain/model/kernel"
	"orderflow/internal/core/domain/model/order"
	"orderflow/internal/core/ports"
)

// OrderStore is the ports.OrderStore for orders kept in this service's
// database. Access control happens at the HTTP edge, so credentials are not
// checked here and ErrUnauthorized is never returned.
type OrderStore struct {
	uowFactory ports.UnitOfWorkFactory
}

// NewOrderStore creates a store backed by units of work from uowFactory.
func NewOrderStore(uowFactory ports.UnitOfWorkFactory) *OrderStore {
	return &OrderStore{uowFactory: uowFactory}
}

func (s *OrderStore) Get(ctx context.Context, _ ports.Credentials, id kernel.OrderID) (order.Order, error) {
	return s.uowFactory.Create().OrderRepository().Get(ctx, id)
}

func (s *OrderStore) ListByStatus(ctx context.Context, _ ports.Credentials, statuses []order.Status) ([]order.Order, error) {
	return s.uowFactory.Create().OrderRepository().ListByStatus(ctx, statuses)
}

// ListByUser returns the orders created under the caller's identity.
func (s *OrderStore) ListByUser(ctx context.Context, creds ports.Credentials) ([]order.Order, error) {
	return s.uowFactory.Create().OrderRepository().ListByCreator(ctx, creds.Identity)
}

// UpdateStatus writes the new status and its history row in one transaction.
// A row that left status from in the meantime is not touched.
func (s *OrderStore) UpdateStatus(ctx context.Context, _ ports.Credentials, updated order.Order, from order.Status) (order.Order, error) {
	uow := s.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return order.Order{}, err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	if err := uow.OrderRepository().Update(ctx, updated, from); err != nil {
		return order.Order{}, err
	}

	if err := uow.Commit(ctx); err != nil {
		return order.Order{}, err
	}

	return updated, nil
}

// Create inserts the order, its items and its first history row in one transaction.
func (s *OrderStore) Create(ctx context.Context, _ ports.Credentials, created order.Order) (order.Order, error) {
	uow := s.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return order.Order{}, err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	stored, err := uow.OrderRepository().Add(ctx, created)
	if err != nil {
		return order.Order{}, err
	}

	if err = uow.Commit(ctx); err != nil {
		return order.Order{}, err
	}

	return stored, nil
}
