// Package postgres stores orders in this service's own PostgreSQL database.
//
// It provides the GORM-based Unit of Work, the OrderStore built on it, the
// connection helper and the embedded goose migrations.
//
// Every order added or updated inside a unit of work is tracked; Commit
// writes one status history row per tracked order in the same transaction,
// so the history can never disagree with the orders table.
//
// Basic Transaction Management:
//
//	factory := NewGormUnitOfWorkFactory(db)
//	uow := factory.Create()
//
//	if err := uow.Begin(ctx); err != nil {
//	    return err
//	}
//	defer func() { _ = uow.Rollback(ctx) }()
//
//	if err := uow.OrderRepository().Update(ctx, next, current.CurrentStatus()); err != nil {
//	    return err
//	}
//
//	return uow.Commit(ctx)
//
// Concurrency Considerations:
//   - Each UnitOfWork instance provides isolated transactions
//   - Multiple goroutines should use separate UnitOfWork instances
package postgres

import (
	"context"

	"orderflow/internal/adapters/out/postgres/orderrepo"
	"orderflow/internal/core/domain/model/order"
	"orderflow/internal/core/ports"

	"gorm.io/gorm"
)

// GormUnitOfWorkFactory creates UnitOfWork instances using GORM database connections.
// Factory ensures each business operation gets a fresh unit of work instance
// with proper isolation from other concurrent operations.
type GormUnitOfWorkFactory struct {
	db *gorm.DB
}

// NewGormUnitOfWorkFactory creates a factory for GORM-based unit of work instances.
// The provided database connection will be used for all created unit of work instances.
func NewGormUnitOfWorkFactory(db *gorm.DB) *GormUnitOfWorkFactory {
	return &GormUnitOfWorkFactory{db: db}
}

// Create produces a new UnitOfWork instance with its own transaction state
// and tracked orders.
func (f *GormUnitOfWorkFactory) Create() ports.UnitOfWork {
	return &GormUnitOfWork{
		db: f.db,
	}
}

// GormUnitOfWork coordinates a database transaction and the status history
// rows of the orders written in it.
type GormUnitOfWork struct {
	db      *gorm.DB
	tx      *gorm.DB
	tracked []order.Order
}

// Begin initiates a new database transaction for the unit of work.
// Multiple calls to Begin on the same instance are safe and will not create nested transactions.
func (uow *GormUnitOfWork) Begin(ctx context.Context) error {
	if uow.tx != nil {
		return nil
	}

	uow.tx = uow.db.WithContext(ctx).Begin()
	if uow.tx.Error != nil {
		err := uow.tx.Error
		uow.tx = nil
		return err
	}

	uow.tracked = nil
	return nil
}

// Commit writes the history rows of tracked orders and commits.
// After commit, the transaction is closed and cannot be reused.
//
// Returns error if no active transaction exists or if the commit operation fails.
func (uow *GormUnitOfWork) Commit(ctx context.Context) error {
	if uow.tx == nil {
		return gorm.ErrInvalidTransaction
	}

	if len(uow.tracked) > 0 {
		history := make([]orderrepo.StatusHistoryDTO, 0, len(uow.tracked))
		for _, o := range uow.tracked {
			history = append(history, orderrepo.NewStatusHistoryDTO(o))
		}
		if err := uow.tx.WithContext(ctx).Create(&history).Error; err != nil {
			return err
		}
	}

	err := uow.tx.Commit().Error
	uow.tx = nil
	uow.tracked = nil
	return err
}

// Rollback discards all changes made within the current transaction.
// After rollback, the transaction is closed and cannot be reused.
//
// Returns error if no active transaction exists or if the rollback operation fails.
func (uow *GormUnitOfWork) Rollback(_ context.Context) error {
	if uow.tx == nil {
		return gorm.ErrInvalidTransaction
	}

	err := uow.tx.Rollback().Error
	uow.tx = nil
	uow.tracked = nil
	return err
}

// OrderRepository provides access to order persistence within the unit of work.
// Repository operations run in the current transaction if one is active,
// otherwise on the main connection; only writes inside a transaction get
// history rows.
func (uow *GormUnitOfWork) OrderRepository() ports.OrderRepository {
	db := uow.db
	if uow.tx != nil {
		db = uow.tx
	}
	return orderrepo.NewGormOrderRepository(db, uow)
}

// TrackOrder registers an order written in this unit of work. Repositories
// call it; outside a transaction it is a no-op.
func (uow *GormUnitOfWork) TrackOrder(o order.Order) {
	if uow.tx == nil {
		return
	}
	uow.tracked = append(uow.tracked, o)
}

// TrackedOrders returns the orders written since Begin.
func (uow *GormUnitOfWork) TrackedOrders() []order.Order {
	return append([]order.Order(nil), uow.tracked...)
}
