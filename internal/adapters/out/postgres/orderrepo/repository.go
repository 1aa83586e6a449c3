package orderrepo

import (
	"context"
	"errors"

	"orderflow/internal/core/domain/model/kernel"
	"orderflow/internal/core/domain/model/order"
	"orderflow/internal/core/ports"
	"orderflow/internal/pkg/errs"

	"gorm.io/gorm"
)

// GormOrderRepository implements OrderRepository using GORM.
type GormOrderRepository struct {
	db      *gorm.DB
	tracker aggregateTracker
}

// aggregateTracker is told about every order written through the repository.
type aggregateTracker interface {
	TrackOrder(o order.Order)
}

// NewGormOrderRepository creates a new GORM order repository.
func NewGormOrderRepository(db *gorm.DB, tracker aggregateTracker) *GormOrderRepository {
	return &GormOrderRepository{
		db:      db,
		tracker: tracker,
	}
}

// Add saves a new order with its items and returns it with the assigned id.
func (r *GormOrderRepository) Add(ctx context.Context, aggregate order.Order) (order.Order, error) {
	if aggregate.IsPersisted() {
		return order.Order{}, errs.NewValueIsInvalidError("order already has an id")
	}

	dto := fromDomain(aggregate)
	if err := r.db.WithContext(ctx).Create(&dto).Error; err != nil {
		return order.Order{}, err
	}

	id, err := kernel.NewOrderID(dto.ID)
	if err != nil {
		return order.Order{}, err
	}

	stored := aggregate.WithID(id)
	r.tracker.TrackOrder(stored)
	return stored, nil
}

// Update saves the status and modification fields of an existing order,
// provided its stored status is still from. Items are immutable and never
// rewritten.
func (r *GormOrderRepository) Update(ctx context.Context, aggregate order.Order, from order.Status) error {
	if err := aggregate.ID().Validate(); err != nil {
		return err
	}

	result := r.db.WithContext(ctx).
		Model(&OrderDTO{}).
		Where("id = ? AND status = ?", aggregate.ID().Int64(), from.String()).
		Updates(map[string]any{
			"status":      aggregate.CurrentStatus().String(),
			"modified_at": aggregate.ModifiedAt(),
			"modified_by": aggregate.ModifiedBy(),
		})
	if result.Error != nil {
		return result.Error
	}

	if result.RowsAffected == 0 {
		return r.missingOrMoved(ctx, aggregate.ID(), from)
	}

	r.tracker.TrackOrder(aggregate)
	return nil
}

// missingOrMoved tells apart the two reasons a conditional update matched no row.
func (r *GormOrderRepository) missingOrMoved(ctx context.Context, id kernel.OrderID, from order.Status) error {
	var count int64
	if err := r.db.WithContext(ctx).Model(&OrderDTO{}).Where("id = ?", id.Int64()).Count(&count).Error; err != nil {
		return err
	}
	if count == 0 {
		return errs.NewObjectNotFoundError("orderId", id.Int64())
	}
	return ports.NewStatusConflictError(id, from)
}

// Get retrieves an order by ID.
func (r *GormOrderRepository) Get(ctx context.Context, id kernel.OrderID) (order.Order, error) {
	if err := id.Validate(); err != nil {
		return order.Order{}, err
	}

	var dto OrderDTO
	if err := r.withItems(ctx).First(&dto, "id = ?", id.Int64()).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return order.Order{}, errs.NewObjectNotFoundError("orderId", id.Int64())
		}
		return order.Order{}, err
	}

	return toDomain(dto)
}

// ListByStatus retrieves the orders in any of statuses, oldest first.
func (r *GormOrderRepository) ListByStatus(ctx context.Context, statuses []order.Status) ([]order.Order, error) {
	if len(statuses) == 0 {
		return []order.Order{}, nil
	}

	codes := make([]string, 0, len(statuses))
	for _, s := range statuses {
		codes = append(codes, s.String())
	}

	var dtos []OrderDTO
	if err := r.withItems(ctx).Where("status IN ?", codes).Order("created_at, id").Find(&dtos).Error; err != nil {
		return nil, err
	}

	return toDomainList(dtos)
}

// ListByCreator retrieves the orders created under identity, newest first.
func (r *GormOrderRepository) ListByCreator(ctx context.Context, identity string) ([]order.Order, error) {
	var dtos []OrderDTO
	if err := r.withItems(ctx).Where("created_by = ?", identity).Order("created_at DESC, id DESC").Find(&dtos).Error; err != nil {
		return nil, err
	}
	return toDomainList(dtos)
}

func toDomainList(dtos []OrderDTO) ([]order.Order, error) {
	orders := make([]order.Order, 0, len(dtos))
	for _, dto := range dtos {
		o, err := toDomain(dto)
		if err != nil {
			return nil, err
		}
		orders = append(orders, o)
	}
	return orders, nil
}

func (r *GormOrderRepository) withItems(ctx context.Context) *gorm.DB {
	return r.db.WithContext(ctx).Preload("Items", func(db *gorm.DB) *gorm.DB {
		return db.Order("position")
	})
}
