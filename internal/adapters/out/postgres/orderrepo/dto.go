// Package orderrepo maps orders to their relational form and implements the
// order repository on top of GORM.
package orderrepo

import (
	"time"

	"orderflow/internal/core/domain/model/kernel"
	"orderflow/internal/core/domain/model/order"
)

// OrderDTO represents the database structure for persisting orders.
// The status is stored as its two-letter code.
type OrderDTO struct {
	ID          int64          `gorm:"primaryKey;autoIncrement"`
	UserID      int64          `gorm:"index;not null"`
	Status      string         `gorm:"type:varchar(2);index;not null"`
	ScheduledAt *time.Time
	CreatedAt   time.Time      `gorm:"not null;autoCreateTime:false"`
	ModifiedAt  time.Time      `gorm:"not null"`
	CreatedBy   string         `gorm:"type:varchar(255);not null"`
	ModifiedBy  string         `gorm:"type:varchar(255);not null"`
	Items       []OrderItemDTO `gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE"`
}

// TableName overrides GORM's default naming convention.
func (OrderDTO) TableName() string {
	return "orders"
}

// OrderItemDTO is one order line. Position keeps the lines in their original order.
type OrderItemDTO struct {
	ID        int64 `gorm:"primaryKey;autoIncrement"`
	OrderID   int64 `gorm:"index;not null"`
	Position  int   `gorm:"not null"`
	ProductID int64 `gorm:"not null"`
	Quantity  int   `gorm:"not null"`
	UnitPrice int64 `gorm:"not null"`
}

func (OrderItemDTO) TableName() string {
	return "order_items"
}

// StatusHistoryDTO records one status an order entered, and who moved it there.
type StatusHistoryDTO struct {
	ID        int64     `gorm:"primaryKey;autoIncrement"`
	OrderID   int64     `gorm:"index;not null"`
	Status    string    `gorm:"type:varchar(2);not null"`
	UpdatedBy string    `gorm:"type:varchar(255);not null"`
	UpdatedAt time.Time `gorm:"not null;autoUpdateTime:false"`
}

func (StatusHistoryDTO) TableName() string {
	return "order_status_history"
}

// NewStatusHistoryDTO builds the history row for an order's current status.
func NewStatusHistoryDTO(o order.Order) StatusHistoryDTO {
	return StatusHistoryDTO{
		OrderID:   o.ID().Int64(),
		Status:    o.CurrentStatus().String(),
		UpdatedBy: o.ModifiedBy(),
		UpdatedAt: o.ModifiedAt(),
	}
}

// fromDomain converts an order to its database representation.
func fromDomain(o order.Order) OrderDTO {
	items := o.Items()
	dtoItems := make([]OrderItemDTO, 0, len(items))
	for i, item := range items {
		dtoItems = append(dtoItems, OrderItemDTO{
			OrderID:   o.ID().Int64(),
			Position:  i,
			ProductID: item.ProductID,
			Quantity:  item.Quantity,
			UnitPrice: item.UnitPrice,
		})
	}

	return OrderDTO{
		ID:          o.ID().Int64(),
		UserID:      o.UserID(),
		Status:      o.CurrentStatus().String(),
		ScheduledAt: o.ScheduledAt(),
		CreatedAt:   o.CreatedAt(),
		ModifiedAt:  o.ModifiedAt(),
		CreatedBy:   o.CreatedBy(),
		ModifiedBy:  o.ModifiedBy(),
		Items:       dtoItems,
	}
}

// toDomain rebuilds an order with RestoreOrder. Items must be sorted by Position.
func toDomain(dto OrderDTO) (order.Order, error) {
	id, err := kernel.NewOrderID(dto.ID)
	if err != nil {
		return order.Order{}, err
	}

	status, err := order.ParseStatus(dto.Status)
	if err != nil {
		return order.Order{}, err
	}

	items := make([]order.Item, 0, len(dto.Items))
	for _, item := range dto.Items {
		items = append(items, order.Item{
			ProductID: item.ProductID,
			Quantity:  item.Quantity,
			UnitPrice: item.UnitPrice,
		})
	}

	return order.RestoreOrder(order.State{
		ID:          id,
		UserID:      dto.UserID,
		Items:       items,
		Status:      status,
		ScheduledAt: dto.ScheduledAt,
		CreatedAt:   dto.CreatedAt,
		ModifiedAt:  dto.ModifiedAt,
		CreatedBy:   dto.CreatedBy,
		ModifiedBy:  dto.ModifiedBy,
	})
}
