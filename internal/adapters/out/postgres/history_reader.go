package postgres

import (
	"context"
	"time"

	"orderflow/internal/core/domain/model/kernel"
	"orderflow/internal/core/domain/model/order"
	"orderflow/internal/core/ports"
	"orderflow/internal/pkg/errs"

	"gorm.io/gorm"
)

// HistoryReader reads status history rows written by the unit of work.
type HistoryReader struct {
	db *gorm.DB
}

func NewHistoryReader(db *gorm.DB) *HistoryReader {
	return &HistoryReader{db: db}
}

// History returns the order's history oldest first. A known order always has
// at least its creation entry.
func (r *HistoryReader) History(ctx context.Context, _ ports.Credentials, id kernel.OrderID) ([]ports.StatusChange, error) {
	var exists bool
	if err := r.db.WithContext(ctx).
		Raw(`SELECT EXISTS (SELECT 1 FROM orders WHERE id = ?)`, id.Int64()).
		Scan(&exists).Error; err != nil {
		return nil, err
	}
	if !exists {
		return nil, errs.NewObjectNotFoundError("orderId", id.Int64())
	}

	rows, err := r.db.WithContext(ctx).Raw(`
		SELECT
			status,
			updated_by,
			updated_at
		FROM order_status_history
		WHERE order_id = ?
		ORDER BY updated_at, id
	`, id.Int64()).Rows()
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	changes := make([]ports.StatusChange, 0)
	for rows.Next() {
		var code, updatedBy string
		var updatedAt time.Time

		if err = rows.Scan(&code, &updatedBy, &updatedAt); err != nil {
			return nil, err
		}

		status, parseErr := order.ParseStatus(code)
		if parseErr != nil {
			return nil, parseErr
		}

		changes = append(changes, ports.StatusChange{Status: status, UpdatedBy: updatedBy, UpdatedAt: updatedAt})
	}

	if err = rows.Err(); err != nil {
		return nil, err
	}

	return changes, nil
}
