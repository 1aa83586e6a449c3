package commands

import (
	"context"
	"errors"

	"orderflow/internal/core/application/usecases/session"
	"orderflow/internal/core/domain/model/kernel"
	"orderflow/internal/core/domain/model/order"
	"orderflow/internal/core/ports"
	"orderflow/internal/pkg/errs"

	"go.uber.org/zap"
)

// SyncBoardResult counts what a sync did.
type SyncBoardResult struct {
	Read   int
	Merged int
}

// SyncBoardCommandHandler loads every non-terminal order into the board, then
// re-reads the held orders that were not in that list (they have reached a
// terminal status or vanished). Merges go through the board's guard, so a
// sync never moves an order backwards.
type SyncBoardCommandHandler struct {
	board   ports.OrderBoard
	store   ports.OrderStore
	session *session.Service
	logger  *zap.Logger
}

// NewSyncBoardCommandHandler creates the handler.
func NewSyncBoardCommandHandler(
	board ports.OrderBoard,
	store ports.OrderStore,
	session *session.Service,
	logger *zap.Logger,
) SyncBoardCommandHandler {
	return SyncBoardCommandHandler{board: board, store: store, session: session, logger: logger}
}

// Handle runs one sync. A failure to list open orders aborts the sync; a
// failure to re-read a single held order is logged and skipped.
func (h SyncBoardCommandHandler) Handle(ctx context.Context, cmd SyncBoardCommand) (SyncBoardResult, error) {
	if err := cmd.Validate(); err != nil {
		return SyncBoardResult{}, err
	}

	var open []order.Order
	err := h.session.Do(ctx, "list open orders", func(ctx context.Context, creds ports.Credentials) error {
		var listErr error
		open, listErr = h.store.ListByStatus(ctx, creds, openStatuses())
		return listErr
	})
	if err != nil {
		return SyncBoardResult{}, session.StoreError("list open orders", err)
	}

	var result SyncBoardResult
	seen := make(map[kernel.OrderID]bool, len(open))
	for _, o := range open {
		seen[o.ID()] = true
		result.Read++
		if h.board.Put(o) {
			result.Merged++
		}
	}

	for _, id := range h.board.IDs() {
		if seen[id] {
			continue
		}
		if held, ok := h.board.Get(id); ok && held.CurrentStatus().IsTerminal() {
			continue
		}

		var fresh order.Order
		err = h.session.Do(ctx, "read order", func(ctx context.Context, creds ports.Credentials) error {
			var readErr error
			fresh, readErr = h.store.Get(ctx, creds, id)
			return readErr
		})
		if errors.Is(err, ports.ErrAuthExpired) {
			return result, err
		}
		if err != nil {
			level := zap.WarnLevel
			if errors.Is(err, errs.ErrObjectNotFound) {
				level = zap.InfoLevel
			}
			h.logger.Log(level, "held order not re-read", zap.Int64("orderId", id.Int64()), zap.Error(err))
			continue
		}

		result.Read++
		if h.board.Put(fresh) {
			result.Merged++
		}
	}

	return result, nil
}

func openStatuses() []order.Status {
	var out []order.Status
	for _, s := range order.Statuses() {
		if !s.IsTerminal() {
			out = append(out, s)
		}
	}
	return out
}
