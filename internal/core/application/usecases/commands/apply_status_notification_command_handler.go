package commands

import (
	"context"

	"orderflow/internal/core/application/usecases/session"
	"orderflow/internal/core/domain/model/order"
	"orderflow/internal/core/domain/services"
	"orderflow/internal/core/ports"

	"go.uber.org/zap"
)

// NotificationOutcome says what happened to a pushed event.
type NotificationOutcome int

const (
	// NotificationDiscarded: the event's status is behind the held one.
	NotificationDiscarded NotificationOutcome = iota + 1

	// NotificationMerged: the order was re-read and the board updated.
	NotificationMerged

	// NotificationSuperseded: the re-read order was behind the held one
	// (another update won the race); the board kept its order.
	NotificationSuperseded
)

func (o NotificationOutcome) String() string {
	switch o {
	case NotificationDiscarded:
		return "discarded"
	case NotificationMerged:
		return "merged"
	case NotificationSuperseded:
		return "superseded"
	default:
		return "unknown"
	}
}

// ApplyStatusNotificationCommandHandler converges the board on pushed events.
//
// Events may arrive late or out of order. An event whose status cannot follow
// the held status is discarded without a read. Otherwise the order is re-read
// from the store, which stays the source of truth, and merged into the board.
type ApplyStatusNotificationCommandHandler struct {
	board      ports.OrderBoard
	store      ports.OrderStore
	session    *session.Service
	reconciler services.StatusReconciler
	logger     *zap.Logger
}

// NewApplyStatusNotificationCommandHandler creates the handler. session holds
// the service credentials used for re-reads.
func NewApplyStatusNotificationCommandHandler(
	board ports.OrderBoard,
	store ports.OrderStore,
	session *session.Service,
	logger *zap.Logger,
) ApplyStatusNotificationCommandHandler {
	return ApplyStatusNotificationCommandHandler{
		board:      board,
		store:      store,
		session:    session,
		reconciler: services.NewStatusReconciler(),
		logger:     logger,
	}
}

// Handle applies one event and reports the outcome.
func (h ApplyStatusNotificationCommandHandler) Handle(
	ctx context.Context,
	cmd ApplyStatusNotificationCommand,
) (NotificationOutcome, error) {
	if err := cmd.Validate(); err != nil {
		return 0, err
	}
	event := cmd.Event()

	if held, ok := h.board.Get(event.OrderID); ok && !h.reconciler.Accept(held.CurrentStatus(), event.Status) {
		h.logger.Debug("stale status notification discarded",
			zap.Int64("orderId", event.OrderID.Int64()),
			zap.Stringer("held", held.CurrentStatus()),
			zap.Stringer("incoming", event.Status),
			zap.Stringer("eventId", event.EventID),
		)
		return NotificationDiscarded, nil
	}

	var fresh order.Order
	err := h.session.Do(ctx, "read order", func(ctx context.Context, creds ports.Credentials) error {
		var readErr error
		fresh, readErr = h.store.Get(ctx, creds, event.OrderID)
		return readErr
	})
	if err != nil {
		return 0, session.StoreError("read order", err)
	}

	if !h.board.Put(fresh) {
		return NotificationSuperseded, nil
	}
	return NotificationMerged, nil
}
