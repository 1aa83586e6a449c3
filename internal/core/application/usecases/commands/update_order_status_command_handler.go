package commands

import (
	"context"
	"errors"

	"orderflow/internal/core/application/usecases/session"
	"orderflow/internal/core/domain/model/order"
	"orderflow/internal/core/ports"
	"orderflow/internal/pkg/tracing"

	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"
)

// maxStatusConflicts is how many conditional writes one update may lose to
// concurrent writers before the conflict is returned.
const maxStatusConflicts = 3

// UpdateOrderStatusResult is the outcome of a status update.
type UpdateOrderStatusResult struct {
	// Order is the order as stored after the call.
	Order order.Order

	// Changed is false when the order already had the target status.
	Changed bool

	// Credentials are the credentials the caller must hold from now on.
	// They differ from the command's when a refresh happened.
	Credentials ports.Credentials
}

// UpdateOrderStatusCommandHandler applies a requested transition: it reads the
// order from the store, checks the transition policy, writes the new status
// and tells other dashboards about it.
//
// Errors are values the caller branches on:
//   - order.ErrInvalidTransition, order.ErrOrderNotFound: rejected, nothing written
//   - ports.ErrStatusConflict: other writers kept moving the order, nothing written
//   - ports.ErrAuthExpired: the session is gone, sign in again
//   - ports.ErrRemote: the store failed; never retried
//
// Example:
//
//	handler := NewUpdateOrderStatusCommandHandler(store, refresher, publisher, time.Now, logger)
//	result, err := handler.Handle(ctx, cmd)
//	switch {
//	case errors.Is(err, order.ErrInvalidTransition):
//	    // show "not allowed for your role"
//	case errors.Is(err, ports.ErrAuthExpired):
//	    // redirect to login
//	}
type UpdateOrderStatusCommandHandler struct {
	store     ports.OrderStore
	refresher ports.TokenRefresher
	publisher ports.StatusPublisher
	clock     Clock
	logger    *zap.Logger
}

// NewUpdateOrderStatusCommandHandler creates a handler for status updates.
func NewUpdateOrderStatusCommandHandler(
	store ports.OrderStore,
	refresher ports.TokenRefresher,
	publisher ports.StatusPublisher,
	clock Clock,
	logger *zap.Logger,
) UpdateOrderStatusCommandHandler {
	return UpdateOrderStatusCommandHandler{
		store:     store,
		refresher: refresher,
		publisher: publisher,
		clock:     clock,
		logger:    logger,
	}
}

// Handle processes the status update.
//
// Steps: read the current order; succeed without writing if it already has
// the target status; validate the move with Order.RequestTransition; write
// conditioned on the status just read; publish. A write that finds the status
// moved on starts over from the read, so the move is validated against the
// status it actually replaces. The first ErrUnauthorized from any call
// triggers one token refresh and one retry of that call. A failed publish is
// logged and does not fail the update.
func (h UpdateOrderStatusCommandHandler) Handle(
	ctx context.Context,
	cmd UpdateOrderStatusCommand,
) (UpdateOrderStatusResult, error) {
	if err := cmd.Validate(); err != nil {
		return UpdateOrderStatusResult{}, err
	}

	ctx, span := tracing.Start(ctx, "UpdateOrderStatus",
		attribute.Int64("order.id", cmd.OrderID().Int64()),
		attribute.String("order.role", cmd.Role().String()),
		attribute.String("order.target", cmd.Target().String()),
	)
	defer span.End()

	attempt := session.NewAttempt(h.refresher, cmd.Credentials())
	result, err := h.handle(ctx, cmd, attempt)
	result.Credentials = attempt.Credentials()
	if err != nil {
		tracing.Fail(span, err)
		return result, err
	}
	return result, nil
}

func (h UpdateOrderStatusCommandHandler) handle(
	ctx context.Context,
	cmd UpdateOrderStatusCommand,
	attempt *session.Attempt,
) (UpdateOrderStatusResult, error) {
	for conflicts := 1; ; conflicts++ {
		current, err := h.read(ctx, cmd, attempt)
		if err != nil {
			return UpdateOrderStatusResult{}, err
		}

		if current.CurrentStatus() == cmd.Target() {
			return UpdateOrderStatusResult{Order: current}, nil
		}

		next, err := current.RequestTransition(cmd.Role(), cmd.Target(), cmd.Credentials().Identity, h.clock())
		if err != nil {
			return UpdateOrderStatusResult{}, err
		}

		stored, err := h.write(ctx, attempt, next, current.CurrentStatus())
		if errors.Is(err, ports.ErrStatusConflict) && conflicts < maxStatusConflicts {
			h.logger.Info("order status moved during update, re-reading",
				zap.Int64("orderId", cmd.OrderID().Int64()),
				zap.Stringer("from", current.CurrentStatus()),
				zap.Stringer("target", cmd.Target()),
			)
			continue
		}
		if err != nil {
			return UpdateOrderStatusResult{}, err
		}

		if err = h.publisher.Publish(ctx, ports.NewStatusChanged(stored)); err != nil {
			h.logger.Warn("status change not published",
				zap.Int64("orderId", stored.ID().Int64()),
				zap.Stringer("status", stored.CurrentStatus()),
				zap.Error(err),
			)
		}

		return UpdateOrderStatusResult{Order: stored, Changed: true}, nil
	}
}

func (h UpdateOrderStatusCommandHandler) read(
	ctx context.Context,
	cmd UpdateOrderStatusCommand,
	attempt *session.Attempt,
) (order.Order, error) {
	var current order.Order
	err := attempt.Do(ctx, "read order", func(ctx context.Context, creds ports.Credentials) error {
		var readErr error
		current, readErr = h.store.Get(ctx, creds, cmd.OrderID())
		return readErr
	})
	if err != nil {
		return order.Order{}, session.StoreError("read order", err)
	}
	return current, nil
}

func (h UpdateOrderStatusCommandHandler) write(
	ctx context.Context,
	attempt *session.Attempt,
	next order.Order,
	from order.Status,
) (order.Order, error) {
	var stored order.Order
	err := attempt.Do(ctx, "write order status", func(ctx context.Context, creds ports.Credentials) error {
		var writeErr error
		stored, writeErr = h.store.UpdateStatus(ctx, creds, next, from)
		return writeErr
	})
	if err != nil {
		return order.Order{}, session.StoreError("write order status", err)
	}
	return stored, nil
}
