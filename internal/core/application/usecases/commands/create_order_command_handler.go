package commands

import (
	"context"

	"orderflow/internal/core/application/usecases/session"
	"orderflow/internal/core/domain/model/order"
	"orderflow/internal/core/ports"
	"orderflow/internal/pkg/tracing"

	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"
)

// CreateOrderResult carries the stored order and the caller's credentials.
type CreateOrderResult struct {
	Order       order.Order
	Credentials ports.Credentials
}

// CreateOrderCommandHandler places new orders in Pending status and announces
// them so the kitchen and waiter queues pick them up.
//
// Example:
//
//	handler := NewCreateOrderCommandHandler(store, refresher, publisher, time.Now, logger)
//	result, err := handler.Handle(ctx, cmd)
//	if err != nil {
//	    return fmt.Errorf("order creation failed: %w", err)
//	}
//	fmt.Printf("order %s placed\n", result.Order.ID())
type CreateOrderCommandHandler struct {
	store     ports.OrderStore
	refresher ports.TokenRefresher
	publisher ports.StatusPublisher
	clock     Clock
	logger    *zap.Logger
}

// NewCreateOrderCommandHandler creates a handler for order creation.
func NewCreateOrderCommandHandler(
	store ports.OrderStore,
	refresher ports.TokenRefresher,
	publisher ports.StatusPublisher,
	clock Clock,
	logger *zap.Logger,
) CreateOrderCommandHandler {
	return CreateOrderCommandHandler{
		store:     store,
		refresher: refresher,
		publisher: publisher,
		clock:     clock,
		logger:    logger,
	}
}

// Handle builds the order (rejecting a schedule less than an hour ahead),
// stores it and publishes its Pending status.
func (h CreateOrderCommandHandler) Handle(ctx context.Context, cmd CreateOrderCommand) (CreateOrderResult, error) {
	if err := cmd.Validate(); err != nil {
		return CreateOrderResult{}, err
	}

	ctx, span := tracing.Start(ctx, "CreateOrder", attribute.Int64("order.user_id", cmd.UserID()))
	defer span.End()

	pending, err := order.NewOrder(cmd.UserID(), cmd.Items(), cmd.ScheduledAt(), cmd.Credentials().Identity, h.clock())
	if err != nil {
		tracing.Fail(span, err)
		return CreateOrderResult{Credentials: cmd.Credentials()}, err
	}

	attempt := session.NewAttempt(h.refresher, cmd.Credentials())
	var stored order.Order
	err = attempt.Do(ctx, "create order", func(ctx context.Context, creds ports.Credentials) error {
		var createErr error
		stored, createErr = h.store.Create(ctx, creds, pending)
		return createErr
	})
	if err != nil {
		err = session.StoreError("create order", err)
		tracing.Fail(span, err)
		return CreateOrderResult{Credentials: attempt.Credentials()}, err
	}

	if err = h.publisher.Publish(ctx, ports.NewStatusChanged(stored)); err != nil {
		h.logger.Warn("new order not published", zap.Int64("orderId", stored.ID().Int64()), zap.Error(err))
	}

	return CreateOrderResult{Order: stored, Credentials: attempt.Credentials()}, nil
}
