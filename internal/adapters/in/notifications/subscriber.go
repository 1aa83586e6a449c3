// Package notifications feeds pushed status changes into the board.
//
// Every subscriber decodes broker.StatusChanged messages and hands them to
// the ApplyStatusNotification handler. Messages are hints: a message that
// cannot be decoded or applied is logged and acknowledged, and the board
// resync job repairs whatever was missed.
//
// A lost connection is retried after ReconnectDelay, for as long as the
// context lives.
package notifications

import (
	"context"
	"time"

	"orderflow/internal/adapters/out/broker"
	"orderflow/internal/core/application/usecases/commands"
	"orderflow/internal/core/ports"

	"go.uber.org/zap"
)

// ReconnectDelay is the fixed pause between connection attempts.
const ReconnectDelay = 5 * time.Second

type statusNotificationHandler interface {
	Handle(ctx context.Context, cmd commands.ApplyStatusNotificationCommand) (commands.NotificationOutcome, error)
}

type dispatcher struct {
	handler statusNotificationHandler
	logger  *zap.Logger
}

func (d dispatcher) dispatchBody(ctx context.Context, body []byte) {
	event, err := broker.Decode(body)
	if err != nil {
		d.logger.Warn("undecodable status notification skipped", zap.Error(err))
		return
	}
	d.dispatch(ctx, event)
}

func (d dispatcher) dispatch(ctx context.Context, event ports.StatusChanged) {
	cmd, err := commands.NewApplyStatusNotificationCommand(event)
	if err != nil {
		d.logger.Warn("invalid status notification skipped", zap.Error(err))
		return
	}

	outcome, err := d.handler.Handle(ctx, cmd)
	if err != nil {
		d.logger.Warn("status notification not applied",
			zap.Int64("orderId", event.OrderID.Int64()),
			zap.Stringer("status", event.Status),
			zap.Error(err),
		)
		return
	}

	d.logger.Debug("status notification applied",
		zap.Int64("orderId", event.OrderID.Int64()),
		zap.Stringer("status", event.Status),
		zap.Stringer("outcome", outcome),
	)
}

// runWithReconnect calls connect until ctx is done, pausing delay after each
// return. connect blocks for the life of one connection.
func runWithReconnect(
	ctx context.Context,
	logger *zap.Logger,
	delay time.Duration,
	connect func(ctx context.Context) error,
) error {
	for {
		err := connect(ctx)
		if ctx.Err() != nil {
			return nil
		}

		logger.Warn("notification channel lost, reconnecting",
			zap.Duration("delay", delay),
			zap.Error(err),
		)

		timer := time.NewTimer(delay)
		select {
		case <-ctx.Done():
			timer.Stop()
			return nil
		case <-timer.C:
		}
	}
}
