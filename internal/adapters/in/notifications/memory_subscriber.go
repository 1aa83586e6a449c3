package notifications

import (
	"context"

	"orderflow/internal/core/ports"

	"go.uber.org/zap"
)

type eventSource interface {
	Subscribe(buffer int) (<-chan ports.StatusChanged, func())
}

// MemorySubscriber follows an in-process broker.MemoryPublisher.
type MemorySubscriber struct {
	source     eventSource
	dispatcher dispatcher
}

func NewMemorySubscriber(source eventSource, handler statusNotificationHandler, logger *zap.Logger) *MemorySubscriber {
	return &MemorySubscriber{source: source, dispatcher: dispatcher{handler: handler, logger: logger}}
}

// Run applies events until ctx is cancelled.
func (s *MemorySubscriber) Run(ctx context.Context) error {
	events, stop := s.source.Subscribe(64)
	defer stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case event, ok := <-events:
			if !ok {
				return nil
			}
			s.dispatcher.dispatch(ctx, event)
		}
	}
}
