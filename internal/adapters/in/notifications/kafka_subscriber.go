package notifications

import (
	"context"
	"fmt"
	"time"

	"github.com/segmentio/kafka-go"
	"go.uber.org/zap"
)

type messageReader interface {
	FetchMessage(ctx context.Context) (kafka.Message, error)
	CommitMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// KafkaConfig names the topic to follow. Each service instance needs its own
// GroupID so every instance sees every message.
type KafkaConfig struct {
	Brokers []string
	Topic   string
	GroupID string
}

// KafkaSubscriber follows the status topic with a consumer group reader.
type KafkaSubscriber struct {
	newReader  func() messageReader
	dispatcher dispatcher
	logger     *zap.Logger
	delay      time.Duration
}

func NewKafkaSubscriber(cfg KafkaConfig, handler statusNotificationHandler, logger *zap.Logger) *KafkaSubscriber {
	return &KafkaSubscriber{
		newReader: func() messageReader {
			return kafka.NewReader(kafka.ReaderConfig{
				Brokers:         cfg.Brokers,
				GroupID:         cfg.GroupID,
				Topic:           cfg.Topic,
				MinBytes:        1,
				MaxBytes:        10e6,
				CommitInterval:  0,
				StartOffset:     kafka.LastOffset,
				ReadLagInterval: -1,
			})
		},
		dispatcher: dispatcher{handler: handler, logger: logger},
		logger:     logger,
		delay:      ReconnectDelay,
	}
}

// Run consumes until ctx is cancelled.
func (s *KafkaSubscriber) Run(ctx context.Context) error {
	return runWithReconnect(ctx, s.logger, s.delay, s.consume)
}

func (s *KafkaSubscriber) consume(ctx context.Context) error {
	r := s.newReader()
	defer r.Close()

	for {
		m, err := r.FetchMessage(ctx)
		if err != nil {
			return fmt.Errorf("kafka fetch: %w", err)
		}

		s.dispatcher.dispatchBody(ctx, m.Value)

		if err = r.CommitMessages(ctx, m); err != nil {
			return fmt.Errorf("kafka commit: %w", err)
		}
	}
}
