package notifications

import (
	"context"
	"errors"
	"fmt"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
	"go.uber.org/zap"
)

var errDeliveriesClosed = errors.New("delivery channel closed")

// RabbitSubscriber binds a private, auto-deleted queue to the status fanout
// exchange, so every instance gets its own copy of each message.
type RabbitSubscriber struct {
	url        string
	exchange   string
	dispatcher dispatcher
	logger     *zap.Logger
	delay      time.Duration
}

func NewRabbitSubscriber(url, exchange string, handler statusNotificationHandler, logger *zap.Logger) *RabbitSubscriber {
	return &RabbitSubscriber{
		url:        url,
		exchange:   exchange,
		dispatcher: dispatcher{handler: handler, logger: logger},
		logger:     logger,
		delay:      ReconnectDelay,
	}
}

// Run consumes until ctx is cancelled.
func (s *RabbitSubscriber) Run(ctx context.Context) error {
	return runWithReconnect(ctx, s.logger, s.delay, s.connect)
}

func (s *RabbitSubscriber) connect(ctx context.Context) error {
	conn, err := amqp.Dial(s.url)
	if err != nil {
		return fmt.Errorf("dial rabbitmq: %w", err)
	}
	defer conn.Close()

	ch, err := conn.Channel()
	if err != nil {
		return err
	}
	defer ch.Close()

	if err = ch.ExchangeDeclare(s.exchange, amqp.ExchangeFanout, true, false, false, false, nil); err != nil {
		return err
	}
	q, err := ch.QueueDeclare("", false, true, true, false, nil)
	if err != nil {
		return err
	}
	if err = ch.QueueBind(q.Name, "", s.exchange, false, nil); err != nil {
		return err
	}
	if err = ch.Qos(16, 0, false); err != nil {
		return err
	}

	msgs, err := ch.Consume(q.Name, "", false, true, false, false, nil)
	if err != nil {
		return err
	}

	s.logger.Info("rabbitmq subscription started", zap.String("exchange", s.exchange), zap.String("queue", q.Name))
	return s.consume(ctx, msgs, conn.NotifyClose(make(chan *amqp.Error, 1)))
}

func (s *RabbitSubscriber) consume(ctx context.Context, msgs <-chan amqp.Delivery, closed <-chan *amqp.Error) error {
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case amqpErr, ok := <-closed:
			if ok && amqpErr != nil {
				return amqpErr
			}
			return amqp.ErrClosed
		case d, ok := <-msgs:
			if !ok {
				return errDeliveriesClosed
			}
			s.dispatcher.dispatchBody(ctx, d.Body)
			if err := d.Ack(false); err != nil {
				return fmt.Errorf("ack: %w", err)
			}
		}
	}
}
