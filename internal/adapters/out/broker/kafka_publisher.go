package broker

import (
	"context"
	"strconv"

	"orderflow/internal/core/ports"

	"github.com/segmentio/kafka-go"
)

type messageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// KafkaPublisher writes status changes to a topic. Messages are keyed by
// order id so one order's changes stay on one partition, in order.
type KafkaPublisher struct {
	w messageWriter
}

func NewKafkaPublisher(brokers []string, topic string) *KafkaPublisher {
	return &KafkaPublisher{
		w: &kafka.Writer{
			Addr:         kafka.TCP(brokers...),
			Topic:        topic,
			Balancer:     &kafka.Hash{},
			RequiredAcks: kafka.RequireAll,
			Async:        false,
		},
	}
}

func (p *KafkaPublisher) Publish(ctx context.Context, event ports.StatusChanged) error {
	body, err := Encode(event)
	if err != nil {
		return err
	}

	return p.w.WriteMessages(ctx, kafka.Message{
		Key:   []byte(strconv.FormatInt(event.OrderID.Int64(), 10)),
		Value: body,
		Time:  event.UpdatedAt,
		Headers: []kafka.Header{
			{Key: "content-type", Value: []byte(ContentType)},
			{Key: "event-id", Value: []byte(event.EventID.String())},
		},
	})
}

func (p *KafkaPublisher) Close() error {
	return p.w.Close()
}
