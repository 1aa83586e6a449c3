// Package broker publishes status changes to the dashboards' notification
// channel: a Kafka topic, a RabbitMQ fanout exchange, or an in-process
// fan-out when the service runs alone.
//
// All transports carry the same JSON message, produced by Encode and read
// back by Decode:
//
//	{"eventId":"5f0c...","orderId":42,"status":"RE","updatedAt":"2026-05-01T12:00:00Z","updatedBy":"chef@pizza.local"}
package broker

import (
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"orderflow/internal/core/domain/model/kernel"
	"orderflow/internal/core/domain/model/order"
	"orderflow/internal/core/ports"
)

// ContentType is set on every published message.
const ContentType = "application/json"

type statusChangedMessage struct {
	EventID   string    `json:"eventId"`
	OrderID   int64     `json:"orderId"`
	Status    string    `json:"status"`
	UpdatedAt time.Time `json:"updatedAt"`
	UpdatedBy string    `json:"updatedBy"`
}

// Encode renders event as a broker message body.
func Encode(event ports.StatusChanged) ([]byte, error) {
	if err := errors.Join(event.EventID.Validate(), event.OrderID.Validate(), event.Status.Validate()); err != nil {
		return nil, fmt.Errorf("encode status change: %w", err)
	}
	return json.Marshal(statusChangedMessage{
		EventID:   event.EventID.String(),
		OrderID:   event.OrderID.Int64(),
		Status:    event.Status.String(),
		UpdatedAt: event.UpdatedAt,
		UpdatedBy: event.UpdatedBy,
	})
}

// Decode parses a broker message body. Unknown statuses and missing ids are
// errors; the caller skips such messages.
func Decode(body []byte) (ports.StatusChanged, error) {
	var msg statusChangedMessage
	if err := json.Unmarshal(body, &msg); err != nil {
		return ports.StatusChanged{}, fmt.Errorf("decode status change: %w", err)
	}

	eventID, idErr := kernel.UUIDFromString(msg.EventID)
	orderID, orderErr := kernel.NewOrderID(msg.OrderID)
	status, statusErr := order.ParseStatus(msg.Status)
	if err := errors.Join(idErr, orderErr, statusErr); err != nil {
		return ports.StatusChanged{}, fmt.Errorf("decode status change: %w", err)
	}

	return ports.StatusChanged{
		EventID:   eventID,
		OrderID:   orderID,
		Status:    status,
		UpdatedAt: msg.UpdatedAt,
		UpdatedBy: msg.UpdatedBy,
	}, nil
}
