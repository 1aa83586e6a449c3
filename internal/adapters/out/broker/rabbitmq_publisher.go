package broker

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"orderflow/internal/core/ports"

	amqp "github.com/rabbitmq/amqp091-go"
)

// RedialDelay is the minimum gap between two connection attempts after the
// broker went away.
const RedialDelay = 5 * time.Second

var (
	// ErrPublishNacked is returned when the broker refuses a message.
	ErrPublishNacked = errors.New("publish NACK from broker")
	// ErrNotConnected is returned while a redial is being held back.
	ErrNotConnected = errors.New("rabbitmq publisher not connected")
)

type publishChannel interface {
	PublishWithContext(ctx context.Context, exchange, key string, mandatory, immediate bool, msg amqp.Publishing) error
	Close() error
}

// rabbitSession is one connection and its confirm-mode channel.
type rabbitSession struct {
	ch    publishChannel
	acks  <-chan amqp.Confirmation
	close func() error
}

func (s *rabbitSession) Close() error {
	err := s.ch.Close()
	if s.close != nil {
		err = errors.Join(err, s.close())
	}
	return err
}

// RabbitPublisher publishes status changes to a fanout exchange and waits
// for the broker's confirm. Publishes are serialized so confirms match
// messages one to one. A closed connection is dropped and dialled again on
// the next publish, at most once per RedialDelay.
type RabbitPublisher struct {
	dial     func() (*rabbitSession, error)
	exchange string
	delay    time.Duration

	mu       sync.Mutex
	session  *rabbitSession
	nextDial time.Time
}

// DialRabbitPublisher connects, declares the durable fanout exchange and
// turns on publisher confirms. The first dial is eager so a bad URL fails
// at startup.
func DialRabbitPublisher(url, exchange string) (*RabbitPublisher, error) {
	p := &RabbitPublisher{
		dial:     func() (*rabbitSession, error) { return dialRabbitSession(url, exchange) },
		exchange: exchange,
		delay:    RedialDelay,
	}
	s, err := p.dial()
	if err != nil {
		return nil, err
	}
	p.session = s
	return p, nil
}

func dialRabbitSession(url, exchange string) (*rabbitSession, error) {
	conn, err := amqp.Dial(url)
	if err != nil {
		return nil, fmt.Errorf("dial rabbitmq: %w", err)
	}

	ch, err := conn.Channel()
	if err != nil {
		_ = conn.Close()
		return nil, err
	}

	if err = ch.ExchangeDeclare(exchange, amqp.ExchangeFanout, true, false, false, false, nil); err != nil {
		_ = ch.Close()
		_ = conn.Close()
		return nil, err
	}

	if err = ch.Confirm(false); err != nil {
		_ = ch.Close()
		_ = conn.Close()
		return nil, err
	}
	acks := ch.NotifyPublish(make(chan amqp.Confirmation, 1))

	return &rabbitSession{ch: ch, acks: acks, close: conn.Close}, nil
}

func (p *RabbitPublisher) Publish(ctx context.Context, event ports.StatusChanged) error {
	body, err := Encode(event)
	if err != nil {
		return err
	}
	msg := amqp.Publishing{
		DeliveryMode: amqp.Persistent,
		ContentType:  ContentType,
		MessageId:    event.EventID.String(),
		Timestamp:    time.Now().UTC(),
		Body:         body,
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	s, err := p.connected()
	if err != nil {
		return err
	}

	err = s.ch.PublishWithContext(ctx, p.exchange, "", false, false, msg)
	if errors.Is(err, amqp.ErrClosed) {
		// Nothing was sent; retry once on a fresh connection.
		p.drop()
		if s, err = p.connected(); err != nil {
			return err
		}
		err = s.ch.PublishWithContext(ctx, p.exchange, "", false, false, msg)
	}
	if err != nil {
		if errors.Is(err, amqp.ErrClosed) {
			p.drop()
		}
		return err
	}

	select {
	case conf, ok := <-s.acks:
		if !ok {
			p.drop()
			return amqp.ErrClosed
		}
		if !conf.Ack {
			return ErrPublishNacked
		}
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// connected returns the live session, dialling a new one when the last was
// dropped. Callers hold p.mu.
func (p *RabbitPublisher) connected() (*rabbitSession, error) {
	if p.session != nil {
		return p.session, nil
	}
	now := time.Now()
	if now.Before(p.nextDial) {
		return nil, ErrNotConnected
	}
	p.nextDial = now.Add(p.delay)

	s, err := p.dial()
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrNotConnected, err)
	}
	p.session = s
	return s, nil
}

// drop forgets a dead session. Callers hold p.mu.
func (p *RabbitPublisher) drop() {
	if p.session == nil {
		return
	}
	_ = p.session.Close()
	p.session = nil
}

func (p *RabbitPublisher) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.session == nil {
		return nil
	}
	err := p.session.Close()
	p.session = nil
	return err
}
