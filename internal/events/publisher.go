package events

import (
	"context"
	"encoding/json"
	"fmt"

	amqp "github.com/rabbitmq/amqp091-go"

	"github.com/linhlinh38/Bookminton/internal/logger"
)

// Publisher emits domain events. Delivery is best effort: callers log a
// failed publish and carry on.
type Publisher interface {
	PublishJSON(ctx context.Context, key string, v any) error
	Close() error
}

type amqpPublisher struct {
	conn     *amqp.Connection
	ch       *amqp.Channel
	exchange string
}

// NewPublisher dials RabbitMQ and declares a durable topic exchange.
func NewPublisher(url, exchange string) (Publisher, error) {
	conn, err := amqp.Dial(url)
	if err != nil {
		return nil, fmt.Errorf("dial rabbitmq: %w", err)
	}
	ch, err := conn.Channel()
	if err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("open channel: %w", err)
	}
	if err := ch.ExchangeDeclare(exchange, "topic", true, false, false, false, nil); err != nil {
		_ = ch.Close()
		_ = conn.Close()
		return nil, fmt.Errorf("declare exchange %s: %w", exchange, err)
	}
	return &amqpPublisher{conn: conn, ch: ch, exchange: exchange}, nil
}

func (p *amqpPublisher) PublishJSON(ctx context.Context, key string, v any) error {
	body, err := json.Marshal(v)
	if err != nil {
		return err
	}
	return p.ch.PublishWithContext(ctx, p.exchange, key, false, false, amqp.Publishing{
		ContentType:  "application/json",
		DeliveryMode: amqp.Persistent,
		Body:         body,
	})
}

func (p *amqpPublisher) Close() error {
	if p.ch != nil {
		_ = p.ch.Close()
	}
	if p.conn != nil {
		return p.conn.Close()
	}
	return nil
}

type noopPublisher struct{}

// NewNoopPublisher drops every event. Used when no broker is configured.
func NewNoopPublisher() Publisher {
	return noopPublisher{}
}

func (noopPublisher) PublishJSON(_ context.Context, key string, _ any) error {
	logger.Debug("event dropped, no broker configured", "key", key)
	return nil
}

func (noopPublisher) Close() error { return nil }

// Connect returns an AMQP publisher, or the no-op one when url is empty.
func Connect(url, exchange string) (Publisher, error) {
	if url == "" {
		return NewNoopPublisher(), nil
	}
	return NewPublisher(url, exchange)
}
