package common

import (
	"context"
	"fmt"

	amqp "github.com/rabbitmq/amqp091-go"
)

type (
	Exchange   string
	Queue      string
	BindingKey string
)

// Topology for user lifecycle events. Registration publishes to the exchange
// and the mail consumer reads from the bound queue.
const (
	UserExchange     Exchange   = "user_exchange"
	UserCreatedQueue Queue      = "user_created_queue"
	UserCreatedKey   BindingKey = "user.created"
)

type MessageProducer interface {
	Publish(ctx context.Context, msg []byte, key BindingKey, exchange Exchange) error
}

type MessageConsumer interface {
	Consume(key BindingKey, exchange Exchange, queue Queue) (<-chan amqp.Delivery, error)
}

// MessageBroker is a single AMQP connection with one channel, shared by every
// producer and consumer in the process.
type MessageBroker struct {
	conn *amqp.Connection
	ch   *amqp.Channel
}

func NewMessageBroker(uri string) (*MessageBroker, error) {
	conn, err := amqp.Dial(uri)
	if err != nil {
		return nil, fmt.Errorf("dial amqp: %w", err)
	}

	ch, err := conn.Channel()
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("open channel: %w", err)
	}

	return &MessageBroker{conn: conn, ch: ch}, nil
}

func (mb *MessageBroker) Close() error {
	if err := mb.ch.Close(); err != nil {
		return err
	}
	return mb.conn.Close()
}

// SetupUserExchange declares the durable exchange, queue and binding for user
// lifecycle events. Declarations are idempotent so this is safe on every boot.
func SetupUserExchange(mb *MessageBroker) error {
	if err := mb.ch.ExchangeDeclare(string(UserExchange), "direct", true, false, false, false, nil); err != nil {
		return fmt.Errorf("declare exchange: %w", err)
	}

	if _, err := mb.ch.QueueDeclare(string(UserCreatedQueue), true, false, false, false, nil); err != nil {
		return fmt.Errorf("declare queue: %w", err)
	}

	if err := mb.ch.QueueBind(string(UserCreatedQueue), string(UserCreatedKey), string(UserExchange), false, nil); err != nil {
		return fmt.Errorf("bind queue: %w", err)
	}

	return nil
}

func (mb *MessageBroker) Publish(ctx context.Context, msg []byte, key BindingKey, exchange Exchange) error {
	pub := amqp.Publishing{
		ContentType: "application/json",
		Body:        msg,
	}

	if err := mb.ch.PublishWithContext(ctx, string(exchange), string(key), false, false, pub); err != nil {
		return fmt.Errorf("publish %s: %w", key, err)
	}

	return nil
}

func (mb *MessageBroker) Consume(key BindingKey, exchange Exchange, queue Queue) (<-chan amqp.Delivery, error) {
	msgs, err := mb.ch.Consume(string(queue), string(key), false, false, false, false, nil)
	if err != nil {
		return nil, fmt.Errorf("consume %s: %w", queue, err)
	}

	return msgs, nil
}
