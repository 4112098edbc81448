package notify

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/rabbitmq/amqp091-go"
)

const (
	exchangeName       = "user.events"
	userCreatedRouting = "user.created"
)

// AMQPNotifier publishes user-created events to a RabbitMQ topic exchange.
type AMQPNotifier struct {
	conn    *amqp091.Connection
	channel *amqp091.Channel
}

// NewAMQPNotifier dials the broker and declares the user.events exchange.
func NewAMQPNotifier(url string) (*AMQPNotifier, error) {
	conn, err := amqp091.Dial(url)
	if err != nil {
		return nil, fmt.Errorf("connect rabbitmq: %w", err)
	}

	ch, err := conn.Channel()
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("open channel: %w", err)
	}

	if err := ch.ExchangeDeclare(exchangeName, "topic", true, false, false, false, nil); err != nil {
		ch.Close()
		conn.Close()
		return nil, fmt.Errorf("declare exchange: %w", err)
	}

	return &AMQPNotifier{conn: conn, channel: ch}, nil
}

// Close releases the channel and connection.
func (n *AMQPNotifier) Close() {
	if n.channel != nil {
		_ = n.channel.Close()
	}
	if n.conn != nil {
		_ = n.conn.Close()
	}
}

// UserCreated publishes the event as a persistent JSON message.
func (n *AMQPNotifier) UserCreated(ctx context.Context, event UserCreatedEvent) error {
	body, err := json.Marshal(event)
	if err != nil {
		return err
	}

	return n.channel.PublishWithContext(ctx,
		exchangeName,
		userCreatedRouting,
		false,
		false,
		amqp091.Publishing{
			ContentType:  "application/json",
			Body:         body,
			DeliveryMode: amqp091.Persistent,
		},
	)
}
