package mailer

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/rabbitmq/amqp091-go"
)

// AMQPSender hands messages to an external mail worker through a durable
// RabbitMQ queue.
type AMQPSender struct {
	channel *amqp091.Channel
	queue   string
}

func NewAMQPSender(conn *amqp091.Connection, queue string) (*AMQPSender, error) {
	channel, err := conn.Channel()
	if err != nil {
		return nil, fmt.Errorf("failed to open channel: %w", err)
	}
	if _, err := channel.QueueDeclare(queue, true, false, false, false, nil); err != nil {
		channel.Close()
		return nil, fmt.Errorf("failed to declare queue %s: %w", queue, err)
	}
	return &AMQPSender{channel: channel, queue: queue}, nil
}

func (s *AMQPSender) Send(ctx context.Context, msg Message) error {
	body, err := json.Marshal(msg)
	if err != nil {
		return err
	}

	publishing := amqp091.Publishing{
		ContentType:  "application/json",
		Body:         body,
		DeliveryMode: amqp091.Persistent,
		Headers: amqp091.Table{
			"message_type": "booking_confirmation",
		},
	}
	if err := s.channel.PublishWithContext(ctx, "", s.queue, false, false, publishing); err != nil {
		return fmt.Errorf("failed to publish message: %w", err)
	}
	return nil
}

func (s *AMQPSender) Close() error {
	return s.channel.Close()
}
