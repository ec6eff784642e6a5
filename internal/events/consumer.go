package events

import (
	"context"
	"fmt"

	amqp "github.com/rabbitmq/amqp091-go"
	"go.uber.org/zap"
)

// HandlerFunc processes one delivery body. A returned error nacks the
// message without requeue.
type HandlerFunc func(ctx context.Context, body []byte) error

// StartConsumer binds this service's queue for routingKey to the events
// exchange and dispatches deliveries to h until ctx is done.
func StartConsumer(ctx context.Context, conn *amqp.Connection, routingKey, consumerTag string, h HandlerFunc, logger *zap.Logger) error {
	ch, err := conn.Channel()
	if err != nil {
		return fmt.Errorf("open channel: %w", err)
	}

	if err := declareEventsExchange(ch); err != nil {
		_ = ch.Close()
		return fmt.Errorf("declare events exchange: %w", err)
	}

	queue := serviceQueue(routingKey)
	if _, err := ch.QueueDeclare(
		queue,
		true,  // durable
		false, // autoDelete
		false, // exclusive
		false, // noWait
		nil,
	); err != nil {
		_ = ch.Close()
		return fmt.Errorf("queue declare: %w", err)
	}

	if err := ch.QueueBind(queue, routingKey, EventsExchange, false, nil); err != nil {
		_ = ch.Close()
		return fmt.Errorf("queue bind: %w", err)
	}

	msgs, err := ch.Consume(
		queue,
		consumerTag,
		false, // autoAck
		false,
		false,
		false,
		nil,
	)
	if err != nil {
		_ = ch.Close()
		return fmt.Errorf("consume: %w", err)
	}

	go func() {
		defer ch.Close()
		logger := logger.With(zap.String("queue", queue))
		for {
			select {
			case <-ctx.Done():
				logger.Info("stopping consumer")
				return
			case msg, ok := <-msgs:
				if !ok {
					logger.Warn("messages channel closed")
					return
				}
				handle(ctx, msg, msg.Body, msg.MessageId, h, logger)
			}
		}
	}()

	return nil
}

type acknowledger interface {
	Ack(multiple bool) error
	Nack(multiple, requeue bool) error
}

func handle(ctx context.Context, ack acknowledger, body []byte, messageID string, h HandlerFunc, logger *zap.Logger) {
	if err := h(ctx, body); err != nil {
		logger.Error("handle message", zap.String("message_id", messageID), zap.Error(err))
		_ = ack.Nack(false, false)
		return
	}
	_ = ack.Ack(false)
}
