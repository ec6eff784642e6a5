package events

import (
	"fmt"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
)

const (
	EventsExchange        = "laundry.events"
	OrderPlacedRoutingKey = "order.placed.v1"
	serviceName           = "laundry-service-go"
	publishTimeout        = 3 * time.Second
)

func serviceQueue(routingKey string) string {
	return serviceName + "." + routingKey
}

// Dial connects to RabbitMQ.
func Dial(url string) (*amqp.Connection, error) {
	conn, err := amqp.DialConfig(url, amqp.Config{
		Dial: amqp.DefaultDial(10 * time.Second),
	})
	if err != nil {
		return nil, fmt.Errorf("connect to RabbitMQ: %w", err)
	}
	return conn, nil
}

func declareEventsExchange(ch *amqp.Channel) error {
	return ch.ExchangeDeclare(
		EventsExchange,
		"topic",
		true,
		false,
		false,
		false,
		nil,
	)
}
