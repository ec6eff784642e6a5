package events

import (
	"context"
	"encoding/json"
	"fmt"

	amqp "github.com/rabbitmq/amqp091-go"

	"github.com/andreasstove999/ecommerce-system/laundry-service-go/internal/middleware"
	"github.com/andreasstove999/ecommerce-system/laundry-service-go/internal/order"
)

// SequenceSource numbers each session's orders for the envelope sequence.
type SequenceSource interface {
	NextOrderSequence(ctx context.Context, session, orderID string) (int64, error)
}

type channel interface {
	PublishWithContext(ctx context.Context, exchange, key string, mandatory, immediate bool, msg amqp.Publishing) error
	Close() error
}

type Publisher struct {
	ch       channel
	seq      SequenceSource
	producer string
}

type PublisherOptions struct {
	Producer string
}

func NewPublisher(conn *amqp.Connection, seq SequenceSource, opts PublisherOptions) (*Publisher, error) {
	ch, err := conn.Channel()
	if err != nil {
		return nil, fmt.Errorf("open channel: %w", err)
	}

	if err := declareEventsExchange(ch); err != nil {
		_ = ch.Close()
		return nil, fmt.Errorf("declare events exchange: %w", err)
	}

	return newPublisher(ch, seq, opts), nil
}

func newPublisher(ch channel, seq SequenceSource, opts PublisherOptions) *Publisher {
	producer := opts.Producer
	if producer == "" {
		producer = serviceName
	}
	return &Publisher{ch: ch, seq: seq, producer: producer}
}

func (p *Publisher) Close() error {
	return p.ch.Close()
}

// PublishOrderPlaced announces a placed order. Events are partitioned by
// session so consumers see one browser's orders in placement order.
func (p *Publisher) PublishOrderPlaced(ctx context.Context, o order.Order) error {
	meta := EventMeta{
		CorrelationID: middleware.GetCorrelationID(ctx),
		PartitionKey:  o.SessionID,
	}
	if meta.PartitionKey == "" {
		meta.PartitionKey = o.ID
	}

	seq, err := p.seq.NextOrderSequence(ctx, meta.PartitionKey, o.ID)
	if err != nil {
		return fmt.Errorf("reserve sequence: %w", err)
	}

	ev := newOrderPlacedEvent(meta, seq, p.producer, orderPlacedPayload(o), o.Timestamp.UTC())
	body, err := json.Marshal(ev)
	if err != nil {
		return fmt.Errorf("marshal OrderPlaced envelope: %w", err)
	}

	return p.publishJSON(ctx, OrderPlacedRoutingKey, ev.EventID, ev.CorrelationID, body)
}

func (p *Publisher) publishJSON(ctx context.Context, routingKey, messageID, correlationID string, body []byte) error {
	pubCtx, cancel := context.WithTimeout(ctx, publishTimeout)
	defer cancel()

	return p.ch.PublishWithContext(
		pubCtx,
		EventsExchange,
		routingKey,
		false,
		false,
		amqp.Publishing{
			ContentType:   "application/json",
			DeliveryMode:  amqp.Persistent,
			MessageId:     messageID,
			CorrelationId: correlationID,
			Body:          body,
		},
	)
}
