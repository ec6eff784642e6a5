package events

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/andreasstove999/ecommerce-system/laundry-service-go/internal/order"
)

const (
	EventTypeOrderPlaced = "OrderPlaced"
	orderPlacedSchema    = "contracts/events/laundry/OrderPlaced.v1.payload.schema.json"
)

type OrderPlacedItem struct {
	ItemID   string `json:"itemId"`
	Name     string `json:"name"`
	Unit     string `json:"unit"`
	Quantity int    `json:"quantity"`
	Price    string `json:"price"`
}

type OrderPlacedPayload struct {
	OrderID      string            `json:"orderId"`
	SessionID    string            `json:"sessionId"`
	CustomerName string            `json:"customerName"`
	Email        string            `json:"email"`
	Phone        string            `json:"phone"`
	Address      string            `json:"address"`
	PickupSlot   string            `json:"pickupSlot"`
	PickupDate   string            `json:"pickupDate,omitempty"`
	Express      bool              `json:"express"`
	Items        []OrderPlacedItem `json:"items"`
	Subtotal     string            `json:"subtotal"`
	ExpressFee   string            `json:"expressFee"`
	Total        string            `json:"total"`
	PlacedAt     time.Time         `json:"placedAt"`
}

type OrderPlacedEvent struct {
	EventEnvelope
	Payload OrderPlacedPayload `json:"payload"`
}

func orderPlacedPayload(o order.Order) OrderPlacedPayload {
	c := o.Customer
	p := OrderPlacedPayload{
		OrderID:      o.ID,
		SessionID:    o.SessionID,
		CustomerName: c.FullName,
		Email:        c.Email,
		Phone:        order.NormalizePhone(c.Phone),
		Address:      fmt.Sprintf("%s, %s, %s %s", c.Address, c.Area, c.City, c.Pincode),
		PickupSlot:   o.Pickup.Slot,
		PickupDate:   o.Pickup.Date,
		Express:      o.Pickup.Express,
		Subtotal:     o.Pricing.Subtotal.StringFixed(2),
		ExpressFee:   o.Pricing.Express.StringFixed(2),
		Total:        o.Pricing.Total.StringFixed(2),
		PlacedAt:     o.Timestamp,
	}
	for _, it := range o.Items {
		p.Items = append(p.Items, OrderPlacedItem{
			ItemID:   it.ID,
			Name:     it.Name,
			Unit:     string(it.Unit),
			Quantity: it.Quantity,
			Price:    it.Price.StringFixed(2),
		})
	}
	return p
}

func newOrderPlacedEvent(meta EventMeta, seq int64, producer string, payload OrderPlacedPayload, occurredAt time.Time) OrderPlacedEvent {
	return OrderPlacedEvent{
		EventEnvelope: EventEnvelope{
			EventName:     EventTypeOrderPlaced,
			EventVersion:  1,
			EventID:       uuid.NewString(),
			CorrelationID: meta.CorrelationID,
			CausationID:   meta.CausationID,
			Producer:      producer,
			PartitionKey:  meta.PartitionKey,
			Sequence:      seq,
			OccurredAt:    occurredAt,
			Schema:        orderPlacedSchema,
		},
		Payload: payload,
	}
}

func validateOrderPlaced(ev OrderPlacedEvent) error {
	if err := ev.EventEnvelope.Validate(EventTypeOrderPlaced, 1); err != nil {
		return err
	}
	if ev.Payload.OrderID == "" {
		return fmt.Errorf("missing orderId")
	}
	if len(ev.Payload.Items) == 0 {
		return fmt.Errorf("order %s has no items", ev.Payload.OrderID)
	}
	return nil
}

func parseOrderPlaced(body []byte) (OrderPlacedEvent, error) {
	env, err := parseEnvelope(body)
	if err != nil {
		return OrderPlacedEvent{}, err
	}
	var payload OrderPlacedPayload
	if err := json.Unmarshal(env.Payload, &payload); err != nil {
		return OrderPlacedEvent{}, fmt.Errorf("decode OrderPlaced payload: %w", err)
	}
	ev := OrderPlacedEvent{EventEnvelope: env, Payload: payload}
	if err := validateOrderPlaced(ev); err != nil {
		return OrderPlacedEvent{}, err
	}
	return ev, nil
}
