package events

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/andreasstove999/ecommerce-system/laundry-service-go/internal/middleware"
	"github.com/andreasstove999/ecommerce-system/laundry-service-go/internal/notify"
)

// ConfirmationLog remembers the last order confirmed for each session.
type ConfirmationLog interface {
	LastConfirmed(ctx context.Context, session string) (Confirmed, bool, error)
	MarkConfirmed(ctx context.Context, c Confirmed) error
}

// OrderConfirmationHandler mails a confirmation for every OrderPlaced event.
// Orders at or below the session's last confirmed sequence are skipped.
func OrderConfirmationHandler(confirmations ConfirmationLog, notifier notify.Notifier, logger *zap.Logger) HandlerFunc {
	return func(ctx context.Context, body []byte) error {
		ev, err := parseOrderPlaced(body)
		if err != nil {
			return err
		}
		ctx = middleware.WithCorrelationID(ctx, ev.CorrelationID)
		logger := logger.With(
			zap.String("order_id", ev.Payload.OrderID),
			zap.String("session_id", ev.PartitionKey),
			zap.Int64("seq", ev.Sequence),
			zap.String("correlation_id", ev.CorrelationID),
		)

		if ev.Sequence != 0 {
			last, ok, err := confirmations.LastConfirmed(ctx, ev.PartitionKey)
			if err != nil {
				return err
			}
			if ok {
				if ev.Sequence <= last.Sequence {
					logger.Info("order already confirmed", zap.String("last_order_id", last.OrderID), zap.Int64("last", last.Sequence))
					return nil
				}
				if ev.Sequence > last.Sequence+1 {
					logger.Warn("session skipped orders", zap.String("last_order_id", last.OrderID), zap.Int64("last", last.Sequence))
				}
			}
		}

		mailed := ev.Payload.Email != ""
		if !mailed {
			logger.Warn("order has no email, skipping confirmation")
		} else if err := notifier.SendOrderConfirmation(ctx, confirmationFor(ev.Payload)); err != nil {
			return fmt.Errorf("send confirmation for %s: %w", ev.Payload.OrderID, err)
		}

		if ev.Sequence != 0 {
			err := confirmations.MarkConfirmed(ctx, Confirmed{
				SessionID: ev.PartitionKey,
				OrderID:   ev.Payload.OrderID,
				Sequence:  ev.Sequence,
				Mailed:    mailed,
				At:        time.Now().UTC(),
			})
			// a concurrent redelivery got there first
			if errors.Is(err, ErrStaleConfirmation) {
				logger.Info("confirmation superseded")
				return nil
			}
			if err != nil {
				return err
			}
		}
		logger.Info("order confirmation sent", zap.Bool("mailed", mailed))
		return nil
	}
}

func confirmationFor(p OrderPlacedPayload) notify.Confirmation {
	c := notify.Confirmation{
		OrderID:  p.OrderID,
		To:       p.Email,
		Name:     p.CustomerName,
		Slot:     p.PickupSlot,
		Address:  p.Address,
		Subtotal: "₹" + p.Subtotal,
		Total:    "₹" + p.Total,
	}
	if p.Express {
		c.Express = "₹" + p.ExpressFee
	}
	for _, it := range p.Items {
		c.Lines = append(c.Lines, fmt.Sprintf("%s x%d @ ₹%s/%s", it.Name, it.Quantity, it.Price, it.Unit))
	}
	return c
}
