package backend

import (
	"context"
	"net/http"
	"sync"

	"go.uber.org/zap"

	"github.com/andreasstove999/ecommerce-system/laundry-service-go/internal/order"
)

const (
	ordersPath = "/api/orders"
	healthPath = "/api/health"
)

// OrderForwarder copies placed orders to the external order backend.
// Forwarding happens in the background and failures are only logged.
type OrderForwarder struct {
	client *Client
	logger *zap.Logger
	wg     sync.WaitGroup
}

func NewOrderForwarder(client *Client, logger *zap.Logger) *OrderForwarder {
	return &OrderForwarder{client: client, logger: logger}
}

func (f *OrderForwarder) Forward(ctx context.Context, o order.Order) {
	f.wg.Add(1)
	go func() {
		defer f.wg.Done()
		if err := f.client.DoJSON(ctx, http.MethodPost, ordersPath, o, nil); err != nil {
			f.logger.Error("forward order",
				zap.String("order_id", o.ID),
				zap.String("reason", UserMessage(err)),
				zap.Error(err),
			)
			return
		}
		f.logger.Info("order forwarded", zap.String("order_id", o.ID))
	}()
}

// Wait blocks until in-flight forwards finish or ctx is done.
func (f *OrderForwarder) Wait(ctx context.Context) error {
	done := make(chan struct{})
	go func() {
		f.wg.Wait()
		close(done)
	}()
	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

type HealthStatus struct {
	Status string `json:"status"`
}

func (c *Client) Health(ctx context.Context) (HealthStatus, error) {
	var hs HealthStatus
	if err := c.DoJSON(ctx, http.MethodGet, healthPath, nil, &hs); err != nil {
		return HealthStatus{}, err
	}
	return hs, nil
}
