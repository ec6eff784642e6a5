//go:build integration

package integration

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net"
	"net/http"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/andreasstove999/ecommerce-system/laundry-service-go/internal/cart"
	"github.com/andreasstove999/ecommerce-system/laundry-service-go/internal/checkout"
	"github.com/andreasstove999/ecommerce-system/laundry-service-go/internal/db"
	"github.com/andreasstove999/ecommerce-system/laundry-service-go/internal/events"
	httpapi "github.com/andreasstove999/ecommerce-system/laundry-service-go/internal/http"
	"github.com/andreasstove999/ecommerce-system/laundry-service-go/internal/kv"
	"github.com/andreasstove999/ecommerce-system/laundry-service-go/internal/middleware"
	"github.com/andreasstove999/ecommerce-system/laundry-service-go/internal/notify"
	"github.com/andreasstove999/ecommerce-system/laundry-service-go/internal/order"
	"github.com/andreasstove999/ecommerce-system/laundry-service-go/internal/testutil"
)

type capturingNotifier struct {
	mu   sync.Mutex
	sent []notify.Confirmation
}

func (c *capturingNotifier) SendOrderConfirmation(ctx context.Context, conf notify.Confirmation) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.sent = append(c.sent, conf)
	return nil
}

func (c *capturingNotifier) all() []notify.Confirmation {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]notify.Confirmation(nil), c.sent...)
}

func TestLaundryCheckoutIntegration(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Minute)
	defer cancel()

	dsn := testutil.StartPostgres(ctx, t)
	rabbitURL := testutil.StartRabbitMQ(ctx, t)

	logger := zap.NewNop()
	require.NoError(t, db.RunMigrations(dsn, logger))
	// idempotent
	require.NoError(t, db.RunMigrations(dsn, logger))

	pool, err := db.NewPool(ctx, dsn)
	require.NoError(t, err)
	defer pool.Close()

	conn, err := events.Dial(rabbitURL)
	require.NoError(t, err)
	defer conn.Close()

	pub, err := events.NewPublisher(conn, events.NewSessionSequences(pool), events.PublisherOptions{})
	require.NoError(t, err)
	defer pub.Close()

	notifier := &capturingNotifier{}
	consumerCtx, stopConsumer := context.WithCancel(ctx)
	defer stopConsumer()
	handler := events.OrderConfirmationHandler(events.NewConfirmationLedger(pool), notifier, logger)
	require.NoError(t, events.StartConsumer(consumerCtx, conn, events.OrderPlacedRoutingKey, "it", handler, logger))

	store := kv.NewPostgresStore(pool)
	orders := order.NewPostgresRepository(pool)
	locks := kv.NewLocks()
	h := httpapi.NewHandler(httpapi.Deps{
		Carts:    cart.NewService(store, locks, logger),
		Checkout: checkout.NewService(store, locks, orders, logger, checkout.Options{Publisher: pub}),
		Orders:   orders,
		Logger:   logger,
	})
	baseURL := serve(t, httpapi.NewRouter(h, []string{"*"}))

	c := &apiClient{t: t, ctx: ctx, baseURL: baseURL, http: &http.Client{Timeout: 10 * time.Second}}

	c.call(http.MethodPost, "/api/cart/items", map[string]any{"itemId": "men-shirt", "quantity": 3}, http.StatusOK, nil)
	c.call(http.MethodPost, "/api/cart/items", map[string]any{"itemId": "laundry-wash-&-fold", "quantity": 2}, http.StatusOK, nil)
	require.NotEmpty(t, c.session)

	// a fresh store instance sees the same cart
	reloaded, err := cart.Load(ctx, kv.NewPostgresStore(pool), logger, c.session)
	require.NoError(t, err)
	require.Len(t, reloaded.Items, 2)

	c.call(http.MethodPost, "/api/checkout", nil, http.StatusOK, nil)
	c.call(http.MethodPost, "/api/checkout/next", nil, http.StatusOK, nil)
	c.call(http.MethodPut, "/api/checkout/details", map[string]any{
		"fullName": "Asha Rao",
		"phone":    "9876543210",
		"email":    "asha@example.com",
		"address":  "12 MG Road",
		"city":     "Bengaluru",
		"pincode":  "560001",
		"area":     "Indiranagar",
	}, http.StatusOK, nil)
	c.call(http.MethodPost, "/api/checkout/next", nil, http.StatusOK, nil)

	var slots struct {
		Slots []checkout.Slot `json:"slots"`
	}
	c.call(http.MethodGet, "/api/checkout/slots", nil, http.StatusOK, &slots)
	require.NotEmpty(t, slots.Slots)
	c.call(http.MethodPut, "/api/checkout/slot", map[string]any{"slotId": slots.Slots[len(slots.Slots)-1].ID}, http.StatusOK, nil)

	var placed checkout.View
	c.call(http.MethodPost, "/api/checkout/place", nil, http.StatusCreated, &placed)
	require.NotNil(t, placed.Order)

	stored, err := orders.Get(ctx, placed.Order.ID)
	require.NoError(t, err)
	assert.Equal(t, c.session, stored.SessionID)
	assert.True(t, stored.Pricing.Total.Equal(placed.Order.Pricing.Total))

	byPhone, err := orders.ListByPhone(ctx, "98765 43210")
	require.NoError(t, err)
	require.Len(t, byPhone, 1)

	_, err = store.Get(ctx, c.session, kv.KeyCart)
	assert.ErrorIs(t, err, kv.ErrNotFound)

	require.Eventually(t, func() bool { return len(notifier.all()) == 1 }, 30*time.Second, 200*time.Millisecond)
	conf := notifier.all()[0]
	assert.Equal(t, placed.Order.ID, conf.OrderID)
	assert.Equal(t, "asha@example.com", conf.To)

	last, ok, err := events.NewConfirmationLedger(pool).LastConfirmed(ctx, c.session)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, int64(1), last.Sequence)
	assert.Equal(t, placed.Order.ID, last.OrderID)
	assert.True(t, last.Mailed)
}

func serve(t *testing.T, handler http.Handler) string {
	t.Helper()

	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)

	server := &http.Server{Handler: handler, ReadHeaderTimeout: 5 * time.Second}
	go func() { _ = server.Serve(ln) }()
	t.Cleanup(func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = server.Shutdown(shutdownCtx)
	})
	return fmt.Sprintf("http://%s", ln.Addr().String())
}

type apiClient struct {
	t       *testing.T
	ctx     context.Context
	baseURL string
	http    *http.Client
	session string
}

func (c *apiClient) call(method, path string, body any, wantStatus int, out any) {
	c.t.Helper()

	var buf bytes.Buffer
	if body != nil {
		require.NoError(c.t, json.NewEncoder(&buf).Encode(body))
	}
	req, err := http.NewRequestWithContext(c.ctx, method, c.baseURL+path, &buf)
	require.NoError(c.t, err)
	req.Header.Set("Content-Type", "application/json")
	if c.session != "" {
		req.Header.Set(middleware.HeaderSessionID, c.session)
	}

	resp, err := c.http.Do(req)
	require.NoError(c.t, err)
	defer resp.Body.Close()

	c.session = resp.Header.Get(middleware.HeaderSessionID)
	require.Equal(c.t, wantStatus, resp.StatusCode, "%s %s", method, path)
	if out != nil {
		require.NoError(c.t, json.NewDecoder(resp.Body).Decode(out))
	}
}
