package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	amqp "github.com/rabbitmq/amqp091-go"
	"go.uber.org/zap"

	"github.com/andreasstove999/ecommerce-system/laundry-service-go/internal/backend"
	"github.com/andreasstove999/ecommerce-system/laundry-service-go/internal/cart"
	"github.com/andreasstove999/ecommerce-system/laundry-service-go/internal/checkout"
	"github.com/andreasstove999/ecommerce-system/laundry-service-go/internal/config"
	"github.com/andreasstove999/ecommerce-system/laundry-service-go/internal/db"
	"github.com/andreasstove999/ecommerce-system/laundry-service-go/internal/events"
	httpapi "github.com/andreasstove999/ecommerce-system/laundry-service-go/internal/http"
	"github.com/andreasstove999/ecommerce-system/laundry-service-go/internal/kv"
	"github.com/andreasstove999/ecommerce-system/laundry-service-go/internal/logging"
	"github.com/andreasstove999/ecommerce-system/laundry-service-go/internal/notify"
	"github.com/andreasstove999/ecommerce-system/laundry-service-go/internal/order"
)

const serviceName = "laundry-service-go"

func main() {
	cfg := config.Load()

	logger, err := logging.New(cfg.LogLevel, cfg.LogFormat, serviceName)
	if err != nil {
		logger = zap.Must(zap.NewProduction())
		logger.Warn("invalid log config, using defaults", zap.Error(err))
	}
	defer func() { _ = logger.Sync() }()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// --- storage ---
	var (
		store  kv.Store
		orders order.Repository
		pool   *pgxpool.Pool
	)
	switch cfg.Storage {
	case config.StorageMemory:
		logger.Warn("using in-memory storage, data is lost on restart")
		store = kv.NewMemoryStore()
		orders = order.NewMemoryRepository()
	case config.StoragePostgres:
		if cfg.RunMigrations {
			if err := db.RunMigrations(cfg.DatabaseDSN, logger); err != nil {
				logger.Fatal("db migrate", zap.Error(err))
			}
		}
		pool, err = db.NewPool(ctx, cfg.DatabaseDSN)
		if err != nil {
			logger.Fatal("db connect", zap.Error(err))
		}
		defer pool.Close()
		store = kv.NewPostgresStore(pool)
		orders = order.NewPostgresRepository(pool)
	default:
		logger.Fatal("unknown STORAGE_DRIVER", zap.String("driver", cfg.Storage))
	}

	loc, err := cfg.Location()
	if err != nil {
		logger.Fatal("config", zap.Error(err))
	}
	opts := checkout.Options{Location: loc}

	// --- external order backend ---
	var forwarder *backend.OrderForwarder
	var probe httpapi.BackendProbe
	if cfg.OrderBackendURL != "" {
		client, err := backend.NewClient("order-backend", cfg.OrderBackendURL, backend.Options{
			Timeout:  cfg.BackendTimeout,
			Attempts: cfg.BackendRetryAttempts,
			Delay:    cfg.BackendRetryDelay,
		}, logger)
		if err != nil {
			logger.Fatal("order backend", zap.Error(err))
		}
		forwarder = backend.NewOrderForwarder(client, logger)
		opts.Forwarder = forwarder
		probe = client
	}

	// --- events ---
	var conn *amqp.Connection
	if cfg.EventsEnabled {
		if pool == nil {
			logger.Fatal("EVENTS_ENABLED requires STORAGE_DRIVER=postgres")
		}
		conn, err = events.Dial(cfg.RabbitMQURL)
		if err != nil {
			logger.Fatal("rabbitmq", zap.Error(err))
		}
		defer conn.Close()

		pub, err := events.NewPublisher(conn, events.NewSessionSequences(pool), events.PublisherOptions{Producer: serviceName})
		if err != nil {
			logger.Fatal("events publisher", zap.Error(err))
		}
		defer pub.Close()
		opts.Publisher = pub

		var notifier notify.Notifier = notify.NewLogNotifier(logger)
		if cfg.SendGridAPIKey != "" {
			notifier = notify.NewSendGridNotifier(cfg.SendGridAPIKey, cfg.MailFrom, logger)
		}
		handler := events.OrderConfirmationHandler(events.NewConfirmationLedger(pool), notifier, logger)
		if err := events.StartConsumer(ctx, conn, events.OrderPlacedRoutingKey, serviceName, handler, logger); err != nil {
			logger.Fatal("start consumer", zap.Error(err))
		}
	}

	// --- services ---
	locks := kv.NewLocks()
	carts := cart.NewService(store, locks, logger)
	wizard := checkout.NewService(store, locks, orders, logger, opts)

	h := httpapi.NewHandler(httpapi.Deps{
		Carts:    carts,
		Checkout: wizard,
		Orders:   orders,
		Backend:  probe,
		Logger:   logger,
	})

	// --- HTTP ---
	srv := &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           httpapi.NewRouter(h, cfg.CORSAllowOrigins),
		ReadHeaderTimeout: 5 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("http listening", zap.String("addr", cfg.HTTPAddr), zap.String("storage", cfg.Storage), zap.Bool("events", cfg.EventsEnabled))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	// --- graceful shutdown ---
	select {
	case <-ctx.Done():
		logger.Info("shutdown requested")
	case err := <-errCh:
		logger.Error("server error", zap.Error(err))
	}
	stop()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("shutdown", zap.Error(err))
	}
	if forwarder != nil {
		if err := forwarder.Wait(shutdownCtx); err != nil {
			logger.Warn("order forwards still in flight", zap.Error(err))
		}
	}
	logger.Info("shutdown complete")
}
