package cart

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/andreasstove999/ecommerce-system/laundry-service-go/internal/catalog"
	"github.com/andreasstove999/ecommerce-system/laundry-service-go/internal/kv"
)

// Load reads the session cart. A corrupt blob is logged and treated as empty.
func Load(ctx context.Context, store kv.Store, logger *zap.Logger, session string) (Cart, error) {
	var lines []Line
	_, err := kv.GetJSON(ctx, store, session, kv.KeyCart, &lines)
	if err != nil {
		if !errors.Is(err, kv.ErrCorrupt) {
			return Cart{}, err
		}
		logger.Warn("discarding unreadable cart", zap.String("session", session), zap.Error(err))
		return Cart{}, nil
	}
	return Cart{Items: lines}, nil
}

// Save persists the cart lines under the cart key.
func Save(ctx context.Context, store kv.Store, session string, c Cart) error {
	lines := c.Items
	if lines == nil {
		lines = []Line{}
	}
	return kv.PutJSON(ctx, store, session, kv.KeyCart, lines)
}

// Service applies one cart operation per call and persists the result immediately.
type Service struct {
	store  kv.Store
	locks  *kv.Locks
	logger *zap.Logger
}

func NewService(store kv.Store, locks *kv.Locks, logger *zap.Logger) *Service {
	return &Service{store: store, locks: locks, logger: logger}
}

func (s *Service) Get(ctx context.Context, session string) (Cart, error) {
	return Load(ctx, s.store, s.logger, session)
}

func (s *Service) Add(ctx context.Context, session, itemID string, qty int) (Cart, error) {
	item, err := catalog.Lookup(itemID)
	if err != nil {
		return Cart{}, err
	}
	return s.mutate(ctx, session, func(c *Cart) {
		c.Add(item, qty)
		s.logger.Debug("cart add", zap.String("session", session), zap.String("item_id", itemID), zap.Int("quantity", qty))
	})
}

func (s *Service) SetQuantity(ctx context.Context, session, itemID string, qty int) (Cart, error) {
	return s.mutate(ctx, session, func(c *Cart) {
		c.SetQuantity(itemID, qty)
	})
}

func (s *Service) Remove(ctx context.Context, session, itemID string) (Cart, error) {
	return s.mutate(ctx, session, func(c *Cart) {
		c.Remove(itemID)
	})
}

func (s *Service) Clear(ctx context.Context, session string) error {
	_, err := s.mutate(ctx, session, func(c *Cart) {
		c.Clear()
	})
	return err
}

func (s *Service) mutate(ctx context.Context, session string, fn func(c *Cart)) (Cart, error) {
	unlock := s.locks.Lock(session)
	defer unlock()

	c, err := Load(ctx, s.store, s.logger, session)
	if err != nil {
		return Cart{}, fmt.Errorf("load cart: %w", err)
	}
	fn(&c)
	if err := Save(ctx, s.store, session, c); err != nil {
		return Cart{}, fmt.Errorf("save cart: %w", err)
	}
	return c, nil
}
