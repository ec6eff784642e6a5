package kv

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
)

var (
	ErrNotFound = errors.New("not found")
	// ErrCorrupt marks a stored value that no longer decodes.
	ErrCorrupt  = errors.New("corrupt value")
)

// Key names a per-session JSON blob.
type Key string

const (
	KeyCart      Key = "laundryCart"
	KeyCheckout  Key = "checkoutData"
	KeyOrderForm Key = "orderFormData"
	KeyLastOrder Key = "lastOrder"

	// Reserved for the admin and partner consoles; nothing in this service reads them.
	KeyAdminSession   Key = "dipDryAdminSession"
	KeyPartnerSession Key = "dipDryPartnerSession"
)

// Store keeps opaque JSON values per session and key.
type Store interface {
	Get(ctx context.Context, session string, key Key) ([]byte, error)
	Put(ctx context.Context, session string, key Key, value []byte) error
	Delete(ctx context.Context, session string, keys ...Key) error
}

// GetJSON decodes the value under key into v. The boolean reports whether the key existed.
func GetJSON(ctx context.Context, s Store, session string, key Key, v any) (bool, error) {
	raw, err := s.Get(ctx, session, key)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return false, nil
		}
		return false, fmt.Errorf("get %s: %w", key, err)
	}
	if err := json.Unmarshal(raw, v); err != nil {
		return true, fmt.Errorf("%w under %s: %w", ErrCorrupt, key, err)
	}
	return true, nil
}

func PutJSON(ctx context.Context, s Store, session string, key Key, v any) error {
	raw, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("encode %s: %w", key, err)
	}
	if err := s.Put(ctx, session, key, raw); err != nil {
		return fmt.Errorf("put %s: %w", key, err)
	}
	return nil
}
