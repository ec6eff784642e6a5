package order

import (
	"context"
	"sort"
	"sync"
)

// MemoryRepository keeps orders in process memory.
type MemoryRepository struct {
	mu     sync.RWMutex
	orders map[string]Order
}

func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{orders: make(map[string]Order)}
}

func (r *MemoryRepository) Create(ctx context.Context, o Order) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.orders[o.ID]; ok {
		return ErrDuplicateID
	}
	r.orders[o.ID] = o
	return nil
}

func (r *MemoryRepository) Get(ctx context.Context, id string) (Order, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	o, ok := r.orders[id]
	if !ok {
		return Order{}, ErrNotFound
	}
	return o, nil
}

func (r *MemoryRepository) ListByPhone(ctx context.Context, phone string) ([]Order, error) {
	want := NormalizePhone(phone)
	r.mu.RLock()
	defer r.mu.RUnlock()

	var out []Order
	for _, o := range r.orders {
		if NormalizePhone(o.Customer.Phone) == want {
			out = append(out, o)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Timestamp.After(out[j].Timestamp) })
	return out, nil
}
