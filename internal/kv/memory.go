package kv

import (
	"context"
	"sync"
)

// MemoryStore is a process-local Store for development and tests.
type MemoryStore struct {
	mu   sync.RWMutex
	data map[string]map[Key][]byte
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{data: make(map[string]map[Key][]byte)}
}

func (s *MemoryStore) Get(ctx context.Context, session string, key Key) ([]byte, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	v, ok := s.data[session][key]
	if !ok {
		return nil, ErrNotFound
	}
	return append([]byte(nil), v...), nil
}

func (s *MemoryStore) Put(ctx context.Context, session string, key Key, value []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	m, ok := s.data[session]
	if !ok {
		m = make(map[Key][]byte)
		s.data[session] = m
	}
	m[key] = append([]byte(nil), value...)
	return nil
}

func (s *MemoryStore) Delete(ctx context.Context, session string, keys ...Key) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	m := s.data[session]
	for _, k := range keys {
		delete(m, k)
	}
	if len(m) == 0 {
		delete(s.data, session)
	}
	return nil
}
