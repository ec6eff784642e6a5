package kv

import "sync"

// Locks serialises mutations per session. Entries are dropped once no caller holds them.
type Locks struct {
	mu sync.Mutex
	m  map[string]*lockEntry
}

type lockEntry struct {
	mu   sync.Mutex
	refs int
}

func NewLocks() *Locks {
	return &Locks{m: make(map[string]*lockEntry)}
}

// Lock blocks until the session is free and returns the matching unlock func.
func (l *Locks) Lock(session string) func() {
	l.mu.Lock()
	e, ok := l.m[session]
	if !ok {
		e = &lockEntry{}
		l.m[session] = e
	}
	e.refs++
	l.mu.Unlock()

	e.mu.Lock()
	return func() {
		e.mu.Unlock()
		l.mu.Lock()
		e.refs--
		if e.refs == 0 {
			delete(l.m, session)
		}
		l.mu.Unlock()
	}
}
