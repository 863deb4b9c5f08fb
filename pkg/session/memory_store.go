package session

import (
	"context"
	"maps"
	"sync"
	"time"
)

// MemoryStore keeps sessions in process memory. Expired sessions are
// removed on access and by an optional janitor.
type MemoryStore struct {
	items map[string]*Session
	done  chan struct{}
	mu    sync.Mutex
}

// NewMemoryStore creates a memory store. A positive cleanupInterval starts
// a janitor goroutine that is stopped by Close.
//
// Example:
//
//	store := session.NewMemoryStore(time.Minute)
//	defer store.Close()
func NewMemoryStore(cleanupInterval time.Duration) *MemoryStore {
	m := &MemoryStore{
		items: make(map[string]*Session),
		done:  make(chan struct{}),
	}
	if cleanupInterval > 0 {
		go m.janitor(cleanupInterval)
	}
	return m
}

func (m *MemoryStore) Create(_ context.Context, s *Session) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.items[s.ID] = snapshot(s)
	return nil
}

func (m *MemoryStore) Get(_ context.Context, id string) (*Session, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	s, ok := m.items[id]
	if !ok {
		return nil, ErrNotFound
	}
	if s.IsExpired() {
		delete(m.items, id)
		return nil, ErrExpired
	}
	return snapshot(s), nil
}

func (m *MemoryStore) Update(_ context.Context, s *Session) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.items[s.ID]; !ok {
		return ErrNotFound
	}
	m.items[s.ID] = snapshot(s)
	return nil
}

func (m *MemoryStore) Delete(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.items, id)
	return nil
}

// Close stops the janitor. It is safe to call more than once.
func (m *MemoryStore) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	select {
	case <-m.done:
	default:
		close(m.done)
	}
	return nil
}

func (m *MemoryStore) janitor(interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-m.done:
			return
		case <-ticker.C:
			m.deleteExpired()
		}
	}
}

func (m *MemoryStore) deleteExpired() {
	m.mu.Lock()
	defer m.mu.Unlock()
	for id, s := range m.items {
		if s.IsExpired() {
			delete(m.items, id)
		}
	}
}

// snapshot copies s so that callers never share the stored value map.
// Nested maps such as pending flashes are copied one level deep.
func snapshot(s *Session) *Session {
	cp := *s
	cp.Values = make(map[string]any, len(s.Values))
	for k, v := range s.Values {
		if nested, ok := v.(map[string]any); ok {
			v = maps.Clone(nested)
		}
		cp.Values[k] = v
	}
	cp.dirty = false
	cp.isNew = false
	return &cp
}

var _ Store = (*MemoryStore)(nil)
