package repository

import (
	"context"
	"sync"
)

// MemoryStore is an in-process KeyValueStoreInterface. Writes are announced to
// subscribers asynchronously.
type MemoryStore struct {
	mu   sync.RWMutex
	data map[string][]byte
	subs subscribers
}

var (
	_ KeyValueStoreInterface  = (*MemoryStore)(nil)
	_ ChangeNotifierInterface = (*MemoryStore)(nil)
)

// NewMemoryStore creates an empty MemoryStore
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{data: make(map[string][]byte)}
}

func (m *MemoryStore) Get(ctx context.Context, key string) ([]byte, bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	v, ok := m.data[key]
	if !ok {
		return nil, false, nil
	}
	out := make([]byte, len(v))
	copy(out, v)
	return out, true, nil
}

func (m *MemoryStore) Set(ctx context.Context, key string, value []byte) error {
	stored := make([]byte, len(value))
	copy(stored, value)

	m.mu.Lock()
	m.data[key] = stored
	fns := m.subs.snapshot()
	m.mu.Unlock()

	m.notify(fns, key)
	return nil
}

func (m *MemoryStore) Remove(ctx context.Context, key string) error {
	m.mu.Lock()
	_, existed := m.data[key]
	delete(m.data, key)
	fns := m.subs.snapshot()
	m.mu.Unlock()

	if existed {
		m.notify(fns, key)
	}
	return nil
}

// Subscribe registers fn to be called with every changed key
func (m *MemoryStore) Subscribe(fn func(key string)) func() {
	m.mu.Lock()
	id := m.subs.add(fn)
	m.mu.Unlock()

	return func() {
		m.mu.Lock()
		m.subs.remove(id)
		m.mu.Unlock()
	}
}

func (m *MemoryStore) notify(fns []func(string), key string) {
	for _, fn := range fns {
		go fn(key)
	}
}
