package kv

import (
	"context"
	"sync"
)

// MemoryStore is a process-local Store. It never fails unless told to via
// FailNext, which makes it useful for exercising persistence error paths.
type MemoryStore struct {
	mu      sync.Mutex
	data    map[string]string
	closed  bool
	writes  int
	failGet error
	failSet []error
}

// NewMemoryStore returns an empty MemoryStore, optionally seeded with entries.
func NewMemoryStore(seed ...Entry) *MemoryStore {
	m := &MemoryStore{data: make(map[string]string)}
	for _, e := range seed {
		m.data[e.Key] = e.Value
	}
	return m
}

func (m *MemoryStore) Get(ctx context.Context, key string) (string, bool, error) {
	if err := ctx.Err(); err != nil {
		return "", false, err
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if m.closed {
		return "", false, ErrClosed
	}
	if m.failGet != nil {
		return "", false, m.failGet
	}
	v, ok := m.data[key]
	return v, ok, nil
}

func (m *MemoryStore) MultiSet(ctx context.Context, entries []Entry) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if m.closed {
		return ErrClosed
	}
	if len(m.failSet) > 0 {
		err := m.failSet[0]
		m.failSet = m.failSet[1:]
		return err
	}
	for _, e := range entries {
		m.data[e.Key] = e.Value
	}
	m.writes++
	return nil
}

func (m *MemoryStore) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.closed = true
	return nil
}

// FailNext makes the next len(errs) MultiSet calls return errs in order.
func (m *MemoryStore) FailNext(errs ...error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.failSet = append(m.failSet, errs...)
}

// FailGets makes every Get return err until called again with nil.
func (m *MemoryStore) FailGets(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.failGet = err
}

// Value returns the stored value for key without going through Get.
func (m *MemoryStore) Value(key string) (string, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	v, ok := m.data[key]
	return v, ok
}

// Writes returns the number of successful MultiSet calls.
func (m *MemoryStore) Writes() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.writes
}
