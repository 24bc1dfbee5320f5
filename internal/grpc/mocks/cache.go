package mocks

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
)

// MockCacher is a function-based mock of the handler cache. With no funcs set
// it behaves as a JSON in-memory store that reports misses as redis.Nil.
type MockCacher struct {
	GetFunc   func(ctx context.Context, key string, dest any) error
	SetFunc   func(ctx context.Context, key string, value any, expiration time.Duration) error
	CloseFunc func() error

	mu       sync.Mutex
	data     map[string][]byte
	getCalls int
	setCalls int
}

func (m *MockCacher) Get(ctx context.Context, key string, dest any) error {
	m.mu.Lock()
	m.getCalls++
	raw, ok := m.data[key]
	m.mu.Unlock()

	if m.GetFunc != nil {
		return m.GetFunc(ctx, key, dest)
	}
	if !ok {
		return redis.Nil
	}
	return json.Unmarshal(raw, dest)
}

func (m *MockCacher) Set(ctx context.Context, key string, value any, expiration time.Duration) error {
	if m.SetFunc != nil {
		m.mu.Lock()
		m.setCalls++
		m.mu.Unlock()
		return m.SetFunc(ctx, key, value, expiration)
	}

	raw, err := json.Marshal(value)
	if err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.setCalls++
	if m.data == nil {
		m.data = make(map[string][]byte)
	}
	m.data[key] = raw
	return nil
}

func (m *MockCacher) Close() error {
	if m.CloseFunc != nil {
		return m.CloseFunc()
	}
	return nil
}

// Calls returns the number of Get and Set calls observed so far.
func (m *MockCacher) Calls() (gets, sets int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.getCalls, m.setCalls
}

// Has reports whether key has been stored.
func (m *MockCacher) Has(key string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	_, ok := m.data[key]
	return ok
}
