package redis

import (
	"context"
	"sync"
	"time"
)

// MemoryRepositories is an in-process IRedisRepositories used by tests
// and by local runs without a Redis server.
type MemoryRepositories struct {
	mu      sync.Mutex
	values  map[string]string
	expires map[string]time.Time
	now     func() time.Time
}

func NewMemoryRepositories() *MemoryRepositories {
	return &MemoryRepositories{
		values:  make(map[string]string),
		expires: make(map[string]time.Time),
		now:     time.Now,
	}
}

// expireLocked drops key when its deadline has passed
func (m *MemoryRepositories) expireLocked(key string) {
	if deadline, ok := m.expires[key]; ok && !m.now().Before(deadline) {
		delete(m.values, key)
		delete(m.expires, key)
	}
}

func (m *MemoryRepositories) setLocked(key string, data []byte, ttl time.Duration) {
	m.values[key] = string(data)
	if ttl > 0 {
		m.expires[key] = m.now().Add(ttl)
	} else {
		delete(m.expires, key)
	}
}

func (m *MemoryRepositories) Set(key string, data []byte, ttl time.Duration, _ context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.setLocked(key, data, ttl)
	return nil
}

func (m *MemoryRepositories) SetNX(key string, data []byte, ttl time.Duration, _ context.Context) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.expireLocked(key)
	if _, exists := m.values[key]; exists {
		return false, nil
	}
	m.setLocked(key, data, ttl)
	return true, nil
}

func (m *MemoryRepositories) Get(key string, _ context.Context) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.expireLocked(key)
	value, ok := m.values[key]
	if !ok {
		return "", ErrKeyNotFound
	}
	return value, nil
}

func (m *MemoryRepositories) Del(key string, _ context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.values, key)
	delete(m.expires, key)
	return nil
}

// TTL mirrors Redis: -2 for a missing key, -1 for a key without expiry
func (m *MemoryRepositories) TTL(key string, _ context.Context) (time.Duration, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.expireLocked(key)
	if _, ok := m.values[key]; !ok {
		return -2, nil
	}
	deadline, ok := m.expires[key]
	if !ok {
		return -1, nil
	}
	return deadline.Sub(m.now()), nil
}
