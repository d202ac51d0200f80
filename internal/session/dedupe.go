package session

import (
	"context"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
)

// DefaultDedupeWindow is how long a comment submission stays in flight.
const DefaultDedupeWindow = time.Second

// Deduper claims idempotency keys for a limited window. Claim returns true
// the first time a key is seen within the window.
type Deduper interface {
	Claim(ctx context.Context, key string) (bool, error)
}

// MemoryDeduper keeps claimed keys in process.
type MemoryDeduper struct {
	mu      sync.Mutex
	ttl     time.Duration
	now     func() time.Time
	expires map[string]time.Time
}

func NewMemoryDeduper(ttl time.Duration) *MemoryDeduper {
	if ttl <= 0 {
		ttl = DefaultDedupeWindow
	}
	return &MemoryDeduper{ttl: ttl, now: time.Now, expires: make(map[string]time.Time)}
}

func (m *MemoryDeduper) Claim(_ context.Context, key string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	now := m.now()
	for k, exp := range m.expires {
		if !now.Before(exp) {
			delete(m.expires, k)
		}
	}
	if _, held := m.expires[key]; held {
		return false, nil
	}
	m.expires[key] = now.Add(m.ttl)
	return true, nil
}

// RedisDeduper stores claimed keys in Redis so the window survives a
// process restart.
type RedisDeduper struct {
	client *redis.Client
	ttl    time.Duration
}

func NewRedisDeduper(client *redis.Client, ttl time.Duration) *RedisDeduper {
	if ttl <= 0 {
		ttl = DefaultDedupeWindow
	}
	return &RedisDeduper{client: client, ttl: ttl}
}

func (r *RedisDeduper) key(key string) string {
	return "taskboard:comment:" + key
}

func (r *RedisDeduper) Claim(ctx context.Context, key string) (bool, error) {
	return r.client.SetNX(ctx, r.key(key), 1, r.ttl).Result()
}
