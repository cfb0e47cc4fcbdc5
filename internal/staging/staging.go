package staging

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
)

// KV is the small key/value surface shared by staging keys and the
// project-leader cache.
type KV interface {
	Set(ctx context.Context, key, value string, ttl time.Duration) error
	Get(ctx context.Context, key string) (string, bool, error)
	GetDel(ctx context.Context, key string) (string, bool, error)
}

type RedisKV struct {
	client *redis.Client
}

func NewRedis(client *redis.Client) *RedisKV {
	return &RedisKV{client: client}
}

func (r *RedisKV) Set(ctx context.Context, key, value string, ttl time.Duration) error {
	return r.client.Set(ctx, key, value, ttl).Err()
}

func (r *RedisKV) Get(ctx context.Context, key string) (string, bool, error) {
	value, err := r.client.Get(ctx, key).Result()
	if errors.Is(err, redis.Nil) {
		return "", false, nil
	}
	if err != nil {
		return "", false, err
	}
	return value, true, nil
}

func (r *RedisKV) GetDel(ctx context.Context, key string) (string, bool, error) {
	value, err := r.client.GetDel(ctx, key).Result()
	if errors.Is(err, redis.Nil) {
		return "", false, nil
	}
	if err != nil {
		return "", false, err
	}
	return value, true, nil
}

type memoryEntry struct {
	value     string
	expiresAt time.Time
}

// MemoryKV is an in-process KV for single-instance deployments and tests.
type MemoryKV struct {
	mu      sync.Mutex
	entries map[string]memoryEntry
	now     func() time.Time
}

func NewMemory() *MemoryKV {
	return &MemoryKV{entries: map[string]memoryEntry{}, now: time.Now}
}

func (m *MemoryKV) Set(_ context.Context, key, value string, ttl time.Duration) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sweep()
	m.entries[key] = memoryEntry{value: value, expiresAt: m.now().Add(ttl)}
	return nil
}

func (m *MemoryKV) Get(_ context.Context, key string) (string, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	entry, ok := m.live(key)
	return entry.value, ok, nil
}

func (m *MemoryKV) GetDel(_ context.Context, key string) (string, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	entry, ok := m.live(key)
	delete(m.entries, key)
	return entry.value, ok, nil
}

func (m *MemoryKV) live(key string) (memoryEntry, bool) {
	entry, ok := m.entries[key]
	if !ok {
		return memoryEntry{}, false
	}
	if !m.now().Before(entry.expiresAt) {
		delete(m.entries, key)
		return memoryEntry{}, false
	}
	return entry, true
}

// sweep drops expired entries so abandoned keys do not accumulate.
func (m *MemoryKV) sweep() {
	now := m.now()
	for k, e := range m.entries {
		if !now.Before(e.expiresAt) {
			delete(m.entries, k)
		}
	}
}

// Stager holds short-lived per-user hints: the id of a row that was just
// saved, or the page a user landed on after login. Take consumes the key.
type Stager struct {
	kv  KV
	ttl time.Duration
}

func NewStager(kv KV, ttl time.Duration) *Stager {
	if ttl <= 0 {
		ttl = time.Second
	}
	return &Stager{kv: kv, ttl: ttl}
}

func (s *Stager) Stage(ctx context.Context, key, value string) error {
	return s.kv.Set(ctx, stagingKey(key), value, s.ttl)
}

func (s *Stager) Take(ctx context.Context, key string) (string, bool) {
	value, ok, err := s.kv.GetDel(ctx, stagingKey(key))
	if err != nil {
		return "", false
	}
	return value, ok
}

func stagingKey(key string) string {
	return "admin:staging:" + key
}
