package staging

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
)

func TestStagerTakeConsumes(t *testing.T) {
	s := NewStager(NewMemory(), time.Second)
	ctx := context.Background()

	if err := s.Stage(ctx, "u1:saved", "eq-1"); err != nil {
		t.Fatalf("stage: %v", err)
	}
	value, ok := s.Take(ctx, "u1:saved")
	if !ok || value != "eq-1" {
		t.Fatalf("expected eq-1, got %q ok=%v", value, ok)
	}
	if _, ok := s.Take(ctx, "u1:saved"); ok {
		t.Fatalf("expected key to be consumed")
	}
}

func TestMemoryExpiry(t *testing.T) {
	kv := NewMemory()
	now := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	kv.now = func() time.Time { return now }
	ctx := context.Background()

	_ = kv.Set(ctx, "k", "v", time.Second)
	if _, ok, _ := kv.Get(ctx, "k"); !ok {
		t.Fatalf("expected live key")
	}
	now = now.Add(time.Second)
	if _, ok, _ := kv.Get(ctx, "k"); ok {
		t.Fatalf("expected key to expire")
	}
	_ = kv.Set(ctx, "other", "v", time.Second)
	if len(kv.entries) != 1 {
		t.Fatalf("expected expired entries to be swept, got %d", len(kv.entries))
	}
}

func TestRedisStager(t *testing.T) {
	addr := os.Getenv("REDIS_ADDR")
	if addr == "" {
		t.Skip("REDIS_ADDR not set")
	}
	client := redis.NewClient(&redis.Options{Addr: addr})
	defer client.Close()
	ctx := context.Background()
	if err := client.Ping(ctx).Err(); err != nil {
		t.Fatalf("redis ping: %v", err)
	}

	s := NewStager(NewRedis(client), time.Second)
	if err := s.Stage(ctx, "test:landing", "/projects"); err != nil {
		t.Fatalf("stage: %v", err)
	}
	value, ok := s.Take(ctx, "test:landing")
	if !ok || value != "/projects" {
		t.Fatalf("expected /projects, got %q ok=%v", value, ok)
	}
	if _, ok := s.Take(ctx, "test:landing"); ok {
		t.Fatalf("expected GETDEL semantics")
	}
}
