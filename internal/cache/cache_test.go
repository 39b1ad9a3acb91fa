// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package cache

import (
	"context"
	"encoding/json"
	"os"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
)

// testValkeyClient returns a Redis client for tests.
// Skips if Valkey is unavailable.
func testValkeyClient(t *testing.T) *redis.Client {
	t.Helper()

	host := envOr("VALKEY_HOST", "localhost")
	port := envOr("VALKEY_PORT", "6379")
	password := os.Getenv("VALKEY_PASSWORD")

	client := redis.NewClient(&redis.Options{
		Addr:     host + ":" + port,
		Password: password,
		DB:       15, // Use DB 15 for tests.
	})

	ctx := context.Background()
	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		t.Skipf("skipping integration test: Valkey not reachable: %v", err)
	}

	t.Cleanup(func() {
		keys, _ := client.Keys(ctx, contextKeyPrefix+"*").Result()
		if len(keys) > 0 {
			client.Del(ctx, keys...)
		}
		client.Close()
	})

	return client
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func TestConnectValkey(t *testing.T) {
	host := envOr("VALKEY_HOST", "localhost")
	port := envOr("VALKEY_PORT", "6379")

	client, err := ConnectValkey(host, port, os.Getenv("VALKEY_PASSWORD"))
	if err != nil {
		t.Skipf("skipping: Valkey not available: %v", err)
	}
	defer client.Close()

	pong, err := client.Ping(context.Background()).Result()
	if err != nil {
		t.Fatalf("Ping: %v", err)
	}
	if pong != "PONG" {
		t.Errorf("expected PONG, got %q", pong)
	}
}

func TestContextCachePutAndGet(t *testing.T) {
	cc := NewContextCache(testValkeyClient(t), time.Minute)
	ctx := context.Background()

	data, ok, err := cc.Get(ctx, "post/1")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if ok || data != nil {
		t.Error("expected cache miss")
	}

	if err := cc.Put(ctx, "post/1", map[string]string{"title": "Hello"}); err != nil {
		t.Fatalf("Put: %v", err)
	}

	data, ok, err = cc.Get(ctx, "post/1")
	if err != nil || !ok {
		t.Fatalf("expected cache hit, got ok=%v err=%v", ok, err)
	}
	var got map[string]string
	if err := json.Unmarshal(data, &got); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if got["title"] != "Hello" {
		t.Errorf("title: got %q, want %q", got["title"], "Hello")
	}
}

func TestContextCacheInvalidate(t *testing.T) {
	cc := NewContextCache(testValkeyClient(t), time.Minute)
	ctx := context.Background()

	if err := cc.Put(ctx, "index", 1); err != nil {
		t.Fatalf("Put: %v", err)
	}
	if err := cc.Invalidate(ctx, "index"); err != nil {
		t.Fatalf("Invalidate: %v", err)
	}
	if _, ok, _ := cc.Get(ctx, "index"); ok {
		t.Error("expected cache miss after invalidation")
	}
}

func TestContextCacheInvalidateAll(t *testing.T) {
	cc := NewContextCache(testValkeyClient(t), time.Minute)
	ctx := context.Background()

	for _, key := range []string{"index", "page/2", "post/3"} {
		if err := cc.Put(ctx, key, key); err != nil {
			t.Fatalf("Put %s: %v", key, err)
		}
	}

	deleted, err := cc.InvalidateAll(ctx)
	if err != nil {
		t.Fatalf("InvalidateAll: %v", err)
	}
	if deleted < 3 {
		t.Errorf("deleted: got %d, want at least 3", deleted)
	}
	for _, key := range []string{"index", "page/2", "post/3"} {
		if _, ok, _ := cc.Get(ctx, key); ok {
			t.Errorf("expected miss for %q after InvalidateAll", key)
		}
	}
}

func TestContextCachePutUnencodable(t *testing.T) {
	// Encoding fails before any network call, so no server is needed.
	cc := NewContextCache(redis.NewClient(&redis.Options{Addr: "localhost:1"}), 0)
	if err := cc.Put(context.Background(), "index", make(chan int)); err == nil {
		t.Error("expected encode error")
	}
}

func TestNewContextCacheDefaultTTL(t *testing.T) {
	cc := NewContextCache(redis.NewClient(&redis.Options{Addr: "localhost:1"}), 0)
	if cc.ttl != DefaultContextTTL {
		t.Errorf("expected DefaultContextTTL (%v), got %v", DefaultContextTTL, cc.ttl)
	}
}
