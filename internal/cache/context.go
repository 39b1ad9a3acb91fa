// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// context.go provides a Valkey-backed store of rendered page contexts.
// Every context a render pass publishes is kept as JSON under ctx:<key> so
// preview servers can fetch the latest context without running a pass.
package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"
)

const (
	// contextKeyPrefix is the Valkey key prefix for cached contexts.
	contextKeyPrefix = "ctx:"

	// DefaultContextTTL is how long a published context stays cached.
	DefaultContextTTL = time.Hour
)

// ContextCache stores render contexts in Valkey. It implements publish.Sink.
type ContextCache struct {
	client *redis.Client
	ttl    time.Duration
}

// NewContextCache creates a context cache backed by the given Valkey client.
func NewContextCache(client *redis.Client, ttl time.Duration) *ContextCache {
	if ttl == 0 {
		ttl = DefaultContextTTL
	}
	return &ContextCache{client: client, ttl: ttl}
}

// Put stores v as JSON under key with the configured TTL.
func (cc *ContextCache) Put(ctx context.Context, key string, v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("encode context %s: %w", key, err)
	}
	if err := cc.client.Set(ctx, contextKeyPrefix+key, data, cc.ttl).Err(); err != nil {
		return fmt.Errorf("context cache set %s: %w", key, err)
	}
	slog.Debug("context cached", "key", key, "bytes", len(data))
	return nil
}

// Get returns the raw JSON stored under key. The boolean is false on a miss.
func (cc *ContextCache) Get(ctx context.Context, key string) ([]byte, bool, error) {
	val, err := cc.client.Get(ctx, contextKeyPrefix+key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("context cache get %s: %w", key, err)
	}
	return val, true, nil
}

// Invalidate removes a single context.
func (cc *ContextCache) Invalidate(ctx context.Context, key string) error {
	if err := cc.client.Del(ctx, contextKeyPrefix+key).Err(); err != nil {
		return fmt.Errorf("context cache invalidate %s: %w", key, err)
	}
	return nil
}

// InvalidateAll removes every cached context by scanning for the prefix.
// A new pass calls it first so contexts of deleted posts do not linger.
func (cc *ContextCache) InvalidateAll(ctx context.Context) (int, error) {
	var cursor uint64
	var deleted int
	for {
		keys, nextCursor, err := cc.client.Scan(ctx, cursor, contextKeyPrefix+"*", 100).Result()
		if err != nil {
			return deleted, fmt.Errorf("context cache scan: %w", err)
		}
		if len(keys) > 0 {
			if err := cc.client.Del(ctx, keys...).Err(); err != nil {
				return deleted, fmt.Errorf("context cache bulk delete: %w", err)
			}
			deleted += len(keys)
		}
		cursor = nextCursor
		if cursor == 0 {
			break
		}
	}
	if deleted > 0 {
		slog.Info("context cache cleared", "deleted", deleted)
	}
	return deleted, nil
}
