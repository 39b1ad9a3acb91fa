// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package publish hands finished render contexts to their consumers. A Sink
// receives each context under a slash-separated key such as "index",
// "page/2" or "post/17".
package publish

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"
)

// Sink receives render contexts.
type Sink interface {
	Put(ctx context.Context, key string, v any) error
}

// SinkFunc adapts a function to Sink.
type SinkFunc func(ctx context.Context, key string, v any) error

func (f SinkFunc) Put(ctx context.Context, key string, v any) error { return f(ctx, key, v) }

// ValidKey reports whether key is safe to use as a relative path.
func ValidKey(key string) bool {
	if key == "" || strings.HasPrefix(key, "/") || strings.Contains(key, `\`) {
		return false
	}
	for _, part := range strings.Split(key, "/") {
		if part == "" || part == "." || part == ".." {
			return false
		}
	}
	return true
}

// DirSink writes each context as indented JSON to <dir>/<key>.json.
type DirSink struct {
	dir string
}

// NewDirSink creates a sink writing below dir. The directory is created on
// first write.
func NewDirSink(dir string) *DirSink {
	return &DirSink{dir: dir}
}

func (s *DirSink) Put(_ context.Context, key string, v any) error {
	if !ValidKey(key) {
		return fmt.Errorf("dir sink: invalid key %q", key)
	}
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("encode %s: %w", key, err)
	}

	path := filepath.Join(s.dir, filepath.FromSlash(key)+".json")
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("dir sink mkdir: %w", err)
	}

	// Write to a temp file first so readers never see a partial context.
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return fmt.Errorf("dir sink write %s: %w", key, err)
	}
	if err := os.Rename(tmp, path); err != nil {
		os.Remove(tmp)
		return fmt.Errorf("dir sink rename %s: %w", key, err)
	}
	slog.Debug("context written", "key", key, "path", path)
	return nil
}

// Multi fans a context out to several sinks. Every sink is attempted; the
// errors are joined.
type Multi []Sink

func (m Multi) Put(ctx context.Context, key string, v any) error {
	var errs []error
	for _, s := range m {
		if err := s.Put(ctx, key, v); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// BestEffort wraps a sink whose failures are logged and ignored, for
// secondary copies such as a cache.
func BestEffort(name string, s Sink) Sink {
	return SinkFunc(func(ctx context.Context, key string, v any) error {
		if err := s.Put(ctx, key, v); err != nil {
			slog.Warn("sink write failed", "sink", name, "key", key, "error", err)
		}
		return nil
	})
}

// Memory is an in-memory sink keeping the last value per key.
type Memory struct {
	mu     sync.Mutex
	values map[string]any
}

// NewMemory creates an empty Memory sink.
func NewMemory() *Memory {
	return &Memory{values: make(map[string]any)}
}

func (m *Memory) Put(_ context.Context, key string, v any) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.values[key] = v
	return nil
}

// Get returns the value stored under key.
func (m *Memory) Get(key string) (any, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	v, ok := m.values[key]
	return v, ok
}

// Keys returns the stored keys in no particular order.
func (m *Memory) Keys() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	keys := make([]string, 0, len(m.values))
	for k := range m.values {
		keys = append(keys, k)
	}
	return keys
}
