// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package publish

import (
	"context"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidKey(t *testing.T) {
	for _, k := range []string{"index", "page/2", "post/17"} {
		assert.True(t, ValidKey(k), k)
	}
	for _, k := range []string{"", "/etc/passwd", "../up", "post//1", "a/./b", `a\b`} {
		assert.False(t, ValidKey(k), k)
	}
}

func TestDirSink(t *testing.T) {
	dir := t.TempDir()
	s := NewDirSink(dir)
	ctx := context.Background()

	require.NoError(t, s.Put(ctx, "page/2", map[string]int{"currentPage": 2}))

	data, err := os.ReadFile(filepath.Join(dir, "page", "2.json"))
	require.NoError(t, err)
	var got map[string]int
	require.NoError(t, json.Unmarshal(data, &got))
	assert.Equal(t, 2, got["currentPage"])

	_, err = os.Stat(filepath.Join(dir, "page", "2.json.tmp"))
	assert.True(t, os.IsNotExist(err))

	assert.Error(t, s.Put(ctx, "../escape", 1))
	assert.Error(t, s.Put(ctx, "bad", func() {}))
}

func TestMulti(t *testing.T) {
	a, b := NewMemory(), NewMemory()
	boom := errors.New("boom")
	failing := SinkFunc(func(context.Context, string, any) error { return boom })

	err := Multi{a, failing, b}.Put(context.Background(), "index", "ctx")
	assert.ErrorIs(t, err, boom)

	// Sinks after a failing one still receive the value.
	v, ok := b.Get("index")
	assert.True(t, ok)
	assert.Equal(t, "ctx", v)
	assert.Equal(t, []string{"index"}, a.Keys())
}

func TestBestEffort(t *testing.T) {
	failing := SinkFunc(func(context.Context, string, any) error { return errors.New("down") })
	assert.NoError(t, BestEffort("cache", failing).Put(context.Background(), "index", 1))
}
