// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package store

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
)

var (
	// ErrNotFound is returned when a hydrated record does not exist.
	ErrNotFound = errors.New("not found")

	// ErrMalformedValue is returned when a stored value cannot be coerced to
	// the type the renderer expects.
	ErrMalformedValue = errors.New("malformed value")
)

// coerceInt64 converts a scanned column value to int64. Drivers disagree on
// how integers come back (SQLite may hand back text for legacy rows), so the
// adapter normalizes here. NULL becomes 0.
func coerceInt64(column string, v any) (int64, error) {
	switch n := v.(type) {
	case nil:
		return 0, nil
	case int64:
		return n, nil
	case int32:
		return int64(n), nil
	case int:
		return int64(n), nil
	case float64:
		if n != math.Trunc(n) {
			return 0, fmt.Errorf("coerce %s %v: %w", column, n, ErrMalformedValue)
		}
		return int64(n), nil
	case []byte:
		return parseInt64(column, string(n))
	case string:
		return parseInt64(column, n)
	default:
		return 0, fmt.Errorf("coerce %s %T: %w", column, v, ErrMalformedValue)
	}
}

func parseInt64(column, s string) (int64, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, nil
	}
	n, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("coerce %s %q: %w", column, s, ErrMalformedValue)
	}
	return n, nil
}

// coerceString converts a scanned text column, accepting []byte and NULL.
func coerceString(v any) string {
	switch s := v.(type) {
	case nil:
		return ""
	case string:
		return s
	case []byte:
		return string(s)
	default:
		return fmt.Sprint(s)
	}
}
