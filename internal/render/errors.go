// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package render

import "fmt"

// StoreError reports a content store call that failed. Builders return it
// as is; nothing is retried.
type StoreError struct {
	Op  string
	Err error
}

func (e *StoreError) Error() string {
	return fmt.Sprintf("store %s: %v", e.Op, e.Err)
}

func (e *StoreError) Unwrap() error { return e.Err }

func storeErr(op string, err error) error {
	if err == nil {
		return nil
	}
	return &StoreError{Op: op, Err: err}
}

// MalformedMetadataError reports per-item metadata that is not valid JSON.
type MalformedMetadataError struct {
	ItemID int64
	Err    error
}

func (e *MalformedMetadataError) Error() string {
	return fmt.Sprintf("malformed metadata for item %d: %v", e.ItemID, e.Err)
}

func (e *MalformedMetadataError) Unwrap() error { return e.Err }
