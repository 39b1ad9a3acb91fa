// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
)

// upsertSetting works on both Postgres and SQLite (3.24+).
const upsertSetting = `
	INSERT INTO site_settings (key, value, updated_at)
	VALUES (?, ?, CURRENT_TIMESTAMP)
	ON CONFLICT (key)
	DO UPDATE SET value = EXCLUDED.value, updated_at = CURRENT_TIMESTAMP`

// SiteSettingStore manages key/value site configuration in the database.
type SiteSettingStore struct {
	db      *sql.DB
	dialect Dialect
}

// NewSiteSettingStore returns a new SiteSettingStore backed by the given database.
func NewSiteSettingStore(db *sql.DB, dialect Dialect) *SiteSettingStore {
	return &SiteSettingStore{db: db, dialect: dialect}
}

// Get returns a single setting by key, or the fallback if not found or empty.
func (s *SiteSettingStore) Get(ctx context.Context, key, fallback string) (string, error) {
	var val sql.NullString
	err := s.db.QueryRowContext(ctx, s.dialect.Rebind(`SELECT value FROM site_settings WHERE key = ?`), key).Scan(&val)
	if errors.Is(err, sql.ErrNoRows) {
		return fallback, nil
	}
	if err != nil {
		return fallback, fmt.Errorf("get setting %s: %w", key, err)
	}
	if val.String == "" {
		return fallback, nil
	}
	return val.String, nil
}

// SetMany updates multiple settings in a single transaction.
func (s *SiteSettingStore) SetMany(ctx context.Context, settings map[string]string) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin settings tx: %w", err)
	}
	defer tx.Rollback()

	if err := s.SetManyTx(ctx, tx, settings); err != nil {
		return err
	}
	return tx.Commit()
}

// SetManyTx upserts settings inside a transaction owned by the caller.
func (s *SiteSettingStore) SetManyTx(ctx context.Context, tx *sql.Tx, settings map[string]string) error {
	stmt, err := tx.PrepareContext(ctx, s.dialect.Rebind(upsertSetting))
	if err != nil {
		return fmt.Errorf("prepare settings upsert: %w", err)
	}
	defer stmt.Close()

	for k, v := range settings {
		if _, err := stmt.ExecContext(ctx, k, v); err != nil {
			return fmt.Errorf("set setting %s: %w", k, err)
		}
	}
	return nil
}
