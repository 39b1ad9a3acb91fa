// Package database handles connection management for the content database
// (PostgreSQL through pgx, or an embedded SQLite file) and migration
// execution using goose.
package database

import (
	"database/sql"
	"embed"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/pressly/goose/v3"
	_ "modernc.org/sqlite"

	"pressctx/internal/store"
)

//go:embed migrations/*.sql
var embedMigrations embed.FS

// sqlitePragmas are applied to every SQLite connection. busy_timeout must
// come first so the connection blocks on busy before WAL is switched on.
const sqlitePragmas = "?_pragma=busy_timeout(10000)&_pragma=journal_mode(WAL)&_pragma=synchronous(NORMAL)&_pragma=foreign_keys(ON)"

// Connect opens a PostgreSQL connection pool using the provided DSN.
// It verifies the connection with a ping before returning.
func Connect(dsn string) (*sql.DB, error) {
	db, err := sql.Open("pgx", dsn)
	if err != nil {
		return nil, fmt.Errorf("database open: %w", err)
	}

	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(5 * time.Minute)

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("database ping: %w", err)
	}

	slog.Info("database connected", "driver", "postgres")
	return db, nil
}

// OpenSQLite opens (or creates) the SQLite database at path. The parent
// directory is created when missing.
func OpenSQLite(path string) (*sql.DB, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("database mkdir: %w", err)
	}

	db, err := sql.Open("sqlite", path+sqlitePragmas)
	if err != nil {
		return nil, fmt.Errorf("database open: %w", err)
	}
	db.SetMaxOpenConns(4)
	db.SetMaxIdleConns(4)

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("database ping: %w", err)
	}

	slog.Info("database connected", "driver", "sqlite", "path", path)
	return db, nil
}

// Open connects to the database for the given dialect. For Postgres target
// is a DSN, for SQLite a file path.
func Open(dialect store.Dialect, target string) (*sql.DB, error) {
	switch dialect {
	case store.Postgres:
		return Connect(target)
	case store.SQLite:
		return OpenSQLite(target)
	default:
		return nil, fmt.Errorf("database open: unsupported driver %q", dialect)
	}
}

// Migrate runs all pending goose migrations from the embedded SQL files.
// The DDL is portable, so the same files serve both dialects.
func Migrate(db *sql.DB, dialect store.Dialect) error {
	goose.SetBaseFS(embedMigrations)
	defer goose.SetBaseFS(nil)

	gooseDialect := "postgres"
	if dialect == store.SQLite {
		gooseDialect = "sqlite3"
	}
	if err := goose.SetDialect(gooseDialect); err != nil {
		return fmt.Errorf("goose set dialect: %w", err)
	}

	if err := goose.Up(db, "migrations"); err != nil {
		return fmt.Errorf("goose up: %w", err)
	}

	slog.Info("database migrations applied", "dialect", gooseDialect)
	return nil
}
