package sqlstore

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	_ "github.com/lib/pq" // PostgreSQL driver
	_ "modernc.org/sqlite" // SQLite driver
)

// Dialect selects placeholder syntax
type Dialect int

const (
	DialectSQLite Dialect = iota
	DialectPostgres
)

// DB wraps the database connection.
// Queries are written with `?` placeholders and rebound for Postgres.
type DB struct {
	*sql.DB
	dialect Dialect
}

// NewPostgres opens a Postgres connection and applies the schema
// connectionString should be in the format: "host=localhost port=5432 user=postgres password=postgres dbname=folio sslmode=disable"
func NewPostgres(ctx context.Context, connectionString string) (*DB, error) {
	db, err := sql.Open("postgres", connectionString)
	if err != nil {
		return nil, fmt.Errorf("failed to open database connection: %w", err)
	}

	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return open(ctx, db, DialectPostgres)
}

// NewSQLite opens (or creates) the SQLite database file and applies the schema
func NewSQLite(ctx context.Context, path string) (*DB, error) {
	if path != ":memory:" {
		if dir := filepath.Dir(path); dir != "" {
			if err := os.MkdirAll(dir, 0o755); err != nil {
				return nil, fmt.Errorf("failed to create database directory: %w", err)
			}
		}
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open sqlite: %w", err)
	}
	// one connection: writes serialize and :memory: stays a single database
	db.SetMaxOpenConns(1)

	pragmas := []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA busy_timeout=5000",
		"PRAGMA foreign_keys=ON",
	}
	for _, p := range pragmas {
		if _, err := db.ExecContext(ctx, p); err != nil {
			db.Close()
			return nil, fmt.Errorf("failed to apply %q: %w", p, err)
		}
	}

	return open(ctx, db, DialectSQLite)
}

func open(ctx context.Context, sqlDB *sql.DB, dialect Dialect) (*DB, error) {
	db := &DB{DB: sqlDB, dialect: dialect}
	if err := db.migrate(ctx); err != nil {
		sqlDB.Close()
		return nil, fmt.Errorf("failed to migrate: %w", err)
	}
	return db, nil
}

func (db *DB) Dialect() Dialect {
	return db.dialect
}

// Close closes the database connection
func (db *DB) Close() error {
	return db.DB.Close()
}

func (db *DB) migrate(ctx context.Context) error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS accounts (
			id         TEXT PRIMARY KEY,
			name       TEXT NOT NULL,
			currency   TEXT NOT NULL,
			created_at BIGINT NOT NULL,
			updated_at BIGINT NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS account_value_snapshots (
			id          TEXT PRIMARY KEY,
			account_id  TEXT NOT NULL REFERENCES accounts(id) ON DELETE CASCADE,
			value       TEXT NOT NULL,
			recorded_at BIGINT NOT NULL,
			note        TEXT
		)`,
		`CREATE INDEX IF NOT EXISTS idx_snapshots_account_time ON account_value_snapshots(account_id, recorded_at)`,
		`CREATE TABLE IF NOT EXISTS exchange_rates (
			currency_code TEXT PRIMARY KEY,
			rate_to_usd   TEXT NOT NULL,
			last_updated  BIGINT NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS preferences (
			id            INTEGER PRIMARY KEY,
			base_currency TEXT NOT NULL,
			theme         TEXT NOT NULL
		)`,
	}
	for _, stmt := range stmts {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return err
		}
	}
	return nil
}

// q rebinds `?` placeholders for the active dialect
func (db *DB) q(query string) string {
	if db.dialect != DialectPostgres {
		return query
	}
	return rebindDollar(query)
}

func rebindDollar(query string) string {
	var b strings.Builder
	b.Grow(len(query) + 8)
	n := 0
	for _, r := range query {
		if r == '?' {
			n++
			b.WriteByte('$')
			b.WriteString(strconv.Itoa(n))
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}
