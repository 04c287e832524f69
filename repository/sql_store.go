package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log"
)

// Dialect selects placeholder syntax for SQLStore
type Dialect string

const (
	DialectPostgres Dialect = "postgres"
	DialectSQLite   Dialect = "sqlite"
)

// SQLStore keeps the storefront keys in a single table. It works with
// PostgreSQL (pgx) and SQLite (modernc) connections opened by package db.
type SQLStore struct {
	db      *sql.DB
	dialect Dialect
}

var _ KeyValueStoreInterface = (*SQLStore)(nil)

// NewSQLStore creates the storefront_kv table if needed
func NewSQLStore(ctx context.Context, db *sql.DB, dialect Dialect) (*SQLStore, error) {
	s := &SQLStore{db: db, dialect: dialect}

	query := `
		CREATE TABLE IF NOT EXISTS storefront_kv (
			key        TEXT PRIMARY KEY,
			value      TEXT NOT NULL,
			updated_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
		)
	`
	if _, err := db.ExecContext(ctx, query); err != nil {
		return nil, fmt.Errorf("failed to create storefront_kv table: %w", err)
	}

	log.Printf("✓ SQLStore: storefront_kv ready (%s)", dialect)
	return s, nil
}

func (s *SQLStore) arg(n int) string {
	if s.dialect == DialectPostgres {
		return fmt.Sprintf("$%d", n)
	}
	return "?"
}

func (s *SQLStore) Get(ctx context.Context, key string) ([]byte, bool, error) {
	query := `SELECT value FROM storefront_kv WHERE key = ` + s.arg(1)

	var value string
	err := s.db.QueryRowContext(ctx, query, key).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("failed to read key %s: %w", key, err)
	}
	return []byte(value), true, nil
}

func (s *SQLStore) Set(ctx context.Context, key string, value []byte) error {
	query := fmt.Sprintf(`
		INSERT INTO storefront_kv (key, value, updated_at)
		VALUES (%s, %s, CURRENT_TIMESTAMP)
		ON CONFLICT (key) DO UPDATE SET value = excluded.value, updated_at = CURRENT_TIMESTAMP
	`, s.arg(1), s.arg(2))

	if _, err := s.db.ExecContext(ctx, query, key, string(value)); err != nil {
		return fmt.Errorf("failed to write key %s: %w", key, err)
	}
	return nil
}

func (s *SQLStore) Remove(ctx context.Context, key string) error {
	query := `DELETE FROM storefront_kv WHERE key = ` + s.arg(1)
	if _, err := s.db.ExecContext(ctx, query, key); err != nil {
		return fmt.Errorf("failed to remove key %s: %w", key, err)
	}
	return nil
}
