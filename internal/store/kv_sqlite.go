package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	_ "github.com/mattn/go-sqlite3"

	"github.com/MKhiriev/monad-vault/internal/logger"
	"github.com/MKhiriev/monad-vault/migrations"
)

// sqliteKV is the SQLite-backed [KVStore]. An embedded database is the
// alternative substrate to one-file-per-key storage; both hold the same
// opaque JSON entries.
type sqliteKV struct {
	db  *sql.DB
	log *logger.Logger
}

// NewSQLiteKV opens a SQLite database at dsn, runs schema migrations, and
// returns a [KVStore] backed by it. The caller owns the returned store and
// should Close it on shutdown.
func NewSQLiteKV(dsn string, log *logger.Logger) (*sqliteKV, error) {
	db, err := sql.Open("sqlite3", dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite kv: %w", err)
	}

	if err = migrations.Migrate(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("init sqlite kv schema: %w", err)
	}

	log.Debug().Str("dsn", dsn).Msg("sqlite kv store opened")
	return &sqliteKV{db: db, log: log}, nil
}

func (s *sqliteKV) Get(ctx context.Context, key string) ([]byte, error) {
	var value []byte
	err := s.db.QueryRowContext(ctx, `SELECT value FROM kv_entries WHERE key = ?`, key).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: %s", ErrKeyNotFound, key)
	}
	if err != nil {
		return nil, fmt.Errorf("query kv entry %s: %w", key, err)
	}
	return value, nil
}

func (s *sqliteKV) Set(ctx context.Context, key string, value []byte) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO kv_entries (key, value) VALUES (?, ?)
		 ON CONFLICT(key) DO UPDATE SET value = excluded.value`, key, value)
	if err != nil {
		return fmt.Errorf("upsert kv entry %s: %w", key, err)
	}
	return nil
}

func (s *sqliteKV) Delete(ctx context.Context, key string) error {
	if _, err := s.db.ExecContext(ctx, `DELETE FROM kv_entries WHERE key = ?`, key); err != nil {
		return fmt.Errorf("delete kv entry %s: %w", key, err)
	}
	return nil
}

// Close releases the underlying database handle.
func (s *sqliteKV) Close() error {
	return s.db.Close()
}
