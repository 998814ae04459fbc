package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"buget/internal/log"

	_ "modernc.org/sqlite"
)

// TokenKey is the row holding the session token.
const TokenKey = "session_token"

// SQLiteRepository is a small key/value store on a local SQLite file. The
// client keeps its session token here when TOKEN_STORE=sqlite.
type SQLiteRepository struct {
	db      *sql.DB
	queries *Queries
	logger  *log.Logger
}

func NewSQLiteRepository(dbPath string, logger *log.Logger) (*SQLiteRepository, error) {
	if logger == nil {
		logger = log.Discard()
	}
	if err := os.MkdirAll(filepath.Dir(dbPath), 0o700); err != nil {
		return nil, fmt.Errorf("create db directory: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite database: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	version, err := RunMigrations(dbPath)
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}

	logger = logger.WithComponent(log.ComponentStorage)
	logger.Debug("SQLite store ready", "db_path", dbPath, "schema_version", version)

	return &SQLiteRepository{
		db:      db,
		queries: New(db),
		logger:  logger,
	}, nil
}

func (r *SQLiteRepository) Close() error {
	if r.db != nil {
		return r.db.Close()
	}
	return nil
}

// Value returns the value stored under key. ok is false when the key is absent.
func (r *SQLiteRepository) Value(ctx context.Context, key string) (value string, ok bool, err error) {
	row, err := r.queries.GetValue(ctx, key)
	if errors.Is(err, sql.ErrNoRows) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("get %s: %w", key, err)
	}
	return row.Value, true, nil
}

func (r *SQLiteRepository) SetValue(ctx context.Context, key, value string) error {
	if err := r.queries.UpsertValue(ctx, UpsertValueParams{Key: key, Value: value}); err != nil {
		return fmt.Errorf("set %s: %w", key, err)
	}
	r.logger.DebugContext(ctx, "Value stored", "key", key)
	return nil
}

// DeleteValue removes key. Deleting an absent key is not an error.
func (r *SQLiteRepository) DeleteValue(ctx context.Context, key string) error {
	if err := r.queries.DeleteValue(ctx, key); err != nil {
		return fmt.Errorf("delete %s: %w", key, err)
	}
	r.logger.DebugContext(ctx, "Value deleted", "key", key)
	return nil
}

// Get, Set and Clear make the repository a session token store.

func (r *SQLiteRepository) Get(ctx context.Context) (string, bool, error) {
	return r.Value(ctx, TokenKey)
}

func (r *SQLiteRepository) Set(ctx context.Context, token string) error {
	return r.SetValue(ctx, TokenKey, token)
}

func (r *SQLiteRepository) Clear(ctx context.Context) error {
	return r.DeleteValue(ctx, TokenKey)
}
