package storage

import (
	"context"
	"database/sql"
	"time"
)

// DBTX is satisfied by *sql.DB and *sql.Tx.
type DBTX interface {
	ExecContext(context.Context, string, ...interface{}) (sql.Result, error)
	QueryRowContext(context.Context, string, ...interface{}) *sql.Row
}

type Queries struct {
	db DBTX
}

func New(db DBTX) *Queries {
	return &Queries{db: db}
}

type KV struct {
	Key       string
	Value     string
	UpdatedAt time.Time
}

const getValue = `-- name: GetValue :one
SELECT key, value, updated_at FROM kv WHERE key = ?
`

func (q *Queries) GetValue(ctx context.Context, key string) (KV, error) {
	row := q.db.QueryRowContext(ctx, getValue, key)
	var i KV
	err := row.Scan(&i.Key, &i.Value, &i.UpdatedAt)
	return i, err
}

const upsertValue = `-- name: UpsertValue :exec
INSERT INTO kv (key, value, updated_at) VALUES (?, ?, CURRENT_TIMESTAMP)
ON CONFLICT(key) DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at
`

type UpsertValueParams struct {
	Key   string
	Value string
}

func (q *Queries) UpsertValue(ctx context.Context, arg UpsertValueParams) error {
	_, err := q.db.ExecContext(ctx, upsertValue, arg.Key, arg.Value)
	return err
}

const deleteValue = `-- name: DeleteValue :exec
DELETE FROM kv WHERE key = ?
`

func (q *Queries) DeleteValue(ctx context.Context, key string) error {
	_, err := q.db.ExecContext(ctx, deleteValue, key)
	return err
}
