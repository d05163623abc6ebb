package database

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgtype"
)

type DBTX interface {
	Exec(context.Context, string, ...interface{}) (pgconn.CommandTag, error)
	Query(context.Context, string, ...interface{}) (pgx.Rows, error)
	QueryRow(context.Context, string, ...interface{}) pgx.Row
}

func New(db DBTX) *Queries {
	return &Queries{db: db}
}

type Queries struct {
	db DBTX
}

func (q *Queries) WithTx(tx pgx.Tx) *Queries {
	return &Queries{
		db: tx,
	}
}

type GenerationEvent struct {
	ID         pgtype.UUID        `json:"id"`
	Kind       string             `json:"kind"`
	Source     string             `json:"source"`
	Fallback   bool               `json:"fallback"`
	DurationMs int64              `json:"duration_ms"`
	Error      pgtype.Text        `json:"error"`
	CreatedAt  pgtype.Timestamptz `json:"created_at"`
}

const insertGenerationEvent = `-- name: InsertGenerationEvent :one
INSERT INTO generation_events (id, kind, source, fallback, duration_ms, error)
VALUES ($1, $2, $3, $4, $5, $6)
RETURNING id, kind, source, fallback, duration_ms, error, created_at
`

type InsertGenerationEventParams struct {
	ID         pgtype.UUID `json:"id"`
	Kind       string      `json:"kind"`
	Source     string      `json:"source"`
	Fallback   bool        `json:"fallback"`
	DurationMs int64       `json:"duration_ms"`
	Error      pgtype.Text `json:"error"`
}

func (q *Queries) InsertGenerationEvent(ctx context.Context, arg InsertGenerationEventParams) (GenerationEvent, error) {
	row := q.db.QueryRow(ctx, insertGenerationEvent,
		arg.ID,
		arg.Kind,
		arg.Source,
		arg.Fallback,
		arg.DurationMs,
		arg.Error,
	)
	var i GenerationEvent
	err := row.Scan(
		&i.ID,
		&i.Kind,
		&i.Source,
		&i.Fallback,
		&i.DurationMs,
		&i.Error,
		&i.CreatedAt,
	)
	return i, err
}

const listRecentGenerationEvents = `-- name: ListRecentGenerationEvents :many
SELECT id, kind, source, fallback, duration_ms, error, created_at
FROM generation_events
ORDER BY created_at DESC
LIMIT $1
`

func (q *Queries) ListRecentGenerationEvents(ctx context.Context, limit int32) ([]GenerationEvent, error) {
	rows, err := q.db.Query(ctx, listRecentGenerationEvents, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []GenerationEvent
	for rows.Next() {
		var i GenerationEvent
		if err := rows.Scan(
			&i.ID,
			&i.Kind,
			&i.Source,
			&i.Fallback,
			&i.DurationMs,
			&i.Error,
			&i.CreatedAt,
		); err != nil {
			return nil, err
		}
		items = append(items, i)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return items, nil
}
