package history

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// DBTX is satisfied by *pgxpool.Pool, *pgx.Conn and pgx.Tx.
type DBTX interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
}

// Queries wraps the SQL statements of the history table.
type Queries struct {
	db DBTX
}

// NewQueries binds the statements to db.
func NewQueries(db DBTX) *Queries {
	return &Queries{db: db}
}

const createRunsTable = `
CREATE TABLE IF NOT EXISTS logalizer_runs (
    id                uuid PRIMARY KEY,
    input             text        NOT NULL,
    output            text        NOT NULL,
    lines_read        integer     NOT NULL,
    lines_deleted     integer     NOT NULL,
    lines_matched     integer     NOT NULL,
    lines_blacklisted integer     NOT NULL,
    lines_emitted     integer     NOT NULL,
    pair_errors       integer     NOT NULL,
    checksum          text        NOT NULL,
    started_at        timestamptz NOT NULL,
    duration_ms       bigint      NOT NULL,
    error             text        NOT NULL DEFAULT ''
);
ALTER TABLE logalizer_runs ADD COLUMN IF NOT EXISTS error text NOT NULL DEFAULT '';
CREATE INDEX IF NOT EXISTS logalizer_runs_started_at_idx ON logalizer_runs (started_at DESC)`

func (q *Queries) CreateRunsTable(ctx context.Context) error {
	_, err := q.db.Exec(ctx, createRunsTable)
	return err
}

const insertRun = `
INSERT INTO logalizer_runs (
    id, input, output, lines_read, lines_deleted, lines_matched,
    lines_blacklisted, lines_emitted, pair_errors, checksum, started_at, duration_ms, error
) VALUES ($1::uuid, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
ON CONFLICT (id) DO NOTHING`

type InsertRunParams struct {
	ID               string
	Input            string
	Output           string
	LinesRead        int32
	LinesDeleted     int32
	LinesMatched     int32
	LinesBlacklisted int32
	LinesEmitted     int32
	PairErrors       int32
	Checksum         string
	StartedAt        time.Time
	DurationMs       int64
	Error            string
}

func (q *Queries) InsertRun(ctx context.Context, arg InsertRunParams) (pgconn.CommandTag, error) {
	return q.db.Exec(ctx, insertRun,
		arg.ID,
		arg.Input,
		arg.Output,
		arg.LinesRead,
		arg.LinesDeleted,
		arg.LinesMatched,
		arg.LinesBlacklisted,
		arg.LinesEmitted,
		arg.PairErrors,
		arg.Checksum,
		arg.StartedAt,
		arg.DurationMs,
		arg.Error,
	)
}

const listRecentRuns = `
SELECT id::text, input, output, lines_read, lines_deleted, lines_matched,
       lines_blacklisted, lines_emitted, pair_errors, checksum, started_at, duration_ms, error
FROM logalizer_runs
ORDER BY started_at DESC
LIMIT $1`

func (q *Queries) ListRecentRuns(ctx context.Context, limit int32) ([]Run, error) {
	rows, err := q.db.Query(ctx, listRecentRuns, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var items []Run
	for rows.Next() {
		var r Run
		var durationMs int64
		if err := rows.Scan(
			&r.ID,
			&r.Input,
			&r.Output,
			&r.LinesRead,
			&r.LinesDeleted,
			&r.LinesMatched,
			&r.LinesBlacklisted,
			&r.LinesEmitted,
			&r.PairErrors,
			&r.Checksum,
			&r.StartedAt,
			&durationMs,
			&r.Error,
		); err != nil {
			return nil, err
		}
		r.Duration = time.Duration(durationMs) * time.Millisecond
		items = append(items, r)
	}
	return items, rows.Err()
}
