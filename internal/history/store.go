// Package history records translation runs in PostgreSQL.
package history

import (
	"context"
	"fmt"
	"time"

	"logalizer/internal/driver"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog/log"
)

// Run is one recorded translation.
type Run struct {
	ID               string        `json:"id"`
	Input            string        `json:"input"`
	Output           string        `json:"output"`
	LinesRead        int           `json:"lines_read"`
	LinesDeleted     int           `json:"lines_deleted"`
	LinesMatched     int           `json:"lines_matched"`
	LinesBlacklisted int           `json:"lines_blacklisted"`
	LinesEmitted     int           `json:"lines_emitted"`
	PairErrors       int           `json:"pair_errors"`
	Checksum         string        `json:"checksum"`
	StartedAt        time.Time     `json:"started_at"`
	Duration         time.Duration `json:"duration"`
	Error            string        `json:"error,omitempty"`
}

// Failed reports whether the run ended with an error.
func (r Run) Failed() bool { return r.Error != "" }

// Store persists runs.
type Store struct {
	pool    *pgxpool.Pool
	queries *Queries
}

// Open connects to databaseURL and verifies the connection.
func Open(ctx context.Context, databaseURL string) (*Store, error) {
	pool, err := pgxpool.New(ctx, databaseURL)
	if err != nil {
		return nil, fmt.Errorf("connect PostgreSQL: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping PostgreSQL: %w", err)
	}
	log.Info().Msg("Connected to PostgreSQL")
	return &Store{pool: pool, queries: NewQueries(pool)}, nil
}

// Close releases the connection pool.
func (s *Store) Close() {
	if s.pool != nil {
		s.pool.Close()
	}
}

// EnsureSchema creates the runs table if it does not exist.
func (s *Store) EnsureSchema(ctx context.Context) error {
	if err := s.queries.CreateRunsTable(ctx); err != nil {
		return fmt.Errorf("create runs table: %w", err)
	}
	return nil
}

// Record stores the outcome of a translation run. runErr is the error the
// run ended with, if any.
func (s *Store) Record(ctx context.Context, res *driver.Result, runErr error) error {
	if _, err := s.queries.InsertRun(ctx, paramsFor(res, runErr)); err != nil {
		return fmt.Errorf("insert run %s: %w", res.RunID, err)
	}
	log.Debug().Str("run", res.RunID.String()).Msg("Run recorded")
	return nil
}

// Recent returns the latest runs, newest first.
func (s *Store) Recent(ctx context.Context, limit int) ([]Run, error) {
	if limit <= 0 {
		limit = 20
	}
	runs, err := s.queries.ListRecentRuns(ctx, int32(limit))
	if err != nil {
		return nil, fmt.Errorf("query runs: %w", err)
	}
	return runs, nil
}

func paramsFor(res *driver.Result, runErr error) InsertRunParams {
	p := InsertRunParams{
		ID:               res.RunID.String(),
		Input:            res.Paths.Input,
		Output:           res.Paths.Translation,
		LinesRead:        int32(res.Stats.LinesRead),
		LinesDeleted:     int32(res.Stats.LinesDeleted),
		LinesMatched:     int32(res.Stats.LinesMatched),
		LinesBlacklisted: int32(res.Stats.LinesBlacklisted),
		LinesEmitted:     int32(res.Stats.LinesEmitted),
		PairErrors:       int32(res.Stats.PairErrors),
		Checksum:         res.Checksum,
		StartedAt:        res.Started,
		DurationMs:       res.Duration.Milliseconds(),
	}
	if runErr != nil {
		p.Error = runErr.Error()
	}
	return p
}
