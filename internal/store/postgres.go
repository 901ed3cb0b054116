package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/byhelaman/sched-planner/internal/schedule"
)

const createSessionsTable = `
CREATE TABLE IF NOT EXISTS schedule_sessions (
	id         TEXT PRIMARY KEY,
	records    JSONB NOT NULL,
	updated_at TIMESTAMPTZ NOT NULL
);
CREATE INDEX IF NOT EXISTS schedule_sessions_updated_at_idx ON schedule_sessions (updated_at);
`

// PostgresStore keeps collections as JSONB rows in the schedule_sessions table.
type PostgresStore struct {
	pool *pgxpool.Pool
	now  func() time.Time
}

// NewPostgres returns a store on pool and creates its table if missing.
// Close closes the pool.
func NewPostgres(ctx context.Context, pool *pgxpool.Pool) (*PostgresStore, error) {
	if _, err := pool.Exec(ctx, createSessionsTable); err != nil {
		return nil, fmt.Errorf("create schedule_sessions: %w", err)
	}
	return &PostgresStore{pool: pool, now: time.Now}, nil
}

func (s *PostgresStore) Create(ctx context.Context, records []schedule.Record) (string, error) {
	data, err := encodeRecords(records)
	if err != nil {
		return "", err
	}

	id := NewID()
	_, err = s.pool.Exec(ctx,
		`INSERT INTO schedule_sessions (id, records, updated_at) VALUES ($1, $2, $3)`,
		id, data, s.now())
	if err != nil {
		return "", fmt.Errorf("insert collection %s: %w", id, err)
	}
	return id, nil
}

func (s *PostgresStore) Load(ctx context.Context, id string) ([]schedule.Record, error) {
	var data []byte
	err := s.pool.QueryRow(ctx,
		`SELECT records FROM schedule_sessions WHERE id = $1`, id).Scan(&data)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("load collection %s: %w", id, err)
	}
	return decodeRecords(data)
}

func (s *PostgresStore) Replace(ctx context.Context, id string, records []schedule.Record) error {
	data, err := encodeRecords(records)
	if err != nil {
		return err
	}

	tag, err := s.pool.Exec(ctx,
		`UPDATE schedule_sessions SET records = $2, updated_at = $3 WHERE id = $1`,
		id, data, s.now())
	if err != nil {
		return fmt.Errorf("replace collection %s: %w", id, err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *PostgresStore) Delete(ctx context.Context, id string) error {
	if _, err := s.pool.Exec(ctx, `DELETE FROM schedule_sessions WHERE id = $1`, id); err != nil {
		return fmt.Errorf("delete collection %s: %w", id, err)
	}
	return nil
}

func (s *PostgresStore) SweepExpired(ctx context.Context, maxAge time.Duration) (int, error) {
	tag, err := s.pool.Exec(ctx,
		`DELETE FROM schedule_sessions WHERE updated_at < $1`, s.now().Add(-maxAge))
	if err != nil {
		return 0, fmt.Errorf("sweep collections: %w", err)
	}
	return int(tag.RowsAffected()), nil
}

func (s *PostgresStore) Close() error {
	s.pool.Close()
	return nil
}
