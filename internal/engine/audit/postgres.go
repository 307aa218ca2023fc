package audit

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const postgresSchema = `CREATE TABLE IF NOT EXISTS transcript_runs (
	id                 BIGSERIAL PRIMARY KEY,
	video_id           TEXT NOT NULL,
	requested_language TEXT NOT NULL,
	language           TEXT,
	resolved           BOOLEAN NOT NULL DEFAULT FALSE,
	segment_count      INTEGER NOT NULL DEFAULT 0,
	status             INTEGER NOT NULL,
	attempts           JSONB NOT NULL,
	duration_ms        BIGINT NOT NULL DEFAULT 0,
	created_at         TIMESTAMPTZ NOT NULL DEFAULT now()
);
CREATE INDEX IF NOT EXISTS transcript_runs_video_id ON transcript_runs (video_id, id DESC);`

// PostgresStore keeps runs in PostgreSQL.
type PostgresStore struct {
	pool *pgxpool.Pool
}

var _ Store = (*PostgresStore)(nil)

// ConnectPostgres creates a pgx pool and ensures the schema exists.
func ConnectPostgres(ctx context.Context, databaseURL string) (*PostgresStore, error) {
	if databaseURL == "" {
		return nil, errors.New("DATABASE_URL is required")
	}

	config, err := pgxpool.ParseConfig(databaseURL)
	if err != nil {
		return nil, fmt.Errorf("parse DATABASE_URL: %w", err)
	}
	config.MaxConns = 10
	config.MinConns = 1
	config.AfterConnect = func(ctx context.Context, conn *pgx.Conn) error {
		_, err := conn.Exec(ctx, "SET search_path TO public")
		return err
	}

	pool, err := pgxpool.NewWithConfig(ctx, config)
	if err != nil {
		return nil, fmt.Errorf("create pgx pool: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping postgres: %w", err)
	}
	if _, err := pool.Exec(ctx, postgresSchema); err != nil {
		pool.Close()
		return nil, fmt.Errorf("audit schema: %w", err)
	}

	slog.Info("audit postgres connected", slog.String("addr", config.ConnConfig.Host))
	return &PostgresStore{pool: pool}, nil
}

// Record inserts run and returns its ID.
func (s *PostgresStore) Record(ctx context.Context, run Run) (int64, error) {
	attempts, err := encodeAttempts(run.Attempts)
	if err != nil {
		return 0, fmt.Errorf("audit: encode attempts: %w", err)
	}
	var id int64
	err = s.pool.QueryRow(ctx,
		`INSERT INTO transcript_runs (video_id, requested_language, language, resolved, segment_count, status, attempts, duration_ms)
		 VALUES ($1, $2, $3, $4, $5, $6, $7::jsonb, $8) RETURNING id`,
		run.VideoID, run.RequestedLanguage, run.Language, run.Resolved,
		run.SegmentCount, run.Status, attempts, run.DurationMs,
	).Scan(&id)
	if err != nil {
		return 0, fmt.Errorf("audit: insert: %w", err)
	}
	return id, nil
}

// Recent lists runs newest first, optionally for one video.
func (s *PostgresStore) Recent(ctx context.Context, videoID string, limit int) ([]Run, error) {
	rows, err := s.pool.Query(ctx,
		`SELECT id, video_id, requested_language, COALESCE(language, ''), resolved, segment_count,
		        status, attempts::text, duration_ms,
		        to_char(created_at AT TIME ZONE 'UTC', 'YYYY-MM-DD"T"HH24:MI:SS"Z"')
		 FROM transcript_runs
		 WHERE $1 = '' OR video_id = $1
		 ORDER BY id DESC LIMIT $2`, videoID, limit)
	if err != nil {
		return nil, fmt.Errorf("audit: query: %w", err)
	}
	defer rows.Close()

	runs := []Run{}
	for rows.Next() {
		var (
			r        Run
			attempts string
		)
		if err := rows.Scan(&r.ID, &r.VideoID, &r.RequestedLanguage, &r.Language, &r.Resolved,
			&r.SegmentCount, &r.Status, &attempts, &r.DurationMs, &r.CreatedAt); err != nil {
			return nil, fmt.Errorf("audit: scan: %w", err)
		}
		r.Attempts = decodeAttempts(attempts)
		runs = append(runs, r)
	}
	return runs, rows.Err()
}

// Close releases the pool.
func (s *PostgresStore) Close() error {
	s.pool.Close()
	return nil
}
