package audit

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	_ "modernc.org/sqlite"
)

const sqliteSchema = `CREATE TABLE IF NOT EXISTS runs (
	id                 INTEGER PRIMARY KEY AUTOINCREMENT,
	video_id           TEXT NOT NULL,
	requested_language TEXT NOT NULL,
	language           TEXT,
	resolved           INTEGER NOT NULL DEFAULT 0,
	segment_count      INTEGER NOT NULL DEFAULT 0,
	status             INTEGER NOT NULL,
	attempts           TEXT NOT NULL,
	duration_ms        INTEGER NOT NULL DEFAULT 0,
	created_at         TEXT NOT NULL
);
CREATE INDEX IF NOT EXISTS runs_video_id ON runs (video_id, id DESC);`

// SQLiteStore keeps runs in a local SQLite file.
type SQLiteStore struct {
	db *sql.DB
}

var _ Store = (*SQLiteStore)(nil)

// DefaultSQLitePath returns ~/.go_transcript/audit.db.
func DefaultSQLitePath() string {
	return filepath.Join(os.Getenv("HOME"), ".go_transcript", "audit.db")
}

// OpenSQLite opens (or creates) the audit database at path.
func OpenSQLite(path string) (*SQLiteStore, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0750); err != nil {
		return nil, fmt.Errorf("audit: mkdir %s: %w", filepath.Dir(path), err)
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("audit: open db: %w", err)
	}
	db.SetMaxOpenConns(1) // SQLite: single writer
	if _, err := db.Exec(sqliteSchema); err != nil {
		db.Close()
		return nil, fmt.Errorf("audit: init schema: %w", err)
	}
	return &SQLiteStore{db: db}, nil
}

// Record inserts run and returns its ID.
func (s *SQLiteStore) Record(ctx context.Context, run Run) (int64, error) {
	attempts, err := encodeAttempts(run.Attempts)
	if err != nil {
		return 0, fmt.Errorf("audit: encode attempts: %w", err)
	}
	res, err := s.db.ExecContext(ctx,
		`INSERT INTO runs (video_id, requested_language, language, resolved, segment_count, status, attempts, duration_ms, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		run.VideoID, run.RequestedLanguage, run.Language, run.Resolved,
		run.SegmentCount, run.Status, attempts, run.DurationMs, run.CreatedAt,
	)
	if err != nil {
		return 0, fmt.Errorf("audit: insert: %w", err)
	}
	return res.LastInsertId()
}

// Recent lists runs newest first, optionally for one video.
func (s *SQLiteStore) Recent(ctx context.Context, videoID string, limit int) ([]Run, error) {
	const cols = `id, video_id, requested_language, language, resolved, segment_count, status, attempts, duration_ms, created_at`
	var (
		rows *sql.Rows
		err  error
	)
	if videoID != "" {
		rows, err = s.db.QueryContext(ctx,
			`SELECT `+cols+` FROM runs WHERE video_id = ? ORDER BY id DESC LIMIT ?`, videoID, limit)
	} else {
		rows, err = s.db.QueryContext(ctx,
			`SELECT `+cols+` FROM runs ORDER BY id DESC LIMIT ?`, limit)
	}
	if err != nil {
		return nil, fmt.Errorf("audit: query: %w", err)
	}
	defer rows.Close()

	runs := []Run{}
	for rows.Next() {
		var (
			r        Run
			language sql.NullString
			attempts string
		)
		if err := rows.Scan(&r.ID, &r.VideoID, &r.RequestedLanguage, &language, &r.Resolved,
			&r.SegmentCount, &r.Status, &attempts, &r.DurationMs, &r.CreatedAt); err != nil {
			return nil, fmt.Errorf("audit: scan: %w", err)
		}
		r.Language = language.String
		r.Attempts = decodeAttempts(attempts)
		runs = append(runs, r)
	}
	return runs, rows.Err()
}

// Close closes the database.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}
