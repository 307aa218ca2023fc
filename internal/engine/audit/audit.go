// Package audit persists one record per transcript resolution run so operators
// can see what was tried for a video without re-running it. Transcripts
// themselves are never stored.
package audit

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	"github.com/anatolykoptev/go_transcript/internal/engine"
	"github.com/anatolykoptev/go_transcript/internal/engine/transcript"
)

// Run is one recorded resolution.
type Run struct {
	ID                int64    `json:"id"`
	VideoID           string   `json:"video_id"`
	RequestedLanguage string   `json:"requested_language"`
	Language          string   `json:"language,omitempty"`
	Resolved          bool     `json:"resolved"`
	SegmentCount      int      `json:"segment_count"`
	Status            int      `json:"status"`
	Attempts          []string `json:"attempts"`
	DurationMs        int64    `json:"duration_ms"`
	CreatedAt         string   `json:"created_at"`
}

// Store records and lists resolution runs.
type Store interface {
	Record(ctx context.Context, run Run) (int64, error)
	Recent(ctx context.Context, videoID string, limit int) ([]Run, error)
	Close() error
}

// Package-level store, set from main.go. nil disables auditing.
var store Store

// SetStore sets the package-level audit store.
func SetStore(s Store) { store = s }

// GetStore returns the package-level audit store (may be nil).
func GetStore() Store { return store }

// NewRun builds a Run from a finished resolution.
func NewRun(id transcript.VideoID, requested string, res transcript.Result, status int, elapsed time.Duration) Run {
	return Run{
		VideoID:           string(id),
		RequestedLanguage: requested,
		Language:          res.Language,
		Resolved:          res.Resolved(),
		SegmentCount:      len(res.Segments),
		Status:            status,
		Attempts:          res.Methods(),
		DurationMs:        elapsed.Milliseconds(),
		CreatedAt:         time.Now().UTC().Format(time.RFC3339),
	}
}

// Record writes run to the package-level store. Failures are logged, never returned:
// auditing must not change the response a client gets.
func Record(ctx context.Context, run Run) {
	if store == nil {
		return
	}
	if _, err := store.Record(ctx, run); err != nil {
		engine.IncrAuditErrors()
		slog.Warn("audit: record failed", slog.String("id", run.VideoID), slog.Any("error", err))
	}
}

// Recent lists runs from the package-level store, newest first.
// An unset store yields an empty list.
func Recent(ctx context.Context, videoID string, limit int) ([]Run, error) {
	if store == nil {
		return []Run{}, nil
	}
	return store.Recent(ctx, videoID, normLimit(limit))
}

func normLimit(limit int) int {
	if limit <= 0 || limit > 100 {
		return 20
	}
	return limit
}

func encodeAttempts(attempts []string) (string, error) {
	if attempts == nil {
		attempts = []string{}
	}
	data, err := json.Marshal(attempts)
	return string(data), err
}

func decodeAttempts(s string) []string {
	var out []string
	if err := json.Unmarshal([]byte(s), &out); err != nil || out == nil {
		return []string{}
	}
	return out
}
