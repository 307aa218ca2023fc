// Package toolutil provides the transcript pipeline shared by the HTTP API,
// the MCP tools, and the CLI.
package toolutil

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/anatolykoptev/go_transcript/internal/engine"
	"github.com/anatolykoptev/go_transcript/internal/engine/audit"
	"github.com/anatolykoptev/go_transcript/internal/engine/transcript"
)

// FetchTranscript resolves rawURL to a video, runs the resolver, and renders the
// outcome. Every run that reaches the resolver is written to the audit log.
func FetchTranscript(ctx context.Context, r *transcript.Resolver, rawURL, lang string) (*transcript.Response, *transcript.APIError) {
	engine.IncrTranscriptRequests()
	lang = engine.NormLang(lang)

	id, ok := transcript.ResolveVideoID(rawURL)
	slog.Info("transcript request",
		slog.String("url", engine.TruncateRunes(rawURL, 200, "...")),
		slog.String("id", string(id)),
		slog.String("lang", lang))
	if !ok {
		engine.IncrInvalidReferences()
		return nil, transcript.RenderError("", fmt.Errorf("%w: %q", transcript.ErrInvalidReference, rawURL))
	}

	if d := engine.Cfg.RequestTimeout; d > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, d)
		defer cancel()
	}

	start := time.Now()
	var res transcript.Result
	_ = engine.TrackOperation(ctx, "resolve_transcript", func(ctx context.Context) error {
		res = r.Resolve(ctx, id, lang)
		return nil
	})

	resp, apiErr := transcript.Render(id, lang, res)
	if apiErr != nil && !res.Resolved() && ctx.Err() != nil {
		// The run was cut short, so "not found" would be a guess.
		apiErr = transcript.RenderError(id, fmt.Errorf("resolve %s: %w", id, ctx.Err()))
		apiErr.Detail.AttemptedMethods = res.Methods()
	}

	status := http.StatusOK
	if apiErr != nil {
		status = apiErr.Status
		if apiErr.Kind == transcript.KindEmptyResult {
			engine.IncrEmptyResults()
		}
		slog.Warn("transcript request failed",
			slog.String("id", string(id)),
			slog.Int("status", status),
			slog.String("kind", apiErr.Kind.String()),
			slog.Int("attempts", len(res.Attempts)))
	} else {
		slog.Info("transcript processed",
			slog.String("id", string(id)),
			slog.String("language", resp.Language),
			slog.Int("segments", resp.SegmentCount),
			slog.Int("chars", len(resp.Transcript)),
			slog.String("preview", engine.TruncateRunes(resp.Transcript, 100, "...")))
	}

	audit.Record(context.WithoutCancel(ctx), audit.NewRun(id, lang, res, status, time.Since(start)))
	return resp, apiErr
}
