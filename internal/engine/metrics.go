package engine

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"sync/atomic"
	"time"
)

// Metrics tracks operational counters across the engine.
var metrics struct {
	TranscriptRequests atomic.Int64
	InvalidReferences  atomic.Int64
	ResolveRuns        atomic.Int64
	Resolved           atomic.Int64
	Exhausted          atomic.Int64
	EmptyResults       atomic.Int64
	Attempts           atomic.Int64
	ProviderListCalls  atomic.Int64
	ProviderFetchCalls atomic.Int64
	ProviderErrors     atomic.Int64
	YouTubeRequests    atomic.Int64
	LLMCalls           atomic.Int64
	LLMErrors          atomic.Int64
	AuditErrors        atomic.Int64
}

// metricKeys fixes the output order of FormatMetrics.
var metricKeys = []string{
	"transcript_requests", "invalid_references",
	"resolve_runs", "resolved", "exhausted", "empty_results", "attempts",
	"provider_list_calls", "provider_fetch_calls", "provider_errors",
	"youtube_requests",
	"llm_calls", "llm_errors",
	"audit_errors",
}

// GetMetrics returns a snapshot of all metrics.
func GetMetrics() map[string]int64 {
	return map[string]int64{
		"transcript_requests":  metrics.TranscriptRequests.Load(),
		"invalid_references":   metrics.InvalidReferences.Load(),
		"resolve_runs":         metrics.ResolveRuns.Load(),
		"resolved":             metrics.Resolved.Load(),
		"exhausted":            metrics.Exhausted.Load(),
		"empty_results":        metrics.EmptyResults.Load(),
		"attempts":             metrics.Attempts.Load(),
		"provider_list_calls":  metrics.ProviderListCalls.Load(),
		"provider_fetch_calls": metrics.ProviderFetchCalls.Load(),
		"provider_errors":      metrics.ProviderErrors.Load(),
		"youtube_requests":     metrics.YouTubeRequests.Load(),
		"llm_calls":            metrics.LLMCalls.Load(),
		"llm_errors":           metrics.LLMErrors.Load(),
		"audit_errors":         metrics.AuditErrors.Load(),
	}
}

// FormatMetrics returns metrics as a simple text format for HTTP endpoint.
func FormatMetrics() string {
	m := GetMetrics()
	var sb strings.Builder
	for _, k := range metricKeys {
		fmt.Fprintf(&sb, "%s %d\n", k, m[k])
	}
	return sb.String()
}

// Incrementors for the request boundary (httpapi, transcriptserver).
func IncrTranscriptRequests() { metrics.TranscriptRequests.Add(1) }
func IncrInvalidReferences()  { metrics.InvalidReferences.Add(1) }
func IncrEmptyResults()       { metrics.EmptyResults.Add(1) }
func IncrAuditErrors()        { metrics.AuditErrors.Add(1) }

// Incrementors for transcript/ sub-package.
func IncrResolveRuns()        { metrics.ResolveRuns.Add(1) }
func IncrResolved()           { metrics.Resolved.Add(1) }
func IncrExhausted()          { metrics.Exhausted.Add(1) }
func IncrAttempts(n int)      { metrics.Attempts.Add(int64(n)) }
func IncrProviderListCalls()  { metrics.ProviderListCalls.Add(1) }
func IncrProviderFetchCalls() { metrics.ProviderFetchCalls.Add(1) }
func IncrProviderErrors()     { metrics.ProviderErrors.Add(1) }

// Incrementors for sources/ sub-package.
func IncrYouTubeRequests() { metrics.YouTubeRequests.Add(1) }

// TrackOperation logs a warning if an operation takes longer than threshold.
func TrackOperation(ctx context.Context, name string, fn func(context.Context) error) error {
	start := time.Now()
	err := fn(ctx)
	elapsed := time.Since(start)
	if elapsed > 5*time.Second {
		slog.Warn("slow operation", slog.String("op", name), slog.Duration("elapsed", elapsed))
	}
	return err
}
