// Package transcript resolves a video reference into a transcript by running an
// ordered chain of strategies against a Provider, recording every attempt.
package transcript

import (
	"context"
	"log/slog"

	"github.com/anatolykoptev/go_transcript/internal/engine"
)

// Resolver runs strategies in order until one succeeds. It holds no per-request
// state and is safe for concurrent use.
type Resolver struct {
	provider   Provider
	strategies []Strategy
}

// Option configures a Resolver.
type Option func(*Resolver)

// WithStrategies replaces the default strategy chain.
func WithStrategies(s ...Strategy) Option {
	return func(r *Resolver) { r.strategies = s }
}

// NewResolver returns a Resolver using DefaultStrategies unless overridden.
func NewResolver(p Provider, opts ...Option) *Resolver {
	r := &Resolver{provider: p, strategies: DefaultStrategies()}
	for _, o := range opts {
		o(r)
	}
	return r
}

// Resolve tries each strategy in turn. The returned attempt log lists every
// language tried, in the order it was tried.
func (r *Resolver) Resolve(ctx context.Context, id VideoID, lang string) Result {
	engine.IncrResolveRuns()

	var res Result
	for _, s := range r.strategies {
		step := s.Run(ctx, r.provider, id, lang)
		res.Attempts = append(res.Attempts, step.Attempts...)
		engine.IncrAttempts(len(step.Attempts))

		if step.OK {
			res.Segments = step.Segments
			res.Language = step.Language
			res.resolved = true
			engine.IncrResolved()
			slog.Info("transcript: resolved",
				slog.String("id", string(id)),
				slog.String("strategy", s.Name),
				slog.String("language", step.Language),
				slog.Int("segments", len(step.Segments)),
				slog.Int("attempts", len(res.Attempts)))
			return res
		}

		for _, a := range step.Attempts {
			slog.Debug("transcript: attempt failed",
				slog.String("id", string(id)),
				slog.String("strategy", s.Name),
				slog.String("language", a.Language),
				slog.Any("err", a.Err))
		}
	}

	engine.IncrExhausted()
	slog.Warn("transcript: all strategies failed",
		slog.String("id", string(id)),
		slog.String("requested", lang),
		slog.Int("attempts", len(res.Attempts)))
	return res
}
