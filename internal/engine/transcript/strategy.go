package transcript

import (
	"context"
	"fmt"

	"github.com/anatolykoptev/go_transcript/internal/engine"
)

// CommonLanguages is the sweep order used once the exact and best-available
// strategies have failed.
var CommonLanguages = []string{"en", "es", "fr", "de", "it", "pt", "ru", "ja", "ko", "zh", "hi", "ar"}

// autoDetectTag labels the best-available attempt when it fails.
const autoDetectTag = "auto-detect"

// Step is what a single strategy contributes to a run.
type Step struct {
	Attempts []Attempt
	Segments []Segment
	Language string
	OK       bool
}

// Strategy is one self-contained resolution approach.
type Strategy struct {
	Name string
	Run  func(ctx context.Context, p Provider, id VideoID, lang string) Step
}

var (
	// TryExact fetches the transcript whose language equals the preferred one.
	TryExact = Strategy{Name: "exact", Run: tryExact}
	// TryBest fetches the first manual transcript, else the first one listed.
	TryBest = Strategy{Name: "best", Run: tryBest}
	// SweepCommon walks CommonLanguages, skipping the preferred language.
	SweepCommon = Strategy{Name: "sweep", Run: sweepCommon}
)

// DefaultStrategies returns the production order: exact > best available > sweep.
func DefaultStrategies() []Strategy {
	return []Strategy{TryExact, TryBest, SweepCommon}
}

func tryExact(ctx context.Context, p Provider, id VideoID, lang string) Step {
	segs, err := fetchLanguage(ctx, p, id, lang)
	if err != nil {
		return Step{Attempts: []Attempt{{Language: lang, Err: err}}}
	}
	return Step{
		Attempts: []Attempt{{Language: lang}},
		Segments: segs,
		Language: lang,
		OK:       true,
	}
}

func tryBest(ctx context.Context, p Provider, id VideoID, _ string) Step {
	list, err := listTranscripts(ctx, p, id)
	if err != nil {
		return Step{Attempts: []Attempt{{Language: autoDetectTag, Err: err}}}
	}
	t, err := list.Best()
	if err != nil {
		return Step{Attempts: []Attempt{{Language: autoDetectTag, Err: err}}}
	}
	segs, err := fetch(ctx, t)
	if err != nil {
		return Step{Attempts: []Attempt{{Language: autoDetectTag, Err: err}}}
	}
	code := t.LanguageCode()
	return Step{
		Attempts: []Attempt{{Language: code}},
		Segments: segs,
		Language: code,
		OK:       true,
	}
}

func sweepCommon(ctx context.Context, p Provider, id VideoID, lang string) Step {
	var step Step
	for _, code := range CommonLanguages {
		if code == lang {
			continue
		}
		segs, err := fetchLanguage(ctx, p, id, code)
		if err != nil {
			step.Attempts = append(step.Attempts, Attempt{Language: code, Err: err})
			continue
		}
		step.Attempts = append(step.Attempts, Attempt{Language: code})
		step.Segments, step.Language, step.OK = segs, code, true
		return step
	}
	return step
}

// fetchLanguage lists transcripts and fetches the one matching code exactly.
func fetchLanguage(ctx context.Context, p Provider, id VideoID, code string) ([]Segment, error) {
	list, err := listTranscripts(ctx, p, id)
	if err != nil {
		return nil, err
	}
	t, err := list.Find(code)
	if err != nil {
		return nil, err
	}
	return fetch(ctx, t)
}

// listTranscripts calls the provider, converting a done context or a panic into an error.
func listTranscripts(ctx context.Context, p Provider, id VideoID) (list TranscriptList, err error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("provider panic: %v", r)
		}
		if err != nil {
			engine.IncrProviderErrors()
		}
	}()
	engine.IncrProviderListCalls()
	return p.ListTranscripts(ctx, id)
}

func fetch(ctx context.Context, t Transcript) (segs []Segment, err error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("transcript fetch panic: %v", r)
		}
		if err != nil {
			engine.IncrProviderErrors()
		}
	}()
	engine.IncrProviderFetchCalls()
	return t.Fetch(ctx)
}
