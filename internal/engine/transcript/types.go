package transcript

import (
	"context"
	"fmt"
	"strings"
)

// VideoID is the 11-character token identifying a video on the provider.
type VideoID string

// Segment is one timed line of transcript text.
type Segment struct {
	Text     string  `json:"text"`
	Start    float64 `json:"start"`
	Duration float64 `json:"duration"`
}

// Transcript is one caption track available for a video.
type Transcript interface {
	LanguageCode() string
	IsGenerated() bool
	Fetch(ctx context.Context) ([]Segment, error)
}

// TranscriptList is the provider's listing, in provider order.
type TranscriptList []Transcript

// Find returns the transcript whose language code equals code exactly,
// preferring a manually-created track over a generated one.
func (l TranscriptList) Find(code string) (Transcript, error) {
	var generated Transcript
	for _, t := range l {
		if t.LanguageCode() != code {
			continue
		}
		if !t.IsGenerated() {
			return t, nil
		}
		if generated == nil {
			generated = t
		}
	}
	if generated != nil {
		return generated, nil
	}
	return nil, fmt.Errorf("%w for language %q (available: %s)", ErrNoTranscript, code, l.codes())
}

// Best returns the first manually-created transcript, else the first one listed.
func (l TranscriptList) Best() (Transcript, error) {
	if len(l) == 0 {
		return nil, ErrNoTranscripts
	}
	for _, t := range l {
		if !t.IsGenerated() {
			return t, nil
		}
	}
	return l[0], nil
}

func (l TranscriptList) codes() string {
	if len(l) == 0 {
		return "none"
	}
	codes := make([]string, 0, len(l))
	for _, t := range l {
		c := t.LanguageCode()
		if t.IsGenerated() {
			c += " (auto)"
		}
		codes = append(codes, c)
	}
	return strings.Join(codes, ", ")
}

// Provider lists the caption tracks of a video.
// Implementations report typed errors (ErrTranscriptsDisabled, ErrVideoUnavailable, ...).
type Provider interface {
	ListTranscripts(ctx context.Context, id VideoID) (TranscriptList, error)
}

// Attempt records one language tried during resolution. Err == nil means success.
type Attempt struct {
	Language string
	Err      error
}

// Succeeded reports whether the attempt produced segments.
func (a Attempt) Succeeded() bool { return a.Err == nil }

// String renders the attempt as "en (success)" or "fr (failed: <reason>)".
func (a Attempt) String() string {
	if a.Err == nil {
		return a.Language + " (success)"
	}
	return fmt.Sprintf("%s (failed: %s)", a.Language, a.Err)
}

// Result is the outcome of one resolution run.
// Resolved results carry segments and the language used; exhausted ones only attempts.
type Result struct {
	Segments []Segment
	Language string
	Attempts []Attempt
	resolved bool
}

// Resolved reports whether any strategy succeeded.
func (r Result) Resolved() bool { return r.resolved }

// Text joins segment texts with a single space, in segment order.
func (r Result) Text() string {
	parts := make([]string, len(r.Segments))
	for i, s := range r.Segments {
		parts[i] = s.Text
	}
	return strings.Join(parts, " ")
}

// Methods renders the attempt log for clients.
func (r Result) Methods() []string {
	out := make([]string, len(r.Attempts))
	for i, a := range r.Attempts {
		out[i] = a.String()
	}
	return out
}

// Errors returns the failure reasons of the attempt log, in order.
func (r Result) Errors() []error {
	var errs []error
	for _, a := range r.Attempts {
		if a.Err != nil {
			errs = append(errs, a.Err)
		}
	}
	return errs
}
