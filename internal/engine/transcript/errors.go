package transcript

import (
	"context"
	"errors"
	"fmt"
	"strings"
)

// Provider-signalled conditions. Providers wrap these so callers can use errors.Is.
var (
	ErrNoTranscript        = errors.New("no transcript found")
	ErrNoTranscripts       = errors.New("no transcripts available")
	ErrTranscriptsDisabled = errors.New("transcripts are disabled for this video")
	ErrCaptionsUnavailable = errors.New("could not retrieve a transcript")
	ErrVideoUnavailable    = errors.New("video unavailable")
)

// Resolution-level conditions.
var (
	ErrInvalidReference = errors.New("invalid YouTube URL")
	ErrExhausted        = errors.New("all methods failed")
	ErrEmptyResult      = errors.New("no transcript segments available")
)

// Kind is the boundary classification of a failed request.
type Kind int

const (
	KindUnexpected Kind = iota
	KindInvalidReference
	KindExhausted
	KindEmptyResult
	KindCaptionsUnavailable
	KindCaptionsDisabled
)

func (k Kind) String() string {
	switch k {
	case KindInvalidReference:
		return "invalid_reference"
	case KindExhausted:
		return "exhausted"
	case KindEmptyResult:
		return "empty_result"
	case KindCaptionsUnavailable:
		return "captions_unavailable"
	case KindCaptionsDisabled:
		return "captions_disabled"
	}
	return "unexpected"
}

// Legacy failure-text markers. Only consulted when an error carries no typed cause,
// e.g. when it crossed a process boundary as plain text.
const (
	markerUnavailable = "Could not retrieve a transcript"
	markerDisabled    = "TranscriptsDisabled"
)

// Classify maps an error to its Kind. Typed errors win over text markers.
func Classify(err error) Kind {
	switch {
	case err == nil:
		return KindUnexpected
	case errors.Is(err, ErrInvalidReference):
		return KindInvalidReference
	case errors.Is(err, ErrEmptyResult):
		return KindEmptyResult
	case errors.Is(err, ErrTranscriptsDisabled):
		return KindCaptionsDisabled
	case errors.Is(err, ErrCaptionsUnavailable),
		errors.Is(err, ErrNoTranscript),
		errors.Is(err, ErrNoTranscripts),
		errors.Is(err, ErrVideoUnavailable):
		return KindCaptionsUnavailable
	case errors.Is(err, ErrExhausted):
		return KindExhausted
	}
	msg := err.Error()
	switch {
	case strings.Contains(msg, markerUnavailable):
		return KindCaptionsUnavailable
	case strings.Contains(msg, markerDisabled):
		return KindCaptionsDisabled
	}
	return KindUnexpected
}

// exhaustionKind picks the most specific explanation for an exhausted run:
// disabled captions beat missing captions, anything else is a plain exhaustion.
func exhaustionKind(errs []error) Kind {
	kind := KindExhausted
	for _, err := range errs {
		switch Classify(err) {
		case KindCaptionsDisabled:
			return KindCaptionsDisabled
		case KindCaptionsUnavailable:
			kind = KindCaptionsUnavailable
		}
	}
	return kind
}

// errorType names the concrete kind of err for 500 diagnostics.
func errorType(err error) string {
	switch {
	case errors.Is(err, context.DeadlineExceeded):
		return "DeadlineExceeded"
	case errors.Is(err, context.Canceled):
		return "Canceled"
	}
	for {
		next := errors.Unwrap(err)
		if next == nil {
			break
		}
		err = next
	}
	name := strings.TrimPrefix(fmt.Sprintf("%T", err), "*")
	if i := strings.LastIndex(name, "."); i >= 0 {
		name = name[i+1:]
	}
	return name
}
