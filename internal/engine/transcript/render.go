package transcript

import (
	"fmt"
	"net/http"
)

// Response is the success body returned to clients.
type Response struct {
	Transcript        string    `json:"transcript"`
	Raw               []Segment `json:"raw"`
	SegmentCount      int       `json:"segmentCount"`
	VideoID           string    `json:"videoId"`
	Language          string    `json:"language"`
	RequestedLanguage string    `json:"requestedLanguage"`
	AttemptedMethods  []string  `json:"attemptedMethods"`
}

// ErrorDetail is the structured error body returned to clients.
type ErrorDetail struct {
	Error            string   `json:"error"`
	Details          string   `json:"details"`
	VideoID          string   `json:"videoId,omitempty"`
	AttemptedMethods []string `json:"attemptedMethods,omitempty"`
	ErrorType        string   `json:"errorType,omitempty"`
}

// APIError is a classified failure ready for rendering.
type APIError struct {
	Status int
	Kind   Kind
	Detail ErrorDetail
	Err    error
}

func (e *APIError) Error() string {
	return fmt.Sprintf("%d %s: %s", e.Status, e.Detail.Error, e.Detail.Details)
}

func (e *APIError) Unwrap() error { return e.Err }

// Render turns a resolution result into a response, or a 404 when nothing usable
// was found.
func Render(id VideoID, requested string, res Result) (*Response, *APIError) {
	methods := res.Methods()
	if !res.Resolved() {
		kind := exhaustionKind(res.Errors())
		apiErr := notFound(id, kind, fmt.Errorf("%w for %s", ErrExhausted, id))
		apiErr.Detail.AttemptedMethods = methods
		return nil, apiErr
	}
	if len(res.Segments) == 0 {
		apiErr := notFound(id, KindEmptyResult, ErrEmptyResult)
		apiErr.Detail.AttemptedMethods = methods
		return nil, apiErr
	}
	return &Response{
		Transcript:        res.Text(),
		Raw:               res.Segments,
		SegmentCount:      len(res.Segments),
		VideoID:           string(id),
		Language:          res.Language,
		RequestedLanguage: requested,
		AttemptedMethods:  methods,
	}, nil
}

// RenderError classifies an error that escaped resolution.
func RenderError(id VideoID, err error) *APIError {
	kind := Classify(err)
	switch kind {
	case KindInvalidReference:
		return &APIError{
			Status: http.StatusBadRequest,
			Kind:   kind,
			Detail: ErrorDetail{Error: "Invalid YouTube URL", Details: err.Error()},
			Err:    err,
		}
	case KindUnexpected:
		return &APIError{
			Status: http.StatusInternalServerError,
			Kind:   kind,
			Detail: ErrorDetail{
				Error:     "Failed to fetch transcript",
				Details:   err.Error(),
				VideoID:   string(id),
				ErrorType: errorType(err),
			},
			Err: err,
		}
	}
	return notFound(id, kind, err)
}

func notFound(id VideoID, kind Kind, err error) *APIError {
	d := ErrorDetail{VideoID: string(id)}
	switch kind {
	case KindCaptionsDisabled:
		d.Error = "Transcripts are disabled for this video"
		d.Details = "The video owner has disabled captions/subtitles"
	case KindCaptionsUnavailable:
		d.Error = "No transcript available for this video"
		d.Details = "This video does not have captions/subtitles available"
	case KindEmptyResult:
		d.Error = "No transcript found for this video"
		d.Details = "No transcript segments available"
	default:
		d.Error = "No transcript found for this video"
		d.Details = "All transcript retrieval methods failed"
	}
	return &APIError{Status: http.StatusNotFound, Kind: kind, Detail: d, Err: err}
}
