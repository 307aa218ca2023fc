package transcript

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRender_Success(t *testing.T) {
	res := Result{
		Segments: segs("never", "gonna", "give"),
		Language: "en",
		Attempts: []Attempt{{Language: "en"}},
		resolved: true,
	}
	resp, apiErr := Render("dQw4w9WgXcQ", "en", res)
	require.Nil(t, apiErr)
	assert.Equal(t, "never gonna give", resp.Transcript)
	assert.Equal(t, 3, resp.SegmentCount)
	assert.Equal(t, "dQw4w9WgXcQ", resp.VideoID)
	assert.Equal(t, "en", resp.Language)
	assert.Equal(t, "en", resp.RequestedLanguage)
	assert.Equal(t, []string{"en (success)"}, resp.AttemptedMethods)
	assert.Len(t, resp.Raw, 3)
}

func TestRender_EmptySegments(t *testing.T) {
	res := Result{Language: "en", Attempts: []Attempt{{Language: "en"}}, resolved: true}
	resp, apiErr := Render("dQw4w9WgXcQ", "en", res)
	require.Nil(t, resp)
	require.NotNil(t, apiErr)
	assert.Equal(t, http.StatusNotFound, apiErr.Status)
	assert.Equal(t, KindEmptyResult, apiErr.Kind)
	assert.Equal(t, "No transcript segments available", apiErr.Detail.Details)
	assert.Equal(t, []string{"en (success)"}, apiErr.Detail.AttemptedMethods)
	assert.True(t, errors.Is(apiErr, ErrEmptyResult))
}

func TestRender_Exhausted(t *testing.T) {
	p := &fakeProvider{list: TranscriptList{}}
	res := NewResolver(p).Resolve(context.Background(), "dQw4w9WgXcQ", "en")

	resp, apiErr := Render("dQw4w9WgXcQ", "en", res)
	require.Nil(t, resp)
	require.NotNil(t, apiErr)
	assert.Equal(t, http.StatusNotFound, apiErr.Status)
	assert.Equal(t, KindCaptionsUnavailable, apiErr.Kind)
	assert.Equal(t, "No transcript available for this video", apiErr.Detail.Error)
	assert.Len(t, apiErr.Detail.AttemptedMethods, 13)
	assert.Equal(t, "dQw4w9WgXcQ", apiErr.Detail.VideoID)
	assert.True(t, errors.Is(apiErr, ErrExhausted))
}

func TestRender_ExhaustedDisabled(t *testing.T) {
	p := &fakeProvider{err: fmt.Errorf("%w (video x)", ErrTranscriptsDisabled)}
	res := NewResolver(p).Resolve(context.Background(), "dQw4w9WgXcQ", "en")

	_, apiErr := Render("dQw4w9WgXcQ", "en", res)
	require.NotNil(t, apiErr)
	assert.Equal(t, http.StatusNotFound, apiErr.Status)
	assert.Equal(t, "Transcripts are disabled for this video", apiErr.Detail.Error)
	assert.Equal(t, "The video owner has disabled captions/subtitles", apiErr.Detail.Details)
}

func TestRender_ExhaustedNetworkErrors(t *testing.T) {
	p := &fakeProvider{err: errors.New("dial tcp: connection refused")}
	res := NewResolver(p).Resolve(context.Background(), "dQw4w9WgXcQ", "en")

	_, apiErr := Render("dQw4w9WgXcQ", "en", res)
	require.NotNil(t, apiErr)
	assert.Equal(t, http.StatusNotFound, apiErr.Status)
	assert.Equal(t, KindExhausted, apiErr.Kind)
	assert.Equal(t, "All transcript retrieval methods failed", apiErr.Detail.Details)
	assert.Contains(t, apiErr.Detail.AttemptedMethods[0], "connection refused")
}

func TestRenderError(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
		wantKind   Kind
	}{
		{"invalid reference", ErrInvalidReference, http.StatusBadRequest, KindInvalidReference},
		{"disabled typed", fmt.Errorf("list: %w", ErrTranscriptsDisabled), http.StatusNotFound, KindCaptionsDisabled},
		{"unavailable typed", ErrVideoUnavailable, http.StatusNotFound, KindCaptionsUnavailable},
		{"legacy unavailable marker", errors.New("Could not retrieve a transcript for the video"), http.StatusNotFound, KindCaptionsUnavailable},
		{"legacy disabled marker", errors.New("TranscriptsDisabled: subtitles are off"), http.StatusNotFound, KindCaptionsDisabled},
		{"deadline", context.DeadlineExceeded, http.StatusInternalServerError, KindUnexpected},
		{"unknown", errors.New("boom"), http.StatusInternalServerError, KindUnexpected},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			apiErr := RenderError("dQw4w9WgXcQ", tt.err)
			assert.Equal(t, tt.wantStatus, apiErr.Status)
			assert.Equal(t, tt.wantKind, apiErr.Kind)
			assert.NotEmpty(t, apiErr.Detail.Error)
		})
	}
}

func TestRenderError_Unexpected(t *testing.T) {
	apiErr := RenderError("dQw4w9WgXcQ", fmt.Errorf("resolve: %w", context.DeadlineExceeded))
	assert.Equal(t, "Failed to fetch transcript", apiErr.Detail.Error)
	assert.Equal(t, "resolve: context deadline exceeded", apiErr.Detail.Details)
	assert.Equal(t, "DeadlineExceeded", apiErr.Detail.ErrorType)

	apiErr = RenderError("dQw4w9WgXcQ", fmt.Errorf("wrap: %w", errors.New("boom")))
	assert.Equal(t, "errorString", apiErr.Detail.ErrorType)
}

func TestClassifyPrefersTyped(t *testing.T) {
	// Typed cause wins even when the text carries another marker.
	err := fmt.Errorf("%w: Could not retrieve a transcript", ErrTranscriptsDisabled)
	assert.Equal(t, KindCaptionsDisabled, Classify(err))
	assert.Equal(t, KindUnexpected, Classify(nil))
	assert.Equal(t, "captions_disabled", KindCaptionsDisabled.String())
}

func TestTranscriptListFind(t *testing.T) {
	list := TranscriptList{
		&fakeTranscript{code: "en", generated: true},
		&fakeTranscript{code: "en-GB"},
	}
	got, err := list.Find("en")
	require.NoError(t, err)
	assert.True(t, got.IsGenerated())

	_, err = list.Find("de")
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrNoTranscript))
	assert.Contains(t, err.Error(), "en (auto), en-GB")

	_, err = TranscriptList{}.Best()
	assert.True(t, errors.Is(err, ErrNoTranscripts))
}
