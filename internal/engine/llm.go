package engine

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
)

// ErrLLMDisabled is returned when no LLM client is configured.
var ErrLLMDisabled = errors.New("llm: no client configured")

// TranscriptSummary is the structured output of transcript summarization.
type TranscriptSummary struct {
	Summary   string   `json:"summary"`
	KeyPoints []string `json:"key_points"`
}

const summarizeTranscriptPrompt = `You summarize video transcripts.
The transcript below is in language %q. Write the summary in the same language.

Return ONLY a JSON object, no markdown:
{"summary": "<3-5 sentence plain-text summary>", "key_points": ["<point>", "..."]}

Transcript:
%s`

// stripFences removes markdown code fences from LLM output.
func stripFences(s string) string {
	s = strings.TrimSpace(s)
	s = strings.TrimPrefix(s, "```json")
	s = strings.TrimPrefix(s, "```")
	s = strings.TrimSuffix(s, "```")
	return strings.TrimSpace(s)
}

// CallLLM sends a prompt using the configured temperature and max_tokens.
func CallLLM(ctx context.Context, prompt string) (string, error) {
	if cfg.LLMClient == nil {
		return "", ErrLLMDisabled
	}
	metrics.LLMCalls.Add(1)
	resp, err := cfg.LLMClient.Complete(ctx, "", prompt)
	if err != nil {
		metrics.LLMErrors.Add(1)
		return "", err
	}
	return stripFences(resp), nil
}

// SummarizeTranscript asks the LLM for a summary of text, capped at
// Config.SummaryMaxChars runes of input.
func SummarizeTranscript(ctx context.Context, lang, text string) (*TranscriptSummary, error) {
	limit := cfg.SummaryMaxChars
	if limit <= 0 {
		limit = 8000
	}
	prompt := fmt.Sprintf(summarizeTranscriptPrompt, lang, TruncateRunes(text, limit, "..."))
	raw, err := CallLLM(ctx, prompt)
	if err != nil {
		return nil, fmt.Errorf("summarize: %w", err)
	}
	return parseSummary(raw)
}

// parseSummary decodes the LLM JSON reply; plain prose is accepted as the summary.
func parseSummary(raw string) (*TranscriptSummary, error) {
	raw = stripFences(raw)
	if raw == "" {
		return nil, errors.New("summarize: empty LLM response")
	}
	var out TranscriptSummary
	if err := json.Unmarshal([]byte(raw), &out); err != nil || out.Summary == "" {
		return &TranscriptSummary{Summary: raw}, nil
	}
	return &out, nil
}
