package transcriptserver

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/anatolykoptev/go_transcript/internal/engine"
	"github.com/anatolykoptev/go_transcript/internal/engine/transcript"
	"github.com/anatolykoptev/go_transcript/internal/toolutil"
	"github.com/modelcontextprotocol/go-sdk/mcp"
)

// SummaryOutput is the output of youtube_transcript_summary.
type SummaryOutput struct {
	VideoID          string   `json:"videoId"`
	Language         string   `json:"language"`
	SegmentCount     int      `json:"segmentCount"`
	Summary          string   `json:"summary"`
	KeyPoints        []string `json:"key_points"`
	AttemptedMethods []string `json:"attemptedMethods"`
}

func registerSummary(server *mcp.Server, r *transcript.Resolver) {
	mcp.AddTool(server, &mcp.Tool{
		Name:        "youtube_transcript_summary",
		Description: "Fetch a YouTube transcript and summarise it with the configured LLM. Returns a short summary and key points in the transcript's language.",
		Annotations: &mcp.ToolAnnotations{ReadOnlyHint: true},
	}, func(ctx context.Context, _ *mcp.CallToolRequest, input TranscriptInput) (*mcp.CallToolResult, *SummaryOutput, error) {
		if input.URL == "" {
			return nil, nil, errors.New("url is required")
		}
		resp, apiErr := toolutil.FetchTranscript(ctx, r, input.URL, input.Lang)
		if apiErr != nil {
			return nil, nil, toolError(apiErr)
		}
		sum, err := engine.SummarizeTranscript(ctx, resp.Language, resp.Transcript)
		if err != nil {
			slog.Warn("youtube_transcript_summary: llm failed", slog.String("id", resp.VideoID), slog.Any("error", err))
			return nil, nil, fmt.Errorf("summarize %s: %w", resp.VideoID, err)
		}
		return nil, &SummaryOutput{
			VideoID:          resp.VideoID,
			Language:         resp.Language,
			SegmentCount:     resp.SegmentCount,
			Summary:          sum.Summary,
			KeyPoints:        sum.KeyPoints,
			AttemptedMethods: resp.AttemptedMethods,
		}, nil
	})
}
