package transcriptserver

import (
	"context"

	"github.com/anatolykoptev/go_transcript/internal/engine/audit"
	"github.com/modelcontextprotocol/go-sdk/mcp"
)

// HistoryInput is the input for transcript_history.
type HistoryInput struct {
	VideoID string `json:"video_id,omitempty" jsonschema:"Only list runs for this video id"`
	Limit   int    `json:"limit,omitempty" jsonschema:"Max runs to return (default 20, max 100)"`
}

// HistoryOutput is the output of transcript_history.
type HistoryOutput struct {
	Runs  []audit.Run `json:"runs"`
	Total int         `json:"total"`
}

func registerHistory(server *mcp.Server) {
	mcp.AddTool(server, &mcp.Tool{
		Name:        "transcript_history",
		Description: "List recent transcript resolution runs, newest first: requested and resolved language, HTTP status, and the attempt log. Transcripts themselves are not stored.",
		Annotations: &mcp.ToolAnnotations{ReadOnlyHint: true},
	}, func(ctx context.Context, _ *mcp.CallToolRequest, input HistoryInput) (*mcp.CallToolResult, *HistoryOutput, error) {
		runs, err := audit.Recent(ctx, input.VideoID, input.Limit)
		if err != nil {
			return nil, nil, err
		}
		return nil, &HistoryOutput{Runs: runs, Total: len(runs)}, nil
	})
}
