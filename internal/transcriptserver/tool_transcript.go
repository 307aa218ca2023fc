package transcriptserver

import (
	"context"
	"errors"

	"github.com/anatolykoptev/go_transcript/internal/engine/transcript"
	"github.com/anatolykoptev/go_transcript/internal/toolutil"
	"github.com/modelcontextprotocol/go-sdk/mcp"
)

func registerTranscript(server *mcp.Server, r *transcript.Resolver) {
	mcp.AddTool(server, &mcp.Tool{
		Name:        "youtube_transcript",
		Description: "Fetch the transcript of a YouTube video. Tries the preferred language first, then the best available track (manual before auto-generated), then common languages. Returns the joined text, timed segments, the language used, and every method attempted.",
		Annotations: &mcp.ToolAnnotations{ReadOnlyHint: true},
	}, func(ctx context.Context, _ *mcp.CallToolRequest, input TranscriptInput) (*mcp.CallToolResult, *transcript.Response, error) {
		if input.URL == "" {
			return nil, nil, errors.New("url is required")
		}
		resp, apiErr := toolutil.FetchTranscript(ctx, r, input.URL, input.Lang)
		if apiErr != nil {
			return nil, nil, toolError(apiErr)
		}
		return nil, resp, nil
	})
}
