// Package transcriptserver registers the transcript MCP tools.
package transcriptserver

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/anatolykoptev/go_transcript/internal/engine"
	"github.com/anatolykoptev/go_transcript/internal/engine/transcript"
	"github.com/modelcontextprotocol/go-sdk/mcp"
)

// RegisterTools registers the transcript tools on the given MCP server:
// youtube_transcript, transcript_history and, when an LLM client is configured,
// youtube_transcript_summary. It returns the number of tools registered.
func RegisterTools(server *mcp.Server, r *transcript.Resolver) int {
	n := 2
	registerTranscript(server, r)
	registerHistory(server)
	if engine.Cfg.LLMClient != nil {
		registerSummary(server, r)
		n++
	}
	return n
}

// TranscriptInput is the input for youtube_transcript and youtube_transcript_summary.
type TranscriptInput struct {
	URL  string `json:"url" jsonschema:"YouTube link (youtu.be/<id>, youtube.com/watch?v=<id>) or a bare 11-character video id"`
	Lang string `json:"lang,omitempty" jsonschema:"Preferred language code (default: en)"`
}

// toolError carries the rendered error detail as the tool error text.
func toolError(apiErr *transcript.APIError) error {
	b, err := json.Marshal(apiErr.Detail)
	if err != nil {
		return errors.New(apiErr.Detail.Error)
	}
	return fmt.Errorf("%s (status %d): %s", apiErr.Detail.Error, apiErr.Status, b)
}
