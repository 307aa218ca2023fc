package transcriptserver

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/anatolykoptev/go_transcript/internal/engine/transcript"
)

type stubTranscript struct {
	code string
	segs []transcript.Segment
}

func (s stubTranscript) LanguageCode() string { return s.code }
func (s stubTranscript) IsGenerated() bool    { return false }
func (s stubTranscript) Fetch(context.Context) ([]transcript.Segment, error) {
	return s.segs, nil
}

type stubProvider struct {
	list transcript.TranscriptList
	err  error
}

func (p stubProvider) ListTranscripts(context.Context, transcript.VideoID) (transcript.TranscriptList, error) {
	return p.list, p.err
}

func connect(t *testing.T, p transcript.Provider) *mcp.ClientSession {
	t.Helper()
	ctx := context.Background()

	server := mcp.NewServer(&mcp.Implementation{Name: "test", Version: "dev"}, nil)
	RegisterTools(server, transcript.NewResolver(p))

	st, ct := mcp.NewInMemoryTransports()
	ss, err := server.Connect(ctx, st, nil)
	require.NoError(t, err)
	t.Cleanup(func() { ss.Close() })

	client := mcp.NewClient(&mcp.Implementation{Name: "client", Version: "dev"}, nil)
	cs, err := client.Connect(ctx, ct, nil)
	require.NoError(t, err)
	t.Cleanup(func() { cs.Close() })
	return cs
}

func textOf(t *testing.T, res *mcp.CallToolResult) string {
	t.Helper()
	require.NotEmpty(t, res.Content)
	tc, ok := res.Content[0].(*mcp.TextContent)
	require.True(t, ok, "expected text content")
	return tc.Text
}

func TestRegisterTools_WithoutLLM(t *testing.T) {
	cs := connect(t, stubProvider{})
	res, err := cs.ListTools(context.Background(), nil)
	require.NoError(t, err)

	var names []string
	for _, tool := range res.Tools {
		names = append(names, tool.Name)
	}
	assert.ElementsMatch(t, []string{"youtube_transcript", "transcript_history"}, names)
}

func TestYouTubeTranscriptTool(t *testing.T) {
	cs := connect(t, stubProvider{list: transcript.TranscriptList{
		stubTranscript{code: "en", segs: []transcript.Segment{{Text: "hello", Duration: 1}, {Text: "world", Start: 1, Duration: 1}}},
	}})

	res, err := cs.CallTool(context.Background(), &mcp.CallToolParams{
		Name:      "youtube_transcript",
		Arguments: map[string]any{"url": "https://youtu.be/dQw4w9WgXcQ"},
	})
	require.NoError(t, err)
	require.False(t, res.IsError, textOf(t, res))

	var out transcript.Response
	require.NoError(t, json.Unmarshal([]byte(textOf(t, res)), &out))
	assert.Equal(t, "hello world", out.Transcript)
	assert.Equal(t, "en", out.Language)
	assert.Equal(t, []string{"en (success)"}, out.AttemptedMethods)
}

func TestYouTubeTranscriptTool_Errors(t *testing.T) {
	cs := connect(t, stubProvider{err: transcript.ErrTranscriptsDisabled})

	res, err := cs.CallTool(context.Background(), &mcp.CallToolParams{
		Name:      "youtube_transcript",
		Arguments: map[string]any{"url": "not a video"},
	})
	require.NoError(t, err)
	assert.True(t, res.IsError)
	assert.Contains(t, textOf(t, res), "Invalid YouTube URL")

	res, err = cs.CallTool(context.Background(), &mcp.CallToolParams{
		Name:      "youtube_transcript",
		Arguments: map[string]any{"url": "dQw4w9WgXcQ"},
	})
	require.NoError(t, err)
	assert.True(t, res.IsError)
	assert.Contains(t, textOf(t, res), "Transcripts are disabled for this video")
	assert.Contains(t, textOf(t, res), "status 404")
}

func TestTranscriptHistoryTool_NoStore(t *testing.T) {
	cs := connect(t, stubProvider{})
	res, err := cs.CallTool(context.Background(), &mcp.CallToolParams{
		Name:      "transcript_history",
		Arguments: map[string]any{"limit": 3},
	})
	require.NoError(t, err)
	require.False(t, res.IsError)

	var out HistoryOutput
	require.NoError(t, json.Unmarshal([]byte(textOf(t, res)), &out))
	assert.Empty(t, out.Runs)
	assert.Zero(t, out.Total)
}

func TestToolError(t *testing.T) {
	apiErr := transcript.RenderError("abc", transcript.ErrCaptionsUnavailable)
	err := toolError(apiErr)
	assert.Contains(t, err.Error(), `"videoId":"abc"`)
	assert.Contains(t, err.Error(), "No transcript available for this video")
}
