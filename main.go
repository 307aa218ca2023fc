// go_transcript — YouTube transcript service.
//
// Serves POST /get_transcript over plain HTTP and exposes the same pipeline as
// MCP tools: youtube_transcript, transcript_history and, when an LLM key is set,
// youtube_transcript_summary.
package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/anatolykoptev/go-kit/env"
	"github.com/anatolykoptev/go-mcpserver"
	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/anatolykoptev/go_transcript/internal/engine"
	"github.com/anatolykoptev/go_transcript/internal/httpapi"
	"github.com/anatolykoptev/go_transcript/internal/setup"
	"github.com/anatolykoptev/go_transcript/internal/transcriptserver"
)

var version = "dev"

func main() {
	setup.LoadDotenv()

	httpPort := env.Str("HTTP_PORT", "8000")
	mcpPort := env.Str("MCP_PORT", "8892")

	setup.InitEngine(setup.ConfigFromEnv())
	setup.OpenAudit(context.Background())
	defer setup.CloseAudit()

	resolver := setup.NewResolver()

	slog.Info("starting go_transcript",
		slog.String("http_port", httpPort),
		slog.String("mcp_port", mcpPort),
	)

	api := &http.Server{
		Addr:              ":" + httpPort,
		Handler:           httpapi.NewHandler(resolver),
		ReadHeaderTimeout: 10 * time.Second,
		WriteTimeout:      engine.Cfg.RequestTimeout + 30*time.Second,
	}
	go func() {
		if err := api.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("http api failed", slog.Any("error", err))
		}
	}()

	server := mcp.NewServer(&mcp.Implementation{
		Name:    "go_transcript",
		Version: version,
	}, nil)

	n := transcriptserver.RegisterTools(server, resolver)
	slog.Info("tools registered", slog.Int("count", n))

	if err := mcpserver.Run(server, mcpserver.Config{
		Name:         "go_transcript",
		Version:      version,
		Port:         mcpPort,
		WriteTimeout: 300 * time.Second,
		Metrics:      engine.FormatMetrics,
	}); err != nil {
		slog.Error("server failed", slog.Any("error", err))
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := api.Shutdown(ctx); err != nil {
		slog.Warn("http api shutdown failed", slog.Any("error", err))
	}
}
