// Package setup builds the engine configuration and long-lived clients from the
// environment. Shared by the server and the ytt CLI.
package setup

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/anatolykoptev/go-kit/env"
	"github.com/anatolykoptev/go-kit/llm"
	stealth "github.com/anatolykoptev/go-stealth"
	"github.com/anatolykoptev/go-stealth/proxypool"
	"github.com/joho/godotenv"

	"github.com/anatolykoptev/go_transcript/internal/engine"
	"github.com/anatolykoptev/go_transcript/internal/engine/audit"
	"github.com/anatolykoptev/go_transcript/internal/engine/sources"
	"github.com/anatolykoptev/go_transcript/internal/engine/transcript"
)

// LoadDotenv loads .env from the working directory if present.
func LoadDotenv() {
	if err := godotenv.Load(); err == nil {
		slog.Debug("loaded .env")
	}
}

// ConfigFromEnv reads the engine configuration. It does not build any clients.
func ConfigFromEnv() engine.Config {
	fetchTimeout := env.Duration("FETCH_TIMEOUT", 15*time.Second)
	return engine.Config{
		DefaultLang:     env.Str("DEFAULT_LANG", "en"),
		FetchTimeout:    fetchTimeout,
		RequestTimeout:  env.Duration("REQUEST_TIMEOUT", 60*time.Second),
		YouTubeRPS:      env.Float("YOUTUBE_RPS", 5),
		YouTubeBurst:    env.Int("YOUTUBE_BURST", 5),
		LLMAPIKey:       env.Str("LLM_API_KEY", ""),
		LLMAPIBase:      env.Str("LLM_API_BASE", "https://generativelanguage.googleapis.com/v1beta/openai"),
		LLMModel:        env.Str("LLM_MODEL", "gemini-2.5-flash"),
		LLMTemperature:  env.Float("LLM_TEMPERATURE", 0.2),
		LLMMaxTokens:    env.Int("LLM_MAX_TOKENS", 2048),
		SummaryMaxChars: env.Int("SUMMARY_MAX_CHARS", 8000),
		HTTPClient: &http.Client{
			Timeout: fetchTimeout,
			Transport: &http.Transport{
				MaxIdleConns:        20,
				MaxIdleConnsPerHost: 10,
				IdleConnTimeout:     60 * time.Second,
			},
		},
	}
}

// InitEngine builds the stealth and LLM clients and installs c as the engine config.
func InitEngine(c engine.Config) {
	var opts []stealth.ClientOption
	opts = append(opts, stealth.WithTimeout(15))

	if apiKey := env.Str("WEBSHARE_API_KEY", ""); apiKey != "" {
		pool, err := proxypool.NewWebshare(apiKey)
		if err != nil {
			slog.Warn("proxy pool init failed, running without proxy", slog.Any("error", err))
		} else {
			opts = append(opts, stealth.WithProxyPool(pool))
			slog.Info("proxy pool initialized", slog.Int("proxies", pool.Len()))
		}
	}

	bc, err := stealth.NewClient(opts...)
	if err != nil {
		slog.Warn("stealth client init failed, using plain http", slog.Any("error", err))
	} else {
		c.BrowserClient = bc
		slog.Info("stealth browser client initialized")
	}

	if c.LLMAPIKey != "" {
		c.LLMClient = llm.NewClient(c.LLMAPIBase, c.LLMAPIKey, c.LLMModel,
			llm.WithFallbackKeys(env.List("LLM_API_KEY_FALLBACKS", "")),
			llm.WithMaxTokens(c.LLMMaxTokens),
			llm.WithTemperature(c.LLMTemperature),
			llm.WithHTTPClient(&http.Client{Timeout: 60 * time.Second}),
		)
		slog.Info("llm client initialized", slog.String("model", c.LLMModel))
	}

	engine.Init(c)
}

// OpenAudit opens the audit store: Postgres when DATABASE_URL is set, otherwise
// SQLite at AUDIT_DB_PATH. AUDIT_DB_PATH=off disables auditing. Failures are
// logged and leave auditing off.
func OpenAudit(ctx context.Context) {
	if dbURL := env.Str("DATABASE_URL", ""); dbURL != "" {
		pg, err := audit.ConnectPostgres(ctx, dbURL)
		if err != nil {
			slog.Warn("audit postgres init failed", slog.Any("error", err))
			return
		}
		audit.SetStore(pg)
		slog.Info("audit store initialized", slog.String("backend", "postgres"))
		return
	}

	path := env.Str("AUDIT_DB_PATH", audit.DefaultSQLitePath())
	if path == "off" || path == "" {
		slog.Info("audit store disabled")
		return
	}
	s, err := audit.OpenSQLite(path)
	if err != nil {
		slog.Warn("audit sqlite init failed", slog.String("path", path), slog.Any("error", err))
		return
	}
	audit.SetStore(s)
	slog.Info("audit store initialized", slog.String("backend", "sqlite"), slog.String("path", path))
}

// CloseAudit closes the package-level audit store, if any.
func CloseAudit() {
	if s := audit.GetStore(); s != nil {
		if err := s.Close(); err != nil {
			slog.Warn("audit close failed", slog.Any("error", err))
		}
		audit.SetStore(nil)
	}
}

// NewResolver wires the YouTube provider into a resolver using the engine config.
func NewResolver() *transcript.Resolver {
	return transcript.NewResolver(sources.NewYouTube())
}
