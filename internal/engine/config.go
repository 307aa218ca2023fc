package engine

import (
	"net/http"
	"time"

	"github.com/anatolykoptev/go-kit/llm"
)

// Config holds all engine configuration, injected from main.
type Config struct {
	DefaultLang     string
	FetchTimeout    time.Duration
	RequestTimeout  time.Duration
	YouTubeRPS      float64 // outbound requests per second to YouTube, 0 = unlimited
	YouTubeBurst    int
	LLMAPIKey       string
	LLMAPIBase      string
	LLMModel        string
	LLMTemperature  float64
	LLMMaxTokens    int
	SummaryMaxChars int
	HTTPClient      *http.Client
	BrowserClient   *BrowserClient // nil = watch page fetched with HTTPClient
	LLMClient       *llm.Client    // nil = summary tool disabled
}

var cfg = Config{
	DefaultLang:  "en",
	FetchTimeout: 15 * time.Second,
	HTTPClient:   &http.Client{Timeout: 15 * time.Second},
}

// Cfg exposes the engine configuration for sub-packages (sources, transcript).
// Always points to the current cfg value.
var Cfg = &cfg

// Init initializes the engine with the given configuration.
func Init(c Config) {
	if c.DefaultLang == "" {
		c.DefaultLang = "en"
	}
	if c.HTTPClient == nil {
		c.HTTPClient = &http.Client{Timeout: c.FetchTimeout}
	}
	cfg = c
	Cfg = &cfg
}

// NormLang normalises a requested language: empty string → configured default.
func NormLang(lang string) string {
	if lang == "" {
		return cfg.DefaultLang
	}
	return lang
}
