// Package httpapi serves the REST surface: POST /get_transcript plus liveness,
// history, and metrics endpoints.
package httpapi

import (
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/anatolykoptev/go_transcript/internal/engine"
	"github.com/anatolykoptev/go_transcript/internal/engine/audit"
	"github.com/anatolykoptev/go_transcript/internal/engine/transcript"
	"github.com/anatolykoptev/go_transcript/internal/toolutil"
)

const maxBodyBytes = 64 * 1024

// TranscriptRequest is the body of POST /get_transcript.
type TranscriptRequest struct {
	URL  string `json:"url"`
	Lang string `json:"lang,omitempty"`
}

// errorEnvelope wraps error bodies as {"detail": ...}.
type errorEnvelope struct {
	Detail any `json:"detail"`
}

type server struct {
	resolver *transcript.Resolver
}

// NewHandler returns the HTTP handler with CORS applied.
func NewHandler(r *transcript.Resolver) http.Handler {
	s := &server{resolver: r}
	mux := http.NewServeMux()
	mux.HandleFunc("POST /get_transcript", s.handleGetTranscript)
	mux.HandleFunc("GET /{$}", handleRoot)
	mux.HandleFunc("GET /health", handleHealth)
	mux.HandleFunc("GET /history", handleHistory)
	mux.HandleFunc("GET /metrics", handleMetrics)
	return withCORS(mux)
}

func (s *server) handleGetTranscript(w http.ResponseWriter, r *http.Request) {
	var req TranscriptRequest
	dec := json.NewDecoder(io.LimitReader(r.Body, maxBodyBytes))
	if err := dec.Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorEnvelope{Detail: "Invalid request body: " + err.Error()})
		return
	}
	if req.URL == "" {
		writeJSON(w, http.StatusBadRequest, errorEnvelope{Detail: "Field 'url' is required"})
		return
	}

	resp, apiErr := toolutil.FetchTranscript(r.Context(), s.resolver, req.URL, req.Lang)
	if apiErr != nil {
		writeAPIError(w, apiErr)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func writeAPIError(w http.ResponseWriter, apiErr *transcript.APIError) {
	if apiErr.Kind == transcript.KindInvalidReference {
		writeJSON(w, apiErr.Status, errorEnvelope{Detail: apiErr.Detail.Error})
		return
	}
	writeJSON(w, apiErr.Status, errorEnvelope{Detail: apiErr.Detail})
}

func handleRoot(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"message": "YouTube Transcript API is running"})
}

func handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "healthy", "service": "youtube-transcript-api"})
}

func handleHistory(w http.ResponseWriter, r *http.Request) {
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	runs, err := audit.Recent(r.Context(), r.URL.Query().Get("video_id"), limit)
	if err != nil {
		slog.Warn("history: query failed", slog.Any("error", err))
		writeJSON(w, http.StatusInternalServerError, errorEnvelope{Detail: "history unavailable"})
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"runs": runs, "total": len(runs)})
}

func handleMetrics(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	io.WriteString(w, engine.FormatMetrics()) //nolint:errcheck
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil && !errors.Is(err, http.ErrHandlerTimeout) {
		slog.Debug("httpapi: write response failed", slog.Any("error", err))
	}
}

// withCORS allows any origin, method, and header, and answers preflight requests.
func withCORS(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		h := w.Header()
		origin := r.Header.Get("Origin")
		if origin != "" {
			h.Set("Access-Control-Allow-Origin", origin)
			h.Set("Access-Control-Allow-Credentials", "true")
			h.Add("Vary", "Origin")
		} else {
			h.Set("Access-Control-Allow-Origin", "*")
		}
		if r.Method == http.MethodOptions && r.Header.Get("Access-Control-Request-Method") != "" {
			h.Set("Access-Control-Allow-Methods", "GET, POST, PUT, PATCH, DELETE, OPTIONS")
			if reqHeaders := r.Header.Get("Access-Control-Request-Headers"); reqHeaders != "" {
				h.Set("Access-Control-Allow-Headers", reqHeaders)
			} else {
				h.Set("Access-Control-Allow-Headers", "*")
			}
			h.Set("Access-Control-Max-Age", "600")
			w.WriteHeader(http.StatusNoContent)
			return
		}
		next.ServeHTTP(w, r)
	})
}
