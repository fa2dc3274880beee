// Package httpserver binds the OpenAI-compatible routes
// (/v1/chat/completions, /v1/audio/transcriptions) onto the model
// registry, translating HTTP requests to the typed requests the engine
// packages expect and marshaling their results back as JSON or SSE.
//
// Built on a chi router (chi.NewRouter/router.Post) with its own
// JSON/error helpers adapted to this server's request/response shapes.
package httpserver

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/llmserver/llmserver/internal/registry"
)

// NewRouter builds the full HTTP handler for the inference server: chi's
// panic-recovery middleware contains out-of-loop panics in a request
// goroutine so one bad request never takes the process down, and request
// logging uses structured slog records (one line per request) instead of
// chi's plain-text logger.
func NewRouter(reg *registry.Registry) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Use(requestLogger)

	r.Post("/v1/chat/completions", handleChatCompletions(reg))
	r.Post("/v1/audio/transcriptions", handleTranscriptions(reg))

	return r
}

// requestLogger logs method/path/status/duration at debug level using
// slog — this server has no access-log middleware of its own since chi's
// built-in logger writes plain text instead of slog records.
func requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)
		slog.Debug("http request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", ww.Status(),
			"duration", time.Since(start),
		)
	})
}
