package httpserver

import (
	"encoding/json"
	"net/http"

	"github.com/llmserver/llmserver/internal/apierr"
)

// writeJSON encodes v as the response body with the given status code.
func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

// errorBody is the JSON shape returned for every BadRequest/TemplateError/
// DecodeError/GenerationError surfaced over HTTP.
type errorBody struct {
	Error struct {
		Message string `json:"message"`
		Type    string `json:"type"`
	} `json:"error"`
}

// writeError classifies err via apierr.StatusCode and writes the OpenAI-
// shaped error envelope.
func writeError(w http.ResponseWriter, err error) {
	status := apierr.StatusCode(err)
	var body errorBody
	body.Error.Message = err.Error()
	body.Error.Type = "invalid_request_error"
	writeJSON(w, status, body)
}
