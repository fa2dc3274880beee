package httpserver

import (
	"bytes"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
)

// TestTranscriptionsUnknownAliasReturns400 checks the unknown-alias half
// of the error contract for POST /v1/audio/transcriptions.
func TestTranscriptionsUnknownAliasReturns400(t *testing.T) {
	reg := emptyRegistry(t)
	router := NewRouter(reg)

	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	w.WriteField("model", "nope")
	part, _ := w.CreateFormFile("file", "clip.wav")
	part.Write([]byte("RIFF....WAVEfmt "))
	w.Close()

	req := httptest.NewRequest(http.MethodPost, "/v1/audio/transcriptions", &buf)
	req.Header.Set("Content-Type", w.FormDataContentType())
	rec := httptest.NewRecorder()

	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "model not set")
}

// TestTranscriptionsMissingFileAndUnknownAliasReturns400 sends no file to
// an empty registry; the alias is resolved before the file field, so the
// request is rejected for its unknown alias.
func TestTranscriptionsMissingFileAndUnknownAliasReturns400(t *testing.T) {
	reg := emptyRegistry(t)
	router := NewRouter(reg)

	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	w.WriteField("model", "whatever")
	w.Close()

	req := httptest.NewRequest(http.MethodPost, "/v1/audio/transcriptions", &buf)
	req.Header.Set("Content-Type", w.FormDataContentType())
	rec := httptest.NewRecorder()

	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}
