package httpserver

import (
	"fmt"
	"io"
	"net/http"
	"strconv"

	"github.com/llmserver/llmserver/internal/api"
	"github.com/llmserver/llmserver/internal/apierr"
	"github.com/llmserver/llmserver/internal/audio"
	"github.com/llmserver/llmserver/internal/registry"
	"github.com/llmserver/llmserver/internal/whisper"
)

// maxUploadBytes bounds the multipart body the server will buffer in
// memory for a single transcription request (roughly 35 minutes of
// 16-bit 16kHz mono PCM with WAV header overhead).
const maxUploadBytes = 64 << 20

// handleTranscriptions implements POST /v1/audio/transcriptions:
// multipart/form-data with file/model/language?/response_format?/
// temperature?/prompt. A prompt field is accepted but not read.
func handleTranscriptions(reg *registry.Registry) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
			writeError(w, apierr.BadRequest("invalid multipart form", err))
			return
		}

		alias := r.FormValue("model")
		model, ok := reg.GetWhisper(alias)
		if !ok {
			writeError(w, apierr.BadRequest(fmt.Sprintf("model not set: %q", alias), nil))
			return
		}

		file, _, err := r.FormFile("file")
		if err != nil {
			writeError(w, apierr.BadRequest("missing \"file\" field", err))
			return
		}
		defer file.Close()

		data, err := io.ReadAll(file)
		if err != nil {
			writeError(w, apierr.BadRequest("failed reading uploaded file", err))
			return
		}

		pcm, err := audio.DecodeWAV(data)
		if err != nil {
			writeError(w, err)
			return
		}

		format := api.TranscriptionResponseFormat(r.FormValue("response_format"))
		if format == "" {
			format = api.FormatJSON
		}

		var temperature *float32
		if v := r.FormValue("temperature"); v != "" {
			f, err := strconv.ParseFloat(v, 32)
			if err != nil {
				writeError(w, apierr.BadRequest("invalid temperature", err))
				return
			}
			t := float32(f)
			temperature = &t
		}

		req := whisper.Request{
			PCM:            pcm,
			Language:       r.FormValue("language"),
			Task:           whisper.Transcribe,
			ResponseFormat: format,
			Temperature:    temperature,
		}

		result, err := model.Handle(req)
		if err != nil {
			writeError(w, err)
			return
		}

		if result.JSON != nil {
			writeJSON(w, http.StatusOK, result.JSON)
			return
		}

		w.Header().Set("Content-Type", result.ContentType)
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(result.Body))
	}
}
