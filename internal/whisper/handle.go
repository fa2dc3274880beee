//go:build cgo

package whisper

import (
	"fmt"

	"github.com/llmserver/llmserver/internal/api"
	"github.com/llmserver/llmserver/internal/apierr"
	"github.com/llmserver/llmserver/internal/device"
)

// Request is a fully-decoded transcription request: PCM already decoded
// to 16kHz mono float32 by internal/audio.
type Request struct {
	PCM            []float32
	Language       string // ISO-639-1 code, or "" to auto-detect
	Task           Task
	ResponseFormat api.TranscriptionResponseFormat
	Temperature    *float32
	NThreads       int
}

// Result is the rendered outcome of a Handle call: exactly one of JSON or
// Body is populated, matching the requested ResponseFormat.
type Result struct {
	JSON        *api.CreateTranscriptionResponse
	Body        string
	ContentType string
}

// Handle runs the full pipeline (mel spectrogram → sliding-window
// decode → render) for one transcription request, serialized against the
// model's mutex since whisper.cpp contexts are not reentrant.
func (m *Model) Handle(req Request) (Result, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	nThreads := req.NThreads
	if nThreads <= 0 {
		nThreads = 4
	}

	if err := m.ctx.pcmToMel(req.PCM, nThreads); err != nil {
		return Result{}, apierr.Decode("whisper pcm-to-mel", err)
	}

	langToken, detectedLanguage, err := m.resolveLanguage(req.Language)
	if err != nil {
		return Result{}, err
	}

	temperature := 0.0
	fallback := true
	if req.Temperature != nil {
		temperature = float64(*req.Temperature)
		fallback = false
	}

	timestamps := req.ResponseFormat == api.FormatSRT || req.ResponseFormat == api.FormatVTT || req.ResponseFormat == api.FormatVerboseJSON

	dec := newDecoder(m, langToken, req.Task, timestamps, temperature, fallback)

	contentFrames := len(req.PCM) / hopLength
	segments, err := dec.run(contentFrames)
	if err != nil {
		return Result{}, err
	}

	duration := float64(len(req.PCM)) / float64(sampleRate)

	switch req.ResponseFormat {
	case api.FormatText, "":
		return Result{Body: PlainText(segments), ContentType: "text/plain; charset=utf-8"}, nil
	case api.FormatSRT:
		body, err := SRT(segments)
		if err != nil {
			return Result{}, apierr.Decode("render srt", err)
		}
		return Result{Body: body, ContentType: "application/x-subrip"}, nil
	case api.FormatVTT:
		body, err := VTT(segments)
		if err != nil {
			return Result{}, apierr.Decode("render vtt", err)
		}
		return Result{Body: body, ContentType: "text/vtt; charset=utf-8"}, nil
	case api.FormatVerboseJSON:
		resp := VerboseJSON(detectedLanguage, duration, segments)
		return Result{JSON: &resp, ContentType: "application/json"}, nil
	case api.FormatJSON:
		resp := api.CreateTranscriptionResponse{Text: PlainText(segments)}
		return Result{JSON: &resp, ContentType: "application/json"}, nil
	default:
		return Result{}, apierr.BadRequest(fmt.Sprintf("unsupported response_format %q", req.ResponseFormat), nil)
	}
}

// resolveLanguage picks the decode language: an explicit language code is
// looked up directly; otherwise the encoder output is probed with a
// single forward pass over the language-tag tokens and the
// highest-probability tag is chosen.
func (m *Model) resolveLanguage(explicit string) (*token, string, error) {
	if !m.ctx.isMultilingual() {
		if explicit != "" {
			return nil, "", apierr.BadRequest("a language cannot be set for non-multilingual models", nil)
		}
		return nil, "en", nil
	}
	if explicit != "" {
		tokID, err := device.TokenID(m.ctx.langTokenLookup(), explicit)
		if err != nil {
			return nil, "", apierr.BadRequest(fmt.Sprintf("unknown language %q", explicit), nil)
		}
		tok := token(tokID)
		return &tok, explicit, nil
	}

	if err := m.ctx.encode(0, 4); err != nil {
		return nil, "", apierr.Decode("whisper encoder forward pass (language detection)", err)
	}
	sot := []token{m.ctx.tokenSOT()}
	if err := m.ctx.decodeStep(sot, 0, 4); err != nil {
		return nil, "", apierr.Decode("whisper decoder step (language detection)", err)
	}
	logits := m.ctx.logits()

	// Scan every known language tag token and pick the highest-probability
	// one directly from the logits vector produced above.
	bestID, bestLogit := -1, negInf
	for id, code := range whisperLanguages {
		tok := int(m.ctx.tokenLang(id))
		if tok >= 0 && tok < len(logits) && logits[tok] > bestLogit {
			bestID, bestLogit = id, logits[tok]
			_ = code
		}
	}
	if bestID < 0 {
		return nil, "en", nil
	}
	tok := m.ctx.tokenLang(bestID)
	return &tok, whisperLanguages[bestID], nil
}
