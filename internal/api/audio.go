package api

// TranscriptionResponseFormat selects how a transcription result is
// rendered.
type TranscriptionResponseFormat string

const (
	FormatJSON        TranscriptionResponseFormat = "json"
	FormatVerboseJSON TranscriptionResponseFormat = "verbose_json"
	FormatSRT         TranscriptionResponseFormat = "srt"
	FormatVTT         TranscriptionResponseFormat = "vtt"
	FormatText        TranscriptionResponseFormat = "text"
)

// CreateTranscriptionRequest is the parsed multipart body of
// POST /v1/audio/transcriptions.
type CreateTranscriptionRequest struct {
	Audio          []byte
	AudioFilename  string
	Model          string
	Language       string
	ResponseFormat TranscriptionResponseFormat
	Temperature    *float32
	Prompt         string
}

// TranscriptionSegment mirrors the Whisper decoder's Segment: a decoded
// run of text bounded by a start time and duration, with the sampling
// diagnostics that drove the temperature-fallback and silence-gate
// decisions.
type TranscriptionSegment struct {
	ID               int     `json:"id"`
	Start            float64 `json:"start"`
	End              float64 `json:"end"`
	Text             string  `json:"text"`
	Temperature      float64 `json:"temperature"`
	AvgLogprob       float64 `json:"avg_logprob"`
	CompressionRatio float64 `json:"compression_ratio"`
	NoSpeechProb     float64 `json:"no_speech_prob"`
}

// CreateTranscriptionResponse is the body of a completed transcription in
// json/verbose_json form; srt/vtt/text render to a plain string body
// instead (see internal/whisper render helpers).
type CreateTranscriptionResponse struct {
	Text     string                  `json:"text"`
	Language string                  `json:"language,omitempty"`
	Duration float64                 `json:"duration,omitempty"`
	Segments []TranscriptionSegment  `json:"segments,omitempty"`
}
