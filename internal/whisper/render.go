//go:build cgo

package whisper

import (
	"strings"

	"github.com/llmserver/llmserver/internal/api"
)

// PlainText concatenates every segment's text, stripping any embedded
// timestamp markers.
func PlainText(segments []Segment) string {
	var b strings.Builder
	for _, s := range segments {
		b.WriteString(timestampTokenPattern.ReplaceAllString(s.Result.text, ""))
	}
	return strings.TrimSpace(b.String())
}

// SRT renders the full sequence of segments as an SRT subtitle file.
func SRT(segments []Segment) (string, error) {
	var b strings.Builder
	for i, s := range segments {
		cue, err := s.SRT(i)
		if err != nil {
			return "", err
		}
		b.WriteString(cue)
		b.WriteString("\n")
	}
	return b.String(), nil
}

// VTT renders the full sequence of segments as a WebVTT subtitle file.
func VTT(segments []Segment) (string, error) {
	var b strings.Builder
	b.WriteString("WEBVTT\n\n")
	for i, s := range segments {
		cue, err := s.VTT(i)
		if err != nil {
			return "", err
		}
		b.WriteString(cue)
		b.WriteString("\n")
	}
	return b.String(), nil
}

// VerboseJSON builds the verbose_json response shape: full text plus
// per-segment detail, matching the OpenAI transcription API.
func VerboseJSON(language string, duration float64, segments []Segment) api.CreateTranscriptionResponse {
	resp := api.CreateTranscriptionResponse{
		Text:     PlainText(segments),
		Language: language,
		Duration: duration,
	}
	for i, s := range segments {
		resp.Segments = append(resp.Segments, api.TranscriptionSegment{
			ID:               i,
			Start:            s.Start,
			End:              s.Start + s.Duration,
			Text:             timestampTokenPattern.ReplaceAllString(s.Result.text, ""),
			AvgLogprob:       s.Result.avgLogprob,
			CompressionRatio: s.Result.compressionRatio,
			NoSpeechProb:     s.Result.noSpeechProb,
			Temperature:      s.Result.temperature,
		})
	}
	return resp
}
