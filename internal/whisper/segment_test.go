//go:build cgo

package whisper

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTimestampTextSRT(t *testing.T) {
	tt := timestampText{start: 0, end: 1, text: "hello world", index: 0}
	assert.Equal(t, "1\n00:00:00,000 --> 00:00:01,000\nhello world\n", tt.srt())
}

func TestTimestampTextVTT(t *testing.T) {
	tt := timestampText{start: 0, end: 1, text: "hello world", index: 0}
	assert.Equal(t, "00:00:00,000 --> 00:00:01,000\nhello world\n", tt.vtt())
}

func TestGetTimestampTextExtractsAndStripsMarkers(t *testing.T) {
	s := Segment{
		Result: decodingResult{text: "<|0.00|> hello world<|1.00|>"},
	}
	tt, err := s.getTimestampText(3)
	assert.NoError(t, err)
	assert.Equal(t, 0.0, tt.start)
	assert.Equal(t, 1.0, tt.end)
	assert.Equal(t, " hello world", tt.text)
	assert.Equal(t, 3, tt.index)
}

func TestGetTimestampTextMissingMarkersErrors(t *testing.T) {
	s := Segment{Result: decodingResult{text: "no markers here"}}
	_, err := s.getTimestampText(0)
	assert.Error(t, err)
}
