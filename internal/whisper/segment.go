//go:build cgo

package whisper

import (
	"fmt"
	"regexp"
	"strconv"
)

// timestampTokenPattern matches the literal "<|12.34|>" timestamp tokens
// whisper.cpp renders inline in decoded text when the model was run with
// timestamps enabled, mirroring decoder.rs's regex extraction.
var timestampTokenPattern = regexp.MustCompile(`<\|(\d+\.\d+)\|>`)

// timestampText is the (start, end, text) triple rendered for a single
// segment, mirroring decoder.rs's TimestampText.
type timestampText struct {
	start, end float64
	text       string
	index      int
}

// getTimestampText extracts the first two embedded timestamp tokens from
// the segment's decoded text as its start/end bounds, and strips all
// timestamp tokens from the displayed text.
func (s Segment) getTimestampText(index int) (timestampText, error) {
	text := s.Result.text
	matches := timestampTokenPattern.FindAllStringSubmatch(text, 2)
	if len(matches) < 2 {
		return timestampText{}, fmt.Errorf("segment %d: expected 2 timestamp tokens, found %d", index, len(matches))
	}
	start, err := strconv.ParseFloat(matches[0][1], 64)
	if err != nil {
		return timestampText{}, fmt.Errorf("segment %d: invalid start timestamp: %w", index, err)
	}
	end, err := strconv.ParseFloat(matches[1][1], 64)
	if err != nil {
		return timestampText{}, fmt.Errorf("segment %d: invalid end timestamp: %w", index, err)
	}
	return timestampText{
		start: start,
		end:   end,
		index: index,
		text:  timestampTokenPattern.ReplaceAllString(text, ""),
	}, nil
}

// clockString renders seconds as "HH:MM:SS,mmm", matching decoder.rs's
// comma-delimited format used for BOTH its srt() and vtt() renderers.
func clockString(seconds float64) string {
	totalMillis := int64(seconds*1000 + 0.5)
	h := totalMillis / 3_600_000
	totalMillis %= 3_600_000
	m := totalMillis / 60_000
	totalMillis %= 60_000
	s := totalMillis / 1000
	ms := totalMillis % 1000
	return fmt.Sprintf("%02d:%02d:%02d,%03d", h, m, s, ms)
}

// srt renders one SRT cue: "{index}\n{start} --> {end}\n{text}\n".
func (t timestampText) srt() string {
	return fmt.Sprintf("%d\n%s --> %s\n%s\n", t.index+1, clockString(t.start), clockString(t.end), t.text)
}

// vtt renders one WebVTT cue: "{start} --> {end}\n{text}\n".
func (t timestampText) vtt() string {
	return fmt.Sprintf("%s --> %s\n%s\n", clockString(t.start), clockString(t.end), t.text)
}

// SRT renders this segment's index-th SRT cue.
func (s Segment) SRT(index int) (string, error) {
	tt, err := s.getTimestampText(index)
	if err != nil {
		return "", err
	}
	return tt.srt(), nil
}

// VTT renders this segment's index-th WebVTT cue.
func (s Segment) VTT(index int) (string, error) {
	tt, err := s.getTimestampText(index)
	if err != nil {
		return "", err
	}
	return tt.vtt(), nil
}
