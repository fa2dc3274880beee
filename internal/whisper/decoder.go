//go:build cgo

package whisper

import (
	"fmt"
	"math"
	"math/rand"

	"github.com/llmserver/llmserver/internal/apierr"
)

// Task selects transcription vs. translation-to-English.
type Task int

const (
	Transcribe Task = iota
	Translate
)

// decodingResult is the outcome of one decode() call at a given
// temperature, mirroring the Rust source's DecodingResult.
type decodingResult struct {
	tokens           []token
	text             string
	avgLogprob       float64
	noSpeechProb     float64
	temperature      float64
	compressionRatio float64
}

// Segment is one transcribed span of audio.
type Segment struct {
	Start    float64
	Duration float64
	Result   decodingResult
}

// Text returns the segment's decoded text (including any embedded
// timestamp tokens, stripped by getTimestampText and the render helpers).
func (s Segment) Text() string { return s.Result.text }

// decoder runs the sliding-window encode/decode pipeline over a
// precomputed mel spectrogram already loaded into the model's context.
type decoder struct {
	model *Model

	task          Task
	timestamps    bool
	languageToken *token
	temperature   float64 // fixed temperature when fallback is disabled
	fallback      bool

	sotToken          token
	transcribeToken   token
	translateToken    token
	eotToken          token
	noSpeechToken     token
	noTimestampsToken token

	rng *rand.Rand
}

// newDecoder resolves the sentinel tokens needed for decoding and builds a
// decoder ready to run over the model's already-computed mel buffer.
func newDecoder(m *Model, languageToken *token, task Task, timestamps bool, temperature float64, fallback bool) *decoder {
	return &decoder{
		model:             m,
		task:              task,
		timestamps:        timestamps,
		languageToken:     languageToken,
		temperature:       temperature,
		fallback:          fallback,
		sotToken:          m.ctx.tokenSOT(),
		transcribeToken:   m.ctx.tokenTranscribe(),
		translateToken:    m.ctx.tokenTranslate(),
		eotToken:          m.ctx.tokenEOT(),
		noSpeechToken:     m.ctx.tokenNoSpeech(),
		noTimestampsToken: m.ctx.tokenNoTimestamps(),
		rng:               m.rngFor(),
	}
}

// promptPrefix builds the fixed decode prompt: [SOT, language?, task, no_timestamps?].
func (d *decoder) promptPrefix() []token {
	prefix := []token{d.sotToken}
	if d.languageToken != nil {
		prefix = append(prefix, *d.languageToken)
	}
	if d.task == Translate {
		prefix = append(prefix, d.translateToken)
	} else {
		prefix = append(prefix, d.transcribeToken)
	}
	if !d.timestamps {
		prefix = append(prefix, d.noTimestampsToken)
	}
	return prefix
}

// suppressMask reports whether token id should be forced to -inf for this
// decode: the no_timestamps token is suppressed whenever timestamps mode
// is requested, and the SOT and transcribe/translate task tokens are
// always suppressed from being *sampled* (they only ever appear in the
// fixed prompt prefix, never as generation output). Language-tag tokens
// are not masked.
func (d *decoder) suppressMask(id int) bool {
	t := token(id)
	if d.timestamps && t == d.noTimestampsToken {
		return true
	}
	switch t {
	case d.sotToken, d.transcribeToken, d.translateToken:
		return true
	}
	return false
}

// decode runs one full autoregressive pass over a single 30s mel window
// at offsetFrames, at the given sampling temperature.
func (d *decoder) decode(offsetFrames int, t float64) (decodingResult, error) {
	m := d.model
	if err := m.ctx.encode(offsetFrames, 4); err != nil {
		return decodingResult{}, apierr.Decode("whisper encoder forward pass", err)
	}

	maxSteps := m.ctx.nTextCtx() / 2
	tokens := d.promptPrefix()

	var sumLogprob float64
	noSpeechProb := math.NaN()

	nPast := 0
	for i := 0; i < maxSteps; i++ {
		var step []token
		if i == 0 {
			step = tokens
		} else {
			step = tokens[len(tokens)-1:]
		}
		if err := m.ctx.decodeStep(step, nPast, 4); err != nil {
			return decodingResult{}, apierr.Decode(fmt.Sprintf("whisper decoder step %d", i), err)
		}
		nPast += len(step)

		logits := m.ctx.logits()

		if i == 0 {
			probs := softmax(logits)
			if int(d.noSpeechToken) < len(probs) {
				noSpeechProb = float64(probs[d.noSpeechToken])
			}
		}

		masked := applySuppressMask(logits, d.suppressMask)

		next := sampleToken(masked, t, d.rng)
		prob := softmax(masked)[next]
		tokens = append(tokens, token(next))

		if token(next) == d.eotToken || len(tokens) > m.ctx.nTextCtx() {
			break
		}
		if prob > 0 {
			sumLogprob += math.Log(float64(prob))
		}
	}

	text := decodeTokens(m, tokens)
	avgLogprob := sumLogprob / float64(len(tokens))

	return decodingResult{
		tokens:           tokens,
		text:             text,
		avgLogprob:       avgLogprob,
		noSpeechProb:     noSpeechProb,
		temperature:      t,
		compressionRatio: compressionRatio(text),
	}, nil
}

// decodeWithFallback walks the temperature ladder, accepting the first
// result that isn't flagged low-quality (or is silent), always accepting
// the last rung unconditionally.
func (d *decoder) decodeWithFallback(offsetFrames int) (decodingResult, error) {
	if !d.fallback {
		return d.decode(offsetFrames, d.temperature)
	}
	var last decodingResult
	var lastErr error
	for i, t := range temperatures {
		dr, err := d.decode(offsetFrames, t)
		if i == len(temperatures)-1 {
			return dr, err
		}
		if err != nil {
			lastErr = err
			continue
		}
		last = dr
		needsFallback := dr.compressionRatio > compressionRatioThreshold || dr.avgLogprob < logprobThreshold
		if !needsFallback || dr.noSpeechProb > noSpeechThreshold {
			return dr, nil
		}
	}
	return last, lastErr
}

// run walks the mel buffer in 30s windows, producing one Segment per
// window that passes the silence gate.
func (d *decoder) run(contentFrames int) ([]Segment, error) {
	var segments []Segment
	seek := 0
	for seek < contentFrames {
		timeOffset := float64(seek*hopLength) / float64(sampleRate)
		segmentSize := contentFrames - seek
		if segmentSize > nFrames {
			segmentSize = nFrames
		}
		duration := float64(segmentSize*hopLength) / float64(sampleRate)

		dr, err := d.decodeWithFallback(seek)
		if err != nil {
			return nil, err
		}
		seek += segmentSize

		// Segment silence gate.
		if dr.noSpeechProb > noSpeechThreshold && dr.avgLogprob < logprobThreshold {
			continue
		}

		segments = append(segments, Segment{Start: timeOffset, Duration: duration, Result: dr})
	}
	return segments, nil
}

// decodeTokens renders a token stream to text, re-encoding whisper.cpp's
// timestamp tokens as literal "<|X.XX|>" markers so downstream SRT/VTT
// rendering can extract them with the same regex the original decoder
// used against its tokenizer's native timestamp text.
func decodeTokens(m *Model, tokens []token) string {
	beg := m.ctx.tokenBeg()
	var out string
	for _, t := range tokens {
		switch t {
		case m.ctx.tokenSOT(), m.ctx.tokenEOT(), m.ctx.tokenTranscribe(), m.ctx.tokenTranslate():
			continue
		}
		if t >= beg {
			out += fmt.Sprintf("<|%.2f|>", float64(t-beg)*0.02)
			continue
		}
		out += m.ctx.tokenToText(t)
	}
	return out
}

// isTimestampToken reports whether t falls in the timestamp-token range.
func isTimestampToken(beg, t token) bool { return t >= beg }
