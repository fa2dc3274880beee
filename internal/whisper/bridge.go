//go:build cgo

// Package whisper implements the Whisper transcription pipeline: sliding
// 30-second window encode/decode, temperature fallback, timestamp
// extraction, and SRT/VTT/verbose_json/text rendering.
//
// Built as a direct cgo bridge to whisper.h, calling the lower-level
// pipeline functions (whisper_pcm_to_mel / whisper_encode / whisper_decode
// / whisper_get_logits) instead of the monolithic whisper_full, so the
// sliding-window and temperature-fallback control flow is implemented in
// Go rather than delegated to the C library.
package whisper

/*
#cgo CFLAGS: -I${SRCDIR}/../../third_party/whisper/include
#cgo LDFLAGS: -L${SRCDIR}/../../third_party/whisper/lib -lwhisper -lggml -lggml-base -lggml-cpu -lm -lstdc++
#cgo darwin LDFLAGS: -lggml-metal -lggml-blas -framework Accelerate -framework Foundation -framework Metal -framework MetalKit

#include <whisper.h>
#include <stdlib.h>
*/
import "C"

import (
	"fmt"
	"unsafe"

	"github.com/llmserver/llmserver/internal/device"
)

// token mirrors whisper.h's whisper_token (a plain int32).
type token = C.whisper_token

// context wraps a loaded whisper.cpp model. All inference calls against a
// single context must be serialized by the caller (whisper.cpp contexts
// are not reentrant); Model does so with a mutex per instance since the
// mel/KV buffers inside a whisper_context are mutated in place by
// whisper_pcm_to_mel/whisper_encode/whisper_decode.
type context struct {
	ptr *C.struct_whisper_context
}

// loadContext loads a ggml-format whisper model from path. useGPU mirrors
// the resolved device.Kind: GPU sets whisper_context_params.use_gpu so
// whisper.cpp offloads the encoder/decoder, CPU leaves it at its default
// false.
func loadContext(path string, useGPU bool) (*context, error) {
	cPath := C.CString(path)
	defer C.free(unsafe.Pointer(cPath))

	params := C.whisper_context_default_params()
	params.use_gpu = C.bool(useGPU)
	ptr := C.whisper_init_from_file_with_params(cPath, params)
	if ptr == nil {
		return nil, fmt.Errorf("failed to load whisper model from %s", path)
	}
	return &context{ptr: ptr}, nil
}

func (c *context) free() {
	if c.ptr != nil {
		C.whisper_free(c.ptr)
		c.ptr = nil
	}
}

// pcmToMel computes the log-mel spectrogram for the full PCM buffer using
// the context's precomputed filter bank, storing it in the context's
// internal mel buffer for subsequent encode() calls to slice windows from.
func (c *context) pcmToMel(pcm []float32, nThreads int) error {
	if len(pcm) == 0 {
		return fmt.Errorf("empty pcm buffer")
	}
	rc := C.whisper_pcm_to_mel(c.ptr, (*C.float)(unsafe.Pointer(&pcm[0])), C.int(len(pcm)), C.int(nThreads))
	if rc != 0 {
		return fmt.Errorf("whisper_pcm_to_mel failed with code %d", rc)
	}
	return nil
}

// encode runs the encoder once over the 3000-mel-frame window starting at
// the given frame offset (whisper.cpp's internal N_FRAMES window size).
func (c *context) encode(offsetFrames, nThreads int) error {
	rc := C.whisper_encode(c.ptr, C.int(offsetFrames), C.int(nThreads))
	if rc != 0 {
		return fmt.Errorf("whisper_encode failed with code %d", rc)
	}
	return nil
}

// decodeStep runs a single decoder step over tokens, continuing from
// nPast previously-decoded positions.
func (c *context) decodeStep(tokens []token, nPast, nThreads int) error {
	if len(tokens) == 0 {
		return fmt.Errorf("empty token batch")
	}
	rc := C.whisper_decode(c.ptr, &tokens[0], C.int(len(tokens)), C.int(nPast), C.int(nThreads))
	if rc != 0 {
		return fmt.Errorf("whisper_decode failed with code %d", rc)
	}
	return nil
}

// logits returns the vocabulary-sized logits vector produced by the most
// recent decodeStep.
func (c *context) logits() []float32 {
	n := int(C.whisper_n_vocab(c.ptr))
	ptr := C.whisper_get_logits(c.ptr)
	return unsafe.Slice((*float32)(unsafe.Pointer(ptr)), n)
}

func (c *context) nVocab() int       { return int(C.whisper_n_vocab(c.ptr)) }
func (c *context) nTextCtx() int     { return int(C.whisper_n_text_ctx(c.ptr)) }
func (c *context) isMultilingual() bool { return C.whisper_is_multilingual(c.ptr) != 0 }

func (c *context) tokenEOT() token        { return C.whisper_token_eot(c.ptr) }
func (c *context) tokenSOT() token        { return C.whisper_token_sot(c.ptr) }
func (c *context) tokenTranslate() token  { return C.whisper_token_translate(c.ptr) }
func (c *context) tokenTranscribe() token { return C.whisper_token_transcribe(c.ptr) }
func (c *context) tokenNoTimestamps() token { return C.whisper_token_not(c.ptr) }
func (c *context) tokenNoSpeech() token   { return C.whisper_token_nosp(c.ptr) }

// tokenBeg returns the first timestamp-token id; every id from here to
// the end of the vocabulary encodes a 0.02s timestamp, per whisper.h.
func (c *context) tokenBeg() token { return C.whisper_token_beg(c.ptr) }

func (c *context) langID(lang string) (int, bool) {
	cLang := C.CString(lang)
	defer C.free(unsafe.Pointer(cLang))
	id := int(C.whisper_lang_id(cLang))
	return id, id >= 0
}

func (c *context) tokenLang(langID int) token {
	return C.whisper_token_lang(c.ptr, C.int(langID))
}

// langTokenLookup adapts langID+tokenLang to device.TokenLookup, so an
// explicit language request resolves to its tag token through the same
// "look up or fail" helper chatengine uses for its EOS sentinel.
func (c *context) langTokenLookup() device.TokenLookup {
	return func(text string) (int32, bool) {
		id, ok := c.langID(text)
		if !ok {
			return 0, false
		}
		return int32(c.tokenLang(id)), true
	}
}

// tokenToText renders a single token id to its textual piece.
func (c *context) tokenToText(t token) string {
	return C.GoString(C.whisper_token_to_str(c.ptr, t))
}
