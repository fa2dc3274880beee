// Package device selects the compute device a model runs on and resolves
// token IDs from vocabularies by their literal string form. Both chat
// models (yzma/llama.cpp) and Whisper models (whisper.cpp) expose token
// lookup by string; this package gives both call sites one small, shared
// helper surface instead of duplicating the "look up or fail" idiom.
package device

import "fmt"

// Kind is the compute device a model instance is bound to.
type Kind int

const (
	CPU Kind = iota
	GPU
)

func (k Kind) String() string {
	if k == GPU {
		return "gpu"
	}
	return "cpu"
}

// Select resolves the configured device preference. cpu=true pins the
// model to CPU even when GPU offload is available; cpu=false requests GPU
// offload where the underlying runtime supports it (yzma's NGpuLayers,
// whisper.cpp's use_gpu param).
func Select(cpu bool) Kind {
	if cpu {
		return CPU
	}
	return GPU
}

// TokenLookup is anything that can resolve a literal token string to its
// vocabulary id, returning ok=false when the string is not a known token.
// chatengine adapts llama.Vocab (a tokenize-and-check-length-1 lookup) and
// whisper adapts whisper.cpp's langID+tokenLang pair to this shape.
type TokenLookup func(text string) (id int32, ok bool)

// TokenID resolves text to a vocabulary id or returns an error naming the
// text that could not be resolved. Used both at chat model-init time to pin
// the EOS sentinel, and at whisper request time to resolve an explicit
// language hint to its tag token — in both places a miss must fail the
// caller rather than silently falling back.
func TokenID(lookup TokenLookup, text string) (int32, error) {
	id, ok := lookup(text)
	if !ok {
		return 0, fmt.Errorf("token %q not found in vocabulary", text)
	}
	return id, nil
}
