//go:build cgo

package whisper

import (
	"fmt"
	"math/rand"
	"sync"

	"github.com/llmserver/llmserver/internal/apierr"
	"github.com/llmserver/llmserver/internal/device"
)

const (
	sampleRate = 16000
	hopLength  = 160
	nFrames    = 3000 // 30s window at the above rate/hop
)

// temperatures is the decode retry ladder, tried in order until a
// non-low-quality result is found.
var temperatures = []float64{0.0, 0.2, 0.4, 0.6, 0.8, 1.0}

const (
	compressionRatioThreshold = 2.4
	logprobThreshold          = -1.0
	noSpeechThreshold         = 0.6
)

// Config describes a single configured whisper model instance.
type Config struct {
	ModelID string // path to a ggml-format whisper model
	Alias   string
	CPU     bool
	Seed    uint64

	// Quantized mirrors spec's WhisperModelConfig.quantized. whisper.cpp's
	// ggml weight format bakes its tensor dtype into the file itself, so
	// there is no runtime quantized/full-precision switch to apply here;
	// the field is kept for config-schema parity and otherwise unused. See
	// DESIGN.md.
	Quantized bool
}

// Model is a loaded Whisper instance. The underlying whisper.cpp context
// is not reentrant — inference calls are serialized with mu.
type Model struct {
	cfg    Config
	ctx    *context
	device device.Kind

	mu sync.Mutex
}

// Load opens a ggml-format whisper model from disk.
func Load(cfg Config) (*Model, error) {
	dev := device.Select(cfg.CPU)
	ctx, err := loadContext(cfg.ModelID, dev == device.GPU)
	if err != nil {
		return nil, apierr.ModelInit(fmt.Sprintf("load whisper model %q", cfg.ModelID), err)
	}
	return &Model{
		cfg:    cfg,
		ctx:    ctx,
		device: dev,
	}, nil
}

// Close releases the model's weights.
func (m *Model) Close() {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.ctx != nil {
		m.ctx.free()
		m.ctx = nil
	}
}

// Alias returns the model's configured alias.
func (m *Model) Alias() string { return m.cfg.Alias }

// Device returns the compute device this model's context was loaded on.
func (m *Model) Device() device.Kind { return m.device }

// rngFor creates a per-request random source seeded from the model's
// configured seed, so temperature>0 sampling is reproducible across
// requests.
func (m *Model) rngFor() *rand.Rand {
	return rand.New(rand.NewSource(int64(m.cfg.Seed)))
}
