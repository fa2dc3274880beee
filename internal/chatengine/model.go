package chatengine

import (
	"fmt"

	"github.com/hybridgroup/yzma/pkg/llama"

	"github.com/llmserver/llmserver/internal/apierr"
	"github.com/llmserver/llmserver/internal/chatformat"
	"github.com/llmserver/llmserver/internal/device"
)

// Config describes a single configured chat model instance.
type Config struct {
	ModelID     string // path to a .gguf/.ggml/.bin weight file
	Alias       string
	Tokenizer   string // carried from config but not read: the vocabulary always comes from the weight file
	CPU         bool
	Seed        uint32
	GQA         int
	ChatFormat  chatformat.Format
	ContextSize int
}

// Model is a loaded chat model instance: tokenizer/weights/device are
// shared immutably across concurrent requests; every call creates its own
// llama.cpp context (disjoint KV cache) and sampler chain.
type Model struct {
	cfg      Config
	model    llama.Model
	vocab    llama.Vocab
	eosToken llama.Token
}

// Load loads a quantized GGUF/GGML chat model and resolves its
// chat-format's EOS sentinel to a vocabulary token id. Fails per the
// ModelInitError taxonomy if the weights can't be read or the EOS
// sentinel isn't a single vocabulary entry.
func Load(rt *Runtime, cfg Config) (*Model, error) {
	if cfg.GQA <= 0 {
		return nil, apierr.Config(fmt.Sprintf("alias %s: gqa is required and must be positive", cfg.Alias), nil)
	}

	if err := rt.Init(); err != nil {
		return nil, apierr.ModelInit(fmt.Sprintf("init runtime for %s", cfg.Alias), err)
	}

	params := llama.ModelDefaultParams()
	if !cfg.CPU {
		params.NGpuLayers = 99
	}

	model, err := llama.ModelLoadFromFile(cfg.ModelID, params)
	if err != nil {
		return nil, apierr.ModelInit(fmt.Sprintf("load model %q", cfg.ModelID), err)
	}
	vocab := llama.ModelGetVocab(model)

	eosText, err := chatformat.EOSToken(cfg.ChatFormat)
	if err != nil {
		llama.ModelFree(model)
		return nil, apierr.ModelInit(fmt.Sprintf("resolve chat format for %s", cfg.Alias), err)
	}

	eosID, err := device.TokenID(vocabTokenLookup(vocab), eosText)
	if err != nil {
		llama.ModelFree(model)
		return nil, apierr.ModelInit(
			fmt.Sprintf("EOS sentinel %q for alias %s is not a single vocabulary token", eosText, cfg.Alias), err)
	}

	return &Model{
		cfg:      cfg,
		model:    model,
		vocab:    vocab,
		eosToken: llama.Token(eosID),
	}, nil
}

// vocabTokenLookup adapts a llama.Vocab to device.TokenLookup: text resolves
// to a vocabulary id only when it tokenizes to exactly one token, the same
// test used to validate a chat format's EOS sentinel at load time.
func vocabTokenLookup(vocab llama.Vocab) device.TokenLookup {
	return func(text string) (int32, bool) {
		tokens := llama.Tokenize(vocab, text, false, true)
		if len(tokens) != 1 {
			return 0, false
		}
		return int32(tokens[0]), true
	}
}

// Close releases the model's weights.
func (m *Model) Close() {
	if m.model != 0 {
		llama.ModelFree(m.model)
		m.model = 0
	}
}

// Alias returns the model's configured alias.
func (m *Model) Alias() string { return m.cfg.Alias }

// newContext creates a fresh, disjoint llama.cpp context (per-request KV
// cache) sized to the model's training context, capped for memory.
func (m *Model) newContext() (llama.Context, error) {
	ctxParams := llama.ContextDefaultParams()
	ctxSize := uint32(llama.ModelNCtxTrain(m.model))
	if m.cfg.ContextSize > 0 && uint32(m.cfg.ContextSize) < ctxSize {
		ctxSize = uint32(m.cfg.ContextSize)
	}
	if ctxSize > 8192 {
		ctxSize = 8192
	}
	ctxParams.NCtx = ctxSize
	ctxParams.NBatch = 512
	ctxParams.NUbatch = 512
	ctxParams.NThreads = 4

	lctx, err := llama.InitFromModel(m.model, ctxParams)
	if err != nil {
		return 0, fmt.Errorf("create context: %w", err)
	}
	return lctx, nil
}

// buildSampler constructs the sampler chain for a request: repeat-penalty
// over the last 64 tokens at coefficient 1.1 (fixed, per spec), then
// either greedy argmax (temperature absent) or top-p/temperature sampling.
func buildSampler(seed uint32, temperature *float32, topP *float32) llama.Sampler {
	params := llama.SamplerChainDefaultParams()
	chain := llama.SamplerChainInit(params)

	llama.SamplerChainAdd(chain, llama.SamplerInitPenalties(64, 1.1, 0.0, 0.0))

	if temperature == nil {
		llama.SamplerChainAdd(chain, llama.SamplerInitGreedy())
		return chain
	}

	p := float32(1.0)
	if topP != nil {
		p = *topP
	}
	llama.SamplerChainAdd(chain, llama.SamplerInitTopP(p, 1))
	llama.SamplerChainAdd(chain, llama.SamplerInitTempExt(*temperature, 0, 1))
	llama.SamplerChainAdd(chain, llama.SamplerInitDist(seed))
	return chain
}
