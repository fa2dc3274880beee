package chatengine

import (
	"context"
	"fmt"

	"github.com/hybridgroup/yzma/pkg/llama"

	"github.com/llmserver/llmserver/internal/apierr"
	"github.com/llmserver/llmserver/internal/api"
	"github.com/llmserver/llmserver/internal/chatformat"
)

const defaultMaxTokens = 4096

// Request is the engine-facing view of a ChatCompletionRequest: just the
// pieces the decode loop needs.
type Request struct {
	Messages    []chatformat.Message
	Temperature *float32
	TopP        *float32
	MaxTokens   *int
}

type generationResult struct {
	promptTokens     int
	completionTokens int
	finish           api.FinishReason
}

// run performs the shared numerical core used by both Handle and
// StreamHandle: render the prompt, tokenize, prefill, then decode up to
// MaxTokens tokens applying the fixed repeat-penalty and the request's
// sampler. onFragment is invoked once for the prefill token's text and
// once per subsequent decoded token; the prefill fragment is therefore
// always the first thing onFragment sees, and is counted in
// completionTokens — the prefill fragment is counted as real output, not
// discarded the way some llama.cpp front ends treat it.
func (m *Model) run(ctx context.Context, req Request, onFragment func(string)) (generationResult, error) {
	prompt, err := chatformat.FormatMessages(m.cfg.ChatFormat, req.Messages)
	if err != nil {
		return generationResult{}, err
	}

	tokens := llama.Tokenize(m.vocab, prompt, true, true)
	if len(tokens) == 0 {
		return generationResult{}, apierr.Generation("prompt tokenized to zero tokens", nil)
	}

	lctx, err := m.newContext()
	if err != nil {
		return generationResult{}, apierr.Generation("create inference context", err)
	}
	defer llama.Free(lctx)

	sampler := buildSampler(m.cfg.Seed, req.Temperature, req.TopP)
	defer llama.SamplerFree(sampler)

	maxTokens := defaultMaxTokens
	if req.MaxTokens != nil && *req.MaxTokens > 0 {
		maxTokens = *req.MaxTokens
	}

	batch := llama.BatchGetOne(tokens)
	if _, err := llama.Decode(lctx, batch); err != nil {
		return generationResult{}, apierr.Generation("prefill decode", err)
	}

	// Prefill sample: the first token produced from the fully-processed
	// prompt, always emitted regardless of whether it happens to equal
	// the EOS token.
	firstToken := llama.SamplerSample(sampler, lctx, -1)
	llama.SamplerAccept(sampler, firstToken)
	completionTokens := 1
	onFragment(llama.Detokenize(m.vocab, []llama.Token{firstToken}, false, true))

	finish := api.FinishLength
	nextToken := firstToken
	for i := 0; i < maxTokens; i++ {
		select {
		case <-ctx.Done():
			return generationResult{
				promptTokens:     len(tokens),
				completionTokens: completionTokens,
				finish:           api.FinishLength,
			}, nil
		default:
		}

		nextBatch := llama.BatchGetOne([]llama.Token{nextToken})
		if _, err := llama.Decode(lctx, nextBatch); err != nil {
			return generationResult{}, apierr.Generation(fmt.Sprintf("decode step %d", i), err)
		}

		nextToken = llama.SamplerSample(sampler, lctx, -1)
		llama.SamplerAccept(sampler, nextToken)
		completionTokens++

		if llama.VocabIsEOG(m.vocab, nextToken) || nextToken == m.eosToken {
			finish = api.FinishStop
			break
		}

		onFragment(llama.Detokenize(m.vocab, []llama.Token{nextToken}, false, true))
	}

	return generationResult{
		promptTokens:     len(tokens),
		completionTokens: completionTokens,
		finish:           finish,
	}, nil
}
