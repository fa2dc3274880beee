package chatengine

import (
	"context"
	"strings"
	"time"

	"github.com/llmserver/llmserver/internal/api"
)

// Handle runs the blocking, aggregated chat completion path: render the
// whole response before returning.
func (m *Model) Handle(ctx context.Context, req Request, modelAlias string) (*api.ChatCompletionResponse, error) {
	var text strings.Builder

	result, err := m.run(ctx, req, func(fragment string) {
		text.WriteString(fragment)
	})
	if err != nil {
		return nil, err
	}

	resp := api.NewChatCompletionResponse(modelAlias, time.Now())
	content := text.String()
	finish := result.finish
	resp.Choices = []api.ChatCompletionChoice{
		{
			Index:        0,
			Message:      &api.AssistantMessage{Role: "assistant", Content: &content},
			FinishReason: &finish,
		},
	}
	resp.Usage = api.Usage{
		PromptTokens:     result.promptTokens,
		CompletionTokens: result.completionTokens,
		TotalTokens:      result.promptTokens + result.completionTokens,
	}
	return resp, nil
}
