// Package api defines the OpenAI-compatible wire schemas for chat
// completions and audio transcription.
package api

import (
	"time"

	"github.com/google/uuid"
)

// ChatMessage is one turn in a ChatCompletionRequest's message list.
type ChatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
	Name    string `json:"name,omitempty"`
}

// ResponseFormat selects how a non-streaming chat response body is shaped.
type ResponseFormat struct {
	Type string `json:"type"` // "json" or "text"
}

// ChatCompletionRequest is the body of POST /v1/chat/completions.
type ChatCompletionRequest struct {
	Model          string          `json:"model"`
	Messages       []ChatMessage   `json:"messages"`
	Temperature    *float32        `json:"temperature,omitempty"`
	TopP           *float32        `json:"top_p,omitempty"`
	MaxTokens      *int            `json:"max_tokens,omitempty"`
	Stream         bool            `json:"stream,omitempty"`
	ResponseFormat *ResponseFormat `json:"response_format,omitempty"`
}

// FinishReason names why generation stopped.
type FinishReason string

const (
	FinishStop   FinishReason = "stop"
	FinishLength FinishReason = "length"
)

// AssistantMessage is the generated message in a ChatCompletionChoice.
// Content is a pointer so the terminal streaming chunk can carry a JSON
// null per the OpenAI wire contract.
type AssistantMessage struct {
	Role    string  `json:"role"`
	Content *string `json:"content"`
}

// ChatCompletionChoice is one (always the only, in this server) choice in
// a chat completion response or chunk.
type ChatCompletionChoice struct {
	Index        int          `json:"index"`
	Message      *AssistantMessage `json:"message,omitempty"`
	Delta        *AssistantMessage `json:"delta,omitempty"`
	FinishReason *FinishReason `json:"finish_reason"`
}

// Usage reports token accounting for a completed chat request. Invariant:
// Total == Prompt + Completion.
type Usage struct {
	PromptTokens     int `json:"prompt_tokens"`
	CompletionTokens int `json:"completion_tokens"`
	TotalTokens      int `json:"total_tokens"`
}

// ChatCompletionResponse is the body of a non-streaming chat completion.
type ChatCompletionResponse struct {
	ID                string                  `json:"id"`
	Object            string                  `json:"object"` // "chat.completion"
	Created           int64                   `json:"created"`
	Model             string                  `json:"model"`
	SystemFingerprint string                  `json:"system_fingerprint"`
	Choices           []ChatCompletionChoice  `json:"choices"`
	Usage             Usage                   `json:"usage"`
}

// NewChatCompletionResponse stamps a fresh id/created/fingerprint for the
// given model alias; choices and usage are filled in by the engine as
// generation proceeds.
func NewChatCompletionResponse(model string, now time.Time) *ChatCompletionResponse {
	return &ChatCompletionResponse{
		ID:                "chatcmpl-" + uuid.NewString(),
		Object:            "chat.completion",
		Created:           now.Unix(),
		Model:             model,
		SystemFingerprint: "fp_local",
	}
}

// ChatCompletionChunk is one server-sent-event payload in a streaming
// response. It shares id/created/model/fingerprint with the hypothetical
// aggregate response.
type ChatCompletionChunk struct {
	ID                string                 `json:"id"`
	Object            string                 `json:"object"` // "chat.completion.chunk"
	Created           int64                  `json:"created"`
	Model             string                 `json:"model"`
	SystemFingerprint string                 `json:"system_fingerprint"`
	Choices           []ChatCompletionChoice `json:"choices"`
}

// ChunkFrom builds a streaming chunk sharing identity fields with resp,
// carrying a single choice whose delta content is text (nil on the
// terminal chunk) and whose finish_reason is set only on that terminal
// chunk.
func ChunkFrom(resp *ChatCompletionResponse, text *string, finish *FinishReason) ChatCompletionChunk {
	return ChatCompletionChunk{
		ID:                resp.ID,
		Object:            "chat.completion.chunk",
		Created:           resp.Created,
		Model:             resp.Model,
		SystemFingerprint: resp.SystemFingerprint,
		Choices: []ChatCompletionChoice{
			{
				Index:        0,
				Delta:        &AssistantMessage{Role: "assistant", Content: text},
				FinishReason: finish,
			},
		},
	}
}
