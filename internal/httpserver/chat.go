package httpserver

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/llmserver/llmserver/internal/api"
	"github.com/llmserver/llmserver/internal/apierr"
	"github.com/llmserver/llmserver/internal/chatengine"
	"github.com/llmserver/llmserver/internal/chatformat"
	"github.com/llmserver/llmserver/internal/registry"
)

// handleChatCompletions implements POST /v1/chat/completions. A JSON body
// decodes into api.ChatCompletionRequest; stream=true responds
// text/event-stream, otherwise a single JSON (or, for
// response_format.type != "json", plain-text) body.
func handleChatCompletions(reg *registry.Registry) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req api.ChatCompletionRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, apierr.BadRequest("invalid JSON body", err))
			return
		}

		model, ok := reg.GetChat(req.Model)
		if !ok {
			writeError(w, apierr.BadRequest(fmt.Sprintf("model not set: %q", req.Model), nil))
			return
		}

		engineReq, err := toEngineRequest(req)
		if err != nil {
			writeError(w, err)
			return
		}

		if req.Stream {
			streamChatCompletions(w, r, model, engineReq, req.Model)
			return
		}

		resp, err := model.Handle(r.Context(), engineReq, req.Model)
		if err != nil {
			writeError(w, err)
			return
		}

		if req.ResponseFormat != nil && req.ResponseFormat.Type != "json" {
			w.Header().Set("Content-Type", "text/plain; charset=utf-8")
			w.WriteHeader(http.StatusOK)
			if len(resp.Choices) > 0 && resp.Choices[0].Message != nil && resp.Choices[0].Message.Content != nil {
				w.Write([]byte(*resp.Choices[0].Message.Content))
			}
			return
		}

		writeJSON(w, http.StatusOK, resp)
	}
}

// toEngineRequest validates and converts the wire request's messages into
// the engine-facing chatformat.Message list. Validation of exactly-one-
// system-message and no-tool-messages happens inside chatformat.Split,
// invoked lazily by chatformat.FormatMessages during generation; here we
// only translate the tagged role strings.
func toEngineRequest(req api.ChatCompletionRequest) (chatengine.Request, error) {
	messages := make([]chatformat.Message, 0, len(req.Messages))
	for _, m := range req.Messages {
		role := chatformat.Role(m.Role)
		switch role {
		case chatformat.RoleSystem, chatformat.RoleUser, chatformat.RoleAssistant, chatformat.RoleTool:
		default:
			return chatengine.Request{}, apierr.BadRequest(fmt.Sprintf("unknown message role %q", m.Role), nil)
		}
		messages = append(messages, chatformat.Message{Role: role, Content: m.Content})
	}
	return chatengine.Request{
		Messages:    messages,
		Temperature: req.Temperature,
		TopP:        req.TopP,
		MaxTokens:   req.MaxTokens,
	}, nil
}

// streamChatCompletions adapts chatengine's pull-based Event channel to
// SSE framing: each event becomes a "data: {...}\n\n" line, terminated by
// "data: [DONE]\n\n" once the channel closes after a successful terminal
// chunk. Cancellation is observed by closing r.Context() and abandoning
// the channel — StreamHandle's own goroutine unwinds on ctx.Done() at its
// next chunk-emit boundary.
func streamChatCompletions(w http.ResponseWriter, r *http.Request, model *chatengine.Model, req chatengine.Request, alias string) {
	flusher, ok := w.(http.Flusher)
	if !ok {
		writeError(w, apierr.Generation("streaming unsupported by response writer", nil))
		return
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.WriteHeader(http.StatusOK)

	ctx, cancel := context.WithCancel(r.Context())
	defer cancel()

	events := model.StreamHandle(ctx, req, alias)
	for ev := range events {
		if ev.Err != nil {
			// Headers are already committed at 200; surface the failure as
			// a final SSE event rather than an HTTP error status.
			writeSSEError(w, ev.Err)
			flusher.Flush()
			return
		}
		payload, err := json.Marshal(ev.Chunk)
		if err != nil {
			writeSSEError(w, err)
			flusher.Flush()
			return
		}
		fmt.Fprintf(w, "data: %s\n\n", payload)
		flusher.Flush()

		select {
		case <-r.Context().Done():
			return
		default:
		}
	}
	fmt.Fprint(w, "data: [DONE]\n\n")
	flusher.Flush()
}

func writeSSEError(w http.ResponseWriter, err error) {
	var apiErr *apierr.Error
	msg := err.Error()
	if errors.As(err, &apiErr) {
		msg = apiErr.Msg
	}
	payload, _ := json.Marshal(map[string]any{"error": msg})
	fmt.Fprintf(w, "data: %s\n\n", payload)
}
