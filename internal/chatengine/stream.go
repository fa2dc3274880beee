package chatengine

import (
	"context"
	"time"

	"github.com/llmserver/llmserver/internal/api"
)

// Event is one item of a StreamHandle channel: either a chunk to forward
// to the client, or a terminal error. Exactly one of Chunk/Err is set.
type Event struct {
	Chunk *api.ChatCompletionChunk
	Err   error
}

// StreamHandle runs the pull-based streaming chat completion path. Each
// emitted chunk carries one choice whose delta content is the
// newly-decoded fragment; the terminal chunk carries content=nil and a
// non-nil finish_reason. The channel is closed after the terminal chunk
// (or after an error event). Callers that stop reading early must cancel
// ctx: the goroutine then abandons generation at its next chunk-emit
// boundary and never blocks on a send once ctx is done.
func (m *Model) StreamHandle(ctx context.Context, req Request, modelAlias string) <-chan Event {
	out := make(chan Event, 100)

	go func() {
		defer close(out)
		defer func() {
			if r := recover(); r != nil {
				select {
				case out <- Event{Err: panicToError(r)}:
				default:
				}
			}
		}()

		resp := api.NewChatCompletionResponse(modelAlias, time.Now())

		result, err := m.run(ctx, req, func(fragment string) {
			text := fragment
			chunk := api.ChunkFrom(resp, &text, nil)
			select {
			case out <- Event{Chunk: &chunk}:
			case <-ctx.Done():
			}
		})
		if err != nil {
			select {
			case out <- Event{Err: err}:
			case <-ctx.Done():
			}
			return
		}

		finish := result.finish
		terminal := api.ChunkFrom(resp, nil, &finish)
		select {
		case out <- Event{Chunk: &terminal}:
		case <-ctx.Done():
		}
	}()

	return out
}
