package chatengine

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/llmserver/llmserver/internal/apierr"
	"github.com/llmserver/llmserver/internal/chatformat"
)

// TestLoadRejectsMissingGQA checks that the required gqa field is validated
// before any runtime/library initialization happens, so it runs without a
// real llama.cpp shared library present.
func TestLoadRejectsMissingGQA(t *testing.T) {
	rt := NewRuntime(t.TempDir())
	_, err := Load(rt, Config{
		ModelID:    "/does/not/matter.gguf",
		Alias:      "test",
		ChatFormat: chatformat.ChatML,
	})
	require.Error(t, err)
	var apiErr *apierr.Error
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, apierr.ClassConfig, apiErr.Class)
}
