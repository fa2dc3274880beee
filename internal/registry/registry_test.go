package registry

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/llmserver/llmserver/internal/chatengine"
	"github.com/llmserver/llmserver/internal/whisper"
)

func TestLoadEmptyConfigYieldsEmptyRegistry(t *testing.T) {
	reg, err := Load(t.TempDir(), nil, nil)
	require.NoError(t, err)
	defer reg.Close()

	_, ok := reg.GetChat("anything")
	assert.False(t, ok)
	_, ok = reg.GetWhisper("anything")
	assert.False(t, ok)
}

// TestLoadAbortsWithOffendingAlias checks that a failed init aborts
// startup with the offending alias named in the error. Missing gqa is
// checked before any runtime/library initialization, so this runs
// without a real llama.cpp shared library present.
func TestLoadAbortsWithOffendingAlias(t *testing.T) {
	_, err := Load(t.TempDir(), []chatengine.Config{
		{Alias: "broken-chat", GQA: 0},
	}, nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "broken-chat")
}

// TestLoadAbortsOnMissingWhisperModel exercises the same invariant for a
// whisper entry pointing at a nonexistent model directory — whisper.cpp's
// init call fails synchronously on a missing local path, no network I/O.
func TestLoadAbortsOnMissingWhisperModel(t *testing.T) {
	_, err := Load(t.TempDir(), nil, []whisper.Config{
		{Alias: "missing-whisper", ModelID: "/does/not/exist.bin"},
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "missing-whisper")
}

func TestLoadRejectsDuplicateChatAliasBeforeAnyInit(t *testing.T) {
	_, err := Load(t.TempDir(), []chatengine.Config{
		{Alias: "dup", GQA: 0},
		{Alias: "dup", GQA: 0},
	}, nil)
	require.Error(t, err)
	// Duplicate aliases are rejected up front, before any model load
	// goroutine starts, so this never touches a real llama.cpp library.
	assert.Contains(t, err.Error(), "dup")
}
