package config

import (
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleTOML = `
host = "127.0.0.1"
port = 9090

[[chat_configs]]
model_id = "/models/mistral.gguf"
alias = "mistral"

[[whisper_configs]]
model_id = "/models/ggml-base.bin"
alias = "base"
quantized = false
`

func TestLoadFromBytesAppliesDefaults(t *testing.T) {
	c, err := LoadFromBytes([]byte(sampleTOML))
	require.NoError(t, err)

	assert.Equal(t, "127.0.0.1", c.Host)
	assert.Equal(t, 9090, c.Port)
	require.Len(t, c.Chat, 1)
	assert.Equal(t, "chatml", c.Chat[0].ChatFormat)
	assert.Equal(t, 4096, c.Chat[0].ContextSize)
	require.NotNil(t, c.Chat[0].CPU)
	assert.True(t, *c.Chat[0].CPU)

	require.Len(t, c.Whisper, 1)
	assert.EqualValues(t, defaultSeed, c.Whisper[0].Seed)
	require.NotNil(t, c.Whisper[0].Quantized)
	assert.False(t, *c.Whisper[0].Quantized)
}

func TestLoadFromBytesDefaultsChatSeed(t *testing.T) {
	c, err := LoadFromBytes([]byte(sampleTOML))
	require.NoError(t, err)

	require.Len(t, c.Chat, 1)
	assert.EqualValues(t, defaultSeed, c.Chat[0].Seed)
}

func TestLoadFromBytesEmptyUsesAllDefaults(t *testing.T) {
	c, err := LoadFromBytes([]byte(""))
	require.NoError(t, err)
	assert.Equal(t, "0.0.0.0", c.Host)
	assert.Equal(t, 8080, c.Port)
	assert.Equal(t, "./lib", c.LibDir)
}

func TestLoadFromBytesExpandsEnv(t *testing.T) {
	os.Setenv("LLMSERVER_TEST_HOST", "10.0.0.5")
	defer os.Unsetenv("LLMSERVER_TEST_HOST")

	c, err := LoadFromBytes([]byte(`host = "${LLMSERVER_TEST_HOST}"`))
	require.NoError(t, err)
	assert.Equal(t, "10.0.0.5", c.Host)
}
