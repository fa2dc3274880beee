package chatformat

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleMessages() []Message {
	return []Message{
		{Role: RoleSystem, Content: "you are helpfull assistant!"},
		{Role: RoleUser, Content: "Hello"},
		{Role: RoleAssistant, Content: "World"},
		{Role: RoleUser, Content: "who are you"},
	}
}

// TestChatMLPrompt pins the literal ChatML template string.
func TestChatMLPrompt(t *testing.T) {
	prompt, err := FormatMessages(ChatML, sampleMessages())
	require.NoError(t, err)
	assert.Equal(t, "<|im_start|>system\n"+
		"you are helpfull assistant!\n"+
		"<|im_end|>\n"+
		"<|im_start|>user\n"+
		"Hello\n"+
		"<|im_end|>\n"+
		"<|im_start|>assistant\n"+
		"World\n"+
		"<|im_end|>\n"+
		"<|im_start|>user\n"+
		"who are you\n"+
		"<|im_end|>\n"+
		"<|im_start|>assistant\n", prompt)
}

func TestLlama2Prompt(t *testing.T) {
	prompt, err := FormatMessages(Llama2, sampleMessages())
	require.NoError(t, err)
	assert.Equal(t, "<s>[INST] <<SYS>>\n"+
		"you are helpfull assistant!\n"+
		"<</SYS>>\n"+
		"Hello\n"+
		"[/INST]\n"+
		"World\n"+
		"</s>\n"+
		"<s>[INST]\n"+
		"who are you\n"+
		"[/INST]", prompt)
}

func TestEOSTokenChatMLIsNotBareAngleBracket(t *testing.T) {
	eos, err := EOSToken(ChatML)
	require.NoError(t, err)
	assert.Equal(t, "<|im_end|>", eos, "ChatML EOS must be the full sentinel, not a bare '<'")
}

func TestEOSTokenPerFormat(t *testing.T) {
	cases := map[Format]string{
		Llama2:   "</s>",
		Alpaca:   "</s>",
		ChatML:   "<|im_end|>",
		ChatGLM3: "</s>",
		OpenChat: "<|end_of_turn|>",
	}
	for format, want := range cases {
		got, err := EOSToken(format)
		require.NoError(t, err)
		assert.Equal(t, want, got, "format %s", format)
	}
}

// TestPromptTemplateRoundTrip checks that for each chat format,
// format(messages) contains every user/assistant content substring in
// order and the system content exactly once.
func TestPromptTemplateRoundTrip(t *testing.T) {
	formats := []Format{Llama2, Alpaca, ChatML, ChatGLM3, OpenChat}
	messages := sampleMessages()

	for _, format := range formats {
		prompt, err := FormatMessages(format, messages)
		require.NoError(t, err, "format %s", format)

		assert.Equal(t, 1, strings.Count(prompt, "you are helpfull assistant!"),
			"format %s: system content must appear exactly once", format)

		cursor := 0
		for _, turn := range messages {
			if turn.Role == RoleSystem {
				continue
			}
			idx := strings.Index(prompt[cursor:], turn.Content)
			require.GreaterOrEqual(t, idx, 0, "format %s: turn %q missing from prompt", format, turn.Content)
			cursor += idx + len(turn.Content)
		}
	}
}

func TestSplitRejectsMissingSystemMessage(t *testing.T) {
	_, err := Split([]Message{{Role: RoleUser, Content: "hi"}})
	require.Error(t, err)
}

func TestSplitRejectsMultipleSystemMessages(t *testing.T) {
	_, err := Split([]Message{
		{Role: RoleSystem, Content: "a"},
		{Role: RoleSystem, Content: "b"},
	})
	require.Error(t, err)
}

func TestSplitRejectsToolMessages(t *testing.T) {
	_, err := Split([]Message{
		{Role: RoleSystem, Content: "a"},
		{Role: RoleTool, Content: "b"},
	})
	require.Error(t, err)
}

func TestValid(t *testing.T) {
	assert.True(t, Valid("chatml"))
	assert.True(t, Valid("llama-2"))
	assert.False(t, Valid("unknown-format"))
}
