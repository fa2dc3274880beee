// Package chatformat renders a sequence of role-tagged chat messages into a
// model-specific prompt string. Each family is a pure function from
// (format tag, ordered messages) to a prompt string; dispatch is a switch
// on the format tag, never runtime polymorphism.
package chatformat

import (
	"fmt"

	"github.com/llmserver/llmserver/internal/apierr"
)

// Format names one of the five supported prompt-template families.
type Format string

const (
	Llama2   Format = "llama-2"
	Alpaca   Format = "alpaca"
	ChatML   Format = "chatml"
	ChatGLM3 Format = "chatglm3"
	OpenChat Format = "openchat"
)

// Role tags a message in a chat turn.
type Role string

const (
	RoleSystem    Role = "system"
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
	RoleTool      Role = "tool"
)

// Message is one turn in a chat completion request.
type Message struct {
	Role    Role
	Content string
}

// Messages is a validated, split view of a request's message list: exactly
// one system message, followed by an ordered run of user/assistant turns.
type Messages struct {
	System string
	Turns  []Message
}

// Split validates and partitions a raw message list per spec: exactly one
// system message must precede the chat turns, and tool messages are
// rejected (tool-calling is unimplemented).
func Split(messages []Message) (Messages, error) {
	var system *string
	var turns []Message
	for _, m := range messages {
		switch m.Role {
		case RoleSystem:
			if system != nil {
				return Messages{}, apierr.Template("multiple system messages", nil)
			}
			if len(turns) > 0 {
				return Messages{}, apierr.Template("system message must precede chat turns", nil)
			}
			content := m.Content
			system = &content
		case RoleTool:
			return Messages{}, apierr.Template("tool messages are unimplemented", nil)
		case RoleUser, RoleAssistant:
			turns = append(turns, m)
		default:
			return Messages{}, apierr.Template(fmt.Sprintf("unknown role %q", m.Role), nil)
		}
	}
	if system == nil {
		return Messages{}, apierr.Template("missing system message", nil)
	}
	return Messages{System: *system, Turns: turns}, nil
}

// FormatMessages renders the message list for the given format.
func FormatMessages(format Format, messages []Message) (string, error) {
	parsed, err := Split(messages)
	if err != nil {
		return "", err
	}
	switch format {
	case ChatML:
		return formatChatML(parsed), nil
	case Llama2:
		return formatLlama2(parsed), nil
	case Alpaca:
		return formatAlpaca(parsed), nil
	case OpenChat:
		return formatOpenChat(parsed), nil
	case ChatGLM3:
		return formatChatGLM3(parsed), nil
	default:
		return "", apierr.Template(fmt.Sprintf("unknown chat format %q", format), nil)
	}
}

// EOSToken returns the literal end-of-sequence sentinel string for the
// format, resolved to a token id once at model init. The ChatML sentinel is
// fixed to "<|im_end|>" — one upstream source variant registered the bare
// "<" character instead, which causes premature termination on the very
// first generated "<" anywhere in output; "<|im_end|>" is the correct form.
func EOSToken(format Format) (string, error) {
	switch format {
	case ChatML:
		return "<|im_end|>", nil
	case Llama2, Alpaca, ChatGLM3:
		return "</s>", nil
	case OpenChat:
		return "<|end_of_turn|>", nil
	default:
		return "", apierr.Template(fmt.Sprintf("unknown chat format %q", format), nil)
	}
}

// Valid reports whether s names one of the five supported formats.
func Valid(s string) bool {
	switch Format(s) {
	case Llama2, Alpaca, ChatML, ChatGLM3, OpenChat:
		return true
	default:
		return false
	}
}
