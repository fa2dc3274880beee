package chatformat

import "fmt"

// formatChatGLM3 renders the ChatGLM3 prompt convention: a "[gMASK]sop"
// prefix followed by role-tagged turns using THUDM's own token scheme
// (<|system|>, <|user|>, <|assistant|>). Unlike the other four families,
// no upstream reference implementation for this one was available during
// porting (see DESIGN.md) — this is built from the public ChatGLM3 chat
// template convention, not transliterated from a known-good source.
func formatChatGLM3(m Messages) string {
	prompt := fmt.Sprintf("[gMASK]sop<|system|>\n%s", m.System)

	for _, turn := range m.Turns {
		prompt += chatGLM3Transform(turn)
	}
	return prompt
}

func chatGLM3Transform(turn Message) string {
	switch turn.Role {
	case RoleUser:
		return fmt.Sprintf("<|user|>\n%s\n<|assistant|>", turn.Content)
	case RoleAssistant:
		if turn.Content == "" {
			return ""
		}
		return fmt.Sprintf("\n%s", turn.Content)
	default:
		return ""
	}
}
