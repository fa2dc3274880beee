package chatformat

import (
	"fmt"
	"strings"
)

// formatLlama2 renders the Llama-2 template. The very first user turn's
// opening "<s>[INST]\n" is elided because the system prompt already opens
// the first instruction block.
func formatLlama2(m Messages) string {
	system := fmt.Sprintf("<s>[INST] <<SYS>>\n%s\n<</SYS>>", m.System)

	var message string
	for _, turn := range m.Turns {
		message += llama2Transform(turn)
	}
	message = strings.Replace(message, "<s>[INST]\n", "", 1)

	return fmt.Sprintf("%s\n%s", system, message)
}

func llama2Transform(turn Message) string {
	switch turn.Role {
	case RoleUser:
		return fmt.Sprintf("<s>[INST]\n%s\n[/INST]", turn.Content)
	case RoleAssistant:
		if turn.Content == "" {
			return "\n"
		}
		return fmt.Sprintf("\n%s\n</s>\n", turn.Content)
	default:
		return ""
	}
}
