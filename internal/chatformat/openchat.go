package chatformat

import (
	"fmt"
	"strings"
)

// formatOpenChat renders the OpenChat template, turns joined by "</s>\n".
func formatOpenChat(m Messages) string {
	system := fmt.Sprintf("<s>[INST] <<SYS>>\n%s\n<</SYS>>", m.System)

	turns := make([]string, 0, len(m.Turns))
	for _, turn := range m.Turns {
		turns = append(turns, openChatTransform(turn))
	}
	message := strings.Join(turns, "</s>\n")

	return fmt.Sprintf("%s\n%s\n</s>", system, message)
}

func openChatTransform(turn Message) string {
	switch turn.Role {
	case RoleUser:
		return fmt.Sprintf("<s>[INST]\n%s\n", turn.Content)
	case RoleAssistant:
		return fmt.Sprintf("[/INST]\n%s\n", turn.Content)
	default:
		return ""
	}
}
