package chatformat

import "fmt"

// formatChatML renders the ChatML template. Literal delimiters must match
// exactly — this is the format's wire contract with its tokenizer/vocab.
func formatChatML(m Messages) string {
	system := fmt.Sprintf("<|im_start|>system\n%s\n<|im_end|>", m.System)

	var message string
	for _, turn := range m.Turns {
		message += chatMLTransform(turn)
	}
	return fmt.Sprintf("%s\n%s\n", system, message)
}

func chatMLTransform(turn Message) string {
	switch turn.Role {
	case RoleUser:
		return fmt.Sprintf("<|im_start|>user\n%s\n<|im_end|>\n<|im_start|>assistant", turn.Content)
	case RoleAssistant:
		if turn.Content == "" {
			return "\n\n"
		}
		return fmt.Sprintf("\n%s\n<|im_end|>\n", turn.Content)
	default:
		return ""
	}
}
