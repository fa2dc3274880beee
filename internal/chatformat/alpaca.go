package chatformat

import (
	"fmt"
	"strings"
)

// formatAlpaca renders the Alpaca instruction/response template, turns
// joined by a literal "</s>".
func formatAlpaca(m Messages) string {
	system := fmt.Sprintf("%s\n\n", m.System)

	turns := make([]string, 0, len(m.Turns))
	for _, turn := range m.Turns {
		turns = append(turns, alpacaTransform(turn))
	}
	message := strings.Join(turns, "</s>")

	return fmt.Sprintf("%s\n%s\n</s>", system, message)
}

func alpacaTransform(turn Message) string {
	switch turn.Role {
	case RoleUser:
		return fmt.Sprintf("### Instruction:\n%s\n", turn.Content)
	case RoleAssistant:
		return fmt.Sprintf("### Response\n%s\n", turn.Content)
	default:
		return ""
	}
}
