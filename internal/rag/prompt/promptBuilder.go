package prompt

import (
	"fmt"
	"strings"

	"github.com/tiramai/ragapi/internal/config"
	"github.com/tiramai/ragapi/internal/domain/ragModel"
)

// Build assembles the single-blob prompt form in fixed section order:
// system instruction, context documents, recent conversation, question,
// response cue. Empty history drops its section entirely.
func Build(style string, contextBlock string, history []ragModel.ConversationTurn, question string) string {
	sections := []string{
		SystemPrompt(style),
		"## Context Documents:\n" + contextBlock,
	}

	if block := historyBlock(history); block != "" {
		sections = append(sections, "## Previous Conversation:\n"+block)
	}

	sections = append(sections,
		"## User Question:\n"+question,
		"## Your Response:",
	)
	return strings.Join(sections, "\n\n")
}

// BuildMessages assembles the role-tagged prompt form for chat-style
// providers. The system message carries both the instruction and the
// context block; history turns keep their original roles; the question
// lands as the final user message.
func BuildMessages(style string, contextBlock string, history []ragModel.ConversationTurn, question string) []ragModel.ConversationTurn {
	system := SystemPrompt(style) + "\n\n## Context Documents:\n" + contextBlock

	messages := make([]ragModel.ConversationTurn, 0, len(history)+2)
	messages = append(messages, ragModel.ConversationTurn{Role: ragModel.RoleSystem, Content: system})
	messages = append(messages, trimHistory(history)...)
	messages = append(messages, ragModel.ConversationTurn{Role: ragModel.RoleUser, Content: question})
	return messages
}

func historyBlock(history []ragModel.ConversationTurn) string {
	trimmed := trimHistory(history)
	if len(trimmed) == 0 {
		return ""
	}

	lines := make([]string, 0, len(trimmed))
	for _, turn := range trimmed {
		lines = append(lines, fmt.Sprintf("%s: %s", roleLabel(turn.Role), turn.Content))
	}
	return strings.Join(lines, "\n")
}

// trimHistory keeps the most recent turns, oldest first.
func trimHistory(history []ragModel.ConversationTurn) []ragModel.ConversationTurn {
	if len(history) > config.MaxHistoryTurns {
		return history[len(history)-config.MaxHistoryTurns:]
	}
	return history
}

func roleLabel(role ragModel.Role) string {
	switch role {
	case ragModel.RoleAssistant:
		return "Assistant"
	case ragModel.RoleSystem:
		return "System"
	default:
		return "User"
	}
}
