package models

import "strings"

// CommandType enumerates the slash commands understood on the chat surface.
type CommandType string

const (
	CommandReport  CommandType = "report"
	CommandHerd    CommandType = "herd"
	CommandIncome  CommandType = "income"
	CommandExpense CommandType = "expense"
	CommandHelp    CommandType = "help"
	CommandUnknown CommandType = "unknown"
)

// Command is a parsed slash command.
type Command struct {
	Type CommandType
	Raw  string
	Args []string
}

// IsCommand reports whether message is a slash command rather than a free question.
func IsCommand(message string) bool {
	return strings.HasPrefix(strings.TrimSpace(message), "/")
}

// ParseCommand derives a Command from a chat message such as "/expense 120 Feed hay".
// Arguments keep their original case.
func ParseCommand(message string) Command {
	cmd := Command{Type: CommandUnknown, Raw: message}

	tokens := strings.Fields(strings.TrimSpace(message))
	if len(tokens) == 0 {
		return cmd
	}

	head := strings.ToLower(strings.TrimPrefix(tokens[0], "/"))
	switch CommandType(head) {
	case CommandReport, CommandHerd, CommandIncome, CommandExpense, CommandHelp:
		cmd.Type = CommandType(head)
	default:
		cmd.Type = CommandUnknown
	}

	if len(tokens) > 1 {
		cmd.Args = tokens[1:]
	}
	return cmd
}
