// Package input parses the TUI command prompt.
package input

import (
	"errors"
	"strconv"
	"strings"
)

// Prompt command names.
const (
	CmdDescribe = "/describe"
	CmdInvite   = "/invite"
	CmdHours    = "/hours"
)

// Prompt errors.
var (
	ErrUnknownCommand = errors.New("unknown command")
	ErrInvalidHours   = errors.New("hours must look like 9-17 (0-23, inclusive)")
)

// PromptCommand describes a command suggestion entry.
type PromptCommand struct {
	Name        string
	Description string
}

// Commands lists the prompt commands. Owner-only commands are included
// only when owner is set.
func Commands(owner bool) []PromptCommand {
	cmds := []PromptCommand{
		{Name: CmdDescribe, Description: "describe when you are free"},
		{Name: CmdHours, Description: "mark hours FROM-TO on every day"},
	}
	if owner {
		cmds = append(cmds, PromptCommand{Name: CmdInvite, Description: "invite emails, comma separated"})
	}
	return cmds
}

// PromptMatchingCommands returns commands that match the current input prefix.
func PromptMatchingCommands(input string, commands []PromptCommand) []PromptCommand {
	trimmed := strings.TrimSpace(input)
	if !strings.HasPrefix(trimmed, "/") || strings.Contains(input, " ") {
		return nil
	}

	prefix := strings.ToLower(trimmed)
	var matches []PromptCommand
	for _, cmd := range commands {
		if strings.HasPrefix(cmd.Name, prefix) {
			matches = append(matches, cmd)
		}
	}
	return matches
}

// PromptAutocomplete returns the first matching command and whether it exists.
func PromptAutocomplete(input string, commands []PromptCommand) (string, bool) {
	matches := PromptMatchingCommands(input, commands)
	if len(matches) == 0 {
		return "", false
	}
	return matches[0].Name + " ", true
}

// Parse splits prompt input into a known command and its argument text.
// Input without a leading slash is a description.
func Parse(input string, commands []PromptCommand) (name, args string, err error) {
	input = strings.TrimSpace(input)
	if input == "" {
		return "", "", ErrUnknownCommand
	}
	if !strings.HasPrefix(input, "/") {
		return CmdDescribe, input, nil
	}

	name, args, _ = strings.Cut(input, " ")
	name = strings.ToLower(name)
	for _, cmd := range commands {
		if cmd.Name == name {
			return name, strings.TrimSpace(args), nil
		}
	}
	return "", "", ErrUnknownCommand
}

// ParseHourRange parses "FROM-TO" into an inclusive hour range. Hours may
// be written as "9" or "09:00".
func ParseHourRange(s string) (from, to int, err error) {
	a, b, ok := strings.Cut(strings.TrimSpace(s), "-")
	if !ok {
		return 0, 0, ErrInvalidHours
	}
	if from, err = parseHour(a); err != nil {
		return 0, 0, err
	}
	if to, err = parseHour(b); err != nil {
		return 0, 0, err
	}
	if from > to {
		return 0, 0, ErrInvalidHours
	}
	return from, to, nil
}

func parseHour(s string) (int, error) {
	s = strings.TrimSpace(s)
	s = strings.TrimSuffix(s, ":00")
	h, err := strconv.Atoi(s)
	if err != nil || h < 0 || h > 23 {
		return 0, ErrInvalidHours
	}
	return h, nil
}
