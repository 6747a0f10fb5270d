package agent

import "strings"

// ToolPrefix starts a tool invocation line: /tool <ToolName> key=value ...
const ToolPrefix = "/tool"

const (
	listToolsCommand = "/tools"
	helpCommand      = "/help"
)

// CommandKind classifies one line of user input.
type CommandKind int

const (
	KindEmpty CommandKind = iota
	KindExit
	KindHelp
	KindListTools
	KindTool
	KindPrompt
)

func (k CommandKind) String() string {
	switch k {
	case KindEmpty:
		return "empty"
	case KindExit:
		return "exit"
	case KindHelp:
		return "help"
	case KindListTools:
		return "list_tools"
	case KindTool:
		return "tool"
	case KindPrompt:
		return "prompt"
	default:
		return "unknown"
	}
}

// Command is one parsed input. It is transient and never stored.
type Command struct {
	Kind CommandKind
	// Text is the raw input for KindPrompt.
	Text string
	// Tool is the requested tool name; empty when the line had none.
	Tool string
	// Params holds raw key=value pairs for KindTool.
	Params map[string]string
}

var exitCommands = map[string]bool{
	"exit": true,
	"quit": true,
}

// ParseCommand classifies input. Tool lines are split on whitespace; every
// token after the tool name containing "=" becomes a parameter (split on the
// first "="), other tokens are ignored. No quoting is supported.
func ParseCommand(input string) Command {
	trimmed := strings.TrimSpace(input)
	if trimmed == "" {
		return Command{Kind: KindEmpty}
	}
	if exitCommands[strings.ToLower(trimmed)] {
		return Command{Kind: KindExit}
	}
	if trimmed == helpCommand {
		return Command{Kind: KindHelp}
	}
	if !strings.HasPrefix(trimmed, ToolPrefix) {
		return Command{Kind: KindPrompt, Text: input}
	}

	parts := strings.Fields(trimmed)
	switch parts[0] {
	case listToolsCommand:
		return Command{Kind: KindListTools}
	}

	cmd := Command{Kind: KindTool, Params: make(map[string]string)}
	if len(parts) < 2 {
		return cmd
	}
	cmd.Tool = parts[1]
	for _, kv := range parts[2:] {
		if k, v, ok := strings.Cut(kv, "="); ok {
			cmd.Params[k] = v
		}
	}
	return cmd
}
