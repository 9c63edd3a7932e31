package dto

import (
	"fmt"
	"strings"
)

// Command is a marker annotation command.
type Command uint8

const (
	// CommandDefault means no explicit command: the decision is inherited.
	CommandDefault Command = iota
	CommandCreate
	CommandUse
	CommandIgnore
)

func (c Command) String() string {
	switch c {
	case CommandCreate:
		return "CREATE"
	case CommandUse:
		return "USE"
	case CommandIgnore:
		return "IGNORE"
	default:
		return "DEFAULT"
	}
}

// ParseCommand accepts the bare constant ("CREATE") or any qualified form
// ending in it ("FormData.SdkCommand.CREATE"). Blank input is DEFAULT.
func ParseCommand(raw string) (Command, error) {
	name := strings.TrimSpace(raw)
	if idx := strings.LastIndexByte(name, '.'); idx >= 0 {
		name = name[idx+1:]
	}
	switch strings.ToUpper(name) {
	case "", "DEFAULT":
		return CommandDefault, nil
	case "CREATE":
		return CommandCreate, nil
	case "USE":
		return CommandUse, nil
	case "IGNORE":
		return CommandIgnore, nil
	default:
		return CommandDefault, fmt.Errorf("unknown command %q", raw)
	}
}

// ParseSubtypeCommand is ParseCommand restricted to CREATE, IGNORE and
// DEFAULT.
func ParseSubtypeCommand(raw string) (Command, error) {
	cmd, err := ParseCommand(raw)
	if err != nil {
		return CommandDefault, err
	}
	if cmd == CommandUse {
		return CommandDefault, fmt.Errorf("command %q is not a valid subtype command", raw)
	}
	return cmd, nil
}
