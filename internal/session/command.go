package session

import (
	"fmt"
	"strings"

	"github.com/concave-dev/thinkmap/internal/mindmap"
)

// CommandKind classifies a line typed in an edit session.
type CommandKind int

const (
	CommandEmpty CommandKind = iota
	CommandEdit
	CommandFlush
	CommandStatus
	CommandShow
	CommandHelp
	CommandQuit
)

// Command is a parsed session line. Op is set for CommandEdit.
type Command struct {
	Kind CommandKind
	Op   mindmap.Operation
}

// Help lists the session commands.
const Help = `Commands:
  add ID LABEL          add a node
  label ID LABEL        relabel a node
  rm ID                 delete a node and its connections
  connect A B           connect two nodes
  disconnect A B        remove a connection
  essay TEXT            replace the essay text
  flush                 request feedback now
  status                show queued changes and feedback
  show                  print the map
  help                  show this help
  quit                  flush and exit`

// ParseCommand parses one session line.
func ParseCommand(line string) (Command, error) {
	line = strings.TrimSpace(line)
	if line == "" || strings.HasPrefix(line, "#") {
		return Command{Kind: CommandEmpty}, nil
	}

	name, rest, _ := strings.Cut(line, " ")
	rest = strings.TrimSpace(rest)
	args := strings.Fields(rest)

	edit := func(op mindmap.Operation) (Command, error) {
		return Command{Kind: CommandEdit, Op: op}, nil
	}

	switch strings.ToLower(name) {
	case "add":
		if len(args) < 1 {
			return Command{}, fmt.Errorf("usage: add ID LABEL")
		}
		label := strings.TrimSpace(strings.TrimPrefix(rest, args[0]))
		if label == "" {
			label = args[0]
		}
		return edit(mindmap.Operation{Action: mindmap.ActionAddNode, NodeID: args[0], Label: label})

	case "label":
		if len(args) < 2 {
			return Command{}, fmt.Errorf("usage: label ID LABEL")
		}
		label := strings.TrimSpace(strings.TrimPrefix(rest, args[0]))
		return edit(mindmap.Operation{Action: mindmap.ActionEditNode, NodeID: args[0], Label: label})

	case "rm", "delete":
		if len(args) != 1 {
			return Command{}, fmt.Errorf("usage: rm ID")
		}
		return edit(mindmap.Operation{Action: mindmap.ActionDeleteNode, NodeID: args[0]})

	case "connect", "disconnect":
		if len(args) != 2 {
			return Command{}, fmt.Errorf("usage: %s A B", name)
		}
		action := mindmap.ActionConnect
		if strings.ToLower(name) == "disconnect" {
			action = mindmap.ActionDisconnect
		}
		return edit(mindmap.Operation{Action: action, Source: args[0], Target: args[1]})

	case "essay":
		return edit(mindmap.Operation{Action: mindmap.ActionEditEssay, Label: rest})

	case "flush":
		return Command{Kind: CommandFlush}, nil
	case "status":
		return Command{Kind: CommandStatus}, nil
	case "show":
		return Command{Kind: CommandShow}, nil
	case "help", "?":
		return Command{Kind: CommandHelp}, nil
	case "quit", "exit", "q":
		return Command{Kind: CommandQuit}, nil
	}

	return Command{}, fmt.Errorf("unknown command %q (type help)", name)
}
