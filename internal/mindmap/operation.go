package mindmap

import (
	"fmt"
	"time"
)

// Action names an edit made to a map.
type Action string

const (
	ActionAddNode    Action = "add_node"
	ActionEditNode   Action = "edit_node"
	ActionDeleteNode Action = "delete_node"
	ActionConnect    Action = "connect"
	ActionDisconnect Action = "disconnect"
	ActionEditEssay  Action = "edit_essay"
)

// Known reports whether a is one of the defined actions.
func (a Action) Known() bool {
	switch a {
	case ActionAddNode, ActionEditNode, ActionDeleteNode,
		ActionConnect, ActionDisconnect, ActionEditEssay:
		return true
	}
	return false
}

// Operation records one edit. Snapshot is only set on connect operations and
// carries the edge list right after the edit; it drives a save before
// feedback and is stripped before the operation leaves the client.
type Operation struct {
	Action   Action    `json:"action"`
	NodeID   string    `json:"node_id,omitempty"`
	Source   string    `json:"source,omitempty"`
	Target   string    `json:"target,omitempty"`
	Label    string    `json:"label,omitempty"`
	Previous string    `json:"previous,omitempty"`
	At       time.Time `json:"at"`
	Snapshot []Edge    `json:"snapshot,omitempty"`
}

// Clean returns a copy of op without transient fields.
func (op Operation) Clean() Operation {
	op.Snapshot = nil
	return op
}

// Apply performs op against m. Unknown actions are rejected.
func (m *Map) Apply(op Operation) error {
	switch op.Action {
	case ActionAddNode:
		return m.AddNode(op.NodeID, op.Label)
	case ActionEditNode:
		_, err := m.UpdateNode(op.NodeID, op.Label)
		return err
	case ActionDeleteNode:
		_, _, err := m.RemoveNode(op.NodeID)
		return err
	case ActionConnect:
		return m.Connect(op.Source, op.Target)
	case ActionDisconnect:
		return m.Disconnect(op.Source, op.Target)
	case ActionEditEssay:
		m.SetEssay(op.Label)
		return nil
	default:
		return fmt.Errorf("unknown action %q", op.Action)
	}
}
