package batching

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/concave-dev/thinkmap/internal/mindmap"
)

// Describe returns a one-line description of op. The second result is false
// for actions the batcher does not know how to describe.
func Describe(op mindmap.Operation) (string, bool) {
	switch op.Action {
	case mindmap.ActionAddNode:
		return fmt.Sprintf("added node %s %q", op.NodeID, op.Label), true
	case mindmap.ActionEditNode:
		if op.Previous != "" {
			return fmt.Sprintf("relabelled node %s from %q to %q", op.NodeID, op.Previous, op.Label), true
		}
		return fmt.Sprintf("relabelled node %s to %q", op.NodeID, op.Label), true
	case mindmap.ActionDeleteNode:
		return fmt.Sprintf("deleted node %s", op.NodeID), true
	case mindmap.ActionConnect:
		return fmt.Sprintf("connected %s -> %s", op.Source, op.Target), true
	case mindmap.ActionDisconnect:
		return fmt.Sprintf("disconnected %s -> %s", op.Source, op.Target), true
	case mindmap.ActionEditEssay:
		return fmt.Sprintf("edited the essay (%d characters)", utf8.RuneCountInString(op.Label)), true
	}
	return "", false
}

// Summarize builds the human-readable batch summary. The count covers every
// operation in the batch; unknown actions are left out of the list.
func Summarize(batch []mindmap.Operation) string {
	var b strings.Builder
	b.WriteString(countLabel(len(batch)))

	for _, op := range batch {
		desc, ok := Describe(op)
		if !ok {
			continue
		}
		b.WriteString("\n- ")
		b.WriteString(desc)
	}
	return b.String()
}

// LastSnapshot returns the edge snapshot of the last connect operation in
// the batch that carries one, or nil.
func LastSnapshot(batch []mindmap.Operation) []mindmap.Edge {
	for i := len(batch) - 1; i >= 0; i-- {
		op := batch[i]
		if op.Action == mindmap.ActionConnect && op.Snapshot != nil {
			return op.Snapshot
		}
	}
	return nil
}

// CleanBatch returns copies of the operations without transient fields.
func CleanBatch(batch []mindmap.Operation) []mindmap.Operation {
	cleaned := make([]mindmap.Operation, len(batch))
	for i, op := range batch {
		cleaned[i] = op.Clean()
	}
	return cleaned
}
