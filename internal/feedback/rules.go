package feedback

import (
	"context"
	"fmt"
	"strings"

	"github.com/concave-dev/thinkmap/internal/mindmap"
)

// RuleGenerator reviews a map with fixed structural heuristics. It is used
// when no LLM is configured and keeps the daemon usable offline.
type RuleGenerator struct{}

func (RuleGenerator) Name() string { return "rules" }

// Generate inspects the map structure and essay. Output is deterministic for
// a given map and request.
func (RuleGenerator) Generate(_ context.Context, m *mindmap.Map, req Request) (string, error) {
	var notes []string

	notes = append(notes, fmt.Sprintf("Reviewed %d change(s). Map has %d node(s) and %d connection(s).",
		len(req.Operations), len(m.Nodes), len(m.Edges)))

	if len(m.Nodes) == 0 {
		notes = append(notes, "The map is empty. Start with a node for your central claim.")
		return strings.Join(notes, "\n"), nil
	}

	degree := make(map[string]int, len(m.Nodes))
	for _, e := range m.Edges {
		degree[e.Source]++
		degree[e.Target]++
	}

	var isolated []string
	hub, hubDegree := "", 0
	for _, n := range m.Nodes {
		d := degree[n.ID]
		if d == 0 {
			isolated = append(isolated, n.ID)
		}
		if d > hubDegree {
			hub, hubDegree = n.ID, d
		}
	}
	if len(isolated) > 0 {
		notes = append(notes, fmt.Sprintf("Unconnected ideas: %s. Link them to the argument or remove them.",
			strings.Join(isolated, ", ")))
	}
	if hubDegree >= 3 {
		notes = append(notes, fmt.Sprintf("%q anchors %d connections; make sure the essay treats it as central.",
			hub, hubDegree))
	}

	essay := strings.ToLower(m.Essay)
	if strings.TrimSpace(essay) == "" {
		notes = append(notes, "No essay text yet. Turn the strongest connection into an opening paragraph.")
	} else {
		var missing []string
		for _, n := range m.Nodes {
			label := strings.ToLower(strings.TrimSpace(n.Label))
			if label != "" && !strings.Contains(essay, label) {
				missing = append(missing, n.Label)
			}
		}
		if len(missing) > 0 {
			notes = append(notes, fmt.Sprintf("The essay does not mention: %s.", strings.Join(missing, ", ")))
		}
	}

	if len(notes) == 1 {
		notes = append(notes, "Structure and essay are consistent. Consider adding counterarguments.")
	}
	return strings.Join(notes, "\n"), nil
}
