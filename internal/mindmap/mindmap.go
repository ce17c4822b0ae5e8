// Package mindmap holds the mind map document edited by thinkmap authors:
// labelled nodes, edges between them and the essay the map supports.
//
// The same type is used by the CLI session (local working copy) and by
// thinkmapd (persisted document), so invariants are enforced here rather
// than in either binary.
package mindmap

import (
	"errors"
	"fmt"
	"slices"
	"time"

	"github.com/concave-dev/thinkmap/internal/validate"
)

var (
	ErrNodeExists   = errors.New("node already exists")
	ErrNodeNotFound = errors.New("node not found")
	ErrEdgeExists   = errors.New("edge already exists")
	ErrEdgeNotFound = errors.New("edge not found")
	ErrSelfLoop     = errors.New("node cannot be connected to itself")
)

// Node is a labelled idea on the map.
type Node struct {
	ID    string `json:"id"`
	Label string `json:"label"`
}

// Edge links two nodes. Source and Target record the direction the author
// drew it in; a pair is only allowed once regardless of direction.
type Edge struct {
	Source string `json:"source"`
	Target string `json:"target"`
}

// Matches reports whether e links a and b in either direction.
func (e Edge) Matches(a, b string) bool {
	return (e.Source == a && e.Target == b) || (e.Source == b && e.Target == a)
}

func (e Edge) String() string {
	return e.Source + " -> " + e.Target
}

// Map is a mind map document.
type Map struct {
	ID        string    `json:"id"`
	Owner     string    `json:"owner,omitempty"`
	Title     string    `json:"title"`
	Essay     string    `json:"essay"`
	Nodes     []Node    `json:"nodes"`
	Edges     []Edge    `json:"edges"`
	Version   int       `json:"version"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// New returns an empty map with the given id and title.
func New(id, title string) *Map {
	return &Map{
		ID:    id,
		Title: title,
		Nodes: []Node{},
		Edges: []Edge{},
	}
}

// Node returns the node with the given id.
func (m *Map) Node(id string) (Node, bool) {
	i := m.nodeIndex(id)
	if i < 0 {
		return Node{}, false
	}
	return m.Nodes[i], true
}

func (m *Map) nodeIndex(id string) int {
	return slices.IndexFunc(m.Nodes, func(n Node) bool { return n.ID == id })
}

func (m *Map) edgeIndex(a, b string) int {
	return slices.IndexFunc(m.Edges, func(e Edge) bool { return e.Matches(a, b) })
}

// HasEdge reports whether a and b are connected in either direction.
func (m *Map) HasEdge(a, b string) bool {
	return m.edgeIndex(a, b) >= 0
}

// AddNode adds a node. The id must satisfy validate.NodeIDFormat.
func (m *Map) AddNode(id, label string) error {
	if err := validate.NodeIDFormat(id); err != nil {
		return err
	}
	if m.nodeIndex(id) >= 0 {
		return fmt.Errorf("%w: %s", ErrNodeExists, id)
	}
	m.Nodes = append(m.Nodes, Node{ID: id, Label: label})
	return nil
}

// UpdateNode replaces a node's label and returns the previous one.
func (m *Map) UpdateNode(id, label string) (string, error) {
	i := m.nodeIndex(id)
	if i < 0 {
		return "", fmt.Errorf("%w: %s", ErrNodeNotFound, id)
	}
	prev := m.Nodes[i].Label
	m.Nodes[i].Label = label
	return prev, nil
}

// RemoveNode deletes a node and every edge touching it. The removed node and
// edges are returned so callers can describe the change.
func (m *Map) RemoveNode(id string) (Node, []Edge, error) {
	i := m.nodeIndex(id)
	if i < 0 {
		return Node{}, nil, fmt.Errorf("%w: %s", ErrNodeNotFound, id)
	}
	removed := m.Nodes[i]
	m.Nodes = slices.Delete(m.Nodes, i, i+1)

	var dropped []Edge
	m.Edges = slices.DeleteFunc(m.Edges, func(e Edge) bool {
		if e.Source == id || e.Target == id {
			dropped = append(dropped, e)
			return true
		}
		return false
	})
	return removed, dropped, nil
}

// Connect adds an edge from source to target.
func (m *Map) Connect(source, target string) error {
	if source == target {
		return fmt.Errorf("%w: %s", ErrSelfLoop, source)
	}
	for _, id := range []string{source, target} {
		if m.nodeIndex(id) < 0 {
			return fmt.Errorf("%w: %s", ErrNodeNotFound, id)
		}
	}
	if m.HasEdge(source, target) {
		return fmt.Errorf("%w: %s -> %s", ErrEdgeExists, source, target)
	}
	m.Edges = append(m.Edges, Edge{Source: source, Target: target})
	return nil
}

// Disconnect removes the edge between a and b, in whichever direction it was
// drawn.
func (m *Map) Disconnect(a, b string) error {
	i := m.edgeIndex(a, b)
	if i < 0 {
		return fmt.Errorf("%w: %s -> %s", ErrEdgeNotFound, a, b)
	}
	m.Edges = slices.Delete(m.Edges, i, i+1)
	return nil
}

// SetEssay replaces the essay text and returns the previous text.
func (m *Map) SetEssay(text string) string {
	prev := m.Essay
	m.Essay = text
	return prev
}

// EdgesSnapshot returns a copy of the current edge list.
func (m *Map) EdgesSnapshot() []Edge {
	return slices.Clone(m.Edges)
}

// Clone returns a deep copy of m.
func (m *Map) Clone() *Map {
	c := *m
	c.Nodes = slices.Clone(m.Nodes)
	c.Edges = slices.Clone(m.Edges)
	if c.Nodes == nil {
		c.Nodes = []Node{}
	}
	if c.Edges == nil {
		c.Edges = []Edge{}
	}
	return &c
}

// Validate checks the structural invariants of a map received from a client:
// valid unique node ids, edges between existing nodes, no self loops and no
// duplicate pairs.
func (m *Map) Validate() error {
	if err := validate.MapTitle(m.Title); err != nil {
		return err
	}

	seen := make(map[string]struct{}, len(m.Nodes))
	for _, n := range m.Nodes {
		if err := validate.NodeIDFormat(n.ID); err != nil {
			return err
		}
		if _, dup := seen[n.ID]; dup {
			return fmt.Errorf("%w: %s", ErrNodeExists, n.ID)
		}
		seen[n.ID] = struct{}{}
	}

	return ValidateEdges(m.Edges, seen)
}

// ValidateEdges checks an edge list against a set of node ids.
func ValidateEdges(edges []Edge, nodes map[string]struct{}) error {
	pairs := make(map[[2]string]struct{}, len(edges))
	for _, e := range edges {
		if e.Source == e.Target {
			return fmt.Errorf("%w: %s", ErrSelfLoop, e.Source)
		}
		for _, id := range []string{e.Source, e.Target} {
			if _, ok := nodes[id]; !ok {
				return fmt.Errorf("edge %s: %w: %s", e, ErrNodeNotFound, id)
			}
		}
		key := [2]string{min(e.Source, e.Target), max(e.Source, e.Target)}
		if _, dup := pairs[key]; dup {
			return fmt.Errorf("%w: %s", ErrEdgeExists, e)
		}
		pairs[key] = struct{}{}
	}
	return nil
}

// NodeSet returns the set of node ids in m.
func (m *Map) NodeSet() map[string]struct{} {
	set := make(map[string]struct{}, len(m.Nodes))
	for _, n := range m.Nodes {
		set[n.ID] = struct{}{}
	}
	return set
}
