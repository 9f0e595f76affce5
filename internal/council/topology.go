package council

import (
	"fmt"

	"github.com/councilos/councilos/internal/models"
)

// EdgeGroup is the outgoing edges of one node, split by kind. Conditional
// edges keep blueprint declaration order; the first one doubles as the
// last-resort routing default.
type EdgeGroup struct {
	Linear      []models.BlueprintEdge
	Conditional []models.BlueprintEdge
}

// Topology is the validated shape of a blueprint: its entry node, terminal
// nodes and per-source edge groups.
type Topology struct {
	Entry         string
	Terminals     []string
	EdgesBySource map[string]*EdgeGroup
}

// IsTerminal reports whether a node has no outgoing edges.
func (t *Topology) IsTerminal(nodeID string) bool {
	for _, id := range t.Terminals {
		if id == nodeID {
			return true
		}
	}
	return false
}

// BuildTopology validates a blueprint and infers its traversal shape.
//
// The entry node is the node with no incoming edge. When every node has one
// (a pure cycle), the first node in declaration order is used — a deliberate
// fallback so cyclic councils remain runnable, not an error. Terminal nodes
// are all nodes without outgoing edges.
func BuildTopology(bp *models.Blueprint) (*Topology, error) {
	if len(bp.Nodes) == 0 {
		return nil, ErrEmptyBlueprint
	}

	known := make(map[string]bool, len(bp.Nodes))
	for _, n := range bp.Nodes {
		if known[n.ID] {
			return nil, fmt.Errorf("%w: %q", ErrDuplicateNode, n.ID)
		}
		known[n.ID] = true
	}

	targets := make(map[string]bool, len(bp.Edges))
	sources := make(map[string]bool, len(bp.Edges))
	edgesBySource := make(map[string]*EdgeGroup)
	for _, e := range bp.Edges {
		if !known[e.Source] {
			return nil, fmt.Errorf("%w: edge %q source %q", ErrInvalidEdgeReference, e.ID, e.Source)
		}
		if !known[e.Target] {
			return nil, fmt.Errorf("%w: edge %q target %q", ErrInvalidEdgeReference, e.ID, e.Target)
		}
		targets[e.Target] = true
		sources[e.Source] = true

		group := edgesBySource[e.Source]
		if group == nil {
			group = &EdgeGroup{}
			edgesBySource[e.Source] = group
		}
		if e.Type == models.EdgeConditional {
			group.Conditional = append(group.Conditional, e)
		} else {
			group.Linear = append(group.Linear, e)
		}
	}

	entry := ""
	for _, n := range bp.Nodes {
		if !targets[n.ID] {
			entry = n.ID
			break
		}
	}
	if entry == "" {
		entry = bp.Nodes[0].ID
	}

	var terminals []string
	for _, n := range bp.Nodes {
		if !sources[n.ID] {
			terminals = append(terminals, n.ID)
		}
	}

	return &Topology{
		Entry:         entry,
		Terminals:     terminals,
		EdgesBySource: edgesBySource,
	}, nil
}
