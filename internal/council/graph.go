package council

import (
	"github.com/councilos/councilos/internal/models"
)

// Graph is a compiled blueprint: executable steps plus the validated
// topology. It holds no per-run state and may be reused across runs of the
// same blueprint.
type Graph struct {
	Name     string
	steps    map[string]Step
	topology *Topology
}

// Compile validates a blueprint and compiles every node into a step.
func Compile(bp *models.Blueprint, deps Deps) (*Graph, error) {
	topo, err := BuildTopology(bp)
	if err != nil {
		return nil, err
	}

	steps := make(map[string]Step, len(bp.Nodes))
	for _, node := range bp.Nodes {
		steps[node.ID] = CompileStep(node, deps)
	}

	return &Graph{
		Name:     bp.Name,
		steps:    steps,
		topology: topo,
	}, nil
}

// Entry returns the inferred entry node id.
func (g *Graph) Entry() string { return g.topology.Entry }

// Terminals returns the inferred terminal node ids.
func (g *Graph) Terminals() []string { return g.topology.Terminals }

// NodeIDs returns the ids of all compiled steps.
func (g *Graph) NodeIDs() []string {
	ids := make([]string, 0, len(g.steps))
	for id := range g.steps {
		ids = append(ids, id)
	}
	return ids
}
