package models

import (
	"time"
)

// AgentTools flags which tool capabilities a blueprint node may use.
type AgentTools struct {
	WebSearch bool `json:"webSearch"`
	PDFReader bool `json:"pdfReader"`
}

// BlueprintNode is one agent node in a council blueprint. Position is layout
// metadata from the frontend canvas and is ignored by the engine.
type BlueprintNode struct {
	ID           string         `json:"id"`
	Label        string         `json:"label"`
	SystemPrompt string         `json:"systemPrompt"`
	Model        string         `json:"model"`
	Tools        AgentTools     `json:"tools"`
	Position     map[string]any `json:"position,omitempty"`
}

// Edge kinds. A conditional edge carries the condition label the router
// matches against the routing signal.
const (
	EdgeLinear      = "linear"
	EdgeConditional = "conditional"
)

// BlueprintEdge is a directed edge between two blueprint nodes.
type BlueprintEdge struct {
	ID        string `json:"id"`
	Source    string `json:"source"`
	Target    string `json:"target"`
	Type      string `json:"type"`
	Condition string `json:"condition,omitempty"`
}

// Blueprint is the declarative council graph created in the setup UI and
// stored as JSON in PostgreSQL.
type Blueprint struct {
	ID        string          `json:"id" db:"id"`
	Version   int             `json:"version" db:"version"`
	Name      string          `json:"name" db:"name"`
	Nodes     []BlueprintNode `json:"nodes" db:"nodes"`
	Edges     []BlueprintEdge `json:"edges" db:"edges"`
	CreatedAt time.Time       `json:"createdAt" db:"created_at"`
	UpdatedAt time.Time       `json:"updatedAt" db:"updated_at"`
}
