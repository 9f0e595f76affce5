package helpers

import (
	"encoding/json"

	"github.com/councilos/councilos/internal/models"
)

// TestUser represents a test user fixture
type TestUser struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Default test fixtures
var DefaultTestUser = TestUser{
	Email:    "test@example.com",
	Password: "test-password-123",
}

// WriterEditorBlueprint is a two-node linear council: a writer drafts and an
// editor polishes.
func WriterEditorBlueprint() *models.Blueprint {
	return &models.Blueprint{
		Name: "Writer and Editor",
		Nodes: []models.BlueprintNode{
			{
				ID:           "writer",
				Label:        "Writer",
				SystemPrompt: "You are a staff writer. Draft an article on the topic.",
				Model:        "gpt-4o",
			},
			{
				ID:           "editor",
				Label:        "Editor",
				SystemPrompt: "You are an editor. Polish the draft for clarity.",
				Model:        "gpt-4o",
			},
		},
		Edges: []models.BlueprintEdge{
			{ID: "e1", Source: "writer", Target: "editor", Type: models.EdgeLinear},
		},
	}
}

// RefinementBlueprint is a writer/critic loop: the critic scores each draft
// and routes it back for rework until it approves.
func RefinementBlueprint() *models.Blueprint {
	return &models.Blueprint{
		Name: "Refinement Council",
		Nodes: []models.BlueprintNode{
			{
				ID:           "writer",
				Label:        "Writer",
				SystemPrompt: "You are a staff writer. Draft an article on the topic.",
				Model:        "gpt-4o",
			},
			{
				ID:           "critic",
				Label:        "Critic",
				SystemPrompt: "You are a strict critic. Score the draft.",
				Model:        "claude-3-5-sonnet",
			},
			{
				ID:           "publisher",
				Label:        "Publisher",
				SystemPrompt: "You are a publisher. Format the final article.",
				Model:        "gpt-4o",
			},
		},
		Edges: []models.BlueprintEdge{
			{ID: "e1", Source: "writer", Target: "critic", Type: models.EdgeLinear},
			{ID: "e2", Source: "critic", Target: "writer", Type: models.EdgeConditional, Condition: "rework"},
			{ID: "e3", Source: "critic", Target: "publisher", Type: models.EdgeConditional, Condition: "approve"},
		},
	}
}

// ToJSON converts a fixture to JSON string
func ToJSON(fixture interface{}) string {
	data, _ := json.Marshal(fixture)
	return string(data)
}

// CreateTestLoginRequest creates a login request payload
func CreateTestLoginRequest(email, password string) map[string]interface{} {
	return map[string]interface{}{
		"email":    email,
		"password": password,
	}
}

// CreateTestBlueprintRequest creates a blueprint creation request payload
func CreateTestBlueprintRequest(bp *models.Blueprint) map[string]interface{} {
	return map[string]interface{}{
		"name":  bp.Name,
		"nodes": bp.Nodes,
		"edges": bp.Edges,
	}
}

// CreateStartRunRequest creates a run start request payload
func CreateStartRunRequest(topic, mode string) map[string]interface{} {
	return map[string]interface{}{
		"topic": topic,
		"mode":  mode,
	}
}
