package council

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/councilos/councilos/internal/models"
)

func TestRouteNext(t *testing.T) {
	reworkEdge := conditionalEdge("e1", "critic", "master", "rework")
	approveEdge := conditionalEdge("e2", "critic", "done", "approve")
	toEditor := linearEdge("e3", "writer", "editor")

	tests := []struct {
		name   string
		signal string
		group  *EdgeGroup
		want   string
	}{
		{
			name:   "terminal node has no group",
			signal: "approve",
			group:  nil,
			want:   EndMarker,
		},
		{
			name:   "condition match wins",
			signal: "approve",
			group:  &EdgeGroup{Conditional: []models.BlueprintEdge{reworkEdge, approveEdge}},
			want:   "done",
		},
		{
			name:   "no match falls back to linear",
			signal: "",
			group:  &EdgeGroup{Linear: []models.BlueprintEdge{toEditor}, Conditional: []models.BlueprintEdge{approveEdge}},
			want:   "editor",
		},
		{
			name:   "no match and no linear defaults to first conditional",
			signal: "something-else",
			group:  &EdgeGroup{Conditional: []models.BlueprintEdge{reworkEdge, approveEdge}},
			want:   "master",
		},
		{
			name:   "empty group ends the run",
			signal: "rework",
			group:  &EdgeGroup{},
			want:   EndMarker,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, routeNext(tt.signal, tt.group))
		})
	}
}
