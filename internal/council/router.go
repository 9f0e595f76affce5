package council

// EndMarker is the pseudo node id a router returns when the run should
// terminate.
const EndMarker = "__end__"

// routeNext resolves the next node for a source node's edge group given the
// routing signal the last step left in the state.
//
// Resolution order: condition label match, then the linear fallback target,
// then the first declared conditional edge, then the end marker.
func routeNext(signal string, group *EdgeGroup) string {
	if group == nil {
		return EndMarker
	}
	for _, e := range group.Conditional {
		if e.Condition == signal {
			return e.Target
		}
	}
	if len(group.Linear) > 0 {
		return group.Linear[0].Target
	}
	if len(group.Conditional) > 0 {
		return group.Conditional[0].Target
	}
	return EndMarker
}
