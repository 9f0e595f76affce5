package council

// EventListener receives run lifecycle events from the executor. Callers
// use it to mirror run progress into stores, metrics and the websocket
// stream; implementations must not block for long.
type EventListener interface {
	NodeActive(runID, nodeID string, iteration int)
	RunPaused(runID string, nextNodes []string, snapshot *State)
	RunResumed(runID string)
	RunCompleted(runID string, final *State)
	RunFailed(runID string, err error)
}

// NopListener discards all events.
type NopListener struct{}

func (NopListener) NodeActive(string, string, int)     {}
func (NopListener) RunPaused(string, []string, *State) {}
func (NopListener) RunResumed(string)                  {}
func (NopListener) RunCompleted(string, *State)        {}
func (NopListener) RunFailed(string, error)            {}
