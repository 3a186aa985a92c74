package processor

import "fmt"

// State is the lifecycle stage of a Threaded engine; it only moves forward.
type State int

const (
	StateCreated = State(iota)
	StateInitialized
	StateRunning
	StateQuitting
	StateStopped
)

func (s State) String() string {
	switch s {
	case StateCreated:
		return "created"
	case StateInitialized:
		return "initialized"
	case StateRunning:
		return "running"
	case StateQuitting:
		return "quitting"
	case StateStopped:
		return "stopped"
	default:
		return fmt.Sprintf("unknown_state_%d", int(s))
	}
}
