package room

import "fmt"

// State is the lifecycle stage of a room session.
type State int

const (
	// StateUninitialized is a registry with no surfaces.
	StateUninitialized State = iota
	// StateLoading is set while Build generates grids.
	StateLoading
	// StateReady permits queries.
	StateReady
	// StateBlockedForShuffle is set while ResetSceneUnderstanding restores
	// baselines and re-runs cross-blocking.
	StateBlockedForShuffle
)

func (s State) String() string {
	switch s {
	case StateUninitialized:
		return "uninitialized"
	case StateLoading:
		return "loading"
	case StateReady:
		return "ready"
	case StateBlockedForShuffle:
		return "blocked-for-shuffle"
	default:
		return fmt.Sprintf("State(%d)", int(s))
	}
}
