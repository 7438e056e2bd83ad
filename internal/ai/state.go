package ai

// State is the monster behavior state.
type State int

const (
	// StateStationary is the initial state: the monster holds position at
	// or near its spawn.
	StateStationary State = iota

	// StateChasing means the monster is actively pursuing its target.
	StateChasing

	// StateReturning means the monster is walking back to its spawn point.
	StateReturning
)

// String returns the state name for logs.
func (s State) String() string {
	switch s {
	case StateStationary:
		return "stationary"
	case StateChasing:
		return "chasing"
	case StateReturning:
		return "returning"
	default:
		return "unknown"
	}
}
