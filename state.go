package panocube

// State is a stage of one conversion.
type State uint8

// Conversion states.
const (
	StateIdle State = iota
	StateValidating
	StateProjecting
	StateTiling
	StateSkipped
	StateComposing
	StateDone
	StateFailed
)

var stateNames = [...]string{
	StateIdle:       "Idle",
	StateValidating: "Validating",
	StateProjecting: "Projecting",
	StateTiling:     "Tiling",
	StateSkipped:    "Skipped",
	StateComposing:  "Composing",
	StateDone:       "Done",
	StateFailed:     "Failed",
}

// String returns the state name.
func (s State) String() string {
	if int(s) < len(stateNames) {
		return stateNames[s]
	}
	return "Unknown"
}

// IsTerminal reports whether no further transition can follow s.
func (s State) IsTerminal() bool {
	return s == StateDone || s == StateFailed
}

// StateObserver is called on every state transition of a conversion.
// It runs on the converting goroutine and must not block.
type StateObserver func(from, to State)

// Mode selects which outputs a conversion produces.
type Mode uint8

// Conversion modes.
const (
	ModeCube Mode = iota
	ModeTiles
	ModeCubeAndTiles
)

// String returns the mode name used on the command line.
func (m Mode) String() string {
	switch m {
	case ModeCube:
		return "cube"
	case ModeTiles:
		return "tiles"
	case ModeCubeAndTiles:
		return "all"
	default:
		return "unknown"
	}
}

// Cube reports whether the mode emits cube face images.
func (m Mode) Cube() bool {
	return m == ModeCube || m == ModeCubeAndTiles
}

// Tiles reports whether the mode emits a tile pyramid.
func (m Mode) Tiles() bool {
	return m == ModeTiles || m == ModeCubeAndTiles
}

// transition records a state change for one run.
type transition struct {
	state    State
	observer StateObserver
}

// to moves the run to next and notifies the observer.
func (t *transition) to(next State) {
	prev := t.state
	t.state = next
	Logger().Debug("panocube: state", "from", prev.String(), "to", next.String())
	if t.observer != nil {
		t.observer(prev, next)
	}
}
