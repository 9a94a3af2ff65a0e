package core

// Action represents a semantic game action, abstracted from physical key
// presses. The paddle actions carry the player side so one frame can hold
// input for both players on a shared keyboard.
type Action int

const (
	ActionNone   Action = iota
	ActionP1Up          // W - left paddle up
	ActionP1Down        // S - left paddle down
	ActionP2Up          // Up arrow - right paddle up
	ActionP2Down        // Down arrow - right paddle down
	ActionStart         // Space - start a new match after game over
	ActionPause         // P, Escape - pause/unpause
	ActionQuit          // Q, Ctrl+C - exit
)

// String returns a human-readable name for the action.
func (a Action) String() string {
	switch a {
	case ActionNone:
		return "None"
	case ActionP1Up:
		return "P1Up"
	case ActionP1Down:
		return "P1Down"
	case ActionP2Up:
		return "P2Up"
	case ActionP2Down:
		return "P2Down"
	case ActionStart:
		return "Start"
	case ActionPause:
		return "Pause"
	case ActionQuit:
		return "Quit"
	default:
		return "Unknown"
	}
}

// InputFrame represents the input state for a single simulation tick.
// It contains all actions that were triggered during this frame.
type InputFrame struct {
	// Actions maps action types to whether they were triggered this frame.
	Actions map[Action]bool
}

// NewInputFrame creates an empty input frame.
func NewInputFrame() InputFrame {
	return InputFrame{
		Actions: make(map[Action]bool),
	}
}

// Set marks an action as triggered for this frame.
func (f *InputFrame) Set(a Action) {
	if f.Actions == nil {
		f.Actions = make(map[Action]bool)
	}
	f.Actions[a] = true
}

// Has returns true if the given action was triggered this frame.
func (f InputFrame) Has(a Action) bool {
	if f.Actions == nil {
		return false
	}
	return f.Actions[a]
}

// Clear resets all actions for the next frame.
func (f *InputFrame) Clear() {
	for k := range f.Actions {
		delete(f.Actions, k)
	}
}

// Clone creates a copy of this input frame.
func (f InputFrame) Clone() InputFrame {
	clone := NewInputFrame()
	for k, v := range f.Actions {
		clone.Actions[k] = v
	}
	return clone
}
