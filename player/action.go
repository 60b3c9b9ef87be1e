// Package player threads the phase graph and the transition scheduler
// through the fixed-rate tick.
package player

// Kind of an input action.
type Kind int

const (
	Next Kind = iota
	Previous
	JumpNext
	JumpPrevious
	Trigger
	Sound
	Fullscreen
	Controls
	Quit
)

func (k Kind) String() string {
	switch k {
	case Next:
		return "next"
	case Previous:
		return "previous"
	case JumpNext:
		return "jump_next"
	case JumpPrevious:
		return "jump_previous"
	case Trigger:
		return "trigger"
	case Sound:
		return "sound"
	case Fullscreen:
		return "fullscreen"
	case Controls:
		return "controls"
	case Quit:
		return "quit"
	default:
		return "unknown"
	}
}

// Navigates reports whether the action moves between phases.
func (k Kind) Navigates() bool {
	switch k {
	case Next, Previous, JumpNext, JumpPrevious, Trigger:
		return true
	default:
		return false
	}
}

// Action is one input event of a tick. Key is the configured trigger key for
// Trigger actions; Name is the sound effect for Sound actions.
type Action struct {
	Kind Kind
	Key  string
	Name string
}
