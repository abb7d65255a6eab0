// Package gesture distinguishes a tap from a press-and-hold on a swatch.
//
// A Machine is a pure state machine: callers feed it Start, End, Move and
// Elapsed events and arm their own timer (tea.Tick in the TUI). Each Start
// issues a new Token; an Elapsed for any other token is ignored, so a timer
// that outlives its press can never fire a hold.
package gesture

import "time"

// DefaultHold is how long a press must last before it counts as a hold.
const DefaultHold = 300 * time.Millisecond

// State is the machine's current phase.
type State int

const (
	Idle State = iota
	Pressed
	Fired
)

func (s State) String() string {
	switch s {
	case Idle:
		return "idle"
	case Pressed:
		return "pressed"
	case Fired:
		return "fired"
	default:
		return "unknown"
	}
}

// Outcome is what a released press amounted to.
type Outcome int

const (
	// None means the press was cancelled or already fired as a hold.
	None Outcome = iota
	// Tap means the press was released before the hold interval.
	Tap
)

// Token identifies one press.
type Token uint64

// Machine tracks a single pointer. The zero value is Idle and ready to use.
// Machine is not safe for concurrent use; see Timer.
type Machine struct {
	state State
	token Token
}

// State returns the current state.
func (m *Machine) State() State {
	return m.state
}

// Start begins a press and returns its token. A press that starts while
// another is in progress replaces it.
func (m *Machine) Start() Token {
	m.token++
	m.state = Pressed
	return m.token
}

// End releases the press. It is a Tap only if the hold never fired.
func (m *Machine) End() Outcome {
	outcome := None
	if m.state == Pressed {
		outcome = Tap
	}
	m.reset()
	return outcome
}

// Move cancels the press; neither a tap nor a hold will follow.
func (m *Machine) Move() {
	m.reset()
}

// Elapsed reports that the hold interval for token has passed.
// Returns true, moving to Fired, only for the live press.
func (m *Machine) Elapsed(token Token) bool {
	if m.state != Pressed || token != m.token {
		return false
	}
	m.state = Fired
	return true
}

func (m *Machine) reset() {
	m.state = Idle
	// Invalidate any armed timer for the old press.
	m.token++
}
