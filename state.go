package sprig

// State is the visual state of an element. It selects the art and font
// an element displays.
type State uint8

const (
	StateNormal   State = iota // default state
	StateHovered               // pointer over the hitbox
	StateFocused               // keyboard focus owner
	StateDisabled              // ignores interaction until enabled
	StateActive                // pressed (pointer or activate key held)
	StateEmpty                 // entry whose value is the empty string

	numStates
)

var stateNames = [numStates]string{"normal", "hovered", "focused", "disabled", "active", "empty"}

func (s State) String() string {
	if s < numStates {
		return stateNames[s]
	}
	return "unknown"
}

// stateEvent is an input to the element state machine.
type stateEvent uint8

const (
	evEnter   stateEvent = iota // pointer enters hitbox
	evLeave                     // pointer leaves hitbox
	evFocus                     // focus()
	evUnfocus                   // unfocus()
	evDisable                   // disable()
	evEnable                    // enable()
	evPress                     // press held on hit
	evRelease                   // press released

	numStateEvents
)

// noEdge marks a missing transition in stateTable.
const noEdge State = 0xFF

// stateTable lists every allowed edge. Entries that are noEdge do not exist;
// edges back to the same state are explicit no-ops.
//
// Focused+enter leads to Hovered as an overlay and Active+release leads back
// to the state recorded at press time; both are resolved by Element.fire.
var stateTable = func() (t [numStates][numStateEvents]State) {
	for s := range t {
		for e := range t[s] {
			t[s][e] = noEdge
		}
	}
	t[StateNormal][evEnter] = StateHovered
	t[StateNormal][evFocus] = StateFocused
	t[StateNormal][evDisable] = StateDisabled
	t[StateNormal][evPress] = StateActive

	t[StateHovered][evLeave] = StateNormal
	t[StateHovered][evFocus] = StateFocused
	t[StateHovered][evDisable] = StateDisabled
	t[StateHovered][evPress] = StateActive

	t[StateFocused][evEnter] = StateHovered
	t[StateFocused][evLeave] = StateFocused
	t[StateFocused][evUnfocus] = StateNormal
	t[StateFocused][evDisable] = StateDisabled
	t[StateFocused][evPress] = StateActive

	t[StateDisabled][evEnter] = StateDisabled
	t[StateDisabled][evLeave] = StateDisabled
	t[StateDisabled][evFocus] = StateDisabled
	t[StateDisabled][evUnfocus] = StateDisabled
	t[StateDisabled][evEnable] = StateNormal
	t[StateDisabled][evPress] = StateDisabled

	t[StateActive][evDisable] = StateDisabled
	t[StateActive][evRelease] = StateNormal
	return t
}()

// nextState looks up the edge for ev leaving from. ok is false when the edge
// does not exist.
func nextState(from State, ev stateEvent) (to State, ok bool) {
	if from >= numStates || ev >= numStateEvents {
		return from, false
	}
	to = stateTable[from][ev]
	if to == noEdge {
		return from, false
	}
	return to, true
}
