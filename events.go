package sprig

// EntityStore is the interface for optional ECS integration.
// When set on a Context, interaction events are forwarded to the ECS.
type EntityStore interface {
	EmitEvent(event InteractionEvent)
}

// EventType identifies an interaction event.
type EventType uint8

const (
	EventClick       EventType = iota // OnClick fired
	EventStateChange                  // visual state changed
	EventFocus                        // element gained focus
	EventUnfocus                      // element lost focus
	EventHoverEnter                   // pointer entered the hitbox
	EventHoverLeave                   // pointer left the hitbox
	EventValueChange                  // slider, checkbox or entry value changed
	EventPhaseChange                  // runnable switched phase
)

var eventTypeNames = [...]string{
	"click", "state_change", "focus", "unfocus",
	"hover_enter", "hover_leave", "value_change", "phase_change",
}

func (t EventType) String() string {
	if int(t) < len(eventTypeNames) {
		return eventTypeNames[t]
	}
	return "unknown"
}

// InteractionEvent carries interaction data for the ECS bridge.
type InteractionEvent struct {
	Type    EventType
	Element Handle
	Name    string
	// From and To are set for EventStateChange.
	From, To State
	X, Y     float64
	// Phase is set for EventPhaseChange.
	Phase string
}
