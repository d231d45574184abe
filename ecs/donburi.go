package ecs

import (
	"slices"

	"github.com/phanxgames/sprig"

	"github.com/yohamta/donburi"
	"github.com/yohamta/donburi/features/events"
)

// InteractionEventType carries clicks, state and focus changes, widget value
// changes and phase switches into a Donburi world.
var InteractionEventType = events.NewEventType[sprig.InteractionEvent]()

// worldStore queues every event a sprig Context emits on one world.
type worldStore struct {
	world donburi.World
}

// NewDonburiStore returns a store to assign to sprig.Context.Store. Events
// stay queued until the world's systems call ProcessEvents, so handlers run
// inside the ECS update rather than in the middle of a sprig tick.
func NewDonburiStore(world donburi.World) sprig.EntityStore {
	return &worldStore{world: world}
}

func (s *worldStore) EmitEvent(ev sprig.InteractionEvent) {
	InteractionEventType.Publish(s.world, ev)
}

// SubscribeTypes calls fn for events of the listed kinds only.
func SubscribeTypes(world donburi.World, fn func(donburi.World, sprig.InteractionEvent), types ...sprig.EventType) {
	InteractionEventType.Subscribe(world, func(w donburi.World, ev sprig.InteractionEvent) {
		if slices.Contains(types, ev.Type) {
			fn(w, ev)
		}
	})
}

// SubscribeElement calls fn for events raised by elements named name. Phase
// switches carry the name of the phase being left and match it too.
func SubscribeElement(world donburi.World, name string, fn func(donburi.World, sprig.InteractionEvent)) {
	InteractionEventType.Subscribe(world, func(w donburi.World, ev sprig.InteractionEvent) {
		if ev.Name == name {
			fn(w, ev)
		}
	})
}
