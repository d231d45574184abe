// Package ecs provides ECS adapters for sprig's interaction events.
//
// The primary adapter is [NewDonburiStore], which bridges sprig interaction
// events (click, state change, focus, value change, phase change) into a
// [Donburi] world as typed events. Subscribe to [InteractionEventType] in
// your ECS systems to receive them, or filter by kind with [SubscribeTypes]
// and by element name with [SubscribeElement].
//
// Usage:
//
//	world := donburi.NewWorld()
//	ctx.Store = ecs.NewDonburiStore(world)
//
// [Donburi]: https://github.com/yohamta/donburi
package ecs
