// Package ecs bridges kiosk gesture events into an ECS world.
//
// [NewDonburiStore] publishes every event the hub fires (move, click,
// frameCount) to [GestureEventType] in a [Donburi] world, so systems can
// react to hand input without subscribing to the hub themselves.
//
// Usage:
//
//	store := ecs.NewDonburiStore(world)
//	stage.Hub().SetEntityStore(store)
//
// [Donburi]: https://github.com/yohamta/donburi
package ecs
