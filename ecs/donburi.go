package ecs

import (
	"github.com/phanxgames/kiosk"

	"github.com/yohamta/donburi"
	"github.com/yohamta/donburi/features/events"
)

// GestureEventType is the Donburi event type for kiosk gesture events.
var GestureEventType = events.NewEventType[kiosk.GestureEvent]()

type donburiStore struct {
	world donburi.World
}

// NewDonburiStore creates an EntityStore backed by a Donburi world. Events
// are queued on GestureEventType until the world processes them with
// ProcessEvents.
func NewDonburiStore(world donburi.World) kiosk.EntityStore {
	return &donburiStore{world: world}
}

func (s *donburiStore) EmitGesture(event kiosk.GestureEvent) {
	GestureEventType.Publish(s.world, event)
}
