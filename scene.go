package kiosk

import (
	"context"
	"time"

	"github.com/charmbracelet/log"
)

// Scene is an independently constructed and destroyed unit that owns one
// subtree of the stage, its timers and its hub subscriptions.
//
// Lifecycle, driven by SceneManager:
//  1. Construction (via SceneFactory)
//  2. Init(ctx) - load assets, build the subtree, subscribe to the hub
//  3. Update(dt) once per tick while active; Render whenever the scene's
//     screen changes
//  4. Destroy(ctx) - cancel timers, unsubscribe, detach the subtree
type Scene interface {
	// Init prepares the scene. No input is delivered before Init returns.
	Init(ctx context.Context) error

	// Update is the per-tick hook. Scenes with nothing to do may leave it empty.
	Update(dt time.Duration)

	// Render rebuilds the scene's subtree if its current screen differs from
	// the one last rendered.
	Render()

	// Destroy releases everything Init acquired. It must be safe after a
	// partial Init and idempotent.
	Destroy(ctx context.Context) error
}

// SceneFactory constructs a scene from the shared collaborators.
type SceneFactory func(deps Deps) Scene

// Switcher is the capability a scene gets for moving the application to
// another scene.
type Switcher interface {
	Switch(ctx context.Context, name string) error
}

// Deps are the shared collaborators handed to every scene.
type Deps struct {
	Assets   *AssetCache
	Input    *Hub
	Switcher Switcher
	Clock    *Clock
	Styles   *Styles
	// Layer is the stage node scenes attach their subtree to.
	Layer *Node
	// Viewport reports the current screen size in pixels.
	Viewport func() Viewport
	Logger   *log.Logger
}

// Subscriptions collects hub subscriptions so a scene can drop them all at once.
type Subscriptions []Subscription

// Add records sub.
func (s *Subscriptions) Add(sub Subscription) {
	*s = append(*s, sub)
}

// RemoveAll removes every recorded subscription.
func (s *Subscriptions) RemoveAll() {
	for _, sub := range *s {
		sub.Remove()
	}
	*s = (*s)[:0]
}
