// Package kiosk is a gesture-driven scene engine for [Ebitengine] exhibit
// applications.
//
// A hand tracker reports normalized positions; the engine turns them into
// move, click and frameCount events, routes clicks to on-screen controls, and
// runs one full-screen scene at a time.
//
// # Quick start
//
//	stage := kiosk.NewStage(kiosk.StageConfig{
//		Width: 1920, Height: 1080, Assets: os.DirFS("public"),
//	})
//	stage.Manager().Register("Memory", memory.New(memory.DefaultConfig()))
//	stage.AddSource(tracking.NewWebSocketSource())
//	stage.Manager().Switch(ctx, "Memory")
//	kiosk.Run(stage, kiosk.RunConfig{Title: "Exhibit", Fullscreen: true})
//
// # Scenes
//
// A [Scene] is built by a [SceneFactory] from shared [Deps] and driven by the
// [SceneManager]: Init, then Update every tick, then Destroy. A switch
// destroys the previous scene completely before the next one is built, so
// only one scene's hub subscriptions and timers are ever live.
//
// # Input
//
// Tracking sources feed [GestureSample] values into the [Hub], which fans
// each one out as move, click (when classified) and frameCount events.
// [ResolveClick] maps a normalized click onto the node tree: buttons are
// activated and cards report their index. Mouse and touch clicks reach the
// same [Node.OnClick] handlers through the [Stage].
//
// # Timers
//
// [Clock] advances only when the stage ticks, so timer callbacks run on the
// game loop between input dispatches. Scenes scope timers with a
// [TimerGroup] and stop them all on exit.
//
// # Assets and styles
//
// [AssetCache] loads PNG and WebP images once per key and shares them across
// scenes. [Styles] holds YAML style sheets a scene attaches for its lifetime.
//
// [Ebitengine]: https://ebitengine.org
package kiosk
