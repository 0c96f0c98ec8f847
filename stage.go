package kiosk

import (
	"context"
	"io/fs"
	"sync/atomic"
	"time"

	"github.com/charmbracelet/log"
	"github.com/hajimehoshi/ebiten/v2"
)

// Source produces gesture samples for the stage. Poll is called once per
// tick on the game loop and appends every sample that arrived since the last
// call to dst, in arrival order.
type Source interface {
	Poll(dst []GestureSample) []GestureSample
}

// StageConfig configures a Stage.
type StageConfig struct {
	// Width and Height are the logical screen size in pixels.
	Width, Height int
	// Assets is the filesystem images and style sheets are read from.
	Assets fs.FS
	// ClearColor fills the screen before drawing. Zero leaves it black.
	ClearColor Color
	// DirectInput enables mouse and touch clicks on nodes.
	DirectInput bool
	Logger      *log.Logger
}

// syntheticPointerEvent is a queued direct pointer event in screen pixels.
type syntheticPointerEvent struct {
	x, y    float64
	pressed bool
}

// pointerState tracks one direct pointer between press and release.
type pointerState struct {
	down         bool
	touch        bool
	lastX, lastY float64
	hitNode      *Node
}

// Stage is the top-level ebiten.Game. It owns the node tree, the gesture
// hub, the clock, the asset cache and the scene manager, and runs one
// cooperative loop: poll tracking sources, publish samples, handle direct
// pointer input, advance timers, update the active scene.
type Stage struct {
	root       *Node
	sceneLayer *Node
	overlay    *Node

	hub     *Hub
	clock   *Clock
	assets  *AssetCache
	styles  *Styles
	manager *SceneManager
	logger  *log.Logger

	sources  []Source
	sampBuf  []GestureSample
	touchBuf []ebiten.TouchID

	vp          Viewport
	clearColor  Color
	directInput bool
	pointer     pointerState
	injectQueue []syntheticPointerEvent
	fps         *FPSWidget
	quit        atomic.Bool
}

// NewStage creates a stage with an empty scene layer and a manager wired to
// the stage's collaborators.
func NewStage(cfg StageConfig) *Stage {
	logger := cfg.Logger
	if logger == nil {
		logger = log.Default()
	}
	if cfg.Width <= 0 {
		cfg.Width = 1920
	}
	if cfg.Height <= 0 {
		cfg.Height = 1080
	}

	root := NewContainer("root")
	sceneLayer := NewContainer("scenes")
	overlay := NewContainer("overlay")
	overlay.ZIndex = 1
	root.AddChild(sceneLayer)
	root.AddChild(overlay)

	s := &Stage{
		root:        root,
		sceneLayer:  sceneLayer,
		overlay:     overlay,
		hub:         NewHub(),
		clock:       NewClock(),
		assets:      NewAssetCache(cfg.Assets, WithAssetLogger(logger)),
		styles:      &Styles{},
		logger:      logger,
		vp:          Viewport{Width: cfg.Width, Height: cfg.Height},
		clearColor:  cfg.ClearColor,
		directInput: cfg.DirectInput,
	}
	s.manager = NewSceneManager(Deps{
		Assets:   s.assets,
		Input:    s.hub,
		Clock:    s.clock,
		Styles:   s.styles,
		Layer:    s.sceneLayer,
		Viewport: s.Viewport,
		Logger:   logger,
	})
	return s
}

// Root returns the stage's root node.
func (s *Stage) Root() *Node { return s.root }

// SceneLayer returns the node scenes attach their subtrees to.
func (s *Stage) SceneLayer() *Node { return s.sceneLayer }

// Overlay returns a node drawn above every scene (debug widgets).
func (s *Stage) Overlay() *Node { return s.overlay }

// Hub returns the gesture hub.
func (s *Stage) Hub() *Hub { return s.hub }

// Clock returns the frame-driven clock.
func (s *Stage) Clock() *Clock { return s.clock }

// Assets returns the shared asset cache.
func (s *Stage) Assets() *AssetCache { return s.assets }

// Styles returns the attached style sheets.
func (s *Stage) Styles() *Styles { return s.styles }

// Manager returns the scene manager.
func (s *Stage) Manager() *SceneManager { return s.manager }

// Viewport returns the logical screen size.
func (s *Stage) Viewport() Viewport { return s.vp }

// AddSource attaches a gesture source. Sources are polled in the order added.
func (s *Stage) AddSource(src Source) {
	s.sources = append(s.sources, src)
}

// ShowFPS attaches an FPS widget to the overlay. Calling it again has no
// effect.
func (s *Stage) ShowFPS() *FPSWidget {
	if s.fps == nil {
		s.fps = NewFPSWidget()
		s.overlay.AddChild(s.fps.Node())
	}
	return s.fps
}

// RequestQuit makes the next Update end the game loop. Safe to call from any
// goroutine.
func (s *Stage) RequestQuit() {
	s.quit.Store(true)
}

// Update implements ebiten.Game.
func (s *Stage) Update() error {
	if s.quit.Load() {
		return ebiten.Termination
	}
	if s.directInput && len(s.injectQueue) == 0 {
		s.processMousePointer()
	}
	tps := ebiten.TPS()
	if tps <= 0 {
		tps = ebiten.DefaultTPS
	}
	s.Step(time.Second / time.Duration(tps))
	return nil
}

// Step runs one tick of the stage loop without reading real input devices.
// Tests and headless runs drive the stage through Step.
func (s *Stage) Step(dt time.Duration) {
	s.processSources()
	s.processInjectedInput()
	s.clock.Advance(dt)
	s.manager.Update(dt)
	if s.fps != nil {
		s.fps.Update(dt)
	}
}

func (s *Stage) processSources() {
	for _, src := range s.sources {
		s.sampBuf = src.Poll(s.sampBuf[:0])
		for _, sample := range s.sampBuf {
			s.hub.Publish(sample)
		}
	}
}

// Draw implements ebiten.Game.
func (s *Stage) Draw(screen *ebiten.Image) {
	if s.clearColor.A > 0 {
		screen.Fill(s.clearColor.RGBA())
	}
	drawTree(screen, s.root, 0, 0, 1)
}

// Layout implements ebiten.Game. The stage keeps a fixed logical size and
// lets ebiten scale it to the window.
func (s *Stage) Layout(_, _ int) (int, int) {
	return s.vp.Width, s.vp.Height
}

// Shutdown destroys the active scene.
func (s *Stage) Shutdown(ctx context.Context) error {
	return s.manager.Shutdown(ctx)
}

// --- Direct pointer input ---

// processMousePointer reads the mouse, or the first touch while one is
// down, and runs it through the pointer state machine.
func (s *Stage) processMousePointer() {
	mx, my := ebiten.CursorPosition()
	x, y := float64(mx), float64(my)
	pressed := ebiten.IsMouseButtonPressed(ebiten.MouseButtonLeft)
	if !pressed {
		s.touchBuf = ebiten.AppendTouchIDs(s.touchBuf[:0])
		if len(s.touchBuf) > 0 {
			tx, ty := ebiten.TouchPosition(s.touchBuf[0])
			x, y = float64(tx), float64(ty)
			pressed = true
			s.pointer.touch = true
		} else if s.pointer.touch {
			// Touch lifted: release where it was last seen.
			x, y = s.pointer.lastX, s.pointer.lastY
			s.pointer.touch = false
		}
	}
	s.processPointer(x, y, pressed)
}

// InjectClick queues a direct press and release at screen pixel (x, y).
// Each queued event is consumed by one Step.
func (s *Stage) InjectClick(x, y float64) {
	s.injectQueue = append(s.injectQueue,
		syntheticPointerEvent{x: x, y: y, pressed: true},
		syntheticPointerEvent{x: x, y: y, pressed: false},
	)
}

// processInjectedInput pops one event from the inject queue and feeds it
// through processPointer.
func (s *Stage) processInjectedInput() {
	if len(s.injectQueue) == 0 {
		return
	}
	evt := s.injectQueue[0]
	copy(s.injectQueue, s.injectQueue[1:])
	s.injectQueue = s.injectQueue[:len(s.injectQueue)-1]
	s.processPointer(evt.x, evt.y, evt.pressed)
}

// processPointer turns a press followed by a release over the same node into
// a click on that node (or the nearest ancestor with a click handler).
func (s *Stage) processPointer(px, py float64, pressed bool) {
	ps := &s.pointer
	ps.lastX, ps.lastY = px, py
	switch {
	case pressed && !ps.down:
		ps.down = true
		ps.hitNode = HitTest(s.sceneLayer, px, py)
	case !pressed && ps.down:
		target := HitTest(s.sceneLayer, px, py)
		if ps.hitNode != nil && ps.hitNode == target {
			for n := target; n != nil; n = n.Parent {
				if n.OnClick != nil {
					n.Activate(false)
					break
				}
			}
		}
		ps.down = false
		ps.hitNode = nil
	}
}
