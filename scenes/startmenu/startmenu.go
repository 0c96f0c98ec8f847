// Package startmenu is the exhibit's landing scene: one button per
// configured game. Buttons whose scene is not registered are shown disabled.
package startmenu

import (
	"context"
	"time"

	"github.com/charmbracelet/log"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/phanxgames/kiosk"
)

// Entry is one menu button.
type Entry struct {
	Label string
	Scene string
}

// Config configures the menu.
type Config struct {
	Title   string
	Entries []Entry
	// Cursor is the asset key of the cursor image; empty draws a dot.
	Cursor     string
	CursorPath string
}

// DefaultConfig returns the exhibit menu.
func DefaultConfig() Config {
	return Config{
		Title: "Baltazar",
		Entries: []Entry{
			{Label: "Crtanje", Scene: "Drawing"},
			{Label: "Memory", Scene: "Memory"},
			{Label: "KSP", Scene: "KSP"},
		},
		Cursor:     "cursor",
		CursorPath: "/pictures/starCatching/starCatchingCursor.webp",
	}
}

var (
	colorBackground = kiosk.Color{R: 0.98, G: 0.94, B: 0.84, A: 1}
	colorButton     = kiosk.Color{R: 0.26, G: 0.52, B: 0.86, A: 1}
	colorTitle      = kiosk.Color{R: 0.16, G: 0.12, B: 0.32, A: 1}
)

// Registry reports which scenes can be switched to.
type Registry func(name string) bool

// New returns a factory for the menu. A nil registry enables every entry.
func New(cfg Config, registered Registry) kiosk.SceneFactory {
	return func(deps kiosk.Deps) kiosk.Scene {
		logger := deps.Logger
		if logger == nil {
			logger = log.Default()
		}
		return &Scene{deps: deps, cfg: cfg, registered: registered, logger: logger.WithPrefix("menu")}
	}
}

// Scene is the start menu. It has a single screen, so Render only builds it
// once.
type Scene struct {
	deps       kiosk.Deps
	cfg        Config
	registered Registry
	logger     *log.Logger

	root      *kiosk.Node
	cursor    *kiosk.Cursor
	subs      kiosk.Subscriptions
	rendered  bool
	destroyed bool
}

// Root returns the menu's subtree.
func (s *Scene) Root() *kiosk.Node { return s.root }

func (s *Scene) Init(ctx context.Context) error {
	cursorImg := s.loadCursor(ctx)
	s.root = kiosk.NewContainer("startmenu")
	if s.deps.Layer != nil {
		s.deps.Layer.AddChild(s.root)
	}
	s.cursor = kiosk.NewCursor(cursorImg, 64)
	s.root.AddChild(s.cursor.Node())
	s.Render()

	s.subs.Add(s.deps.Input.OnMove(func(ev kiosk.GestureEvent) { s.cursor.Move(ev, s.viewport()) }))
	s.subs.Add(s.deps.Input.OnClick(func(ev kiosk.GestureEvent) {
		kiosk.ResolveClick(s.root, s.viewport(), ev.X, ev.Y)
	}))
	s.subs.Add(s.deps.Input.OnFrame(s.cursor.Frame))
	return nil
}

// loadCursor returns nil when the cursor image is unavailable; the menu
// still works with the fallback dot.
func (s *Scene) loadCursor(ctx context.Context) *ebiten.Image {
	if s.cfg.Cursor == "" || s.deps.Assets == nil {
		return nil
	}
	img, err := s.deps.Assets.Load(ctx, s.cfg.Cursor, s.cfg.CursorPath)
	if err != nil {
		s.logger.Warn("cursor image unavailable", "err", err)
		return nil
	}
	return img
}

func (s *Scene) Update(dt time.Duration) {
	if s.cursor != nil {
		s.cursor.Update(dt)
	}
}

func (s *Scene) Render() {
	if s.rendered || s.root == nil {
		return
	}
	s.root.AddChild(s.build())
	s.rendered = true
}

func (s *Scene) build() *kiosk.Node {
	vp := s.viewport()
	W, H := float64(vp.Width), float64(vp.Height)
	screen := kiosk.NewContainer("screen.menu")
	screen.AddChild(kiosk.NewRect("background", colorBackground, W, H))

	title := kiosk.NewText("title", s.cfg.Title, H*0.1, W, H*0.2)
	title.TextAlign = kiosk.TextAlignCenter
	title.Color = colorTitle
	title.Y = H * 0.08
	screen.AddChild(title)

	bw, bh := W*0.3, H*0.1
	gap := bh * 0.4
	top := H * 0.35
	for i, e := range s.cfg.Entries {
		b := kiosk.NewButton("entry."+e.Scene, e.Label, colorButton, bw, bh, func(kiosk.ClickContext) {
			s.open(e.Scene)
		})
		b.X = (W - bw) / 2
		b.Y = top + float64(i)*(bh+gap)
		b.SetData("scene", e.Scene)
		if s.registered != nil && !s.registered(e.Scene) {
			b.Disabled = true
		}
		screen.AddChild(b)
	}
	return screen
}

func (s *Scene) open(name string) {
	if s.destroyed {
		return
	}
	if err := s.deps.Switcher.Switch(context.Background(), name); err != nil {
		s.logger.Error("open failed", "scene", name, "err", err)
	}
}

func (s *Scene) Destroy(context.Context) error {
	if s.destroyed {
		return nil
	}
	s.destroyed = true
	s.subs.RemoveAll()
	if s.root != nil {
		s.root.Dispose()
	}
	return nil
}

func (s *Scene) viewport() kiosk.Viewport {
	if s.deps.Viewport == nil {
		return kiosk.Viewport{Width: 1920, Height: 1080}
	}
	return s.deps.Viewport()
}
