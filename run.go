package kiosk

import "github.com/hajimehoshi/ebiten/v2"

// RunConfig configures the window opened by Run.
type RunConfig struct {
	Title      string
	Width      int
	Height     int
	Fullscreen bool
	// HideCursor hides the OS mouse cursor; the hand cursor replaces it.
	HideCursor bool
}

// Run opens a window and drives stage as the ebiten game until the window is
// closed or the stage requests to quit.
func Run(stage *Stage, cfg RunConfig) error {
	if cfg.Title != "" {
		ebiten.SetWindowTitle(cfg.Title)
	}
	w, h := cfg.Width, cfg.Height
	if w <= 0 || h <= 0 {
		vp := stage.Viewport()
		w, h = vp.Width, vp.Height
	}
	ebiten.SetWindowSize(w, h)
	ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)
	ebiten.SetFullscreen(cfg.Fullscreen)
	if cfg.HideCursor {
		ebiten.SetCursorMode(ebiten.CursorModeHidden)
	}
	return ebiten.RunGame(stage)
}
