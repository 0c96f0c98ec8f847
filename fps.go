package kiosk

import (
	"fmt"
	"time"

	"github.com/hajimehoshi/ebiten/v2"
)

const fpsRefresh = 500 * time.Millisecond

// FPSWidget shows the measured frame and tick rates. The label is refreshed
// about twice a second.
type FPSWidget struct {
	node    *Node
	label   *Node
	elapsed time.Duration
	read    func() (fps, tps float64)
}

// NewFPSWidget creates the widget's nodes. Attach Node() to an overlay and
// call Update every tick.
func NewFPSWidget() *FPSWidget {
	bg := NewRect("fps", Color{A: 0.5}, 150, 52)
	label := NewText("fps.label", "", 16, 138, 52)
	label.X = 8
	bg.AddChild(label)
	bg.ZIndex = 255
	return &FPSWidget{
		node:  bg,
		label: label,
		read:  func() (float64, float64) { return ebiten.ActualFPS(), ebiten.ActualTPS() },
	}
}

// Node returns the widget's root node.
func (w *FPSWidget) Node() *Node {
	return w.node
}

// Text returns the current label.
func (w *FPSWidget) Text() string {
	return w.label.Text
}

// Update refreshes the label once fpsRefresh has passed since the last
// refresh.
func (w *FPSWidget) Update(dt time.Duration) {
	w.elapsed += dt
	if w.elapsed < fpsRefresh {
		return
	}
	w.elapsed = 0
	fps, tps := w.read()
	w.label.Text = fmt.Sprintf("FPS: %.1f\nTPS: %.1f", fps, tps)
}
