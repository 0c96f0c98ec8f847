package kiosk

import (
	"math"
	"time"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/tanema/gween/ease"
)

const (
	defaultCursorSize   = 64
	defaultCursorEase   = 80 * time.Millisecond
	cursorWakeFade      = 150 * time.Millisecond
	cursorIdleFade      = 500 * time.Millisecond
	defaultCursorIdle   = 90 // frames without movement before dimming
	cursorIdleAlpha     = 0.35
	cursorMoveThreshold = 2.0 // pixels
)

// Cursor draws the tracked hand position and does the per-frame bookkeeping
// every gesture scene needs. Scenes compose one instead of inheriting it:
// forward hub move events to Move, frame events to Frame, and call Update
// from the scene's Update.
type Cursor struct {
	node *Node

	// Ease is how long the cursor takes to reach a new sample.
	Ease time.Duration
	// IdleFrames is how many frames without movement dim the cursor.
	IdleFrames uint64

	move *Tween
	fade *Tween

	frames        uint64
	lastFrame     uint64
	lastMoveFrame uint64
	idle          bool
}

// NewCursor creates a cursor sprite. A nil image draws a white dot-sized rect.
func NewCursor(img *ebiten.Image, size float64) *Cursor {
	if size <= 0 {
		size = defaultCursorSize
	}
	var n *Node
	if img != nil {
		n = NewSprite("cursor", img, size, size)
	} else {
		n = NewRect("cursor", ColorWhite, size/4, size/4)
	}
	n.ZIndex = math.MaxInt32
	n.Visible = false
	return &Cursor{
		node:       n,
		Ease:       defaultCursorEase,
		IdleFrames: defaultCursorIdle,
	}
}

// Node returns the cursor's sprite for attaching to a scene tree.
func (c *Cursor) Node() *Node {
	return c.node
}

// Move eases the cursor toward the event's position mapped onto vp.
func (c *Cursor) Move(ev GestureEvent, vp Viewport) {
	px, py := vp.ToPixels(ev.X, ev.Y)
	tx, ty := px-c.node.Width/2, py-c.node.Height/2

	if !c.node.Visible {
		c.node.Visible = true
		c.node.X, c.node.Y = tx, ty
	}
	if math.Hypot(tx-c.node.X, ty-c.node.Y) < cursorMoveThreshold {
		return
	}
	c.lastMoveFrame = ev.Frame
	c.move = TweenPosition(c.node, tx, ty, c.Ease, ease.OutQuad)
	if c.idle {
		c.idle = false
		c.fade = TweenAlpha(c.node, 1, cursorWakeFade, ease.Linear)
	}
}

// Frame records a processed tracking frame. A cursor that has not moved for
// IdleFrames frames fades to a dim state.
func (c *Cursor) Frame(ev GestureEvent) {
	c.frames++
	c.lastFrame = ev.Frame
	if c.idle || c.IdleFrames == 0 {
		return
	}
	if ev.Frame >= c.lastMoveFrame+c.IdleFrames {
		c.idle = true
		c.fade = TweenAlpha(c.node, cursorIdleAlpha, cursorIdleFade, ease.Linear)
	}
}

// Frames returns how many frame events the cursor has seen.
func (c *Cursor) Frames() uint64 {
	return c.frames
}

// LastFrame returns the frame counter of the most recent frame event.
func (c *Cursor) LastFrame() uint64 {
	return c.lastFrame
}

// Idle reports whether the cursor is dimmed for lack of movement.
func (c *Cursor) Idle() bool {
	return c.idle
}

// Update advances the cursor's tweens.
func (c *Cursor) Update(dt time.Duration) {
	c.move.Update(dt)
	c.fade.Update(dt)
}
