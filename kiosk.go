package kiosk

import "image/color"

// Color represents an RGBA color with components in [0, 1]. Not premultiplied.
// Premultiplication occurs at render submission time.
type Color struct {
	R, G, B, A float64
}

// ColorWhite is the default tint (no color modification).
var ColorWhite = Color{1, 1, 1, 1}

// RGBA converts c to a premultiplied color.RGBA.
func (c Color) RGBA() color.RGBA {
	return color.RGBA{
		R: uint8(clamp01(c.R*c.A) * 255),
		G: uint8(clamp01(c.G*c.A) * 255),
		B: uint8(clamp01(c.B*c.A) * 255),
		A: uint8(clamp01(c.A) * 255),
	}
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}

// Rect is an axis-aligned rectangle. The coordinate system has its origin at
// the top-left, with Y increasing downward.
type Rect struct {
	X, Y, Width, Height float64
}

// Contains reports whether the point (x, y) lies inside the rectangle.
// Points on the edge are considered inside.
func (r Rect) Contains(x, y float64) bool {
	return x >= r.X && x <= r.X+r.Width &&
		y >= r.Y && y <= r.Y+r.Height
}

// Viewport is the pixel size of the screen that normalized gesture
// coordinates are mapped onto.
type Viewport struct {
	Width, Height int
}

// ToPixels maps a normalized [0,1] coordinate pair into viewport pixels.
// Inputs outside [0,1] are clamped to the screen edge.
func (v Viewport) ToPixels(x, y float64) (float64, float64) {
	return clamp01(x) * float64(v.Width), clamp01(y) * float64(v.Height)
}

// NodeType distinguishes rendering behavior for a Node.
type NodeType uint8

const (
	NodeTypeContainer NodeType = iota // group node with no visual output
	NodeTypeSprite                    // renders an image stretched to the node size
	NodeTypeRect                      // renders a solid color rectangle
	NodeTypeText                      // renders a text label
)

// Role tells synthetic click resolution how to treat a hit node.
type Role uint8

const (
	RoleNone   Role = iota // decorative; clicks fall through to ancestors
	RoleButton             // activated directly when hit
	RoleCard               // routed to the owning scene by its "index" data
)

// EventKind identifies a kind of gesture event published by the Hub.
type EventKind uint8

const (
	EventMove  EventKind = iota // fires for every published sample
	EventClick                  // fires when the sample is classified as a click
	EventFrame                  // fires once per processed sample, after move and click
)

func (k EventKind) String() string {
	switch k {
	case EventMove:
		return "move"
	case EventClick:
		return "click"
	case EventFrame:
		return "frameCount"
	default:
		return "unknown"
	}
}

// TextAlign controls horizontal text alignment within a text node.
type TextAlign uint8

const (
	TextAlignLeft   TextAlign = iota // align text to the left edge (default)
	TextAlignCenter                  // center text horizontally
	TextAlignRight                   // align text to the right edge
)
