package tracking

import (
	"math"

	"github.com/phanxgames/kiosk"
)

// Dwell classifies a click when the hand holds still: once consecutive
// samples stay within Radius of an anchor for Frames frames, one sample is
// marked as a click. The hand has to leave the radius before another click
// can fire. Samples that already carry Click pass through and re-anchor.
type Dwell struct {
	// Radius is the allowed drift in normalized units.
	Radius float64
	// Frames is how long the hand has to hold.
	Frames uint64

	anchorX, anchorY float64
	start            uint64
	anchored         bool
	fired            bool
}

// NewDwell creates a classifier.
func NewDwell(radius float64, frames uint64) *Dwell {
	return &Dwell{Radius: radius, Frames: frames}
}

// Classify returns s with Click set if it completes a dwell.
func (d *Dwell) Classify(s kiosk.GestureSample) kiosk.GestureSample {
	if s.Click {
		d.anchor(s)
		d.fired = true
		return s
	}
	if !d.anchored || math.Hypot(s.X-d.anchorX, s.Y-d.anchorY) > d.Radius {
		d.anchor(s)
		return s
	}
	if !d.fired && s.Frame-d.start >= d.Frames {
		s.Click = true
		d.fired = true
	}
	return s
}

// Reset forgets the current anchor.
func (d *Dwell) Reset() {
	d.anchored = false
	d.fired = false
}

func (d *Dwell) anchor(s kiosk.GestureSample) {
	d.anchorX, d.anchorY = s.X, s.Y
	d.start = s.Frame
	d.anchored = true
	d.fired = false
}

// dwellSource runs every sample of an underlying source through a Dwell.
type dwellSource struct {
	src   kiosk.Source
	dwell *Dwell
}

// WithDwell wraps src so its samples are classified by d.
func WithDwell(src kiosk.Source, d *Dwell) kiosk.Source {
	return &dwellSource{src: src, dwell: d}
}

func (s *dwellSource) Poll(dst []kiosk.GestureSample) []kiosk.GestureSample {
	n := len(dst)
	dst = s.src.Poll(dst)
	for i := n; i < len(dst); i++ {
		dst[i] = s.dwell.Classify(dst[i])
	}
	return dst
}
