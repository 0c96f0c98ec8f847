package kiosk

import (
	"time"

	"github.com/tanema/gween"
	"github.com/tanema/gween/ease"
)

// Tween eases one or more float64 fields of a node toward target values.
// Owners call Update each tick; there is no global tween manager. A tween
// whose node has been disposed stops without writing.
type Tween struct {
	target *Node
	tracks []tweenTrack
	done   bool
}

type tweenTrack struct {
	tw    *gween.Tween
	field *float64
}

func newTween(node *Node, d time.Duration, fn ease.TweenFunc, fields []*float64, to []float64) *Tween {
	t := &Tween{target: node, tracks: make([]tweenTrack, len(fields))}
	sec := float32(d.Seconds())
	for i, f := range fields {
		t.tracks[i] = tweenTrack{tw: gween.New(float32(*f), float32(to[i]), sec, fn), field: f}
	}
	return t
}

// TweenPosition eases node.X and node.Y to (x, y) over d.
func TweenPosition(node *Node, x, y float64, d time.Duration, fn ease.TweenFunc) *Tween {
	return newTween(node, d, fn, []*float64{&node.X, &node.Y}, []float64{x, y})
}

// TweenAlpha eases node.Alpha to alpha over d.
func TweenAlpha(node *Node, alpha float64, d time.Duration, fn ease.TweenFunc) *Tween {
	return newTween(node, d, fn, []*float64{&node.Alpha}, []float64{alpha})
}

// Update advances the tween by dt. Safe on a nil tween.
func (t *Tween) Update(dt time.Duration) {
	if t == nil || t.done {
		return
	}
	if t.target != nil && t.target.IsDisposed() {
		t.done = true
		return
	}
	sec := float32(dt.Seconds())
	finished := true
	for _, tr := range t.tracks {
		v, ok := tr.tw.Update(sec)
		*tr.field = float64(v)
		finished = finished && ok
	}
	t.done = finished
}

// Done reports whether every field reached its target or the node was
// disposed. A nil tween is done.
func (t *Tween) Done() bool {
	return t == nil || t.done
}
