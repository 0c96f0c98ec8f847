package kiosk

import (
	"errors"
	"io"
	"testing"
	"time"

	"github.com/charmbracelet/log"
	"github.com/hajimehoshi/ebiten/v2"
)

// sliceSource hands out queued samples one batch per Poll.
type sliceSource struct {
	batches [][]GestureSample
}

func (s *sliceSource) Poll(dst []GestureSample) []GestureSample {
	if len(s.batches) == 0 {
		return dst
	}
	dst = append(dst, s.batches[0]...)
	s.batches = s.batches[1:]
	return dst
}

func newTestStage() *Stage {
	return NewStage(StageConfig{Width: 800, Height: 600, Logger: log.New(io.Discard)})
}

func TestNewStageDefaults(t *testing.T) {
	s := NewStage(StageConfig{Logger: log.New(io.Discard)})
	if vp := s.Viewport(); vp.Width != 1920 || vp.Height != 1080 {
		t.Errorf("Viewport = %+v", vp)
	}
	if w, h := s.Layout(1, 1); w != 1920 || h != 1080 {
		t.Errorf("Layout = %d x %d", w, h)
	}
	if s.SceneLayer().Parent != s.Root() || s.Overlay().Parent != s.Root() {
		t.Error("scene layer and overlay should hang off the root")
	}
}

func TestStagePublishesSourceSamples(t *testing.T) {
	s := newTestStage()
	s.AddSource(&sliceSource{batches: [][]GestureSample{
		{{X: 0.1, Y: 0.1, Frame: 1}, {X: 0.2, Y: 0.2, Frame: 2, Click: true}},
		{{X: 0.3, Y: 0.3, Frame: 3}},
	}})
	var kinds []EventKind
	s.Hub().OnMove(func(ev GestureEvent) { kinds = append(kinds, ev.Kind) })
	s.Hub().OnClick(func(ev GestureEvent) { kinds = append(kinds, ev.Kind) })

	s.Step(time.Millisecond)
	want := []EventKind{EventMove, EventMove, EventClick}
	if len(kinds) != len(want) {
		t.Fatalf("kinds = %v, want %v", kinds, want)
	}
	for i := range want {
		if kinds[i] != want[i] {
			t.Fatalf("kinds = %v, want %v", kinds, want)
		}
	}
	s.Step(time.Millisecond)
	if last, ok := s.Hub().LastSample(); !ok || last.Frame != 3 {
		t.Errorf("LastSample = %+v, %v", last, ok)
	}
}

func TestStageStepAdvancesClock(t *testing.T) {
	s := newTestStage()
	fired := false
	s.Clock().AfterFunc(50*time.Millisecond, func() { fired = true })
	s.Step(40 * time.Millisecond)
	if fired {
		t.Fatal("fired early")
	}
	s.Step(10 * time.Millisecond)
	if !fired {
		t.Error("timer should fire once its deadline is reached")
	}
}

func TestStageInjectClick(t *testing.T) {
	s := newTestStage()
	var got ClickContext
	clicks := 0
	btn := NewButton("btn", "Go", ColorWhite, 100, 50, func(c ClickContext) {
		clicks++
		got = c
	})
	btn.X, btn.Y = 200, 100
	s.SceneLayer().AddChild(btn)

	s.InjectClick(250, 120)
	s.Step(time.Millisecond) // press
	if clicks != 0 {
		t.Fatal("click should fire on release")
	}
	s.Step(time.Millisecond) // release
	if clicks != 1 {
		t.Fatalf("clicks = %d", clicks)
	}
	if got.Synthetic {
		t.Error("direct clicks are not synthetic")
	}

	// Press on the button, release elsewhere: no click.
	s.injectQueue = append(s.injectQueue,
		syntheticPointerEvent{x: 250, y: 120, pressed: true},
		syntheticPointerEvent{x: 10, y: 10, pressed: false},
	)
	s.Step(time.Millisecond)
	s.Step(time.Millisecond)
	if clicks != 1 {
		t.Errorf("clicks = %d after a drag-off", clicks)
	}
}

func TestStageRequestQuit(t *testing.T) {
	s := newTestStage()
	done := make(chan struct{})
	go func() {
		s.RequestQuit()
		close(done)
	}()
	<-done
	if err := s.Update(); !errors.Is(err, ebiten.Termination) {
		t.Errorf("Update = %v, want ebiten.Termination", err)
	}
}

func TestStageShowFPS(t *testing.T) {
	s := newTestStage()
	w := s.ShowFPS()
	if s.ShowFPS() != w {
		t.Error("ShowFPS should reuse the widget")
	}
	if s.Overlay().NumChildren() != 1 {
		t.Errorf("overlay children = %d", s.Overlay().NumChildren())
	}
	w.read = func() (float64, float64) { return 30, 60 }
	s.Step(fpsRefresh)
	if w.Text() == "" {
		t.Error("Step should refresh the FPS widget")
	}
}
