package tracking

import (
	"encoding/json"
	"fmt"

	"github.com/phanxgames/kiosk"
)

// scriptStep is one action in a gesture script.
//
//	move   jump the hand to (x, y)
//	click  a click gesture at (x, y)
//	glide  move from (fromX, fromY) to (toX, toY) over frames samples
//	wait   hold the last position for frames samples
type scriptStep struct {
	Action string  `json:"action"`
	X      float64 `json:"x,omitempty"`
	Y      float64 `json:"y,omitempty"`
	FromX  float64 `json:"fromX,omitempty"`
	FromY  float64 `json:"fromY,omitempty"`
	ToX    float64 `json:"toX,omitempty"`
	ToY    float64 `json:"toY,omitempty"`
	Frames int     `json:"frames,omitempty"`
}

type gestureScript struct {
	Loop  bool         `json:"loop"`
	Steps []scriptStep `json:"steps"`
}

// ScriptSource replays a recorded gesture script, one sample per Poll. It is
// used for attract mode and for driving scenes in tests and demos.
type ScriptSource struct {
	steps  []scriptStep
	loop   bool
	cursor int
	queue  []kiosk.GestureSample
	frame  uint64
	lastX  float64
	lastY  float64
	done   bool
}

// LoadScript parses a JSON gesture script.
func LoadScript(data []byte) (*ScriptSource, error) {
	var script gestureScript
	if err := json.Unmarshal(data, &script); err != nil {
		return nil, fmt.Errorf("parse gesture script: %w", err)
	}
	if len(script.Steps) == 0 {
		return nil, fmt.Errorf("parse gesture script: no steps")
	}
	for i, st := range script.Steps {
		if err := st.validate(); err != nil {
			return nil, fmt.Errorf("parse gesture script: step %d: %w", i, err)
		}
	}
	return &ScriptSource{steps: script.Steps, loop: script.Loop, lastX: 0.5, lastY: 0.5}, nil
}

func (st scriptStep) validate() error {
	var coords []float64
	switch st.Action {
	case "move", "click":
		coords = []float64{st.X, st.Y}
	case "glide":
		coords = []float64{st.FromX, st.FromY, st.ToX, st.ToY}
	case "wait":
		if st.Frames < 0 {
			return fmt.Errorf("negative frames %d", st.Frames)
		}
	default:
		return fmt.Errorf("unknown action %q", st.Action)
	}
	for _, c := range coords {
		if c < 0 || c > 1 {
			return fmt.Errorf("%s: coordinate %g outside [0,1]", st.Action, c)
		}
	}
	return nil
}

// SetLoop makes the script restart after its last step.
func (s *ScriptSource) SetLoop(loop bool) {
	s.loop = loop
}

// Done reports whether a non-looping script has emitted everything.
func (s *ScriptSource) Done() bool {
	return s.done
}

// Frame returns the frame number of the last emitted sample.
func (s *ScriptSource) Frame() uint64 {
	return s.frame
}

// Poll emits the next sample of the script, if any.
func (s *ScriptSource) Poll(dst []kiosk.GestureSample) []kiosk.GestureSample {
	if s.done {
		return dst
	}
	if len(s.queue) == 0 {
		s.next()
	}
	if len(s.queue) == 0 {
		return dst
	}
	sample := s.queue[0]
	copy(s.queue, s.queue[1:])
	s.queue = s.queue[:len(s.queue)-1]

	s.frame++
	sample.Frame = s.frame
	s.lastX, s.lastY = sample.X, sample.Y
	if len(s.queue) == 0 && s.cursor >= len(s.steps) && !s.loop {
		s.done = true
	}
	return append(dst, sample)
}

// next expands the next step into queued samples.
func (s *ScriptSource) next() {
	if s.cursor >= len(s.steps) {
		if !s.loop {
			s.done = true
			return
		}
		s.cursor = 0
	}
	st := s.steps[s.cursor]
	s.cursor++

	switch st.Action {
	case "move":
		s.queue = append(s.queue, kiosk.GestureSample{X: st.X, Y: st.Y})
	case "click":
		s.queue = append(s.queue, kiosk.GestureSample{X: st.X, Y: st.Y, Click: true})
	case "glide":
		frames := max(st.Frames, 2)
		for i := 0; i < frames; i++ {
			t := float64(i) / float64(frames-1)
			s.queue = append(s.queue, kiosk.GestureSample{
				X: st.FromX + (st.ToX-st.FromX)*t,
				Y: st.FromY + (st.ToY-st.FromY)*t,
			})
		}
	case "wait":
		x, y := s.lastX, s.lastY
		if n := len(s.queue); n > 0 {
			x, y = s.queue[n-1].X, s.queue[n-1].Y
		}
		for i := 0; i < st.Frames; i++ {
			s.queue = append(s.queue, kiosk.GestureSample{X: x, Y: y})
		}
	}
}
