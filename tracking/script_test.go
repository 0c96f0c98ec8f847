package tracking

import (
	"testing"

	"github.com/phanxgames/kiosk"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func drain(src kiosk.Source, polls int) []kiosk.GestureSample {
	var out []kiosk.GestureSample
	for i := 0; i < polls; i++ {
		out = src.Poll(out)
	}
	return out
}

func TestLoadScriptErrors(t *testing.T) {
	tests := []struct {
		name, data, want string
	}{
		{"invalid json", `{`, "parse gesture script"},
		{"no steps", `{"steps":[]}`, "no steps"},
		{"unknown action", `{"steps":[{"action":"jump"}]}`, `unknown action "jump"`},
		{"out of range", `{"steps":[{"action":"click","x":1.5,"y":0}]}`, "outside [0,1]"},
		{"negative wait", `{"steps":[{"action":"wait","frames":-1}]}`, "negative frames"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := LoadScript([]byte(tt.data))
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}

func TestScriptReplaysOneSamplePerPoll(t *testing.T) {
	src, err := LoadScript([]byte(`{"steps":[
		{"action":"move","x":0.1,"y":0.2},
		{"action":"glide","fromX":0,"fromY":0,"toX":1,"toY":0.5,"frames":3},
		{"action":"wait","frames":2},
		{"action":"click","x":0.9,"y":0.9}
	]}`))
	require.NoError(t, err)

	got := drain(src, 20)
	require.Len(t, got, 7)
	for i, s := range got {
		assert.Equal(t, uint64(i+1), s.Frame)
	}
	assert.Equal(t, kiosk.GestureSample{X: 0.1, Y: 0.2, Frame: 1}, got[0])
	assert.InDelta(t, 0.5, got[2].X, 1e-9)
	assert.Equal(t, 1.0, got[3].X)
	// wait holds the glide's end point
	assert.Equal(t, got[3].X, got[4].X)
	assert.Equal(t, got[3].Y, got[5].Y)
	assert.True(t, got[6].Click)
	assert.True(t, src.Done())
	assert.Equal(t, uint64(7), src.Frame())
}

func TestScriptLoops(t *testing.T) {
	src, err := LoadScript([]byte(`{"loop":true,"steps":[{"action":"click","x":0.5,"y":0.5}]}`))
	require.NoError(t, err)

	got := drain(src, 10)
	assert.False(t, src.Done())
	require.NotEmpty(t, got)
	assert.GreaterOrEqual(t, len(got), 5)
	for i := 1; i < len(got); i++ {
		assert.Greater(t, got[i].Frame, got[i-1].Frame)
	}

	src.SetLoop(false)
	drain(src, 4)
	assert.True(t, src.Done())
}

func TestScriptDrivesHub(t *testing.T) {
	src, err := LoadScript([]byte(`{"steps":[{"action":"move","x":0.5,"y":0.5},{"action":"click","x":0.5,"y":0.5}]}`))
	require.NoError(t, err)

	stage := kiosk.NewStage(kiosk.StageConfig{Width: 100, Height: 100})
	stage.AddSource(src)
	var clicks int
	stage.Hub().OnClick(func(kiosk.GestureEvent) { clicks++ })
	for i := 0; i < 4; i++ {
		stage.Step(0)
	}
	assert.Equal(t, 1, clicks)
	last, ok := stage.Hub().LastSample()
	require.True(t, ok)
	assert.Equal(t, uint64(2), last.Frame)
}
