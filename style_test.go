package kiosk

import (
	"errors"
	"io/fs"
	"math"
	"testing"
	"testing/fstest"
)

const testSheet = `
colors:
  button: "#ff0000"
  panel: "#000000@0.5"
sizes:
  button.width: 0.3
`

var black = Color{A: 1}

func approx(a, b float64) bool { return math.Abs(a-b) < 1e-9 }

func TestParseStyleSheet(t *testing.T) {
	s, err := ParseStyleSheet("test", []byte(testSheet))
	if err != nil {
		t.Fatal(err)
	}
	var st Styles
	h := st.Attach(s)

	c := st.Color("button", ColorWhite)
	if !approx(c.R, 1) || !approx(c.G, 0) || !approx(c.A, 1) {
		t.Errorf("button = %+v", c)
	}
	if p := st.Color("panel", ColorWhite); !approx(p.A, 0.5) {
		t.Errorf("panel alpha = %v", p.A)
	}
	if v := st.Size("button.width", 0.1); !approx(v, 0.3) {
		t.Errorf("button.width = %v", v)
	}
	if v := st.Size("missing", 0.1); v != 0.1 {
		t.Errorf("fallback size = %v", v)
	}
	if c := st.Color("missing", black); c != black {
		t.Errorf("fallback color = %+v", c)
	}
	h.Detach()
}

func TestParseStyleSheetErrors(t *testing.T) {
	cases := map[string]string{
		"bad hex":   "colors:\n  a: \"#zzzzzz\"\n",
		"bad alpha": "colors:\n  a: \"#ffffff@x\"\n",
		"bad yaml":  "colors: [",
	}
	for name, src := range cases {
		t.Run(name, func(t *testing.T) {
			if _, err := ParseStyleSheet(name, []byte(src)); err == nil {
				t.Error("expected error")
			}
		})
	}
}

func TestStylesStackLookup(t *testing.T) {
	base, _ := ParseStyleSheet("base", []byte("colors:\n  text: \"#ffffff\"\n  button: \"#00ff00\"\n"))
	top, _ := ParseStyleSheet("top", []byte("colors:\n  button: \"#0000ff\"\n"))

	var st Styles
	hb := st.Attach(base)
	ht := st.Attach(top)
	if c := st.Color("button", black); !approx(c.B, 1) {
		t.Errorf("top sheet should win: %+v", c)
	}
	if c := st.Color("text", black); !approx(c.R, 1) {
		t.Errorf("lookup should fall through to base: %+v", c)
	}

	ht.Detach()
	ht.Detach()
	if st.Len() != 1 {
		t.Fatalf("Len = %d after double detach", st.Len())
	}
	if c := st.Color("button", black); !approx(c.G, 1) {
		t.Errorf("base button after detach: %+v", c)
	}
	hb.Detach()
	if st.Len() != 0 {
		t.Errorf("Len = %d", st.Len())
	}
	var nilHandle *StyleHandle
	nilHandle.Detach()
}

func TestStylesLoad(t *testing.T) {
	fsys := fstest.MapFS{"styles/a.yaml": {Data: []byte(testSheet)}}
	var st Styles
	h, err := st.Load(fsys, "/styles/a.yaml")
	if err != nil {
		t.Fatal(err)
	}
	if st.Len() != 1 {
		t.Errorf("Len = %d", st.Len())
	}
	h.Detach()

	if _, err := st.Load(fsys, "/styles/missing.yaml"); !errors.Is(err, fs.ErrNotExist) {
		t.Errorf("missing err = %v", err)
	}
	if _, err := st.Load(nil, "/styles/a.yaml"); !errors.Is(err, fs.ErrNotExist) {
		t.Errorf("nil fs err = %v", err)
	}
	if st.Len() != 0 {
		t.Error("failed loads must not attach")
	}
}
