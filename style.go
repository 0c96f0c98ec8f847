package kiosk

import (
	"fmt"
	"io/fs"
	"strings"

	colorful "github.com/lucasb-eyer/go-colorful"
	"gopkg.in/yaml.v3"
)

// StyleSheet is a named palette a scene attaches while it is live. Classes
// map to colors and sizes that screen builders look up by name.
type StyleSheet struct {
	Name   string
	colors map[string]Color
	sizes  map[string]float64
}

type styleFile struct {
	Colors map[string]string  `yaml:"colors"`
	Sizes  map[string]float64 `yaml:"sizes"`
}

// ParseStyleSheet parses a YAML style sheet. Colors are hex strings
// ("#rrggbb"); an optional "@alpha" suffix in [0,1] sets opacity.
func ParseStyleSheet(name string, data []byte) (*StyleSheet, error) {
	var f styleFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("parse style sheet %q: %w", name, err)
	}
	s := &StyleSheet{
		Name:   name,
		colors: make(map[string]Color, len(f.Colors)),
		sizes:  f.Sizes,
	}
	for class, hex := range f.Colors {
		c, err := parseColor(hex)
		if err != nil {
			return nil, fmt.Errorf("parse style sheet %q: class %q: %w", name, class, err)
		}
		s.colors[class] = c
	}
	return s, nil
}

func parseColor(v string) (Color, error) {
	alpha := 1.0
	if i := strings.IndexByte(v, '@'); i >= 0 {
		if _, err := fmt.Sscanf(v[i+1:], "%g", &alpha); err != nil {
			return Color{}, fmt.Errorf("bad alpha in %q", v)
		}
		v = v[:i]
	}
	c, err := colorful.Hex(strings.TrimSpace(v))
	if err != nil {
		return Color{}, err
	}
	return Color{R: c.R, G: c.G, B: c.B, A: clamp01(alpha)}, nil
}

// Styles is the stack of attached style sheets. Lookups search from the most
// recently attached sheet down.
type Styles struct {
	sheets []*StyleSheet
}

// StyleHandle detaches the sheet it was returned for.
type StyleHandle struct {
	styles *Styles
	sheet  *StyleSheet
}

// Attach pushes sheet onto the stack.
func (s *Styles) Attach(sheet *StyleSheet) *StyleHandle {
	s.sheets = append(s.sheets, sheet)
	return &StyleHandle{styles: s, sheet: sheet}
}

// Load reads and parses a style sheet from fsys and attaches it.
func (s *Styles) Load(fsys fs.FS, path string) (*StyleHandle, error) {
	if fsys == nil {
		return nil, fmt.Errorf("load style sheet %q: %w", path, fs.ErrNotExist)
	}
	data, err := fs.ReadFile(fsys, strings.TrimPrefix(path, "/"))
	if err != nil {
		return nil, fmt.Errorf("load style sheet: %w", err)
	}
	sheet, err := ParseStyleSheet(path, data)
	if err != nil {
		return nil, err
	}
	return s.Attach(sheet), nil
}

// Detach removes the sheet. Safe to call on a nil handle and more than once.
func (h *StyleHandle) Detach() {
	if h == nil || h.styles == nil {
		return
	}
	sheets := h.styles.sheets
	for i := len(sheets) - 1; i >= 0; i-- {
		if sheets[i] == h.sheet {
			h.styles.sheets = append(sheets[:i], sheets[i+1:]...)
			break
		}
	}
	h.styles = nil
}

// Len returns the number of attached sheets.
func (s *Styles) Len() int {
	return len(s.sheets)
}

// Color returns the color for class, or fallback if no attached sheet defines it.
func (s *Styles) Color(class string, fallback Color) Color {
	for i := len(s.sheets) - 1; i >= 0; i-- {
		if c, ok := s.sheets[i].colors[class]; ok {
			return c
		}
	}
	return fallback
}

// Size returns the size for class, or fallback if no attached sheet defines it.
func (s *Styles) Size(class string, fallback float64) float64 {
	for i := len(s.sheets) - 1; i >= 0; i-- {
		if v, ok := s.sheets[i].sizes[class]; ok {
			return v
		}
	}
	return fallback
}
