package logging

import (
	"bytes"
	"testing"

	"github.com/charmbracelet/log"
	"github.com/stretchr/testify/assert"
)

func TestParseLevel(t *testing.T) {
	assert.Equal(t, log.DebugLevel, ParseLevel("DEBUG"))
	assert.Equal(t, log.WarnLevel, ParseLevel("warning"))
	assert.Equal(t, log.ErrorLevel, ParseLevel(" error "))
	assert.Equal(t, log.InfoLevel, ParseLevel(""))
	assert.Equal(t, log.InfoLevel, ParseLevel("verbose"))
}

func TestNewWriterFiltersByLevel(t *testing.T) {
	var buf bytes.Buffer
	logger := NewWriter(&buf, "kiosk", "warn")
	logger.Info("hidden")
	logger.Warn("shown", "scene", "Memory")

	out := buf.String()
	assert.NotContains(t, out, "hidden")
	assert.Contains(t, out, "shown")
	assert.Contains(t, out, "kiosk")
	assert.Contains(t, out, "scene=Memory")
}
