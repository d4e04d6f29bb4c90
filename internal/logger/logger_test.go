package logger

import (
	"bytes"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
)

func capture(t *testing.T) *bytes.Buffer {
	t.Helper()
	buf := new(bytes.Buffer)
	SetOutput(buf)
	t.Cleanup(func() {
		SetOutput(os.Stderr)
		SetVerbose(false)
	})
	return buf
}

func TestVerboseGating(t *testing.T) {
	buf := capture(t)

	Debug("hidden %d", 1)
	Info("hidden")
	Section("hidden")
	assert.Empty(t, buf.String(), "verbose-only output is silent by default")

	SetVerbose(true)
	Debug("shown %d", 2)
	Info("progress")
	Section("Stage")

	out := buf.String()
	assert.Contains(t, out, "[DEBUG] shown 2")
	assert.Contains(t, out, "[INFO] progress")
	assert.Contains(t, out, "=== Stage ===")
}

func TestWarnAlwaysPrints(t *testing.T) {
	buf := capture(t)

	Warn("chunk %s skipped", "doc1_p2")
	assert.Contains(t, buf.String(), "[WARN] chunk doc1_p2 skipped",
		"warnings surface without the verbose flag")
}
