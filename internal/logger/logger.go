// Package logger prints pipeline diagnostics to stderr. Debug, Info,
// and Section output is gated behind the --verbose flag; Warn always
// prints, because warnings mark evidence or synthesis being silently
// degraded and the user should see that without opting in.
package logger

import (
	"fmt"
	"io"
	"os"
	"sync"
)

type sink struct {
	mu      sync.Mutex
	out     io.Writer
	verbose bool
}

var std = &sink{out: os.Stderr}

func (s *sink) printf(tag, format string, args ...any) {
	s.mu.Lock()
	defer s.mu.Unlock()
	fmt.Fprintf(s.out, tag+format+"\n", args...)
}

func (s *sink) verbosef(tag, format string, args ...any) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.verbose {
		fmt.Fprintf(s.out, tag+format+"\n", args...)
	}
}

// SetVerbose enables or disables verbose output.
func SetVerbose(v bool) {
	std.mu.Lock()
	defer std.mu.Unlock()
	std.verbose = v
}

// SetOutput redirects log output away from stderr. Used by tests.
func SetOutput(w io.Writer) {
	std.mu.Lock()
	defer std.mu.Unlock()
	std.out = w
}

// Debug prints a verbose-only diagnostic message.
func Debug(format string, args ...any) {
	std.verbosef("[DEBUG] ", format, args...)
}

// Section prints a verbose-only header marking a pipeline stage.
func Section(name string) {
	std.verbosef("", "\n=== %s ===", name)
}

// Info prints a verbose-only progress message.
func Info(format string, args ...any) {
	std.verbosef("[INFO] ", format, args...)
}

// Warn prints a warning unconditionally.
func Warn(format string, args ...any) {
	std.printf("[WARN] ", format, args...)
}
