// Package ui prints colored status messages for humans. Everything goes to
// stderr so stdout stays clean for data.
package ui

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/muesli/termenv"
)

// ColorMode determines when to use colored output.
type ColorMode int

const (
	// ColorAuto detects color support from the terminal.
	ColorAuto ColorMode = iota
	// ColorAlways forces colors even when not writing to a terminal.
	ColorAlways
	// ColorNever disables colors.
	ColorNever
)

type contextKey struct{}

// UI writes formatted status lines.
type UI struct {
	out *termenv.Output
}

// New creates a UI writing to w. NO_COLOR in the environment always wins.
func New(w io.Writer, mode ColorMode) *UI {
	if os.Getenv("NO_COLOR") != "" {
		mode = ColorNever
	}

	profile := termenv.NewOutput(w).EnvColorProfile()
	switch mode {
	case ColorNever:
		profile = termenv.Ascii
	case ColorAlways:
		if profile == termenv.Ascii {
			profile = termenv.ANSI256
		}
	}

	return &UI{out: termenv.NewOutput(w, termenv.WithProfile(profile))}
}

// WithUI returns a context carrying u.
func WithUI(ctx context.Context, u *UI) context.Context {
	return context.WithValue(ctx, contextKey{}, u)
}

// FromContext returns the UI stored in ctx, or an auto-colored stderr UI.
func FromContext(ctx context.Context) *UI {
	if u, ok := ctx.Value(contextKey{}).(*UI); ok {
		return u
	}
	return New(os.Stderr, ColorAuto)
}

// Success prints a message in green.
func (u *UI) Success(format string, args ...any) {
	u.print("✓ ", termenv.ANSIGreen, format, args...)
}

// Warning prints a message in yellow.
func (u *UI) Warning(format string, args ...any) {
	u.print("⚠ ", termenv.ANSIYellow, format, args...)
}

// Error prints a message in red.
func (u *UI) Error(format string, args ...any) {
	u.print("✗ ", termenv.ANSIRed, format, args...)
}

// Info prints a message in blue.
func (u *UI) Info(format string, args ...any) {
	u.print("ℹ ", termenv.ANSIBlue, format, args...)
}

// Writer returns the underlying writer.
func (u *UI) Writer() io.Writer {
	return u.out
}

func (u *UI) print(symbol string, color termenv.ANSIColor, format string, args ...any) {
	msg := symbol + fmt.Sprintf(format, args...)
	_, _ = fmt.Fprintln(u.out, u.out.String(msg).Foreground(color))
}
