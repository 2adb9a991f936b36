// Package cliutil provides output and logging helpers for the o2t CLI.
package cliutil

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
)

// Writef writes formatted output to the writer.
// If the write fails, it logs to stderr.
func Writef(w io.Writer, format string, args ...any) {
	if _, err := fmt.Fprintf(w, format, args...); err != nil { //nolint:gosec // G705 - CLI tool, not a web server
		_, _ = fmt.Fprintf(os.Stderr, "write error: %v\n", err)
	}
}

// NewLogger returns a text logger writing to w at level.
func NewLogger(w io.Writer, level slog.Leveler) *slog.Logger {
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level}))
}

// Rule returns a heading underline as wide as title.
func Rule(title string) string {
	return strings.Repeat("=", len([]rune(title)))
}
