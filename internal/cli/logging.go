package cli

import (
	"io"
	"log/slog"
)

// newLogger returns a text logger on w: Info by default, Debug with
// --verbose. Diagnostics go to stderr so JSON output on stdout stays clean.
func newLogger(opts *RootOptions, w io.Writer) *slog.Logger {
	level := slog.LevelInfo
	if opts.Verbose {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level}))
}
