// Package logging configures slog output for paiste binaries.
package logging

import (
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/mattn/go-isatty"
	"github.com/pwntr/tinter"
)

// IsTTY reports whether w is a terminal.
func IsTTY(w io.Writer) bool {
	if f, ok := w.(*os.File); ok {
		return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
	}
	return false
}

// ParseLevel converts a string to a slog.Level, defaulting to Info.
func ParseLevel(s string) slog.Level {
	var l slog.Level
	if err := l.UnmarshalText([]byte(s)); err != nil {
		return slog.LevelInfo
	}
	return l
}

// Setup builds the root logger and installs it as the slog default.
// Components receive it explicitly; the default is set so that stray
// library logging lands in the same place.
//
// format is "auto", "text" or "json". "auto" picks tinted text on a
// terminal and JSON otherwise. Unknown formats mean auto. level is
// parsed per ParseLevel.
func Setup(format, level string) *slog.Logger {
	w := os.Stderr
	lv := ParseLevel(level)

	var useTint bool
	switch strings.ToLower(format) {
	case "text", "tint", "human":
		useTint = true
	case "json":
		useTint = false
	default:
		useTint = IsTTY(w)
	}

	var h slog.Handler
	if useTint {
		h = tinter.NewHandler(w, &tinter.Options{
			Level:      lv,
			TimeFormat: "15:04:05.000",
		})
	} else {
		h = slog.NewJSONHandler(w, &slog.HandlerOptions{
			Level: lv,
		})
	}
	log := slog.New(h)
	slog.SetDefault(log)
	return log
}
