// Package logging builds the zerolog loggers used across asmkit.
package logging

import (
	"io"
	"os"
	"strings"
	"time"

	"github.com/oklog/ulid/v2"
	"github.com/rs/zerolog"
	"golang.org/x/term"
)

// Output formats.
const (
	FormatAuto    = "auto"
	FormatConsole = "console"
	FormatJSON    = "json"
)

// Config selects level, format and destination.
type Config struct {
	Level  string
	Format string
	Out    io.Writer
	RunID  string
}

// New returns a logger for cfg. An unknown level falls back to info; the
// auto format picks console output for terminals and JSON otherwise.
func New(cfg Config) zerolog.Logger {
	out := cfg.Out
	if out == nil {
		out = os.Stderr
	}
	lvl, err := zerolog.ParseLevel(strings.ToLower(cfg.Level))
	if err != nil || cfg.Level == "" {
		lvl = zerolog.InfoLevel
	}

	if resolveFormat(cfg.Format, out) == FormatConsole {
		out = zerolog.ConsoleWriter{Out: out, TimeFormat: time.RFC3339}
	}

	ctx := zerolog.New(out).Level(lvl).With().Timestamp()
	if cfg.RunID != "" {
		ctx = ctx.Str("run_id", cfg.RunID)
	}
	return ctx.Logger()
}

func resolveFormat(format string, out io.Writer) string {
	switch strings.ToLower(format) {
	case FormatConsole:
		return FormatConsole
	case FormatJSON:
		return FormatJSON
	}
	if f, ok := out.(*os.File); ok && term.IsTerminal(int(f.Fd())) {
		return FormatConsole
	}
	return FormatJSON
}

// Component returns a sub-logger tagged with the component name.
func Component(l zerolog.Logger, name string) zerolog.Logger {
	return l.With().Str("component", name).Logger()
}

// NewRunID returns a sortable identifier for one invocation.
func NewRunID() string {
	return ulid.Make().String()
}
