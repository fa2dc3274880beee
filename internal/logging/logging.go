// Package logging configures the process-wide structured logger, grounded
// on maruel-sillybot's cmd/discord-bot/main.go setup: log/slog with a
// tint handler over a colorable stderr, color auto-disabled when stderr
// isn't a terminal.
package logging

import (
	"log/slog"
	"os"
	"time"

	"github.com/lmittmann/tint"
	"github.com/mattn/go-colorable"
	"github.com/mattn/go-isatty"
)

// Setup installs the process-wide slog.Default logger at the given level
// ("debug", "info", "warn", "error"; unrecognized values fall back to
// info) and returns the LevelVar so it can be adjusted later if ever
// needed (e.g. a future SIGHUP-triggered level bump).
func Setup(level string) *slog.LevelVar {
	programLevel := &slog.LevelVar{}
	programLevel.Set(parseLevel(level))

	logger := slog.New(tint.NewHandler(colorable.NewColorable(os.Stderr), &tint.Options{
		Level:      programLevel,
		TimeFormat: time.TimeOnly,
		NoColor:    !isatty.IsTerminal(os.Stderr.Fd()),
	}))
	slog.SetDefault(logger)
	return programLevel
}

func parseLevel(level string) slog.Level {
	switch level {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
