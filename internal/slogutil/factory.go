package slogutil

import (
	"io"
	"log/slog"

	"affected/internal/config"
)

// Settings are the CLI-side logging choices. Zero values defer to the config.
type Settings struct {
	Verbosity int    // -v count
	Quiet     bool   // --quiet
	Format    string // --log-format; "" uses config
}

// EffectiveLevel resolves the level with precedence: CLI flags > config > warn.
func EffectiveLevel(cfg config.LoggingConfig, s Settings) slog.Level {
	if s.Quiet || s.Verbosity > 0 {
		return LevelFromVerbosity(s.Verbosity, s.Quiet)
	}
	if cfg.Level != "" {
		return LevelFromString(cfg.Level)
	}
	return slog.LevelWarn
}

// FromConfig builds the logger for one CLI invocation.
func FromConfig(w io.Writer, cfg config.LoggingConfig, s Settings) *slog.Logger {
	level := EffectiveLevel(cfg, s)

	format := s.Format
	if format == "" {
		format = cfg.Format
	}
	if format == "json" {
		return NewJSONLogger(w, level)
	}
	return NewLogger(w, level)
}
