package logger

import (
	"log/slog"
	"strings"
)

// Level is the process-wide log level shared by every handler.
var Level = &level{lvl: &slog.LevelVar{}}

type level struct {
	lvl *slog.LevelVar
}

func (l *level) Enabled(level slog.Level) bool {
	return level >= l.lvl.Level()
}

func (l *level) Set(level slog.Level) {
	l.lvl.Set(level)
}

// SetByName sets the level from its name. Unknown names keep the current level.
func (l *level) SetByName(level string) bool {
	switch name, _ := CanonicalName(level); name {
	case "error":
		l.lvl.Set(slog.LevelError)
	case "warn":
		l.lvl.Set(slog.LevelWarn)
	case "info":
		l.lvl.Set(slog.LevelInfo)
	case "debug":
		l.lvl.Set(slog.LevelDebug)
	default:
		return false
	}
	return true
}

// CanonicalName maps a level name and its aliases to one of debug, info,
// warn or error.
func CanonicalName(level string) (string, bool) {
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "err", "error":
		return "error", true
	case "warn", "warning":
		return "warn", true
	case "info":
		return "info", true
	case "debug":
		return "debug", true
	default:
		return "", false
	}
}
