package logger

import (
	"io"
	"log/slog"
	"os"
	"runtime"
	"strings"
	"time"

	"github.com/lmittmann/tint"
	"github.com/mattn/go-isatty"
)

// New returns a logger writing to w. A colored tint handler is used when w is
// a terminal, a plain text handler otherwise.
func New(w io.Writer) *slog.Logger {
	if file, ok := w.(*os.File); ok && isatty.IsTerminal(file.Fd()) {
		return slog.New(newTerminalHandler(w))
	}
	return slog.New(newTextHandler(w))
}

// Default builds a logger on stderr and installs it as the slog default.
func Default() *slog.Logger {
	logger := New(os.Stderr)
	slog.SetDefault(logger)
	return logger
}

func newTextHandler(w io.Writer) slog.Handler {
	return slog.NewTextHandler(w, &slog.HandlerOptions{
		Level: Level.lvl,
		ReplaceAttr: func(groups []string, a slog.Attr) slog.Attr {
			if a.Key == slog.LevelKey {
				lvl := a.Value.Any().(slog.Level)
				return slog.String(a.Key, strings.ToLower(lvl.String()))
			}
			return a
		},
	})
}

func newTerminalHandler(w io.Writer) slog.Handler {
	return tint.NewHandler(w, &tint.Options{
		NoColor:    runtime.GOOS == "windows",
		AddSource:  true,
		Level:      Level.lvl,
		TimeFormat: time.TimeOnly,
		ReplaceAttr: func(groups []string, a slog.Attr) slog.Attr {
			if a.Key == slog.SourceKey && !Level.Enabled(slog.LevelDebug) {
				return slog.Attr{}
			}
			return a
		},
	})
}
