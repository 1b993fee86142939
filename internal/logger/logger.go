package logger

import (
	"io"
	"log/slog"
	"strings"
)

type Options struct {
	Env   string
	Level string
}

// New builds a text logger on w and makes it the slog default.
func New(w io.Writer, opts Options) *slog.Logger {
	h := slog.NewTextHandler(w, &slog.HandlerOptions{
		Level: ParseLevel(opts.Level),
	})
	l := slog.New(h).With("app", "gomarketplace", "env", opts.Env)
	slog.SetDefault(l)
	return l
}

func ParseLevel(lvl string) slog.Level {
	switch strings.ToLower(strings.TrimSpace(lvl)) {
	case "debug":
		return slog.LevelDebug
	case "info":
		return slog.LevelInfo
	case "error":
		return slog.LevelError
	default:
		return slog.LevelWarn
	}
}
