package app

import (
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/heartmarshall/imagehub-sweeper/internal/config"
)

// NewLogger builds the process logger on stderr and installs it as the slog
// default. stdout stays reserved for the sweep summary line.
//
// Format "text" adds source locations for local runs; anything else is JSON.
// Level accepts slog level names in any case ("debug", "WARN", "info+2");
// an unparsable level falls back to info.
func NewLogger(cfg config.LogConfig) *slog.Logger {
	logger := newLogger(os.Stderr, cfg)
	slog.SetDefault(logger)
	return logger
}

func newLogger(w io.Writer, cfg config.LogConfig) *slog.Logger {
	text := strings.EqualFold(cfg.Format, "text")

	opts := &slog.HandlerOptions{Level: levelOf(cfg.Level), AddSource: text}

	var h slog.Handler = slog.NewJSONHandler(w, opts)
	if text {
		h = slog.NewTextHandler(w, opts)
	}

	return slog.New(h).With(slog.String("app", "imagehub-sweeper"), slog.String("version", Version))
}

func levelOf(s string) slog.Level {
	var lvl slog.Level
	if err := lvl.UnmarshalText([]byte(strings.TrimSpace(s))); err != nil {
		return slog.LevelInfo
	}
	return lvl
}
