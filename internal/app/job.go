package app

import (
	"context"
	"io"
	"log/slog"

	"github.com/heartmarshall/imagehub-sweeper/internal/config"
	"github.com/heartmarshall/imagehub-sweeper/internal/domain"
)

// RunJob is the body of the single-sweep commands: load configuration, run
// (kind, name) once and return the process exit code. Every diagnostic goes
// to stderr through slog; stdout receives only the summary line.
func RunJob(ctx context.Context, kind domain.StoreKind, name string, stdout, stderr io.Writer) int {
	cfg, err := config.Load()
	if err != nil {
		// The configured log settings are unknown here; fall back to JSON at info.
		newLogger(stderr, config.LogConfig{Format: "json"}).Error("load config",
			slog.String("store", kind.String()),
			slog.String("sweep", name),
			slog.String("error", err.Error()),
		)
		return ExitCode(err)
	}

	logger := newLogger(stderr, cfg.Log)
	slog.SetDefault(logger)

	if _, err := NewRunner(cfg, logger, stdout).Sweep(ctx, kind, name, cfg.Sweep.DryRun); err != nil {
		logger.Error("sweep failed",
			slog.String("store", kind.String()),
			slog.String("sweep", name),
			slog.String("error", err.Error()),
		)
		return ExitCode(err)
	}
	return 0
}
