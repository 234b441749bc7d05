// Package sweeper runs expiry sweeps: one filtered bulk write that purges or
// redacts account records whose token expiry lies strictly before now.
package sweeper

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/heartmarshall/imagehub-sweeper/internal/domain"
	"github.com/heartmarshall/imagehub-sweeper/pkg/ctxutil"
)

// store is the capability a sweep needs from an account store. Connecting is
// done by the store constructor; Close disconnects.
type store interface {
	// Apply executes the sweep as a single atomic bulk write and returns the
	// number of affected records.
	Apply(ctx context.Context, sweep domain.Sweep, cutoff any) (int64, error)
	// Count returns the number of records the sweep would affect.
	Count(ctx context.Context, sweep domain.Sweep, cutoff any) (int64, error)
	Close(ctx context.Context) error
}

// Service runs sweeps against one store.
type Service struct {
	log      *slog.Logger
	store    store
	encoding domain.ExpiryEncoding
	now      func() time.Time
}

// Option customises a Service.
type Option func(*Service)

// WithClock replaces time.Now. The returned instant is converted to UTC.
func WithClock(now func() time.Time) Option {
	return func(s *Service) { s.now = now }
}

// NewService creates a sweep service for a store whose expiries use enc.
func NewService(logger *slog.Logger, st store, enc domain.ExpiryEncoding, opts ...Option) *Service {
	s := &Service{
		log:      logger.With("service", "sweeper"),
		store:    st,
		encoding: enc,
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Run executes one sweep. In dry-run mode it only counts matches. There are
// no retries: a failed run is picked up by the next scheduled invocation.
func (s *Service) Run(ctx context.Context, sweep domain.Sweep, dryRun bool) (domain.Result, error) {
	if err := sweep.Validate(); err != nil {
		return domain.Result{}, fmt.Errorf("sweep %s: %w", sweep.Name, err)
	}

	now := s.now().UTC()
	cutoff, err := domain.Cutoff(now, s.encoding)
	if err != nil {
		return domain.Result{}, fmt.Errorf("sweep %s: %w", sweep.Name, err)
	}

	ctx, runID := ctxutil.EnsureRunID(ctx)

	log := s.log.With(
		slog.String("run_id", runID.String()),
		slog.String("store", sweep.Store.String()),
		slog.String("sweep", sweep.Name),
		slog.String("mode", sweep.Mode.String()),
		slog.String("expiry_field", sweep.ExpiryField),
		slog.Time("now", now),
		slog.Bool("dry_run", dryRun),
	)
	log.DebugContext(ctx, "sweep started", slog.Any("cutoff", cutoff))

	var affected int64
	if dryRun {
		affected, err = s.store.Count(ctx, sweep, cutoff)
	} else {
		affected, err = s.store.Apply(ctx, sweep, cutoff)
	}
	if err != nil {
		log.ErrorContext(ctx, "sweep failed", slog.String("error", err.Error()))
		return domain.Result{}, fmt.Errorf("sweep %s: %w", sweep.Name, err)
	}

	log.InfoContext(ctx, "sweep completed", slog.Int64("affected", affected))

	return domain.Result{
		Sweep:    sweep,
		Now:      now,
		Affected: affected,
		DryRun:   dryRun,
	}, nil
}

// Close releases the underlying store.
func (s *Service) Close(ctx context.Context) error {
	return s.store.Close(ctx)
}
