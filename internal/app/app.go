// Package app wires configuration, logging and the store adapters into a
// single sweep run shared by every command.
package app

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/heartmarshall/imagehub-sweeper/internal/adapter/mongo"
	mongoaccount "github.com/heartmarshall/imagehub-sweeper/internal/adapter/mongo/account"
	"github.com/heartmarshall/imagehub-sweeper/internal/adapter/postgres"
	pgaccount "github.com/heartmarshall/imagehub-sweeper/internal/adapter/postgres/account"
	"github.com/heartmarshall/imagehub-sweeper/internal/config"
	"github.com/heartmarshall/imagehub-sweeper/internal/domain"
	"github.com/heartmarshall/imagehub-sweeper/internal/sweeper"
	"github.com/heartmarshall/imagehub-sweeper/pkg/ctxutil"
)

// Store is an opened account store.
type Store interface {
	Apply(ctx context.Context, sweep domain.Sweep, cutoff any) (int64, error)
	Count(ctx context.Context, sweep domain.Sweep, cutoff any) (int64, error)
	Close(ctx context.Context) error
}

// Opener connects to the store of the given kind and reports how that store
// encodes expiries.
type Opener func(ctx context.Context, cfg *config.Config, kind domain.StoreKind) (Store, domain.ExpiryEncoding, error)

// Runner executes sweeps, one connection per call.
type Runner struct {
	cfg    *config.Config
	log    *slog.Logger
	out    io.Writer
	open   Opener
	svcOpt []sweeper.Option
}

// RunnerOption customises a Runner.
type RunnerOption func(*Runner)

// WithOpener replaces the store opener (tests use an in-memory store).
func WithOpener(open Opener) RunnerOption {
	return func(r *Runner) { r.open = open }
}

// WithServiceOptions forwards options to the sweeper service.
func WithServiceOptions(opts ...sweeper.Option) RunnerOption {
	return func(r *Runner) { r.svcOpt = append(r.svcOpt, opts...) }
}

// NewRunner creates a Runner that prints summaries to out.
func NewRunner(cfg *config.Config, logger *slog.Logger, out io.Writer, opts ...RunnerOption) *Runner {
	r := &Runner{
		cfg:  cfg,
		log:  logger,
		out:  out,
		open: OpenStore,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// closeTimeout bounds the disconnect that follows every run, including runs
// whose context has already expired.
const closeTimeout = 5 * time.Second

// Transactor is implemented by stores that can run several sweeps in one
// transaction.
type Transactor interface {
	RunInTx(ctx context.Context, fn func(ctx context.Context) error) error
}

// Sweep looks up (kind, name), connects, runs the sweep once, prints the
// summary line and disconnects. The store is released on every path.
func (r *Runner) Sweep(ctx context.Context, kind domain.StoreKind, name string, dryRun bool) (domain.Result, error) {
	sweep, err := sweeper.Lookup(kind, name)
	if err != nil {
		return domain.Result{}, err
	}

	var res domain.Result
	err = r.withService(ctx, kind, func(ctx context.Context, svc *sweeper.Service, _ Store) error {
		var err error
		res, err = svc.Run(ctx, sweep, dryRun)
		return err
	})
	if err != nil {
		return domain.Result{}, err
	}

	if _, err := fmt.Fprintln(r.out, res.Line()); err != nil {
		return res, fmt.Errorf("write summary: %w", err)
	}
	return res, nil
}

// SweepAll runs every sweep registered for kind over one connection and
// prints one summary line per sweep. When the store is a Transactor the
// sweeps commit or roll back together and nothing is printed on failure;
// otherwise each sweep stands alone and the run stops at the first error.
func (r *Runner) SweepAll(ctx context.Context, kind domain.StoreKind, dryRun bool) ([]domain.Result, error) {
	sweeps := sweeper.ListFor(kind)
	if len(sweeps) == 0 {
		return nil, fmt.Errorf("store kind %q: %w", kind, domain.ErrUnknownSweep)
	}

	// One run ID across every sweep of the batch.
	ctx, _ = ctxutil.EnsureRunID(ctx)

	var results []domain.Result
	err := r.withService(ctx, kind, func(ctx context.Context, svc *sweeper.Service, st Store) error {
		runAll := func(ctx context.Context) error {
			results = results[:0]
			for _, sw := range sweeps {
				res, err := svc.Run(ctx, sw, dryRun)
				if err != nil {
					return err
				}
				results = append(results, res)
			}
			return nil
		}

		if tx, ok := st.(Transactor); ok {
			return tx.RunInTx(ctx, runAll)
		}
		return runAll(ctx)
	})
	if err != nil {
		return nil, err
	}

	for _, res := range results {
		if _, err := fmt.Fprintln(r.out, res.Line()); err != nil {
			return results, fmt.Errorf("write summary: %w", err)
		}
	}
	return results, nil
}

// withService validates the store section, applies the sweep timeout, opens
// the store and hands fn a service over it. The store is closed afterwards
// with its own bounded context.
func (r *Runner) withService(ctx context.Context, kind domain.StoreKind, fn func(context.Context, *sweeper.Service, Store) error) (err error) {
	if err := r.cfg.ValidateFor(kind); err != nil {
		return fmt.Errorf("%s config: %w", kind, err)
	}

	if r.cfg.Sweep.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, r.cfg.Sweep.Timeout)
		defer cancel()
	}

	st, enc, err := r.open(ctx, r.cfg, kind)
	if err != nil {
		return err
	}

	svc := sweeper.NewService(r.log, st, enc, r.svcOpt...)
	defer func() {
		closeCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), closeTimeout)
		defer cancel()
		if cerr := svc.Close(closeCtx); cerr != nil {
			r.log.Warn("close store", slog.String("error", cerr.Error()))
			if err == nil {
				err = cerr
			}
		}
	}()

	return fn(ctx, svc, st)
}

// OpenStore connects to the configured store of kind.
func OpenStore(ctx context.Context, cfg *config.Config, kind domain.StoreKind) (Store, domain.ExpiryEncoding, error) {
	switch kind {
	case domain.StoreMongo:
		client, err := mongo.NewClient(ctx, cfg.Mongo)
		if err != nil {
			return nil, "", err
		}
		return mongoaccount.New(client, cfg.Mongo.Database, cfg.Mongo.Collection),
			domain.ExpiryEncoding(cfg.Mongo.ExpiryEncoding), nil

	case domain.StorePostgres:
		pool, err := postgres.NewPool(ctx, cfg.Postgres)
		if err != nil {
			return nil, "", err
		}
		return pgaccount.New(pool, cfg.Postgres.Table),
			domain.ExpiryEncoding(cfg.Postgres.ExpiryEncoding), nil
	}
	return nil, "", fmt.Errorf("store kind %q: %w", kind, domain.ErrConfiguration)
}

// ExitCode maps a run error to the process exit status.
func ExitCode(err error) int {
	switch {
	case err == nil:
		return 0
	case errors.Is(err, domain.ErrConfiguration), errors.Is(err, domain.ErrUnknownSweep):
		return 2
	default:
		return 1
	}
}
