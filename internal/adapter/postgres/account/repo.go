// Package account implements expiry sweeps over the PostgreSQL users table.
package account

import (
	"context"
	"fmt"
	"strings"

	sq "github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	postgres "github.com/heartmarshall/imagehub-sweeper/internal/adapter/postgres"
	"github.com/heartmarshall/imagehub-sweeper/internal/domain"
)

var psql = sq.StatementBuilder.PlaceholderFormat(sq.Dollar)

// Repo runs sweeps against one accounts table.
type Repo struct {
	pool  *pgxpool.Pool
	tx    *postgres.TxManager
	table string
}

// New creates a repository over table, which may be schema-qualified
// ("public.users").
func New(pool *pgxpool.Pool, table string) *Repo {
	return &Repo{pool: pool, tx: postgres.NewTxManager(pool), table: table}
}

// RunInTx runs fn in one transaction; Apply and Count calls made with the
// context fn receives join it.
func (r *Repo) RunInTx(ctx context.Context, fn func(ctx context.Context) error) error {
	return r.tx.RunInTx(ctx, fn)
}

// Apply executes the sweep as one DELETE or UPDATE statement, which
// PostgreSQL applies atomically. Returns the number of affected rows.
// Inside TxManager.RunInTx the statement joins the caller's transaction.
func (r *Repo) Apply(ctx context.Context, sweep domain.Sweep, cutoff any) (int64, error) {
	query, args, err := r.mutation(sweep, cutoff)
	if err != nil {
		return 0, err
	}

	tag, err := postgres.QuerierFromCtx(ctx, r.pool).Exec(ctx, query, args...)
	if err != nil {
		return 0, postgres.MapError(err, fmt.Sprintf("%s %s", sweep.Mode, r.table))
	}

	return tag.RowsAffected(), nil
}

// Count returns how many rows Apply would affect at this cutoff.
func (r *Repo) Count(ctx context.Context, sweep domain.Sweep, cutoff any) (int64, error) {
	query, args, err := psql.Select("count(*)").
		From(r.quotedTable()).
		Where(r.predicate(sweep, cutoff)).
		ToSql()
	if err != nil {
		return 0, fmt.Errorf("build count: %w: %w", domain.ErrConfiguration, err)
	}

	var n int64
	if err := postgres.QuerierFromCtx(ctx, r.pool).QueryRow(ctx, query, args...).Scan(&n); err != nil {
		return 0, postgres.MapError(err, "count "+r.table)
	}

	return n, nil
}

// Close releases the pool.
func (r *Repo) Close(_ context.Context) error {
	r.pool.Close()
	return nil
}

// mutation builds the single statement for the sweep mode.
func (r *Repo) mutation(sweep domain.Sweep, cutoff any) (string, []any, error) {
	var (
		query string
		args  []any
		err   error
	)

	switch sweep.Mode {
	case domain.ModePurge:
		query, args, err = psql.Delete(r.quotedTable()).
			Where(r.predicate(sweep, cutoff)).
			ToSql()
	case domain.ModeRedact:
		if len(sweep.ClearFields) == 0 {
			return "", nil, domain.NewConfigError("clear_fields", "at least one required in redact mode")
		}
		b := psql.Update(r.quotedTable())
		for _, f := range sweep.ClearFields {
			b = b.Set(quote(f), sq.Expr("NULL"))
		}
		query, args, err = b.Where(r.predicate(sweep, cutoff)).ToSql()
	default:
		return "", nil, fmt.Errorf("mode %q: %w", sweep.Mode, domain.ErrConfiguration)
	}

	if err != nil {
		return "", nil, fmt.Errorf("build %s: %w: %w", sweep.Mode, domain.ErrConfiguration, err)
	}
	return query, args, nil
}

// predicate matches rows whose expiry is strictly before cutoff. NULL
// expiries never compare true, so rows without a pending flow are skipped.
func (r *Repo) predicate(sweep domain.Sweep, cutoff any) sq.Sqlizer {
	where := sq.And{sq.Lt{quote(sweep.ExpiryField): cutoff}}
	if sweep.Guard != "" {
		where = append(where, sq.Eq{quote(sweep.Guard): true})
	}
	return where
}

func (r *Repo) quotedTable() string {
	return pgx.Identifier(strings.Split(r.table, ".")).Sanitize()
}

// quote keeps camelCase column names intact.
func quote(column string) string {
	return pgx.Identifier{column}.Sanitize()
}
