package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5/pgconn"

	"github.com/heartmarshall/imagehub-sweeper/internal/domain"
)

// MapError converts pgx/pgconn errors to domain errors, tagged with op.
// context.DeadlineExceeded and context.Canceled are NOT mapped; they pass through.
func MapError(err error, op string) error {
	if err == nil {
		return nil
	}

	// context errors pass through as-is
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
		return fmt.Errorf("%s: %w", op, err)
	}

	var connErr *pgconn.ConnectError
	if errors.As(err, &connErr) {
		return fmt.Errorf("%s: %w: %w", op, domain.ErrConnection, err)
	}

	// PgError codes
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && len(pgErr.Code) >= 2 {
		switch pgErr.Code[:2] {
		case "08": // connection_exception
			return fmt.Errorf("%s: %w: %w", op, domain.ErrConnection, err)
		case "28": // invalid_authorization_specification
			return fmt.Errorf("%s: %w: %w", op, domain.ErrConnection, err)
		}
	}

	// Everything else is a failed write.
	return fmt.Errorf("%s: %w: %w", op, domain.ErrQuery, err)
}
