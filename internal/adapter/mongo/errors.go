package mongo

import (
	"context"
	"errors"
	"fmt"

	"go.mongodb.org/mongo-driver/v2/mongo"

	"github.com/heartmarshall/imagehub-sweeper/internal/domain"
)

// Server error codes that mean the session cannot act, not that the write
// was malformed.
const (
	codeUnauthorized         = 13
	codeAuthenticationFailed = 18
)

// MapError converts driver errors to domain errors, tagged with op.
// context.DeadlineExceeded and context.Canceled are NOT mapped; they pass through.
func MapError(err error, op string) error {
	if err == nil {
		return nil
	}

	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
		return fmt.Errorf("%s: %w", op, err)
	}

	if mongo.IsNetworkError(err) || errors.Is(err, mongo.ErrClientDisconnected) {
		return fmt.Errorf("%s: %w: %w", op, domain.ErrConnection, err)
	}

	var se mongo.ServerError
	if errors.As(err, &se) && (se.HasErrorCode(codeUnauthorized) || se.HasErrorCode(codeAuthenticationFailed)) {
		return fmt.Errorf("%s: %w: %w", op, domain.ErrConnection, err)
	}

	return fmt.Errorf("%s: %w: %w", op, domain.ErrQuery, err)
}
