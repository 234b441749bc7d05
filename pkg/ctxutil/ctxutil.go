// Package ctxutil carries per-run values through context.
package ctxutil

import (
	"context"

	"github.com/google/uuid"
)

type ctxKey string

const runIDKey ctxKey = "run_id"

// WithRunID stores the sweep run ID in the context.
func WithRunID(ctx context.Context, id uuid.UUID) context.Context {
	return context.WithValue(ctx, runIDKey, id)
}

// RunIDFromCtx extracts the run ID from the context.
// Returns uuid.Nil and false if the value is missing, nil UUID, or wrong type.
func RunIDFromCtx(ctx context.Context) (uuid.UUID, bool) {
	id, ok := ctx.Value(runIDKey).(uuid.UUID)
	if !ok || id == uuid.Nil {
		return uuid.Nil, false
	}
	return id, true
}

// EnsureRunID returns ctx unchanged when it already carries a run ID,
// otherwise a child context holding a fresh one.
func EnsureRunID(ctx context.Context) (context.Context, uuid.UUID) {
	if id, ok := RunIDFromCtx(ctx); ok {
		return ctx, id
	}
	id := uuid.New()
	return WithRunID(ctx, id), id
}
