package testhelper

import (
	"context"
	"fmt"
	"testing"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// uniqueSuffix returns a short unique string for generating non-conflicting test data.
func uniqueSuffix() string {
	return uuid.New().String()[:8]
}

// Account is a users row for seeding. Expiry fields are typed any so the same
// helper serves timestamptz and bigint (epoch ms) tables; nil means NULL.
type Account struct {
	ID                        uuid.UUID
	Email                     string
	VerificationToken         *string
	VerificationTokenExpires  any
	PendingEmail              *string
	EmailChangeToken          *string
	EmailChangeTokenExpires   any
	PasswordResetToken        *string
	PasswordResetTokenExpires any
	IsDeletionPending         bool
	DeletionScheduledAt       any
}

// Str returns a pointer to s.
func Str(s string) *string { return &s }

// SeedAccount inserts a into table and returns it with ID and Email filled.
func SeedAccount(t *testing.T, pool *pgxpool.Pool, table string, a Account) Account {
	t.Helper()

	if a.ID == uuid.Nil {
		a.ID = uuid.New()
	}
	if a.Email == "" {
		a.Email = "user-" + uniqueSuffix() + "@example.com"
	}

	_, err := pool.Exec(context.Background(), fmt.Sprintf(
		`INSERT INTO %s ("_id", email, "verificationToken", verification_token_expires,
		   "pendingEmail", "emailChangeToken", "emailChangeTokenExpires",
		   "passwordResetToken", "passwordResetTokenExpires",
		   "isDeletionPending", "deletionScheduledAt")
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`, pgx.Identifier{table}.Sanitize()),
		a.ID, a.Email, a.VerificationToken, a.VerificationTokenExpires,
		a.PendingEmail, a.EmailChangeToken, a.EmailChangeTokenExpires,
		a.PasswordResetToken, a.PasswordResetTokenExpires,
		a.IsDeletionPending, a.DeletionScheduledAt,
	)
	if err != nil {
		t.Fatalf("testhelper: SeedAccount insert into %s: %v", table, err)
	}

	return a
}

// Exists reports whether a row with id is present in table.
func Exists(t *testing.T, pool *pgxpool.Pool, table string, id uuid.UUID) bool {
	t.Helper()

	var ok bool
	err := pool.QueryRow(context.Background(), fmt.Sprintf(
		`SELECT EXISTS (SELECT 1 FROM %s WHERE "_id" = $1)`, pgx.Identifier{table}.Sanitize()), id,
	).Scan(&ok)
	if err != nil {
		t.Fatalf("testhelper: Exists: %v", err)
	}
	return ok
}

// Row returns the text rendering of every column of the row with id, keyed
// by column name. NULL columns map to nil.
func Row(t *testing.T, pool *pgxpool.Pool, table string, id uuid.UUID) map[string]*string {
	t.Helper()
	ctx := context.Background()

	rows, err := pool.Query(ctx, fmt.Sprintf(
		`SELECT to_jsonb(u) FROM %s u WHERE "_id" = $1`, pgx.Identifier{table}.Sanitize()), id)
	if err != nil {
		t.Fatalf("testhelper: Row query: %v", err)
	}

	doc, err := pgx.CollectExactlyOneRow(rows, pgx.RowTo[map[string]any])
	if err != nil {
		t.Fatalf("testhelper: Row collect: %v", err)
	}

	out := make(map[string]*string, len(doc))
	for k, v := range doc {
		if v == nil {
			out[k] = nil
			continue
		}
		s := fmt.Sprint(v)
		out[k] = &s
	}
	return out
}
