package sweeper

import (
	"fmt"
	"slices"
	"strings"

	"github.com/heartmarshall/imagehub-sweeper/internal/domain"
)

// Sweep names shared by both stores.
const (
	NameUnverified      = "unverified"
	NameEmailChange     = "email-change"
	NamePasswordReset   = "password-reset"
	NameAccountDeletion = "account-deletion"
)

// catalog holds every registered sweep. Field names follow each store's
// account schema: camelCase in mongo, and the TypeORM-generated columns in
// postgres (quoted camelCase, except verification_token_expires).
var catalog = []domain.Sweep{
	{
		Name:        NameUnverified,
		Store:       domain.StoreMongo,
		Mode:        domain.ModePurge,
		ExpiryField: "verificationTokenExpires",
		Summary:     "%d documents have been deleted",
	},
	{
		Name:        NameEmailChange,
		Store:       domain.StoreMongo,
		Mode:        domain.ModeRedact,
		ExpiryField: "emailChangeTokenExpires",
		ClearFields: []string{"pendingEmail", "emailChangeToken", "emailChangeTokenExpires"},
		Summary:     "%d documents have been updated",
	},
	{
		Name:        NamePasswordReset,
		Store:       domain.StoreMongo,
		Mode:        domain.ModeRedact,
		ExpiryField: "passwordResetTokenExpires",
		ClearFields: []string{"passwordResetToken", "passwordResetTokenExpires"},
		Summary:     "%d documents have been updated",
	},
	{
		Name:        NameAccountDeletion,
		Store:       domain.StoreMongo,
		Mode:        domain.ModePurge,
		ExpiryField: "deletionScheduledAt",
		Guard:       "isDeletionPending",
		Summary:     "%d documents have been deleted",
	},
	{
		Name:        NameUnverified,
		Store:       domain.StorePostgres,
		Mode:        domain.ModePurge,
		ExpiryField: "verification_token_expires",
		Summary:     "%d have been deleted",
	},
	{
		Name:        NamePasswordReset,
		Store:       domain.StorePostgres,
		Mode:        domain.ModeRedact,
		ExpiryField: "passwordResetTokenExpires",
		ClearFields: []string{"passwordResetToken", "passwordResetTokenExpires"},
		Summary:     "%d records have been updated",
	},
	{
		Name:        NameEmailChange,
		Store:       domain.StorePostgres,
		Mode:        domain.ModeRedact,
		ExpiryField: "emailChangeTokenExpires",
		ClearFields: []string{"pendingEmail", "emailChangeToken", "emailChangeTokenExpires"},
		Summary:     "%d records have been updated",
	},
	{
		Name:        NameAccountDeletion,
		Store:       domain.StorePostgres,
		Mode:        domain.ModePurge,
		ExpiryField: "deletionScheduledAt",
		Guard:       "isDeletionPending",
		Summary:     "%d records have been deleted",
	},
}

// Lookup returns the sweep registered under (store, name).
// Returns domain.ErrUnknownSweep if there is none.
func Lookup(store domain.StoreKind, name string) (domain.Sweep, error) {
	name = strings.ToLower(strings.TrimSpace(name))
	for _, s := range catalog {
		if s.Store == store && s.Name == name {
			return clone(s), nil
		}
	}
	return domain.Sweep{}, fmt.Errorf("%s/%s: %w", store, name, domain.ErrUnknownSweep)
}

// List returns every registered sweep ordered by store, then name.
func List() []domain.Sweep {
	out := make([]domain.Sweep, 0, len(catalog))
	for _, s := range catalog {
		out = append(out, clone(s))
	}
	slices.SortFunc(out, func(a, b domain.Sweep) int {
		if c := strings.Compare(string(a.Store), string(b.Store)); c != 0 {
			return c
		}
		return strings.Compare(a.Name, b.Name)
	})
	return out
}

// clone copies ClearFields so callers cannot mutate the catalog.
func clone(s domain.Sweep) domain.Sweep {
	s.ClearFields = slices.Clone(s.ClearFields)
	return s
}

// ListFor returns the sweeps registered for store, ordered by name.
func ListFor(store domain.StoreKind) []domain.Sweep {
	var out []domain.Sweep
	for _, s := range List() {
		if s.Store == store {
			out = append(out, s)
		}
	}
	return out
}
