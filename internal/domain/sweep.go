package domain

import (
	"fmt"
	"strings"
	"time"
)

// Sweep describes one expiry sweep: a single filtered bulk write against the
// account collection or table.
type Sweep struct {
	Name  string
	Store StoreKind
	Mode  Mode
	// ExpiryField is compared with a strict less-than against the cutoff.
	// Records without it never match.
	ExpiryField string
	// ClearFields are removed (mongo) or set to NULL (postgres) in redact mode.
	ClearFields []string
	// Guard, when set, names a boolean field that must be true for a match.
	Guard string
	// Summary is the printf template of the operator line, with one %d verb.
	Summary string
}

// Validate checks that the sweep can be turned into a single bulk write.
func (s Sweep) Validate() error {
	var errs []FieldError

	if strings.TrimSpace(s.Name) == "" {
		errs = append(errs, FieldError{Field: "name", Message: "required"})
	}
	if !s.Store.IsValid() {
		errs = append(errs, FieldError{Field: "store", Message: fmt.Sprintf("unsupported store %q", s.Store)})
	}
	if strings.TrimSpace(s.ExpiryField) == "" {
		errs = append(errs, FieldError{Field: "expiry_field", Message: "required"})
	}

	switch s.Mode {
	case ModePurge:
		if len(s.ClearFields) > 0 {
			errs = append(errs, FieldError{Field: "clear_fields", Message: "must be empty in purge mode"})
		}
	case ModeRedact:
		if len(s.ClearFields) == 0 {
			errs = append(errs, FieldError{Field: "clear_fields", Message: "at least one required in redact mode"})
		}
		for i, f := range s.ClearFields {
			if strings.TrimSpace(f) == "" {
				errs = append(errs, FieldError{Field: fmt.Sprintf("clear_fields[%d]", i), Message: "empty field name"})
			}
		}
	default:
		errs = append(errs, FieldError{Field: "mode", Message: fmt.Sprintf("unsupported mode %q", s.Mode)})
	}

	if s.Summary != "" && strings.Count(s.Summary, "%d") != 1 {
		errs = append(errs, FieldError{Field: "summary", Message: "must contain exactly one %d verb"})
	}

	if len(errs) > 0 {
		return NewConfigErrors(errs)
	}
	return nil
}

// Cutoff converts now into the value stored expiries are compared against.
func Cutoff(now time.Time, enc ExpiryEncoding) (any, error) {
	switch enc {
	case EncodingEpochMillis:
		return now.UTC().UnixMilli(), nil
	case EncodingTimestamp:
		return now.UTC(), nil
	}
	return nil, fmt.Errorf("expiry encoding %q: %w", enc, ErrConfiguration)
}

// Result is the outcome of one sweep run.
type Result struct {
	Sweep    Sweep
	Now      time.Time
	Affected int64
	DryRun   bool
}

// Line renders the one-line operator summary.
func (r Result) Line() string {
	if r.DryRun {
		return fmt.Sprintf("%d records would be affected", r.Affected)
	}
	if r.Sweep.Summary == "" {
		return fmt.Sprintf("%d records have been affected", r.Affected)
	}
	return fmt.Sprintf(r.Sweep.Summary, r.Affected)
}
