package domain

import (
	"fmt"
	"strings"
)

// StoreKind identifies the account store a sweep targets.
type StoreKind string

const (
	StoreMongo    StoreKind = "mongo"
	StorePostgres StoreKind = "postgres"
)

func (k StoreKind) String() string { return string(k) }

func (k StoreKind) IsValid() bool {
	switch k {
	case StoreMongo, StorePostgres:
		return true
	}
	return false
}

// ParseStoreKind parses a store kind case-insensitively.
// "pg" and "postgresql" are accepted as aliases for postgres.
func ParseStoreKind(s string) (StoreKind, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "mongo", "mongodb":
		return StoreMongo, nil
	case "postgres", "postgresql", "pg":
		return StorePostgres, nil
	}
	return "", fmt.Errorf("store kind %q: %w", s, ErrConfiguration)
}

// Mode is the mutation applied to records whose token has expired.
type Mode string

const (
	// ModePurge deletes the whole record.
	ModePurge Mode = "purge"
	// ModeRedact clears the flow-specific fields and leaves the record in place.
	ModeRedact Mode = "redact"
)

func (m Mode) String() string { return string(m) }

func (m Mode) IsValid() bool {
	switch m {
	case ModePurge, ModeRedact:
		return true
	}
	return false
}

// ExpiryEncoding is how a store persists expiry instants.
type ExpiryEncoding string

const (
	EncodingEpochMillis ExpiryEncoding = "epoch_ms"
	EncodingTimestamp   ExpiryEncoding = "timestamp"
)

func (e ExpiryEncoding) String() string { return string(e) }

func (e ExpiryEncoding) IsValid() bool {
	switch e {
	case EncodingEpochMillis, EncodingTimestamp:
		return true
	}
	return false
}
