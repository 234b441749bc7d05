package domain

import (
	"errors"
	"fmt"
)

// Sentinel errors used across all layers.
var (
	ErrConfiguration = errors.New("invalid configuration")
	ErrConnection    = errors.New("store connection failed")
	ErrQuery         = errors.New("store write failed")
	ErrUnknownSweep  = errors.New("unknown sweep")
)

// FieldError describes a configuration problem with a specific field.
type FieldError struct {
	Field   string
	Message string
}

// ConfigError contains a list of field-level configuration errors.
type ConfigError struct {
	Errors []FieldError
}

func (e *ConfigError) Error() string {
	if len(e.Errors) == 1 {
		return fmt.Sprintf("configuration: %s: %s", e.Errors[0].Field, e.Errors[0].Message)
	}
	return fmt.Sprintf("configuration: %d errors", len(e.Errors))
}

func (e *ConfigError) Unwrap() error { return ErrConfiguration }

// NewConfigError creates a ConfigError for a single field.
func NewConfigError(field, message string) *ConfigError {
	return &ConfigError{
		Errors: []FieldError{{Field: field, Message: message}},
	}
}

// NewConfigErrors creates a ConfigError from multiple field errors.
func NewConfigErrors(errs []FieldError) *ConfigError {
	return &ConfigError{Errors: errs}
}
