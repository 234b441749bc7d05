package config

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/heartmarshall/imagehub-sweeper/internal/domain"
)

// v is the package-level validator. Tag names are reported as the yaml keys.
var v = newValidator()

func newValidator() *validator.Validate {
	val := validator.New(validator.WithRequiredStructEnabled())
	val.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("yaml"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return val
}

// Validate checks the store-independent sections. It must be called after
// loading; Load calls it automatically.
func (c *Config) Validate() error {
	if err := validateStruct("sweep", c.Sweep); err != nil {
		return err
	}
	if err := validateStruct("log", c.Log); err != nil {
		return err
	}
	return nil
}

// ValidateMongo checks the mongo section before a document-store sweep.
func (c *Config) ValidateMongo() error {
	return validateStruct("mongo", c.Mongo)
}

// ValidatePostgres checks the postgres section before a relational sweep.
// An empty password is rejected: there is no insecure fallback.
func (c *Config) ValidatePostgres() error {
	return validateStruct("postgres", c.Postgres)
}

// ValidateFor dispatches to the section validator of the given store.
func (c *Config) ValidateFor(kind domain.StoreKind) error {
	switch kind {
	case domain.StoreMongo:
		return c.ValidateMongo()
	case domain.StorePostgres:
		return c.ValidatePostgres()
	}
	return fmt.Errorf("store kind %q: %w", kind, domain.ErrConfiguration)
}

// validateStruct runs tag validation and converts failures into a
// domain.ConfigError with section-qualified field names.
func validateStruct(section string, s any) error {
	err := v.Struct(s)
	if err == nil {
		return nil
	}

	var ve validator.ValidationErrors
	if !errors.As(err, &ve) {
		return fmt.Errorf("%s: %w", section, err)
	}

	fields := make([]domain.FieldError, 0, len(ve))
	for _, fe := range ve {
		fields = append(fields, domain.FieldError{
			Field:   section + "." + fe.Field(),
			Message: describe(fe),
		})
	}
	return domain.NewConfigErrors(fields)
}

func describe(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "required"
	case "oneof":
		return fmt.Sprintf("must be one of [%s] (got %v)", fe.Param(), fe.Value())
	case "min", "max":
		return fmt.Sprintf("must satisfy %s=%s (got %v)", fe.Tag(), fe.Param(), fe.Value())
	case "uri":
		return fmt.Sprintf("must be a valid URI (got %q)", fe.Value())
	}
	return fmt.Sprintf("failed %q", fe.Tag())
}
