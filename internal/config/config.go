package config

import (
	"fmt"
	"net"
	"net/url"
	"strconv"
	"time"
)

// Config is the root configuration of the sweep commands.
type Config struct {
	Mongo    MongoConfig    `yaml:"mongo"`
	Postgres PostgresConfig `yaml:"postgres"`
	Sweep    SweepConfig    `yaml:"sweep"`
	Log      LogConfig      `yaml:"log"`
}

// MongoConfig holds document-store connection settings.
type MongoConfig struct {
	URI            string `yaml:"uri"             env:"MONGO_URI"             env-default:"mongodb://localhost:27017" validate:"required,uri"`
	Database       string `yaml:"database"        env:"MONGO_DB_NAME"         env-default:"imagehub"                  validate:"required"`
	Collection     string `yaml:"collection"      env:"MONGO_COLLECTION"      env-default:"users"                     validate:"required"`
	ExpiryEncoding string `yaml:"expiry_encoding" env:"MONGO_EXPIRY_ENCODING" env-default:"epoch_ms"                  validate:"oneof=epoch_ms timestamp"`
}

// PostgresConfig holds relational-store connection settings.
// Password has no default on purpose; postgres sweeps refuse to run without it.
type PostgresConfig struct {
	Host           string `yaml:"host"            env:"PG_HOST"            env-default:"localhost" validate:"required"`
	Port           int    `yaml:"port"            env:"PG_PORT"            env-default:"5432"      validate:"min=1,max=65535"`
	DBName         string `yaml:"dbname"          env:"PG_DBNAME"          env-default:"imagehub"  validate:"required"`
	User           string `yaml:"user"            env:"PG_USER"            env-default:"postgres"  validate:"required"`
	Password       string `yaml:"password"        env:"PG_PASSWORD"                                validate:"required"`
	SSLMode        string `yaml:"sslmode"         env:"PG_SSLMODE"         env-default:"prefer"    validate:"oneof=disable allow prefer require verify-ca verify-full"`
	Table          string `yaml:"table"           env:"PG_TABLE"           env-default:"users"     validate:"required"`
	ExpiryEncoding string `yaml:"expiry_encoding" env:"PG_EXPIRY_ENCODING" env-default:"timestamp" validate:"oneof=epoch_ms timestamp"`
}

// SweepConfig holds run-level settings shared by every sweep.
type SweepConfig struct {
	// DryRun counts matching records without mutating them.
	DryRun bool `yaml:"dry_run" env:"SWEEP_DRY_RUN" env-default:"false"`
	// Timeout bounds the whole run. Zero leaves timeouts to the driver.
	Timeout time.Duration `yaml:"timeout" env:"SWEEP_TIMEOUT" env-default:"0s" validate:"min=0"`
}

// LogConfig holds logging settings.
type LogConfig struct {
	Level  string `yaml:"level"  env:"LOG_LEVEL"  env-default:"info" validate:"omitempty,oneof=debug info warn error DEBUG INFO WARN ERROR"`
	Format string `yaml:"format" env:"LOG_FORMAT" env-default:"json" validate:"omitempty,oneof=json text"`
}

// DSN builds a postgres:// connection string from the individual settings.
// Credentials and database name are URL-escaped.
func (c PostgresConfig) DSN() string {
	u := url.URL{
		Scheme: "postgres",
		User:   url.UserPassword(c.User, c.Password),
		Host:   net.JoinHostPort(c.Host, strconv.Itoa(c.Port)),
		Path:   "/" + c.DBName,
	}
	if c.SSLMode != "" {
		u.RawQuery = url.Values{"sslmode": {c.SSLMode}}.Encode()
	}
	return u.String()
}

// Redacted returns the connection target without credentials, for logs.
func (c PostgresConfig) Redacted() string {
	return fmt.Sprintf("%s@%s/%s", c.User, net.JoinHostPort(c.Host, strconv.Itoa(c.Port)), c.DBName)
}

// Redacted returns the mongo URI with any password masked, for logs.
func (c MongoConfig) Redacted() string {
	u, err := url.Parse(c.URI)
	if err != nil {
		return "<unparseable uri>"
	}
	return u.Redacted()
}
