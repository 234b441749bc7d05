package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/ilyakaznacheev/cleanenv"

	"github.com/heartmarshall/imagehub-sweeper/internal/domain"
)

const defaultPath = "./config.yaml"

// Load builds the configuration with priority ENV > YAML > env-default.
//
// The YAML file is CONFIG_PATH, or ./config.yaml when that is unset. A
// missing ./config.yaml is fine (env only); a missing CONFIG_PATH file is an
// error. Every failure wraps domain.ErrConfiguration.
//
// Only the sweep and log sections are validated here; store sections are
// checked by ValidateFor once the target store is known, so a mongo sweep
// never fails over absent postgres credentials.
func Load() (*Config, error) {
	cfg := new(Config)

	path, explicit := os.LookupEnv("CONFIG_PATH")
	if !explicit || path == "" {
		path, explicit = defaultPath, false
	}

	switch _, err := os.Stat(path); {
	case err == nil:
		if err := cleanenv.ReadConfig(path, cfg); err != nil {
			return nil, fmt.Errorf("config: read %s: %w: %w", path, domain.ErrConfiguration, err)
		}
	case explicit || !errors.Is(err, fs.ErrNotExist):
		return nil, fmt.Errorf("config: file %s: %w: %w", path, domain.ErrConfiguration, err)
	default:
		if err := cleanenv.ReadEnv(cfg); err != nil {
			return nil, fmt.Errorf("config: read env: %w: %w", domain.ErrConfiguration, err)
		}
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	return cfg, nil
}
