package config

import (
	"io"
	"os"

	"github.com/BurntSushi/toml"
	"github.com/kelseyhightower/envconfig"

	"github.com/permaweb/permaweb-go/types"
)

const EnvPrefix = "PERMAWEB"

// FromFile loads config from a specified file overriding defaults specified in
// the def parameter. If file does not exist or is empty defaults are assumed.
func FromFile(path string, def *Config) (*Config, error) {
	file, err := os.Open(path)
	switch {
	case os.IsNotExist(err):
		return fromEnv(def)
	case err != nil:
		return nil, err
	}

	defer file.Close() //nolint:errcheck // The file is RO
	return FromReader(file, def)
}

// FromReader loads config from a reader instance.
func FromReader(reader io.Reader, def *Config) (*Config, error) {
	cfg := def
	_, err := toml.NewDecoder(reader).Decode(cfg)
	if err != nil {
		return nil, types.Wrap(types.ErrInvalidConfig, err)
	}

	return fromEnv(cfg)
}

func fromEnv(cfg *Config) (*Config, error) {
	err := envconfig.Process(EnvPrefix, cfg)
	if err != nil {
		return nil, types.Wrapf(types.ErrInvalidConfig, "processing env vars overrides: %w", err)
	}

	return cfg, nil
}
