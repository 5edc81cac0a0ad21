package client

import (
	"fmt"
	"os"
	"time"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"
)

// Config holds catalog client configuration.
type Config struct {
	URL     string        `validate:"required,url"`
	Token   string
	Timeout time.Duration
	Debug   bool
}

// fileConfig is the on-disk YAML shape; timeouts are duration strings
// ("30s") rather than raw nanoseconds.
type fileConfig struct {
	URL     string `yaml:"url"`
	Token   string `yaml:"token"`
	Timeout string `yaml:"timeout"`
	Debug   bool   `yaml:"debug"`
}

// LoadConfig reads a YAML client configuration from disk.
func LoadConfig(path string) (Config, error) {
	var cfg Config

	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("reading config: %w", err)
	}

	var fc fileConfig
	if err := yaml.Unmarshal(data, &fc); err != nil {
		return cfg, fmt.Errorf("parsing config: %w", err)
	}

	cfg = Config{URL: fc.URL, Token: fc.Token, Debug: fc.Debug}
	if fc.Timeout != "" {
		timeout, err := time.ParseDuration(fc.Timeout)
		if err != nil {
			return cfg, fmt.Errorf("invalid timeout: %w", err)
		}
		cfg.Timeout = timeout
	}
	return cfg, nil
}

func (c Config) validate() error {
	if err := validator.New().Struct(c); err != nil {
		return fmt.Errorf("invalid client config: %w", err)
	}
	return nil
}
