package config

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

// Load builds a Config by layering defaults, optional file, and env vars.
// Order of precedence (low -> high):
//  1. defaults (New())
//  2. file (YAML) if KAMAOLE_CONFIG is set
//  3. env (prefix KAMAOLE_)
func Load(ctx context.Context) (*Config, error) {
	// Start with defaults
	base := New()

	k := koanf.New(".")

	// Load from file if provided
	if path := os.Getenv("KAMAOLE_CONFIG"); path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("%w: %w", ErrLoadConfig, err)
		}
	}

	// Environment variables: KAMAOLE_ADDR, KAMAOLE_DATA_URL, ...
	// Map env keys like KAMAOLE_DATA_URL -> data_url (flat keys),
	// preserving underscores to match koanf tags on the struct.
	envProvider := env.Provider("KAMAOLE_", ".", func(s string) string {
		s = strings.ToLower(s)
		s = strings.TrimPrefix(s, "kamaole_")
		return s
	})
	if err := k.Load(envProvider, nil); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrLoadConfig, err)
	}

	// Unmarshal into a copy
	cfg := *base
	if err := k.UnmarshalWithConf("", &cfg, koanf.UnmarshalConf{Tag: "koanf"}); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrLoadConfig, err)
	}

	// Basic validation
	if cfg.Addr == "" {
		return nil, fmt.Errorf("%w: addr must not be empty", ErrInvalidConfig)
	}
	if cfg.DataURL == "" && cfg.DataFile == "" {
		return nil, fmt.Errorf("%w: one of data_url or data_file must be set", ErrInvalidConfig)
	}
	if cfg.BundleScheme != "basket" && cfg.BundleScheme != "meal" {
		return nil, fmt.Errorf("%w: bundle_scheme must be basket or meal", ErrInvalidConfig)
	}
	return &cfg, nil
}
