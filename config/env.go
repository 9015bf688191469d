package config

import (
	"fmt"

	"github.com/caarlos0/env/v11"
)

// EnvPrefix starts the name of every environment override.
const EnvPrefix = "SBGEN_"

// ParseEnv loads configuration from environment variables.
func ParseEnv(target any) error {
	if err := env.ParseWithOptions(target, env.Options{Prefix: EnvPrefix}); err != nil {
		return fmt.Errorf("parse env: %w", err)
	}
	return nil
}
