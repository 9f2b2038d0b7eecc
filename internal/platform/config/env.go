package config

import (
	"fmt"

	"github.com/caarlos0/env/v11"
)

// EnvPrefix is prepended to every env tag, so a field tagged "LOCALE" reads
// DICEMAIDEN_LOCALE.
const EnvPrefix = "DICEMAIDEN_"

// ParseEnv loads target from DICEMAIDEN_* environment variables.
func ParseEnv(target any) error {
	if err := env.ParseWithOptions(target, env.Options{Prefix: EnvPrefix}); err != nil {
		return fmt.Errorf("parse env: %w", err)
	}
	return nil
}
