package config

import (
	"fmt"

	"github.com/caarlos0/env/v10"
)

// Load populates cfg from the process environment using `env` struct tags.
// cfg must be a pointer to a struct.
//
//	type Config struct {
//	    HTTPPort int    `env:"SHOP_HTTP_PORT" envDefault:"8080"`
//	    LogLevel string `env:"LOG_LEVEL" envDefault:"info"`
//	}
//
// Defaults come from envDefault tags; any malformed value is an error rather
// than a silent fallback.
func Load(cfg any) error {
	if err := env.Parse(cfg); err != nil {
		return fmt.Errorf("parse environment: %w", err)
	}
	return nil
}
