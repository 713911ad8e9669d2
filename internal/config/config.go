// Package config loads service configuration from environment variables.
package config

import (
	"fmt"

	"github.com/caarlos0/env/v11"
)

// Config holds the service configuration.
//
// The Supabase credentials are optional: when either is missing the storage
// layer runs permanently in local fallback mode.
type Config struct {
	SupabaseURL     string `env:"SUPABASE_URL"`
	SupabaseAnonKey string `env:"SUPABASE_ANON_KEY"`

	Addr      string `env:"RECLAIM_ADDR" envDefault:":8080"`
	DBPath    string `env:"RECLAIM_DB" envDefault:"reclaim.sqlite3"`
	JWTSecret string `env:"RECLAIM_JWT_SECRET"`
	LogPath   string `env:"RECLAIM_LOG"`
}

// Load parses configuration from the environment.
func Load() (*Config, error) {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parsing environment: %w", err)
	}
	return cfg, nil
}
