// Package config loads service configuration from the environment,
// with an optional .env file for local development.
package config

import (
	"fmt"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds everything the service needs to start.
type Config struct {
	// Port the HTTP server listens on.
	Port string `mapstructure:"port"`
	// DBDSN selects the PostgreSQL catalog store when non-empty.
	// Empty means the in-memory seeded catalog (the default).
	DBDSN string `mapstructure:"db_dsn"`
	// LogLevel is one of debug, info, warn, error.
	LogLevel string `mapstructure:"log_level"`
	// StaticDir is the directory served under /static/.
	StaticDir string `mapstructure:"static_dir"`
}

// Load reads configuration: defaults, then a .env file if present,
// then real environment variables (which win).
func Load() (*Config, error) {
	// Missing .env is fine; system env still applies.
	_ = godotenv.Load()

	v := viper.New()
	v.SetDefault("port", "8080")
	v.SetDefault("db_dsn", "")
	v.SetDefault("log_level", "info")
	v.SetDefault("static_dir", "./web")
	v.AutomaticEnv()

	// Bind explicitly so AutomaticEnv sees keys we never Set.
	for _, key := range []string{"port", "db_dsn", "log_level", "static_dir"} {
		if err := v.BindEnv(key); err != nil {
			return nil, fmt.Errorf("bind env %s: %w", key, err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}
	return &cfg, nil
}
