package config

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"
)

// Config holds all configuration for the application
type Config struct {
	Engine EngineConfig
	Redis  RedisConfig
}

// EngineConfig holds the bonus engine switches
type EngineConfig struct {
	// DisableCustomScripts skips custom script filters entirely; they always pass
	DisableCustomScripts  bool          `env:"BABONUS_DISABLE_CUSTOM_SCRIPTS" envDefault:"false"`
	AllowFumbleBelowOne   bool          `env:"BABONUS_ALLOW_FUMBLE_BELOW_ONE" envDefault:"false"`
	ScriptMaxSource       int           `env:"BABONUS_SCRIPT_MAX_SOURCE" envDefault:"4096"`
	ScriptTimeout         time.Duration `env:"BABONUS_SCRIPT_TIMEOUT" envDefault:"250ms"`
	ScriptMaxInstructions int           `env:"BABONUS_SCRIPT_MAX_INSTRUCTIONS" envDefault:"5000000"`
}

// RedisConfig holds Redis-specific configuration
type RedisConfig struct {
	// URL is optional; without it scenes are kept in memory
	URL string `env:"REDIS_URL"`
}

// Load loads configuration from environment variables
func Load() (*Config, error) {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parse env: %w", err)
	}

	if cfg.Engine.ScriptMaxSource < 0 {
		return nil, fmt.Errorf("BABONUS_SCRIPT_MAX_SOURCE must not be negative")
	}
	if cfg.Engine.ScriptTimeout < 0 {
		return nil, fmt.Errorf("BABONUS_SCRIPT_TIMEOUT must not be negative")
	}
	if cfg.Engine.ScriptMaxInstructions < 0 {
		return nil, fmt.Errorf("BABONUS_SCRIPT_MAX_INSTRUCTIONS must not be negative")
	}

	return cfg, nil
}
