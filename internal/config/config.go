// Package config loads application configuration from environment variables
// with an optional local config file for development.
package config

import (
	"errors"
	"fmt"

	"github.com/spf13/viper"
)

// Config holds everything the server needs to start.
type Config struct {
	Port           int    `mapstructure:"PORT"`
	MongoURI       string `mapstructure:"MONGODB_URI"`
	DatabaseName   string `mapstructure:"DATABASE_NAME"`
	PasswordPepper string `mapstructure:"PASSWORD_PEPPER"`
	Env            string `mapstructure:"APP_ENV"`
}

// Load reads configuration from the environment, falling back to a local
// config.yml when present. Environment variables always win.
func Load() (*Config, error) {
	v := viper.New()
	v.AddConfigPath(".")
	v.SetConfigName("config")
	v.SetConfigType("yml")
	v.AutomaticEnv()

	// The config file is optional; env-only deployments are fine.
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("config: reading config file: %w", err)
		}
	}

	v.SetDefault("PORT", 8081)
	v.SetDefault("MONGODB_URI", "mongodb://localhost:27017")
	v.SetDefault("DATABASE_NAME", "redirect_chat")
	v.SetDefault("PASSWORD_PEPPER", "")
	v.SetDefault("APP_ENV", "development")

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("config: decoding: %w", err)
	}

	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}

	return &cfg, nil
}

func (c *Config) validate() error {
	if c.Port <= 0 || c.Port > 65535 {
		return fmt.Errorf("PORT %d out of range", c.Port)
	}
	if c.MongoURI == "" {
		return errors.New("MONGODB_URI is required")
	}
	if c.DatabaseName == "" {
		return errors.New("DATABASE_NAME is required")
	}
	if (c.Env == "production" || c.Env == "prod") && c.PasswordPepper == "" {
		return errors.New("PASSWORD_PEPPER is required in production")
	}
	return nil
}
