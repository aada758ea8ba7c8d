package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/spf13/viper"
)

// Default values applied when neither the environment nor a config file
// provides a setting.
const (
	defaultPort                 = 5000
	defaultLogLevel             = "info"
	defaultTokenLifetimeMinutes = 24 * 60 // session tokens last one day
)

// Load configuration from environment variables and optionally a config file.
// Environment variables take precedence over values from config files.
//
// Settings are read from TODO_-prefixed variables (TODO_SERVER_PORT,
// TODO_DATABASE_URL, TODO_AUTH_JWT_SECRET, ...) or from an optional
// config.yaml in the working directory.
//
// Returns a populated Config struct or an error if loading/validation fails.
func Load() (*Config, error) {
	v := viper.New()

	// Set default values
	v.SetDefault("server.port", defaultPort)
	v.SetDefault("server.log_level", defaultLogLevel)
	v.SetDefault("auth.token_lifetime_minutes", defaultTokenLifetimeMinutes)

	// Configure to read from an optional config file
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")

	// Configure to read from environment variables with TODO_ prefix;
	// nested keys map dots to underscores (server.port -> TODO_SERVER_PORT).
	v.SetEnvPrefix("TODO")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// A missing config file is fine; the environment alone can carry the
	// full configuration. Any other read failure is a real error.
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	// Viper's AutomaticEnv does not surface env-only keys through Unmarshal
	// unless the keys are known, so bind the ones without defaults.
	for _, key := range []string{"database.url", "auth.jwt_secret"} {
		if err := v.BindEnv(key); err != nil {
			return nil, fmt.Errorf("failed to bind environment variable for %s: %w", key, err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal configuration: %w", err)
	}

	if err := validator.New().Struct(&cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &cfg, nil
}
