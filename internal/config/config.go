package config

import (
	"log/slog"
	"os"
	"strings"
)

// Config holds application configuration
type Config struct {
	// Logging configuration
	LogLevel string

	// Repo mapping configuration
	ReposFile string

	// Redis configuration (optional, enables the submission log)
	RedisURL string

	// Static asset configuration
	AssetsDir string

	// Server configuration
	Port string
}

// LoadConfig loads configuration from environment variables
func LoadConfig() *Config {
	return &Config{
		// Logging
		LogLevel: getEnvString("LOG_LEVEL", "info"),

		// Repo mapping
		ReposFile: getEnvString("REPOS_CONFIG", ""),

		// Redis
		RedisURL: getEnvString("REDIS_URL", ""),

		// Static assets
		AssetsDir: getEnvString("ASSETS_DIR", "assets"),

		// Server
		Port: getEnvString("PORT", "8080"),
	}
}

// Validate checks if required configuration is present
func (c *Config) Validate() error {
	if c.ReposFile == "" {
		return &ConfigError{Field: "REPOS_CONFIG", Message: "path to the repos configuration file is required"}
	}

	return nil
}

// GetLogLevel returns the slog.Level for the configured log level
func (c *Config) GetLogLevel() slog.Level {
	switch strings.ToLower(c.LogLevel) {
	case "debug":
		return slog.LevelDebug
	case "info":
		return slog.LevelInfo
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// ConfigError represents a configuration validation error
type ConfigError struct {
	Field   string
	Message string
}

func (e *ConfigError) Error() string {
	return "Configuration error for " + e.Field + ": " + e.Message
}

// Helper functions for environment variable parsing

func getEnvString(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
