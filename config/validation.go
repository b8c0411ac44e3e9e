package config

import (
	"fmt"
)

// ValidationError represents a configuration validation error
type ValidationError struct {
	Field   string
	Message string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// ValidateConfig checks that the loaded configuration is usable in the
// current environment. Development and test allow the SQLite fallback and
// an empty JWT secret; production requires postgres credentials and a
// signing secret.
func ValidateConfig(cfg *Config) error {
	if cfg.ServerPort == "" {
		return ValidationError{Field: "SERVER_PORT", Message: "must not be empty"}
	}

	if cfg.ComposerMaxDraws < 1 {
		return ValidationError{Field: "COMPOSER_MAX_DRAWS", Message: "must be at least 1"}
	}

	if GetEnvironment() != Production {
		return nil
	}

	if cfg.SQLitePath != "" {
		return ValidationError{Field: "SQLITE_PATH", Message: "sqlite is not supported in production"}
	}
	if cfg.DBUser == "" {
		return ValidationError{Field: "DB_USER", Message: "required in production"}
	}
	if cfg.DBPassword == "" {
		return ValidationError{Field: "DB_PASSWORD", Message: "required in production"}
	}
	if cfg.JWTSecret == "" {
		return ValidationError{Field: "JWT_SECRET", Message: "required in production"}
	}

	return nil
}
