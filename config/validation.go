package config

import (
	"fmt"
	"strings"
)

// ValidationError represents a configuration validation error
type ValidationError struct {
	Field   string
	Message string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// ValidateConfig checks that the sensitive values the server cannot run
// without are present. Everything else has a development default.
func ValidateConfig(cfg *Config) error {
	var errs []string

	if cfg.JWTSecret == "" {
		errs = append(errs, "JWT_SECRET environment variable or jwt_secret secret is required")
	}
	if cfg.DBUser == "" {
		errs = append(errs, "DB_USER environment variable or db_user secret is required")
	}
	if cfg.DBPassword == "" && !IsTest() {
		errs = append(errs, "DB_PASSWORD environment variable or db_password secret is required")
	}

	if len(errs) > 0 {
		return fmt.Errorf("%s", strings.Join(errs, "\n"))
	}
	return nil
}
