package mock

import (
	"errors"
	"fmt"
	"strings"
)

var (
	ErrEmptyAPIKey = errors.New("API key must not be empty")
	ErrEmptyModel  = errors.New("model name must not be empty")
)

// Config carries the credentials a client is constructed with.
type Config struct {
	APIKey string
	Model  string
}

// ConfigError is returned by client constructors when Config is invalid.
type ConfigError struct {
	Field string
	Err   error
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("invalid client config %s: %v", e.Field, e.Err)
}

func (e *ConfigError) Unwrap() error {
	return e.Err
}

// Validate rejects empty or whitespace-only values.
func (c Config) Validate() error {
	if strings.TrimSpace(c.APIKey) == "" {
		return &ConfigError{Field: "api_key", Err: ErrEmptyAPIKey}
	}
	if strings.TrimSpace(c.Model) == "" {
		return &ConfigError{Field: "model", Err: ErrEmptyModel}
	}
	return nil
}
