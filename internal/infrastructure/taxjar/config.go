// Package taxjar integrates the TaxJar sales tax API as an external tax
// calculator. All failures surface as errors so callers can fall back to the
// local rate table.
package taxjar

import (
	"errors"
	"time"
)

const (
	// EnvironmentProduction selects the live TaxJar API.
	EnvironmentProduction = "production"
	// EnvironmentSandbox selects TaxJar's sandbox.
	EnvironmentSandbox = "sandbox"

	productionBaseURL = "https://api.taxjar.com"
	sandboxBaseURL    = "https://api.sandbox.taxjar.com"
)

// ErrMissingAPIKey indicates the API key setting is absent or blank.
var ErrMissingAPIKey = errors.New("taxjar: API key is not configured")

// ErrInvalidEnvironment indicates an unrecognized environment setting.
var ErrInvalidEnvironment = errors.New("taxjar: environment must be production or sandbox")

// Config holds the per-request TaxJar settings. Because the key and
// environment are operator-editable at runtime, a Config is assembled fresh
// for each call rather than fixed at construction.
type Config struct {
	APIKey      string
	Environment string
	Timeout     time.Duration

	// baseURL overrides the environment-derived host when set. Used in tests.
	baseURL string
}

// Validate checks the configuration
func (c *Config) Validate() error {
	if c.APIKey == "" {
		return ErrMissingAPIKey
	}
	switch c.Environment {
	case EnvironmentProduction, EnvironmentSandbox:
		return nil
	default:
		return ErrInvalidEnvironment
	}
}

// BaseURL returns the API host for the configured environment.
func (c *Config) BaseURL() string {
	if c.baseURL != "" {
		return c.baseURL
	}
	if c.Environment == EnvironmentSandbox {
		return sandboxBaseURL
	}
	return productionBaseURL
}
