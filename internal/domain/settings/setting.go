// Package settings holds platform-wide key/value configuration that operators
// change at runtime, grouped by category.
package settings

import (
	"context"

	"github.com/blindscommerce/backend/internal/domain/shared"
)

// CategoryIntegrations groups settings controlling third-party services.
const CategoryIntegrations = "integrations"

// Keys within the integrations category.
const (
	KeyUseTaxJarAPI      = "use_taxjar_api"
	KeyTaxJarAPIKey      = "taxjar_api_key"
	KeyTaxJarEnvironment = "taxjar_environment"
)

// Setting is one stored configuration value. Values are stored as strings;
// booleans use "true"/"false".
type Setting struct {
	shared.BaseEntity
	Category string
	Key      string
	Value    string
}

func (s *Setting) Validate() error {
	if s.Category == "" {
		return shared.NewDomainError("SETTING_CATEGORY_REQUIRED", "Setting category is required")
	}
	if s.Key == "" {
		return shared.NewDomainError("SETTING_KEY_REQUIRED", "Setting key is required")
	}
	return nil
}

// Provider is the read side consumed by services that only need values.
// Missing keys yield the given default rather than an error.
type Provider interface {
	String(ctx context.Context, category, key, fallback string) string
	Bool(ctx context.Context, category, key string, fallback bool) bool
}

// Repository is the persistence port for settings.
type Repository interface {
	Find(ctx context.Context, category, key string) (*Setting, error)
	FindByCategory(ctx context.Context, category string) ([]*Setting, error)
	Upsert(ctx context.Context, setting *Setting) error
}
