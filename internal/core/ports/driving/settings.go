package driving

import "github.com/custodia-labs/repocorpus/internal/core/domain"

// SettingsService resolves pipeline settings for driving adapters.
type SettingsService interface {
	// Get returns the configured settings merged over defaults.
	// The result is validated.
	Get() (domain.Settings, error)
}
