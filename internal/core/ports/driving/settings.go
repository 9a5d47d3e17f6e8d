package driving

import "github.com/custodia-labs/skillroute/internal/core/domain"

// SettingsService manages application settings.
type SettingsService interface {
	// Get retrieves current application settings.
	Get() (*domain.AppSettings, error)

	// Set updates a single setting by its dotted key.
	Set(key, value string) error

	// GetDefaults returns default settings.
	GetDefaults() domain.AppSettings
}
