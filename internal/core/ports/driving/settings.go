package driving

import "github.com/custodia-labs/f5lake/internal/core/domain"

// SettingsService manages application settings.
type SettingsService interface {
	// Get retrieves current application settings.
	Get() (*domain.AppSettings, error)

	// Set stores a single setting by its dotted key.
	Set(key string, value string) error

	// Keys returns every supported dotted key.
	Keys() []string

	// GetDefaults returns default settings.
	GetDefaults() domain.AppSettings

	// Path returns the configuration file location.
	Path() string
}
