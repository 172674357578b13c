package driving

// SettingsService manages application settings.
type SettingsService interface {
	// Get retrieves a setting's value as stored.
	Get(key string) (any, bool)

	// Set stores a setting and persists it immediately.
	Set(key, value string) error

	// Unset removes a setting.
	Unset(key string) error

	// Keys lists all configured keys in sorted order.
	Keys() []string

	// Path returns the configuration file path.
	Path() string
}
