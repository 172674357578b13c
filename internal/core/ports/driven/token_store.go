package driven

import "github.com/trinoor/o365-cli/internal/core/domain"

// TokenStore persists the OAuth token record between invocations.
// Implementations replace the stored record wholesale on save; partial
// updates would risk mixing fields from different grants.
type TokenStore interface {
	// Load reads the stored token record.
	// Returns domain.ErrNotAuthenticated when none is stored.
	Load() (*domain.TokenRecord, error)

	// Save replaces the stored record. Implementations stamp the
	// record's SavedAt before writing.
	Save(rec *domain.TokenRecord) error

	// Clear removes the stored record. Clearing an empty store is not
	// an error.
	Clear() error

	// Path returns the storage location, for display.
	Path() string
}
