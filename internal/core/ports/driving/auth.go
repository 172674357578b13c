package driving

import (
	"context"

	"github.com/trinoor/o365-cli/internal/core/domain"
)

// AuthService manages the sign-in lifecycle for external actors.
type AuthService interface {
	// Login runs the device-code flow. onCode is called once with the
	// verification details so the caller can show them to the user,
	// then Login blocks until approval, decline, or expiry.
	Login(ctx context.Context, onCode func(*domain.DeviceAuthorization)) (*domain.TokenRecord, error)

	// Status returns the stored token record without refreshing.
	// Returns domain.ErrNotAuthenticated when signed out.
	Status(ctx context.Context) (*domain.TokenRecord, error)

	// Refresh forces a token refresh and returns the new record.
	Refresh(ctx context.Context) (*domain.TokenRecord, error)

	// Logout discards stored credentials.
	Logout(ctx context.Context) error
}
