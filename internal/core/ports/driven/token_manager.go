package driven

import (
	"context"

	"github.com/trinoor/o365-cli/internal/core/domain"
)

// TokenManager owns the OAuth token lifecycle: device-code sign-in,
// silent refresh ahead of expiry, and sign-out.
type TokenManager interface {
	// BeginDeviceAuth requests a device code and the verification
	// details the user needs to approve the sign-in.
	BeginDeviceAuth(ctx context.Context) (*domain.DeviceAuthorization, error)

	// PollForToken polls the token endpoint until the user approves,
	// declines, or the device code expires. On success the token is
	// persisted before returning.
	PollForToken(ctx context.Context, auth *domain.DeviceAuthorization) (*domain.TokenRecord, error)

	// AccessToken returns a token ready to use as a bearer credential,
	// refreshing first when the stored one is near expiry.
	AccessToken(ctx context.Context) (string, error)

	// Refresh forces a refresh grant and persists the result.
	Refresh(ctx context.Context) (*domain.TokenRecord, error)

	// Current returns the stored token record without refreshing.
	// Returns domain.ErrNotAuthenticated when no token is stored.
	Current() (*domain.TokenRecord, error)

	// Logout discards the stored token.
	Logout() error
}
