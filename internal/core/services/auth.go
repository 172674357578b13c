package services

import (
	"context"
	"fmt"

	"github.com/trinoor/o365-cli/internal/core/domain"
	"github.com/trinoor/o365-cli/internal/core/ports/driven"
	"github.com/trinoor/o365-cli/internal/core/ports/driving"
	"github.com/trinoor/o365-cli/internal/logger"
)

// Ensure AuthService implements the interface.
var _ driving.AuthService = (*AuthService)(nil)

// AuthService manages the sign-in lifecycle.
type AuthService struct {
	tokens driven.TokenManager
}

// NewAuthService creates a new auth service.
func NewAuthService(tokens driven.TokenManager) *AuthService {
	return &AuthService{tokens: tokens}
}

// Login runs the device-code flow. onCode receives the verification
// details once, before polling begins, so the caller can show them to
// the user.
func (s *AuthService) Login(ctx context.Context, onCode func(*domain.DeviceAuthorization)) (*domain.TokenRecord, error) {
	auth, err := s.tokens.BeginDeviceAuth(ctx)
	if err != nil {
		return nil, fmt.Errorf("request device code: %w", err)
	}
	logger.Debug("device code issued, expires in %ds", auth.ExpiresIn)

	if onCode != nil {
		onCode(auth)
	}

	rec, err := s.tokens.PollForToken(ctx, auth)
	if err != nil {
		return nil, err
	}
	logger.Info("Signed in, token saved")
	return rec, nil
}

// Status returns the stored token record without refreshing.
func (s *AuthService) Status(ctx context.Context) (*domain.TokenRecord, error) {
	return s.tokens.Current()
}

// Refresh forces a token refresh and returns the new record.
func (s *AuthService) Refresh(ctx context.Context) (*domain.TokenRecord, error) {
	rec, err := s.tokens.Refresh(ctx)
	if err != nil {
		return nil, fmt.Errorf("refresh token: %w", err)
	}
	return rec, nil
}

// Logout discards stored credentials.
func (s *AuthService) Logout(ctx context.Context) error {
	return s.tokens.Logout()
}
