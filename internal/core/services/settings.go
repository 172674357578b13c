package services

import (
	"fmt"
	"strings"

	"github.com/trinoor/o365-cli/internal/core/domain"
	"github.com/trinoor/o365-cli/internal/core/ports/driven"
	"github.com/trinoor/o365-cli/internal/core/ports/driving"
)

// Ensure SettingsService implements the interface.
var _ driving.SettingsService = (*SettingsService)(nil)

// SettingsService manages application settings.
type SettingsService struct {
	configStore driven.ConfigStore
}

// NewSettingsService creates a new settings service.
func NewSettingsService(configStore driven.ConfigStore) *SettingsService {
	return &SettingsService{configStore: configStore}
}

// Get retrieves a setting's value as stored.
func (s *SettingsService) Get(key string) (any, bool) {
	return s.configStore.Get(key)
}

// Set stores a setting and persists it immediately. Keys use
// section.option form, like "auth.client_id".
func (s *SettingsService) Set(key, value string) error {
	if err := validateKey(key); err != nil {
		return err
	}
	if err := s.configStore.Set(key, value); err != nil {
		return fmt.Errorf("set %s: %w", key, err)
	}
	return nil
}

// Unset removes a setting. Removing a key that was never set reports
// domain.ErrNotFound so callers can tell a typo from a no-op.
func (s *SettingsService) Unset(key string) error {
	if err := validateKey(key); err != nil {
		return err
	}
	if _, ok := s.configStore.Get(key); !ok {
		return fmt.Errorf("%w: %s is not set", domain.ErrNotFound, key)
	}
	if err := s.configStore.Delete(key); err != nil {
		return fmt.Errorf("unset %s: %w", key, err)
	}
	return nil
}

// Keys lists all configured keys in sorted order.
func (s *SettingsService) Keys() []string {
	return s.configStore.Keys()
}

// Path returns the configuration file path.
func (s *SettingsService) Path() string {
	return s.configStore.Path()
}

func validateKey(key string) error {
	section, option, found := strings.Cut(key, ".")
	if !found || section == "" || option == "" {
		return fmt.Errorf("%w: key must be in section.option form, like auth.client_id", domain.ErrInvalidInput)
	}
	return nil
}
