package graph

import (
	"context"
	"sync"
	"time"

	"github.com/trinoor/o365-cli/internal/core/domain"
)

// mockTokenStore implements driven.TokenStore for testing. Save stamps
// SavedAt the way the real file store does.
type mockTokenStore struct {
	mu      sync.Mutex
	rec     *domain.TokenRecord
	saves   int
	loadErr error
	saveErr error
	nowUnix int64
}

func newMockTokenStore(rec *domain.TokenRecord) *mockTokenStore {
	return &mockTokenStore{rec: rec, nowUnix: time.Now().Unix()}
}

func (s *mockTokenStore) Load() (*domain.TokenRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.loadErr != nil {
		return nil, s.loadErr
	}
	if s.rec == nil {
		return nil, domain.ErrNotAuthenticated
	}
	return s.rec, nil
}

func (s *mockTokenStore) Save(rec *domain.TokenRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.saveErr != nil {
		return s.saveErr
	}
	rec.SavedAt = s.nowUnix
	s.rec = rec
	s.saves++
	return nil
}

func (s *mockTokenStore) Clear() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.rec = nil
	return nil
}

func (s *mockTokenStore) Path() string {
	return "/tmp/tokens.json"
}

// mockTokenManager implements driven.TokenManager with a fixed token.
type mockTokenManager struct {
	token string
	err   error
}

func (m *mockTokenManager) BeginDeviceAuth(context.Context) (*domain.DeviceAuthorization, error) {
	return nil, nil
}

func (m *mockTokenManager) PollForToken(context.Context, *domain.DeviceAuthorization) (*domain.TokenRecord, error) {
	return nil, nil
}

func (m *mockTokenManager) AccessToken(context.Context) (string, error) {
	return m.token, m.err
}

func (m *mockTokenManager) Refresh(context.Context) (*domain.TokenRecord, error) {
	return nil, m.err
}

func (m *mockTokenManager) Current() (*domain.TokenRecord, error) {
	return &domain.TokenRecord{AccessToken: m.token}, m.err
}

func (m *mockTokenManager) Logout() error {
	return nil
}
