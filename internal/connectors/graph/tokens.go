package graph

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"sync"
	"time"

	"github.com/trinoor/o365-cli/internal/core/domain"
	"github.com/trinoor/o365-cli/internal/core/ports/driven"
	"github.com/trinoor/o365-cli/internal/logger"
)

// Ensure TokenManager implements the driven port.
var _ driven.TokenManager = (*TokenManager)(nil)

// TokenManager owns the OAuth token lifecycle against the Microsoft
// identity platform: device-code sign-in, proactive refresh inside the
// expiry buffer, and sign-out. Tokens persist through the store; a
// cached copy avoids re-reading the file on every request.
type TokenManager struct {
	cfg   Config
	store driven.TokenStore
	httpc *http.Client

	mu     sync.RWMutex
	cached *domain.TokenRecord

	// Injection points for tests.
	now   func() time.Time
	sleep func(ctx context.Context, d time.Duration) error
}

// NewTokenManager creates a token manager backed by the given store.
func NewTokenManager(cfg Config, store driven.TokenStore) *TokenManager {
	return &TokenManager{
		cfg:   cfg.WithDefaults(),
		store: store,
		httpc: &http.Client{Timeout: DefaultTimeout},
		now:   time.Now,
		sleep: sleepContext,
	}
}

func sleepContext(ctx context.Context, d time.Duration) error {
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-time.After(d):
		return nil
	}
}

// AccessToken returns a token ready to use as a bearer credential.
// When the stored token's remaining validity is inside the refresh
// buffer, a refresh is attempted first. A failed refresh is logged and
// the stored token returned as-is; the caller's request will surface
// the real error if the token no longer works.
func (m *TokenManager) AccessToken(ctx context.Context) (string, error) {
	m.mu.RLock()
	rec := m.cached
	m.mu.RUnlock()

	if rec != nil && !rec.NeedsRefresh(m.now()) {
		return rec.AccessToken, nil
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if m.cached == nil {
		loaded, err := m.store.Load()
		if err != nil {
			return "", err
		}
		m.cached = loaded
	}

	// Double-check under the write lock; another caller may have
	// refreshed while we waited.
	if !m.cached.NeedsRefresh(m.now()) {
		return m.cached.AccessToken, nil
	}

	if m.cached.RefreshToken == "" {
		logger.Debug("graph: token near expiry but no refresh token, using stored token")
		return m.cached.AccessToken, nil
	}

	refreshed, err := m.refreshLocked(ctx, m.cached)
	if err != nil {
		logger.Warn("Token refresh failed, continuing with stored token: %v", err)
		return m.cached.AccessToken, nil
	}
	m.cached = refreshed
	return refreshed.AccessToken, nil
}

// Refresh forces a refresh grant and persists the result.
func (m *TokenManager) Refresh(ctx context.Context) (*domain.TokenRecord, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.cached == nil {
		loaded, err := m.store.Load()
		if err != nil {
			return nil, err
		}
		m.cached = loaded
	}
	if m.cached.RefreshToken == "" {
		return nil, ErrNoRefreshToken
	}

	refreshed, err := m.refreshLocked(ctx, m.cached)
	if err != nil {
		return nil, err
	}
	m.cached = refreshed
	return refreshed, nil
}

// refreshLocked exchanges the refresh token for a new record and
// persists it. Callers hold the write lock. A response without a new
// refresh token keeps the old one, since the endpoint only rotates
// refresh tokens sometimes.
func (m *TokenManager) refreshLocked(ctx context.Context, current *domain.TokenRecord) (*domain.TokenRecord, error) {
	form := url.Values{}
	form.Set("client_id", m.cfg.ClientID)
	form.Set("grant_type", "refresh_token")
	form.Set("refresh_token", current.RefreshToken)
	form.Set("scope", m.cfg.ScopeString())

	raw, err := m.postForm(ctx, m.cfg.TokenURL(), form)
	if err != nil {
		return nil, fmt.Errorf("refresh token: %w", err)
	}

	var rec domain.TokenRecord
	if err := json.Unmarshal(raw, &rec); err != nil {
		return nil, fmt.Errorf("decode refresh response: %w", err)
	}
	if rec.AccessToken == "" {
		return nil, fmt.Errorf("refresh response missing access_token")
	}
	if rec.RefreshToken == "" {
		rec.RefreshToken = current.RefreshToken
	}

	if err := m.store.Save(&rec); err != nil {
		return nil, fmt.Errorf("save refreshed token: %w", err)
	}
	logger.Debug("graph: token refreshed, valid for %ds", rec.ExpiresIn)
	return &rec, nil
}

// Current returns the stored token record without refreshing.
func (m *TokenManager) Current() (*domain.TokenRecord, error) {
	m.mu.RLock()
	if m.cached != nil {
		rec := m.cached
		m.mu.RUnlock()
		return rec, nil
	}
	m.mu.RUnlock()

	return m.store.Load()
}

// Logout discards the stored token.
func (m *TokenManager) Logout() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.cached = nil
	return m.store.Clear()
}

// persist saves a record and installs it as the cached token.
func (m *TokenManager) persist(rec *domain.TokenRecord) error {
	if err := m.store.Save(rec); err != nil {
		return fmt.Errorf("save token: %w", err)
	}
	m.mu.Lock()
	m.cached = rec
	m.mu.Unlock()
	return nil
}

// IsAuthenticated reports whether a token record is stored, without
// touching the network.
func (m *TokenManager) IsAuthenticated() bool {
	_, err := m.Current()
	return err == nil
}
