package graph

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/trinoor/o365-cli/internal/core/domain"
	"github.com/trinoor/o365-cli/internal/logger"
)

// deviceCodeGrant is the grant type for redeeming a device code.
const deviceCodeGrant = "urn:ietf:params:oauth:grant-type:device_code"

// Poll classification sentinels. Only pending keeps the loop going;
// everything else ends the flow.
var (
	errAuthorizationPending = errors.New("authorization_pending")
	errAuthorizationDecline = errors.New("authorization_declined")
	errDeviceCodeExpired    = errors.New("expired_token")
)

// BeginDeviceAuth requests a device code and the verification details
// the user needs to approve the sign-in.
func (m *TokenManager) BeginDeviceAuth(ctx context.Context) (*domain.DeviceAuthorization, error) {
	if err := m.cfg.Validate(); err != nil {
		return nil, err
	}

	form := url.Values{}
	form.Set("client_id", m.cfg.ClientID)
	form.Set("scope", m.cfg.ScopeString())

	raw, err := m.postForm(ctx, m.cfg.DeviceCodeURL(), form)
	if err != nil {
		return nil, fmt.Errorf("request device code: %w", err)
	}

	var auth domain.DeviceAuthorization
	if err := json.Unmarshal(raw, &auth); err != nil {
		return nil, fmt.Errorf("decode device code response: %w", err)
	}
	if auth.DeviceCode == "" || auth.UserCode == "" {
		return nil, fmt.Errorf("device code response missing codes")
	}
	if auth.Interval <= 0 {
		auth.Interval = 5
	}

	logger.Debug("graph: device code issued, expires in %ds, poll every %ds", auth.ExpiresIn, auth.Interval)
	return &auth, nil
}

// PollForToken polls the token endpoint until the user approves the
// sign-in, declines it, or the device code expires. Elapsed wall-clock
// time is checked against the authorization's expiry on every turn, so
// the loop gives up within expires_in seconds no matter what the
// server keeps answering.
func (m *TokenManager) PollForToken(ctx context.Context, auth *domain.DeviceAuthorization) (*domain.TokenRecord, error) {
	interval := time.Duration(auth.Interval) * time.Second
	if interval <= 0 {
		interval = 5 * time.Second
	}
	deadline := m.now().Add(time.Duration(auth.ExpiresIn) * time.Second)

	for {
		remaining := deadline.Sub(m.now())
		if remaining <= 0 {
			return nil, ErrAuthTimeout
		}
		wait := interval
		if wait > remaining {
			wait = remaining
		}
		if err := m.sleep(ctx, wait); err != nil {
			return nil, err
		}
		if !m.now().Before(deadline) {
			return nil, ErrAuthTimeout
		}

		rec, err := m.redeemDeviceCode(ctx, auth.DeviceCode)
		switch {
		case err == nil:
			if err := m.persist(rec); err != nil {
				return nil, err
			}
			logger.Info("Signed in, token saved to %s", m.store.Path())
			return rec, nil
		case errors.Is(err, errAuthorizationPending):
			logger.Debug("graph: authorization pending")
		case errors.Is(err, errAuthorizationDecline):
			return nil, ErrAuthDeclined
		case errors.Is(err, errDeviceCodeExpired):
			return nil, ErrAuthTimeout
		default:
			return nil, err
		}
	}
}

// redeemDeviceCode attempts the device code grant once and classifies
// the outcome.
func (m *TokenManager) redeemDeviceCode(ctx context.Context, deviceCode string) (*domain.TokenRecord, error) {
	form := url.Values{}
	form.Set("client_id", m.cfg.ClientID)
	form.Set("grant_type", deviceCodeGrant)
	form.Set("device_code", deviceCode)

	raw, err := m.postForm(ctx, m.cfg.TokenURL(), form)
	if err != nil {
		return nil, err
	}

	var rec domain.TokenRecord
	if err := json.Unmarshal(raw, &rec); err != nil {
		return nil, fmt.Errorf("decode token response: %w", err)
	}
	if rec.AccessToken == "" {
		return nil, fmt.Errorf("token response missing access_token")
	}
	return &rec, nil
}

// postForm sends a form-encoded POST to an identity endpoint. OAuth
// error bodies are mapped onto the poll classification sentinels.
func (m *TokenManager) postForm(ctx context.Context, endpoint string, form url.Values) (json.RawMessage, error) {
	req, err := http.NewRequestWithContext(
		ctx, http.MethodPost, endpoint, strings.NewReader(form.Encode()),
	)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.Header.Set("Accept", "application/json")

	resp, err := m.httpc.Do(req)
	if err != nil {
		return nil, fmt.Errorf("token request: %w", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read token response: %w", err)
	}

	if resp.StatusCode == http.StatusOK {
		return json.RawMessage(raw), nil
	}

	var errResp struct {
		Error       string `json:"error"`
		Description string `json:"error_description"`
	}
	if err := json.Unmarshal(raw, &errResp); err == nil && errResp.Error != "" {
		switch errResp.Error {
		case "authorization_pending":
			return nil, errAuthorizationPending
		case "authorization_declined":
			return nil, errAuthorizationDecline
		case "expired_token":
			return nil, errDeviceCodeExpired
		}
		return nil, fmt.Errorf("token error: %s - %s", errResp.Error, errResp.Description)
	}
	return nil, fmt.Errorf("token request failed with status %d", resp.StatusCode)
}
