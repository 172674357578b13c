package domain

import (
	"encoding/json"
	"time"
)

// RefreshBuffer is how much validity must remain on an access token
// before it is used without a proactive refresh. Tokens closer to expiry
// than this are refreshed first so they cannot expire mid-batch.
const RefreshBuffer = 300 * time.Second

// TokenRecord is the persisted OAuth token state for the configured
// identity. Exactly one record exists; a successful acquisition or
// refresh replaces it wholly. Fields the token endpoint returns that
// this client does not model are preserved verbatim in Extra and
// round-trip through persistence unchanged.
type TokenRecord struct {
	// AccessToken is the bearer token for API access.
	AccessToken string
	// RefreshToken is used to obtain new access tokens. Optional.
	RefreshToken string
	// TokenType is typically "Bearer".
	TokenType string
	// Scope is the space-separated granted scope set.
	Scope string
	// ExpiresIn is the validity duration in seconds, as issued.
	ExpiresIn int64
	// SavedAt is the unix timestamp of when the record was persisted.
	// Stamped by the token store on save; zero before first persistence.
	SavedAt int64
	// Extra holds token endpoint fields passed through verbatim.
	Extra map[string]json.RawMessage
}

// knownTokenFields are the JSON keys lifted into struct fields; everything
// else lands in Extra.
var knownTokenFields = map[string]bool{
	"access_token":  true,
	"refresh_token": true,
	"token_type":    true,
	"scope":         true,
	"expires_in":    true,
	"_saved_at":     true,
}

// UnmarshalJSON decodes a token record, preserving unknown fields.
func (t *TokenRecord) UnmarshalJSON(data []byte) error {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}

	var known struct {
		AccessToken  string `json:"access_token"`
		RefreshToken string `json:"refresh_token"`
		TokenType    string `json:"token_type"`
		Scope        string `json:"scope"`
		ExpiresIn    int64  `json:"expires_in"`
		SavedAt      int64  `json:"_saved_at"`
	}
	if err := json.Unmarshal(data, &known); err != nil {
		return err
	}

	t.AccessToken = known.AccessToken
	t.RefreshToken = known.RefreshToken
	t.TokenType = known.TokenType
	t.Scope = known.Scope
	t.ExpiresIn = known.ExpiresIn
	t.SavedAt = known.SavedAt

	t.Extra = nil
	for k, v := range raw {
		if knownTokenFields[k] {
			continue
		}
		if t.Extra == nil {
			t.Extra = make(map[string]json.RawMessage)
		}
		t.Extra[k] = v
	}
	return nil
}

// MarshalJSON encodes the record with Extra fields merged back in.
func (t TokenRecord) MarshalJSON() ([]byte, error) {
	out := make(map[string]json.RawMessage, len(t.Extra)+6)
	for k, v := range t.Extra {
		out[k] = v
	}

	set := func(key string, v any) error {
		data, err := json.Marshal(v)
		if err != nil {
			return err
		}
		out[key] = data
		return nil
	}

	if err := set("access_token", t.AccessToken); err != nil {
		return nil, err
	}
	if t.RefreshToken != "" {
		if err := set("refresh_token", t.RefreshToken); err != nil {
			return nil, err
		}
	}
	if t.TokenType != "" {
		if err := set("token_type", t.TokenType); err != nil {
			return nil, err
		}
	}
	if t.Scope != "" {
		if err := set("scope", t.Scope); err != nil {
			return nil, err
		}
	}
	if t.ExpiresIn != 0 {
		if err := set("expires_in", t.ExpiresIn); err != nil {
			return nil, err
		}
	}
	if t.SavedAt != 0 {
		if err := set("_saved_at", t.SavedAt); err != nil {
			return nil, err
		}
	}

	return json.Marshal(out)
}

// HasExpiry reports whether the record carries enough information to
// compute remaining validity. Records from endpoints that omit
// expires_in are used as-is until a request fails.
func (t *TokenRecord) HasExpiry() bool {
	return t.ExpiresIn > 0 && t.SavedAt > 0
}

// SavedTime returns the persistence timestamp.
func (t *TokenRecord) SavedTime() time.Time {
	return time.Unix(t.SavedAt, 0)
}

// Remaining returns the validity left at the given instant. Zero when
// the record has no expiry information.
func (t *TokenRecord) Remaining(now time.Time) time.Duration {
	if !t.HasExpiry() {
		return 0
	}
	expiry := t.SavedAt + t.ExpiresIn
	return time.Duration(expiry-now.Unix()) * time.Second
}

// NeedsRefresh reports whether the remaining validity has fallen below
// RefreshBuffer. Always false for records without expiry information.
func (t *TokenRecord) NeedsRefresh(now time.Time) bool {
	if !t.HasExpiry() {
		return false
	}
	return t.Remaining(now) < RefreshBuffer
}

// DeviceAuthorization is the response of the device-code endpoint: the
// codes and pacing parameters for one device login attempt.
type DeviceAuthorization struct {
	// DeviceCode is presented back to the token endpoint while polling.
	DeviceCode string `json:"device_code"`
	// UserCode is the short code the user types at the verification URI.
	UserCode string `json:"user_code"`
	// VerificationURI is where the user approves the sign-in.
	VerificationURI string `json:"verification_uri"`
	// ExpiresIn is the lifetime of the codes in seconds. Polling stops
	// when this much wall-clock time has elapsed.
	ExpiresIn int `json:"expires_in"`
	// Interval is the seconds to wait between poll attempts.
	Interval int `json:"interval"`
	// Message is the provider's ready-made instruction line, if any.
	Message string `json:"message,omitempty"`
}
