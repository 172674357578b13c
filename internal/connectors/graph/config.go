package graph

import "strings"

const (
	// DefaultBaseURL is the Microsoft Graph v1.0 endpoint.
	DefaultBaseURL = "https://graph.microsoft.com/v1.0"

	// DefaultLoginBaseURL is the Microsoft identity platform endpoint.
	DefaultLoginBaseURL = "https://login.microsoftonline.com"

	// DefaultTenant signs in work, school, and personal accounts.
	DefaultTenant = "common"
)

// DefaultScopes are the delegated permissions requested at sign-in.
// offline_access is required for refresh tokens.
var DefaultScopes = []string{
	"offline_access",
	"User.Read",
	"Mail.ReadWrite",
	"Mail.Send",
	"Calendars.ReadWrite",
	"Contacts.Read",
	"Chat.ReadWrite",
	"Files.ReadWrite.All",
	"OnlineMeetings.Read",
}

// Config holds the settings for talking to the Graph API.
type Config struct {
	// ClientID is the Azure app registration's application ID. It is
	// the only setting without a usable default.
	ClientID string

	// Tenant is the directory to sign in against. Defaults to
	// "common".
	Tenant string

	// Scopes are the delegated permissions to request.
	Scopes []string

	// BaseURL overrides the Graph endpoint, for tests.
	BaseURL string

	// LoginBaseURL overrides the identity endpoint, for tests.
	LoginBaseURL string
}

// WithDefaults fills unset fields with their defaults.
func (c Config) WithDefaults() Config {
	if c.Tenant == "" {
		c.Tenant = DefaultTenant
	}
	if len(c.Scopes) == 0 {
		c.Scopes = DefaultScopes
	}
	if c.BaseURL == "" {
		c.BaseURL = DefaultBaseURL
	}
	if c.LoginBaseURL == "" {
		c.LoginBaseURL = DefaultLoginBaseURL
	}
	return c
}

// Validate checks that the configuration is usable.
func (c Config) Validate() error {
	if strings.TrimSpace(c.ClientID) == "" {
		return ErrNoClientID
	}
	return nil
}

// ScopeString renders the scopes as the space-separated form the
// identity endpoints expect.
func (c Config) ScopeString() string {
	return strings.Join(c.Scopes, " ")
}

// DeviceCodeURL returns the device authorization endpoint for the
// configured tenant.
func (c Config) DeviceCodeURL() string {
	return c.LoginBaseURL + "/" + c.Tenant + "/oauth2/v2.0/devicecode"
}

// TokenURL returns the token endpoint for the configured tenant.
func (c Config) TokenURL() string {
	return c.LoginBaseURL + "/" + c.Tenant + "/oauth2/v2.0/token"
}

// ResolveURL turns a path into an absolute request URL. Absolute URLs
// pass through verbatim so continuation links from the API can be
// followed exactly as given.
func (c Config) ResolveURL(path string) string {
	if strings.HasPrefix(path, "https://") || strings.HasPrefix(path, "http://") {
		return path
	}
	return c.BaseURL + "/" + strings.TrimPrefix(path, "/")
}
