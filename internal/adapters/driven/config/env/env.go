package env

import (
	"fmt"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

// Overrides holds the environment variables the CLI recognises. Empty
// fields mean the variable was not set and the config file value (or
// default) applies.
type Overrides struct {
	// ClientID is the Azure app registration ID.
	ClientID string `env:"O365_CLIENT_ID"`

	// Tenant is the directory to sign in against.
	Tenant string `env:"O365_TENANT"`

	// Scopes is the space-separated delegated permission list.
	Scopes []string `env:"O365_SCOPES" envSeparator:" "`

	// TokenFile is the path of the token record file.
	TokenFile string `env:"O365_TOKEN_FILE"`

	// ConfigDir is the directory holding config.toml.
	ConfigDir string `env:"O365_CONFIG_DIR"`
}

// Parse loads a .env file if one is present, then reads the O365_*
// variables.
func Parse() (*Overrides, error) {
	_ = godotenv.Load()

	o := &Overrides{}
	if err := env.Parse(o); err != nil {
		return nil, fmt.Errorf("parsing environment: %w", err)
	}
	return o, nil
}
