package config

import (
	"fmt"
	"strings"

	"github.com/caarlos0/env/v11"
	"github.com/google/uuid"
)

// Config is the full configuration surface of the service, resolved once at
// startup. Every key the workflows consume is enumerated here so a missing
// value fails fast instead of surfacing mid-request.
type Config struct {
	Port string `env:"PORT" envDefault:"8080"`

	// External API roots. Trailing slashes are trimmed on load so path
	// concatenation is uniform.
	DatabaseAPIRoot  string `env:"APIS_DATABASE,required"`
	AccountsAPIRoot  string `env:"APIS_ACCOUNTS,required"`
	MessagingAPIRoot string `env:"APIS_MESSAGING,required"`

	// DatabaseScope names the permission set requested from the token
	// provider for membership database and accounts calls.
	DatabaseScope string `env:"APIS_SCOPES,required"`

	// AuthAuthority is the identity provider base URL; it anchors the
	// forgot-password link in invitation emails.
	AuthAuthority string `env:"AUTH_AUTHORITY,required"`

	// UnitID is the unit every new trainee is enrolled under.
	UnitID uuid.UUID `env:"UNIT_ID,required"`

	// NewMemberStatus is the membership status label applied on enrollment.
	NewMemberStatus string `env:"NEW_MEMBER_STATUS,required"`

	// OAuth2 client-credentials settings for the token provider.
	TokenURL          string `env:"TOKEN_URL,required"`
	TokenClientID     string `env:"TOKEN_CLIENT_ID,required"`
	TokenClientSecret string `env:"TOKEN_CLIENT_SECRET,required"`
}

// Load parses and validates configuration from the environment.
func Load() (Config, error) {
	var c Config
	if err := env.Parse(&c); err != nil {
		return Config{}, fmt.Errorf("parse env: %w", err)
	}
	if err := c.validate(); err != nil {
		return Config{}, err
	}

	c.DatabaseAPIRoot = strings.TrimRight(c.DatabaseAPIRoot, "/")
	c.AccountsAPIRoot = strings.TrimRight(c.AccountsAPIRoot, "/")
	c.MessagingAPIRoot = strings.TrimRight(c.MessagingAPIRoot, "/")
	c.AuthAuthority = strings.TrimRight(c.AuthAuthority, "/")

	return c, nil
}

func (c Config) validate() error {
	if c.UnitID == uuid.Nil {
		return fmt.Errorf("UNIT_ID must be a non-nil uuid")
	}
	for name, v := range map[string]string{
		"APIS_DATABASE":  c.DatabaseAPIRoot,
		"APIS_ACCOUNTS":  c.AccountsAPIRoot,
		"APIS_MESSAGING": c.MessagingAPIRoot,
		"AUTH_AUTHORITY": c.AuthAuthority,
		"TOKEN_URL":      c.TokenURL,
	} {
		if !strings.HasPrefix(v, "http://") && !strings.HasPrefix(v, "https://") {
			return fmt.Errorf("%s must be an absolute http(s) URL", name)
		}
	}
	return nil
}
