package config

import (
	"fmt"
	"strings"
	"time"
)

// AuthMode represents the authentication mode for the application.
type AuthMode string

const (
	// AuthModeCredentials verifies email/password against the users table.
	AuthModeCredentials AuthMode = "credentials"
	// AuthModeOAuth uses OAuth/OIDC against a campus identity provider.
	AuthModeOAuth AuthMode = "oauth"
	// AuthModeMock uses mock/dev authentication (for development only).
	AuthModeMock AuthMode = "mock"
)

// UnmarshalText implements encoding.TextUnmarshaler for AuthMode.
func (a *AuthMode) UnmarshalText(text []byte) error {
	v := strings.ToLower(string(text))
	switch v {
	case "credentials", "oauth", "mock":
		*a = AuthMode(v)
		return nil
	default:
		return fmt.Errorf("invalid AuthMode: %q (valid options: credentials, oauth, mock)", v)
	}
}

// OAuthConfig contains OAuth/OIDC configuration.
type OAuthConfig struct {
	ClientID     string `env:"CLIENT_ID"     envDefault:"hirespherex"`
	ClientSecret string `env:"CLIENT_SECRET" envDefault:"hirespherex"`
	RedirectURL  string `env:"REDIRECT_URL"  envDefault:"http://localhost:8080/api/v1/auth/callback"`
	Scope        string `env:"SCOPE"         envDefault:"openid profile email groups"`
	DiscoveryURL string `env:"DISCOVERY_URL"`
	LogoutURL    string `env:"LOGOUT_URL"`
}

// DevAuthConfig controls mock/dev authentication identity.
// Used when AUTH_MODE=mock for development and testing.
type DevAuthConfig struct {
	UserID    string   `env:"USER_ID"    envDefault:"dev-user"`
	Email     string   `env:"EMAIL"      envDefault:"dev@campus.edu"`
	FirstName string   `env:"FIRST_NAME" envDefault:"Dev"`
	LastName  string   `env:"LAST_NAME"  envDefault:"User"`
	Roles     []string `env:"ROLES"      envDefault:"admin"          envSeparator:";"`
}

// GroupMappingConfig names the IdP groups that grant each portal role.
// Only consulted in oauth mode; in credentials mode the granted role set
// comes from the users table.
type GroupMappingConfig struct {
	AdminGroup         string `env:"ADMIN_GROUP"`
	PlacementCellGroup string `env:"PLACEMENT_CELL_GROUP"`
	StudentGroup       string `env:"STUDENT_GROUP"`
}

// AuthConfig groups all authentication-related configuration.
type AuthConfig struct {
	// Mode determines which authentication provider to use.
	Mode AuthMode `env:"AUTH_MODE" envDefault:"credentials"`

	// OAuth configuration (used when Mode=oauth).
	OAuth OAuthConfig `envPrefix:"OAUTH_"`

	// DevAuth configuration (used when Mode=mock).
	DevAuth DevAuthConfig `envPrefix:"DEV_AUTH_"`

	// Groups maps IdP group names to portal roles (used when Mode=oauth).
	Groups GroupMappingConfig `envPrefix:"AUTH_GROUP_"`

	// SessionTTL bounds how long a session stays valid.
	SessionTTL time.Duration `env:"AUTH_SESSION_TTL" envDefault:"8h"`

	// ResetTokenTTL bounds how long a password reset link stays valid.
	ResetTokenTTL time.Duration `env:"AUTH_RESET_TOKEN_TTL" envDefault:"30m"`
}

// Sanitize applies guardrails to authentication configuration values.
func (a *AuthConfig) Sanitize() {
	if a.SessionTTL < time.Minute {
		a.SessionTTL = time.Minute
	}
	if a.ResetTokenTTL < time.Minute {
		a.ResetTokenTTL = time.Minute
	}
}
