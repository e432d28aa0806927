package config

import (
	"fmt"
	"strings"
	"time"
)

// AuthMode represents the authentication mode for the application.
type AuthMode string

const (
	// AuthModePassword exchanges credentials with the remote identity
	// service (the default in production).
	AuthModePassword AuthMode = "password"
	// AuthModeOIDC uses the corporate IdP via OIDC discovery and the
	// resource-owner grant.
	AuthModeOIDC AuthMode = "oidc"
	// AuthModeMock uses a local signing provider (for development only).
	AuthModeMock AuthMode = "mock"
)

// UnmarshalText implements encoding.TextUnmarshaler for AuthMode.
func (a *AuthMode) UnmarshalText(text []byte) error {
	v := strings.ToLower(string(text))
	switch v {
	case "password", "oidc", "mock":
		*a = AuthMode(v)
		return nil
	default:
		return fmt.Errorf("invalid AuthMode: %q (valid options: password, oidc, mock)", v)
	}
}

// IdentityConfig points at the remote identity service (Mode=password).
type IdentityConfig struct {
	BaseURL     string        `env:"BASE_URL"`
	LoginPath   string        `env:"LOGIN_PATH"   envDefault:"/auth/login"`
	RefreshPath string        `env:"REFRESH_PATH" envDefault:"/auth/refresh-token"`
	Timeout     time.Duration `env:"TIMEOUT"      envDefault:"10s"`
}

// OAuthConfig contains OAuth/OIDC configuration (Mode=oidc).
type OAuthConfig struct {
	ClientID     string `env:"CLIENT_ID"     envDefault:"posadmin"`
	ClientSecret string `env:"CLIENT_SECRET"`
	Scope        string `env:"SCOPE"         envDefault:"openid profile email groups"`
	DiscoveryURL string `env:"DISCOVERY_URL"`

	// Directory group DNs mapped onto application roles.
	AdminGroup   string `env:"ADMIN_GROUP"`
	ManagerGroup string `env:"MANAGER_GROUP"`
	SalesGroup   string `env:"SALES_GROUP"`
}

// DevAuthConfig controls mock/dev authentication identity.
// Used when AUTH_MODE=mock for development and testing.
type DevAuthConfig struct {
	UserID   string        `env:"USER_ID"   envDefault:"dev-user"`
	Role     string        `env:"ROLE"      envDefault:"ADMIN"`
	BranchID string        `env:"BRANCH_ID" envDefault:"dev-branch"`
	Password string        `env:"PASSWORD"  envDefault:""`
	TokenTTL time.Duration `env:"TOKEN_TTL" envDefault:"15m"`
}

// AuthConfig groups all authentication-related configuration.
type AuthConfig struct {
	// Mode determines which identity provider to use.
	Mode AuthMode `env:"AUTH_MODE" envDefault:"password"`

	// RoleExpression is the JMESPath expression that extracts the role
	// claim from decoded tokens (password and mock modes).
	RoleExpression string `env:"AUTH_ROLE_EXPRESSION" envDefault:"role"`

	// Identity configuration (used when Mode=password).
	Identity IdentityConfig `envPrefix:"IDENTITY_"`

	// OAuth configuration (used when Mode=oidc).
	OAuth OAuthConfig `envPrefix:"OAUTH_"`

	// DevAuth configuration (used when Mode=mock).
	DevAuth DevAuthConfig `envPrefix:"DEV_AUTH_"`
}

// Sanitize applies guardrails to auth configuration values.
func (c *AuthConfig) Sanitize() {
	c.RoleExpression = strings.TrimSpace(c.RoleExpression)
	c.Identity.BaseURL = strings.TrimSpace(c.Identity.BaseURL)
	c.OAuth.DiscoveryURL = strings.TrimSpace(c.OAuth.DiscoveryURL)
	if c.Identity.Timeout <= 0 {
		c.Identity.Timeout = 10 * time.Second
	}
}

// Validate enforces the per-mode required settings.
func (c *AuthConfig) Validate() error {
	switch c.Mode {
	case AuthModePassword:
		if c.Identity.BaseURL == "" {
			return fmt.Errorf("AUTH_MODE=password requires IDENTITY_BASE_URL")
		}
	case AuthModeOIDC:
		if c.OAuth.DiscoveryURL == "" {
			return fmt.Errorf("AUTH_MODE=oidc requires OAUTH_DISCOVERY_URL")
		}
		if c.OAuth.ClientSecret == "" {
			return fmt.Errorf("AUTH_MODE=oidc requires OAUTH_CLIENT_SECRET")
		}
		if c.OAuth.AdminGroup == "" && c.OAuth.ManagerGroup == "" && c.OAuth.SalesGroup == "" {
			return fmt.Errorf("AUTH_MODE=oidc requires at least one group mapping")
		}
	case AuthModeMock:
		// Mock mode is self-contained.
	default:
		return fmt.Errorf("invalid AuthMode: %q", c.Mode)
	}
	return nil
}
