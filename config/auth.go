package config

import (
	"fmt"
	"strings"
	"time"
)

// AuthMode selects the identity verifier implementation.
type AuthMode string

const (
	// AuthModeOAuth uses the plant IdP over OIDC.
	AuthModeOAuth AuthMode = "oauth"
	// AuthModeHTTP uses the password-verification HTTP collaborator.
	AuthModeHTTP AuthMode = "http"
	// AuthModeMock uses a config-driven dev verifier (development only).
	AuthModeMock AuthMode = "mock"
)

// UnmarshalText implements encoding.TextUnmarshaler for AuthMode.
func (a *AuthMode) UnmarshalText(text []byte) error {
	v := strings.ToLower(string(text))
	switch v {
	case "oauth", "http", "mock":
		*a = AuthMode(v)
		return nil
	default:
		return fmt.Errorf("invalid AuthMode: %q (valid options: oauth, http, mock)", v)
	}
}

// OAuthConfig contains OAuth/OIDC configuration.
type OAuthConfig struct {
	ClientID     string `env:"CLIENT_ID"     envDefault:"opsgate"`
	ClientSecret string `env:"CLIENT_SECRET" envDefault:"opsgate"`
	Scope        string `env:"SCOPE"         envDefault:"openid profile email"`
	DiscoveryURL string `env:"DISCOVERY_URL"`

	// ProfileMap holds JMESPath expressions selecting UserProfile fields
	// from the IdP claim document. Empty entries use the adapter defaults.
	ProfileID        string `env:"PROFILE_ID"`
	ProfileUsername  string `env:"PROFILE_USERNAME"`
	ProfileName      string `env:"PROFILE_NAME"`
	ProfileDept      string `env:"PROFILE_DEPARTMENT"`
	ProfileWorkspace string `env:"PROFILE_WORKSPACE"`
	ProfileRole      string `env:"PROFILE_ROLE"`
}

// HTTPVerifyConfig configures the password-verification collaborator.
type HTTPVerifyConfig struct {
	URL     string        `env:"URL"`
	Timeout time.Duration `env:"TIMEOUT" envDefault:"10s"`
}

// DevAuthConfig controls the mock verifier identity.
// Used when AUTH_MODE=mock for development and testing.
type DevAuthConfig struct {
	UserID      string `env:"USER_ID"      envDefault:"dev-user"`
	Username    string `env:"USERNAME"     envDefault:"dev"`
	DisplayName string `env:"DISPLAY_NAME" envDefault:"开发者"`
	Department  string `env:"DEPARTMENT"   envDefault:"化验室"`
	Workspace   string `env:"WORKSPACE"    envDefault:"化验室"`
	RoleTitle   string `env:"ROLE_TITLE"   envDefault:"化验员"`
	Password    string `env:"PASSWORD"     envDefault:""`
}

// SessionConfig controls server-side session state persistence.
type SessionConfig struct {
	// StorePrefix namespaces keys in the shared Redis instance.
	StorePrefix string `env:"STORE_PREFIX" envDefault:"authstate:"`
	// StoreTTL caps how long persisted state outlives its last write.
	// Zero falls back to the remember-me lifetime.
	StoreTTL time.Duration `env:"STORE_TTL" envDefault:"720h"`
	// UseRedis switches persistence from in-process memory to Redis.
	UseRedis bool `env:"USE_REDIS" envDefault:"false"`
}

// AuthConfig groups all authentication-related configuration.
type AuthConfig struct {
	// Mode determines which identity verifier to use.
	Mode AuthMode `env:"AUTH_MODE" envDefault:"mock"`

	// OAuth configuration (used when Mode=oauth).
	OAuth OAuthConfig `envPrefix:"OAUTH_"`

	// HTTPVerify configuration (used when Mode=http).
	HTTPVerify HTTPVerifyConfig `envPrefix:"VERIFY_"`

	// DevAuth configuration (used when Mode=mock).
	DevAuth DevAuthConfig `envPrefix:"DEV_AUTH_"`

	// Session persistence configuration.
	Session SessionConfig `envPrefix:"SESSION_"`

	// AuditEnabled persists login/logout events to Postgres.
	AuditEnabled bool `env:"AUTH_AUDIT_ENABLED" envDefault:"false"`
}

// Sanitize applies guardrails to auth configuration values.
func (a *AuthConfig) Sanitize() {
	if a.Session.StoreTTL < 0 {
		a.Session.StoreTTL = 0
	}
	if a.HTTPVerify.Timeout <= 0 {
		a.HTTPVerify.Timeout = 10 * time.Second
	}
}
