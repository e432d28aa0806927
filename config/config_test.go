package config

import (
	"testing"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func parseConfig(t *testing.T) *AppConfig {
	t.Helper()
	var cfg AppConfig
	require.NoError(t, env.Parse(&cfg))
	return &cfg
}

func TestAppConfig_Defaults(t *testing.T) {
	cfg := parseConfig(t)

	assert.False(t, cfg.IsDev)
	assert.Equal(t, AuthModePassword, cfg.Auth.Mode)
	assert.Equal(t, "role", cfg.Auth.RoleExpression)
	assert.Equal(t, "/auth/login", cfg.Auth.Identity.LoginPath)
	assert.Equal(t, "/auth/refresh-token", cfg.Auth.Identity.RefreshPath)
	assert.Equal(t, "localhost:6379", cfg.Redis.URI)
	assert.Equal(t, 168*time.Hour, cfg.Session.TTL)
	assert.Equal(t, "session:", cfg.Session.KeyPrefix)
	assert.Equal(t, ":8080", cfg.HTTP.Addr)
	assert.Equal(t, 15*time.Second, cfg.Backend.Timeout)
	assert.False(t, cfg.Observability.Metrics.Enabled)
}

func TestAppConfig_EnvOverrides(t *testing.T) {
	t.Setenv("AUTH_MODE", "mock")
	t.Setenv("BACKEND_BASE_URL", "https://pos.internal")
	t.Setenv("SESSION_TTL", "24h")
	t.Setenv("REDIS_URI", "redis.internal:6379")

	cfg := parseConfig(t)

	assert.Equal(t, AuthModeMock, cfg.Auth.Mode)
	assert.Equal(t, "https://pos.internal", cfg.Backend.BaseURL)
	assert.Equal(t, 24*time.Hour, cfg.Session.TTL)
	assert.Equal(t, "redis.internal:6379", cfg.Redis.URI)
}

func TestAuthMode_UnmarshalText(t *testing.T) {
	var m AuthMode

	for _, valid := range []string{"password", "oidc", "mock", "PASSWORD", "Mock"} {
		require.NoError(t, m.UnmarshalText([]byte(valid)))
	}

	assert.Error(t, m.UnmarshalText([]byte("oauth2")))
	assert.Error(t, m.UnmarshalText([]byte("")))
}

func TestAuthConfig_Validate(t *testing.T) {
	tests := []struct {
		name    string
		cfg     AuthConfig
		wantErr string
	}{
		{
			name:    "password mode needs identity URL",
			cfg:     AuthConfig{Mode: AuthModePassword},
			wantErr: "IDENTITY_BASE_URL",
		},
		{
			name: "password mode with URL passes",
			cfg: AuthConfig{
				Mode:     AuthModePassword,
				Identity: IdentityConfig{BaseURL: "https://id.internal"},
			},
		},
		{
			name:    "oidc mode needs discovery URL",
			cfg:     AuthConfig{Mode: AuthModeOIDC},
			wantErr: "OAUTH_DISCOVERY_URL",
		},
		{
			name: "oidc mode needs client secret",
			cfg: AuthConfig{
				Mode:  AuthModeOIDC,
				OAuth: OAuthConfig{DiscoveryURL: "https://idp/.well-known/openid-configuration"},
			},
			wantErr: "OAUTH_CLIENT_SECRET",
		},
		{
			name: "oidc mode needs a group mapping",
			cfg: AuthConfig{
				Mode: AuthModeOIDC,
				OAuth: OAuthConfig{
					DiscoveryURL: "https://idp/.well-known/openid-configuration",
					ClientSecret: "s3cret",
				},
			},
			wantErr: "group mapping",
		},
		{
			name: "oidc mode fully configured passes",
			cfg: AuthConfig{
				Mode: AuthModeOIDC,
				OAuth: OAuthConfig{
					DiscoveryURL: "https://idp/.well-known/openid-configuration",
					ClientSecret: "s3cret",
					AdminGroup:   "cn=pos-admins",
				},
			},
		},
		{
			name: "mock mode is self contained",
			cfg:  AuthConfig{Mode: AuthModeMock},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.cfg.Validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestAppConfig_SanitizeClampsValues(t *testing.T) {
	cfg := AppConfig{
		Session: SessionConfig{TTL: -time.Hour},
		Backend: BackendConfig{Timeout: 0},
		HTTP:    HTTPConfig{ReadHeaderTimeout: -time.Second},
		Observability: ObservabilityConfig{
			Metrics: ObservabilityMetricsConfig{Enabled: true, StatsdAddress: "  "},
		},
	}
	cfg.Sanitize()

	assert.Equal(t, 168*time.Hour, cfg.Session.TTL)
	assert.Equal(t, "session:", cfg.Session.KeyPrefix)
	assert.Equal(t, 15*time.Second, cfg.Backend.Timeout)
	assert.Equal(t, 10*time.Second, cfg.HTTP.ReadHeaderTimeout)
	assert.False(t, cfg.Observability.Metrics.IsEnabled(), "blank statsd address disables metrics")
}

func TestAppConfig_DetectDevMode(t *testing.T) {
	t.Setenv("NODE_ENV", "development")

	cfg := parseConfig(t)
	cfg.Sanitize()

	assert.True(t, cfg.IsDev)
}
