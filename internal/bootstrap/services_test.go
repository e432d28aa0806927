package bootstrap

import (
	"testing"

	"github.com/redis/go-redis/v9"
	"github.com/retailops/pos-ui-api/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testAppConfig() *config.AppConfig {
	cfg := &config.AppConfig{
		Auth: config.AuthConfig{
			Mode:           config.AuthModeMock,
			RoleExpression: "role",
			DevAuth:        config.DevAuthConfig{UserID: "dev-user", Role: "ADMIN"},
		},
		Backend: config.BackendConfig{BaseURL: "https://pos.internal"},
	}
	cfg.Sanitize()
	return cfg
}

func TestBuildServices(t *testing.T) {
	// No connection is made at build time, so an unreachable address is fine.
	client := redis.NewClient(&redis.Options{Addr: "localhost:1"})
	t.Cleanup(func() { _ = client.Close() })

	services, err := BuildServices(BuildOptions{Config: testAppConfig(), Redis: client})
	require.NoError(t, err)

	assert.NotNil(t, services.Auth)
	assert.NotNil(t, services.Access)
	assert.NotNil(t, services.Backend)
}

func TestBuildServices_RequiresConfig(t *testing.T) {
	client := redis.NewClient(&redis.Options{Addr: "localhost:1"})
	t.Cleanup(func() { _ = client.Close() })

	_, err := BuildServices(BuildOptions{Redis: client})
	assert.Error(t, err)
}

func TestBuildServices_RequiresRedis(t *testing.T) {
	_, err := BuildServices(BuildOptions{Config: testAppConfig()})
	assert.Error(t, err)
}

func TestBuildServices_MissingBackendURL(t *testing.T) {
	client := redis.NewClient(&redis.Options{Addr: "localhost:1"})
	t.Cleanup(func() { _ = client.Close() })

	cfg := testAppConfig()
	cfg.Backend.BaseURL = ""

	_, err := BuildServices(BuildOptions{Config: cfg, Redis: client})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "backend client")
}

func TestNewHTTPServer_DefaultAddr(t *testing.T) {
	server := NewHTTPServer(HTTPServerOptions{})
	assert.Equal(t, ":8080", server.Addr)
	assert.NotNil(t, server.Handler)
}
