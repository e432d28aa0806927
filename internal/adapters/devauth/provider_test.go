package devauth

import (
	"context"
	"testing"
	"time"

	domainauth "github.com/retailops/pos-ui-api/internal/domain/auth"
	apperrors "github.com/retailops/pos-ui-api/internal/errors"
	"github.com/retailops/pos-ui-api/internal/ports"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestProvider(t *testing.T, cfg Config) *Provider {
	t.Helper()
	if cfg.UserID == "" {
		cfg.UserID = "dev-user"
	}
	if cfg.Role == "" {
		cfg.Role = domainauth.RoleAdmin
	}
	p, err := NewProvider(cfg)
	require.NoError(t, err)
	return p
}

func TestNewProvider_Validation(t *testing.T) {
	_, err := NewProvider(Config{Role: domainauth.RoleAdmin})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "UserID is required")

	_, err = NewProvider(Config{UserID: "dev-user"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Role is required")
}

func TestProvider_Mint(t *testing.T) {
	p := newTestProvider(t, Config{BranchID: "branch-1", Role: domainauth.RoleManager})

	grant, err := p.Mint(context.Background(), ports.Credentials{
		Email:    "dev@example.com",
		Password: "anything",
	})
	require.NoError(t, err)

	assert.NotEmpty(t, grant.AccessToken)
	assert.NotEmpty(t, grant.RefreshToken)
	assert.Equal(t, "dev@example.com", grant.Claims.Subject)
	assert.Equal(t, "dev-user", grant.Claims.UserID)
	assert.Equal(t, string(domainauth.RoleManager), grant.Claims.Role)
	assert.Equal(t, "branch-1", grant.Claims.BranchID)
	assert.Greater(t, grant.Claims.ExpiresAt, time.Now().Unix())
}

func TestProvider_Mint_FixedPassword(t *testing.T) {
	p := newTestProvider(t, Config{Password: "letmein"})

	_, err := p.Mint(context.Background(), ports.Credentials{Email: "dev@example.com", Password: "wrong"})
	assert.True(t, apperrors.IsInvalidCredentials(err))

	_, err = p.Mint(context.Background(), ports.Credentials{Email: "dev@example.com", Password: "letmein"})
	assert.NoError(t, err)
}

func TestProvider_Mint_ValidatesInput(t *testing.T) {
	p := newTestProvider(t, Config{})

	_, err := p.Mint(context.Background(), ports.Credentials{Password: "pw"})
	assert.True(t, apperrors.IsValidation(err))

	_, err = p.Mint(context.Background(), ports.Credentials{Email: "dev@example.com"})
	assert.True(t, apperrors.IsValidation(err))
}

func TestProvider_Refresh(t *testing.T) {
	p := newTestProvider(t, Config{})

	grant, err := p.Mint(context.Background(), ports.Credentials{Email: "dev@example.com", Password: "pw"})
	require.NoError(t, err)

	refreshed, err := p.Refresh(context.Background(), grant.RefreshToken)
	require.NoError(t, err)
	assert.NotEmpty(t, refreshed.AccessToken)
	assert.NotEqual(t, grant.RefreshToken, refreshed.RefreshToken)

	_, err = p.Refresh(context.Background(), "")
	require.Error(t, err)
}

func TestProvider_Refresh_PreservesEmail(t *testing.T) {
	p := newTestProvider(t, Config{})

	grant, err := p.Mint(context.Background(), ports.Credentials{Email: "manager@example.com", Password: "pw"})
	require.NoError(t, err)

	// The new pair must carry the email the user signed in with, not the
	// configured identity's placeholder address.
	refreshed, err := p.Refresh(context.Background(), grant.RefreshToken)
	require.NoError(t, err)
	assert.Equal(t, "manager@example.com", refreshed.Claims.Subject)

	// And again through the rotated token.
	again, err := p.Refresh(context.Background(), refreshed.RefreshToken)
	require.NoError(t, err)
	assert.Equal(t, "manager@example.com", again.Claims.Subject)
}

func TestProvider_Refresh_RotatesToken(t *testing.T) {
	p := newTestProvider(t, Config{})

	grant, err := p.Mint(context.Background(), ports.Credentials{Email: "dev@example.com", Password: "pw"})
	require.NoError(t, err)

	_, err = p.Refresh(context.Background(), grant.RefreshToken)
	require.NoError(t, err)

	// The old token is spent once rotated.
	_, err = p.Refresh(context.Background(), grant.RefreshToken)
	require.Error(t, err)

	_, err = p.Refresh(context.Background(), "never-issued")
	require.Error(t, err)
}
