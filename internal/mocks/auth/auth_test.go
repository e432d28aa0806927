package auth

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	domainauth "github.com/retailops/pos-ui-api/internal/domain/auth"
	"github.com/retailops/pos-ui-api/internal/ports"
)

func TestMockIdentityProvider_MintDeterministic(t *testing.T) {
	provider := NewMockIdentityProvider()
	ctx := context.Background()

	first, err := provider.Mint(ctx, ports.Credentials{Email: "a@example.com", Password: "pw"})
	require.NoError(t, err)
	second, err := provider.Mint(ctx, ports.Credentials{Email: "a@example.com", Password: "pw"})
	require.NoError(t, err)

	assert.Equal(t, "mock-access-1", first.AccessToken)
	assert.Equal(t, "mock-access-2", second.AccessToken)
	assert.Equal(t, 2, provider.MintCalls)
	assert.Positive(t, first.Claims.ExpiresAt)
}

func TestMockIdentityProvider_RefreshRequiresToken(t *testing.T) {
	provider := NewMockIdentityProvider()

	_, err := provider.Refresh(context.Background(), "")
	require.Error(t, err)

	grant, err := provider.Refresh(context.Background(), "mock-refresh-1")
	require.NoError(t, err)
	assert.Equal(t, "mock-access-r2", grant.AccessToken)
}

func TestMemorySessionStore_RoundTrip(t *testing.T) {
	store := NewMemorySessionStore()
	ctx := context.Background()

	sess := domainauth.Session{ID: "s1", AccessToken: "at", User: domainauth.Claims{Role: domainauth.RoleAdmin}}
	require.NoError(t, store.Save(ctx, sess))

	got, err := store.Get(ctx, "s1")
	require.NoError(t, err)
	assert.Equal(t, sess, got)

	require.NoError(t, store.Delete(ctx, "s1"))
	_, err = store.Get(ctx, "s1")
	assert.Equal(t, ErrNotFound, err)
}

func TestStaticRoleMapper(t *testing.T) {
	mapper := StaticRoleMapper{Role: domainauth.RoleManager}
	role, err := mapper.Map(map[string]any{"role": "ignored"})
	require.NoError(t, err)
	assert.Equal(t, domainauth.RoleManager, role)
}
