package service

import (
	"net/url"
	"strings"
	"testing"

	"github.com/retailops/pos-ui-api/internal/domain/access"
	domainauth "github.com/retailops/pos-ui-api/internal/domain/auth"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewAccessService_DefaultTable(t *testing.T) {
	svc, err := NewAccessService(AccessServiceOptions{})
	require.NoError(t, err)
	assert.Equal(t, access.Allow, svc.Evaluate(domainauth.RoleAdmin, "/settings/system"))
}

func TestNewAccessService_MalformedPatternFailsAtStartup(t *testing.T) {
	_, err := NewAccessService(AccessServiceOptions{
		Table: access.Table{
			domainauth.RoleAdmin: {AllowedPaths: []string{"/branches/[id"}},
		},
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "compile access table")
}

func TestAccessService_Evaluate(t *testing.T) {
	svc, err := NewAccessService(AccessServiceOptions{})
	require.NoError(t, err)

	tests := []struct {
		name string
		role domainauth.Role
		path string
		want access.Decision
	}{
		{"manager denied branch edit", domainauth.RoleManager, "/branches/abc/edit", access.Deny},
		{"manager allowed branch view", domainauth.RoleManager, "/branches/abc", access.Allow},
		{"sales rep allowed order detail", domainauth.RoleSalesRep, "/orders/123/details", access.Allow},
		{"sales rep denied users", domainauth.RoleSalesRep, "/users", access.Deny},
		{"admin allowed everything", domainauth.RoleAdmin, "/settings/system", access.Allow},
		{"unknown role denied", domainauth.Role("AUDITOR"), "/orders", access.Deny},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, svc.Evaluate(tt.role, tt.path))
		})
	}
}

func TestAccessService_IsPublic(t *testing.T) {
	svc, err := NewAccessService(AccessServiceOptions{})
	require.NoError(t, err)

	assert.True(t, svc.IsPublic("/login"))
	assert.True(t, svc.IsPublic("/auth/refresh-token"))
	assert.False(t, svc.IsPublic("/orders"))
}

func TestAccessService_DenyRedirect(t *testing.T) {
	svc, err := NewAccessService(AccessServiceOptions{})
	require.NoError(t, err)

	target := svc.DenyRedirect(domainauth.RoleManager, "/branches/abc/edit")
	u, err := url.Parse(target)
	require.NoError(t, err)

	assert.Equal(t, "/", u.Path)
	assert.Equal(t, "true", u.Query().Get(access.DeniedParam))
	assert.Equal(t, "/branches/abc/edit", u.Query().Get(access.AttemptedParam))

	// Sales reps land on their own dashboard.
	assert.True(t, strings.HasPrefix(svc.DenyRedirect(domainauth.RoleSalesRep, "/users"), "/orders?"))
}

func TestAccessService_LoginRedirect(t *testing.T) {
	svc, err := NewAccessService(AccessServiceOptions{})
	require.NoError(t, err)

	target := svc.LoginRedirect("/inventory")
	u, err := url.Parse(target)
	require.NoError(t, err)
	assert.Equal(t, "/login", u.Path)
	assert.Equal(t, "/inventory", u.Query().Get("redirect_uri"))
}
