package authroles

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	domainauth "github.com/retailops/pos-ui-api/internal/domain/auth"
)

func TestExpressionMapper_DefaultExpression(t *testing.T) {
	mapper, err := NewExpressionMapper("")
	require.NoError(t, err)

	role, err := mapper.Map(map[string]any{"role": "MANAGER"})
	require.NoError(t, err)
	assert.Equal(t, domainauth.RoleManager, role)
}

func TestExpressionMapper_NestedExpression(t *testing.T) {
	mapper, err := NewExpressionMapper("realm_access.role")
	require.NoError(t, err)

	role, err := mapper.Map(map[string]any{
		"realm_access": map[string]any{"role": "ADMIN"},
	})
	require.NoError(t, err)
	assert.Equal(t, domainauth.RoleAdmin, role)
}

func TestExpressionMapper_UnknownRoleFailsClosed(t *testing.T) {
	mapper, err := NewExpressionMapper("")
	require.NoError(t, err)

	_, err = mapper.Map(map[string]any{"role": "SUPERUSER"})
	assert.Error(t, err)
}

func TestExpressionMapper_NonStringResult(t *testing.T) {
	mapper, err := NewExpressionMapper("")
	require.NoError(t, err)

	_, err = mapper.Map(map[string]any{"role": 7})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "did not yield a string")
}

func TestExpressionMapper_MalformedExpression(t *testing.T) {
	_, err := NewExpressionMapper("][")
	assert.Error(t, err)
}

func TestGroupMapper_Precedence(t *testing.T) {
	mapper := GroupMapper{
		AdminGroup:   "pos-admins",
		ManagerGroup: "pos-managers",
		SalesGroup:   "pos-sales",
	}

	claims := map[string]any{"groups": []any{"pos-sales", "pos-admins"}}
	role, err := mapper.Map(claims)
	require.NoError(t, err)
	assert.Equal(t, domainauth.RoleAdmin, role)
}

func TestGroupMapper_NoMatchFailsClosed(t *testing.T) {
	mapper := GroupMapper{AdminGroup: "pos-admins"}

	_, err := mapper.Map(map[string]any{"groups": []any{"unrelated"}})
	assert.Error(t, err)

	_, err = mapper.Map(map[string]any{})
	assert.Error(t, err)
}

func TestGroupMapper_StringSliceClaim(t *testing.T) {
	mapper := GroupMapper{SalesGroup: "pos-sales"}

	role, err := mapper.Map(map[string]any{"groups": []string{"pos-sales"}})
	require.NoError(t, err)
	assert.Equal(t, domainauth.RoleSalesRep, role)
}
