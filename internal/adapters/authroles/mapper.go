package authroles

// Package authroles resolves application roles from token claims. Two
// strategies are provided: a JMESPath expression over the claim payload
// (password/identity-service mode, where the issuer embeds a role claim)
// and directory-group membership (OIDC mode).

import (
	"errors"
	"fmt"

	jmespath "github.com/jmespath-community/go-jmespath"
	domainauth "github.com/retailops/pos-ui-api/internal/domain/auth"
)

// DefaultRoleExpression is the claim path used when none is configured.
const DefaultRoleExpression = "role"

// ExpressionMapper evaluates a JMESPath expression against the raw claim
// payload and parses the result as a role. The expression is validated at
// construction so a malformed deployment value fails at startup.
type ExpressionMapper struct {
	expr string
}

// NewExpressionMapper validates the expression and returns a mapper.
func NewExpressionMapper(expr string) (*ExpressionMapper, error) {
	if expr == "" {
		expr = DefaultRoleExpression
	}
	if _, err := jmespath.Compile(expr); err != nil {
		return nil, fmt.Errorf("compile role expression %q: %w", expr, err)
	}
	return &ExpressionMapper{expr: expr}, nil
}

func (m *ExpressionMapper) Map(claims map[string]any) (domainauth.Role, error) {
	result, err := jmespath.Search(m.expr, claims)
	if err != nil {
		return "", fmt.Errorf("evaluate role expression: %w", err)
	}
	raw, ok := result.(string)
	if !ok {
		return "", fmt.Errorf("role expression %q did not yield a string (got %T)", m.expr, result)
	}
	return domainauth.ParseRole(raw)
}

// GroupMapper maps directory groups (the "groups" claim) to roles by simple
// string membership. More privileged groups are tested first.
type GroupMapper struct {
	AdminGroup   string
	ManagerGroup string
	SalesGroup   string
}

var errNoGroupMatch = errors.New("no configured group matched")

func (m GroupMapper) Map(claims map[string]any) (domainauth.Role, error) {
	groups := stringSliceClaim(claims, "groups")

	for _, g := range groups {
		if m.AdminGroup != "" && g == m.AdminGroup {
			return domainauth.RoleAdmin, nil
		}
	}
	for _, g := range groups {
		if m.ManagerGroup != "" && g == m.ManagerGroup {
			return domainauth.RoleManager, nil
		}
	}
	for _, g := range groups {
		if m.SalesGroup != "" && g == m.SalesGroup {
			return domainauth.RoleSalesRep, nil
		}
	}
	return "", errNoGroupMatch
}

func stringSliceClaim(claims map[string]any, key string) []string {
	raw, ok := claims[key]
	if !ok {
		return nil
	}
	switch v := raw.(type) {
	case []string:
		return v
	case []any:
		out := make([]string, 0, len(v))
		for _, item := range v {
			if s, sok := item.(string); sok {
				out = append(out, s)
			}
		}
		return out
	default:
		return nil
	}
}
