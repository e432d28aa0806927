package service

import (
	"fmt"
	"net/url"

	"github.com/retailops/pos-ui-api/internal/domain/access"
	domainauth "github.com/retailops/pos-ui-api/internal/domain/auth"
)

// AccessServiceOptions contains the dependencies for AccessService.
type AccessServiceOptions struct {
	// Table is the role rule table. Defaults to access.DefaultTable().
	Table access.Table
}

// AccessService answers "may this role see this path" for every request,
// using a rule table compiled once at startup.
type AccessService struct {
	table *access.CompiledTable
}

// NewAccessService compiles the rule table. A malformed pattern fails here,
// at startup, rather than surfacing as a runtime deny.
func NewAccessService(opts AccessServiceOptions) (*AccessService, error) {
	table := opts.Table
	if table == nil {
		table = access.DefaultTable()
	}
	compiled, err := table.Compile()
	if err != nil {
		return nil, fmt.Errorf("compile access table: %w", err)
	}
	return &AccessService{table: compiled}, nil
}

// Evaluate resolves a role and request path to a decision. Restrictions win
// over allowances; unknown roles are denied.
func (s *AccessService) Evaluate(role domainauth.Role, path string) access.Decision {
	return s.table.Evaluate(role, path)
}

// IsPublic reports whether the path bypasses evaluation entirely.
func (s *AccessService) IsPublic(path string) bool {
	return access.IsPublic(path)
}

// DenyRedirect builds the redirect target for a denied request: the role's
// landing page with an access-denied flag and the attempted path attached,
// so the UI can show a one-time notice and strip the markers afterwards.
func (s *AccessService) DenyRedirect(role domainauth.Role, attempted string) string {
	q := url.Values{}
	q.Set(access.DeniedParam, "true")
	q.Set(access.AttemptedParam, attempted)
	return access.LandingPath(role) + "?" + q.Encode()
}

// LoginRedirect builds the sign-in redirect for unauthenticated requests,
// preserving the original destination.
func (s *AccessService) LoginRedirect(attempted string) string {
	q := url.Values{}
	q.Set("redirect_uri", attempted)
	return "/login?" + q.Encode()
}
