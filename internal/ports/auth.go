package ports

// Package ports defines interfaces (hexagonal ports) for auth-related behavior.
// Implementations live in internal/adapters; orchestration in internal/service.

import (
	"context"

	domainauth "github.com/retailops/pos-ui-api/internal/domain/auth"
	"github.com/retailops/pos-ui-api/internal/token"
)

// Credentials carries the sign-in inputs forwarded to the identity service.
type Credentials struct {
	Email    string
	Password string
}

// TokenGrant is the outcome of a mint or refresh exchange: the new token
// pair plus the decoded claims of the access token. The two always travel
// together so session state can be replaced atomically.
type TokenGrant struct {
	AccessToken  string
	RefreshToken string
	Claims       token.Claims
}

// IdentityProvider mints and refreshes token grants against an identity
// service. Both operations perform one outbound network call; they are the
// only suspension points in the auth path.
type IdentityProvider interface {
	// Mint exchanges credentials for a fresh token grant.
	Mint(ctx context.Context, creds Credentials) (TokenGrant, error)

	// Refresh exchanges a refresh token for a new token grant. Failure means
	// the caller must treat the session as dead; there is no retry here.
	Refresh(ctx context.Context, refreshToken string) (TokenGrant, error)
}

// SessionStore persists and retrieves user sessions. Stores rewrite the
// session wholesale; there is no partial in-place mutation shared across
// requests.
type SessionStore interface {
	Save(ctx context.Context, sess domainauth.Session) error
	Get(ctx context.Context, id string) (domainauth.Session, error)
	Delete(ctx context.Context, id string) error
}

// RoleMapper resolves an application role from a raw claim payload.
type RoleMapper interface {
	Map(claims map[string]any) (domainauth.Role, error)
}
