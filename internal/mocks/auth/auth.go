package auth

// Package auth contains simple hand-written test doubles for auth ports.
// These are lightweight and suitable for unit tests without codegen.

import (
	"context"
	"errors"
	"fmt"
	"time"

	domainauth "github.com/retailops/pos-ui-api/internal/domain/auth"
	"github.com/retailops/pos-ui-api/internal/ports"
	"github.com/retailops/pos-ui-api/internal/token"
)

// Ensure compile-time conformance to ports.
var (
	_ ports.IdentityProvider = (*MockIdentityProvider)(nil)
	_ ports.SessionStore     = (*MemorySessionStore)(nil)
	_ ports.RoleMapper       = (*StaticRoleMapper)(nil)
)

// MockIdentityProvider simulates the remote identity service with
// deterministic token values.
type MockIdentityProvider struct {
	MintFunc    func(ctx context.Context, creds ports.Credentials) (ports.TokenGrant, error)
	RefreshFunc func(ctx context.Context, refreshToken string) (ports.TokenGrant, error)

	// DefaultClaims seeds the claims of granted tokens when the func hooks
	// are nil. Subject doubles as the email claim.
	DefaultClaims token.Claims
	// TokenTTL controls the expiry of granted tokens.
	TokenTTL time.Duration

	// MintCalls and RefreshCalls count invocations for assertions.
	MintCalls    int
	RefreshCalls int
}

// NewMockIdentityProvider creates a MockIdentityProvider with sensible defaults.
func NewMockIdentityProvider() *MockIdentityProvider {
	return &MockIdentityProvider{
		DefaultClaims: token.Claims{
			Subject:  "mock.user@example.com",
			UserID:   "mock-user-1",
			Role:     string(domainauth.RoleSalesRep),
			BranchID: "mock-branch-1",
			Issuer:   "mock-identity",
		},
		TokenTTL: time.Hour,
	}
}

func (m *MockIdentityProvider) Mint(ctx context.Context, creds ports.Credentials) (ports.TokenGrant, error) {
	m.MintCalls++
	if m.MintFunc != nil {
		return m.MintFunc(ctx, creds)
	}
	if creds.Email == "" || creds.Password == "" {
		return ports.TokenGrant{}, errors.New("credentials are required")
	}
	return m.grant(fmt.Sprintf("mock-access-%d", m.MintCalls), fmt.Sprintf("mock-refresh-%d", m.MintCalls)), nil
}

func (m *MockIdentityProvider) Refresh(ctx context.Context, refreshToken string) (ports.TokenGrant, error) {
	m.RefreshCalls++
	if m.RefreshFunc != nil {
		return m.RefreshFunc(ctx, refreshToken)
	}
	if refreshToken == "" {
		return ports.TokenGrant{}, errors.New("refresh token is required")
	}
	return m.grant(
		fmt.Sprintf("mock-access-r%d", m.RefreshCalls),
		fmt.Sprintf("mock-refresh-r%d", m.RefreshCalls),
	), nil
}

func (m *MockIdentityProvider) grant(access, refresh string) ports.TokenGrant {
	claims := m.DefaultClaims
	now := time.Now()
	claims.IssuedAt = now.Unix()
	claims.ExpiresAt = now.Add(m.TokenTTL).Unix()
	if claims.Raw == nil {
		claims.Raw = map[string]any{"role": claims.Role}
	}
	return ports.TokenGrant{
		AccessToken:  access,
		RefreshToken: refresh,
		Claims:       claims,
	}
}

// MemorySessionStore is an in-memory session store for unit tests.
type MemorySessionStore struct {
	sessions map[string]domainauth.Session
}

// NewMemorySessionStore creates a new in-memory session store.
func NewMemorySessionStore() *MemorySessionStore {
	return &MemorySessionStore{
		sessions: make(map[string]domainauth.Session),
	}
}

func (m *MemorySessionStore) Save(_ context.Context, sess domainauth.Session) error {
	if sess.ID == "" {
		return errors.New("session ID cannot be empty")
	}
	m.sessions[sess.ID] = sess
	return nil
}

func (m *MemorySessionStore) Get(_ context.Context, id string) (domainauth.Session, error) {
	if id == "" {
		return domainauth.Session{}, ErrNotFound
	}
	sess, ok := m.sessions[id]
	if !ok {
		return domainauth.Session{}, ErrNotFound
	}
	return sess, nil
}

func (m *MemorySessionStore) Delete(_ context.Context, id string) error {
	if id == "" {
		return nil
	}
	delete(m.sessions, id)
	return nil
}

// Len reports how many sessions the store currently holds.
func (m *MemorySessionStore) Len() int { return len(m.sessions) }

// ErrNotFound is returned by mocks when an entity is not present.
type notFoundError struct{}

func (notFoundError) Error() string { return "not found" }

var ErrNotFound error = notFoundError{}

// StaticRoleMapper always resolves the configured role.
type StaticRoleMapper struct {
	Role domainauth.Role
	Err  error
}

func (m StaticRoleMapper) Map(_ map[string]any) (domainauth.Role, error) {
	if m.Err != nil {
		return "", m.Err
	}
	return m.Role, nil
}
