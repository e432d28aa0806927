package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	domainauth "github.com/retailops/pos-ui-api/internal/domain/auth"
	apperrors "github.com/retailops/pos-ui-api/internal/errors"
	"github.com/retailops/pos-ui-api/internal/ports"
	"golang.org/x/sync/singleflight"
)

// AuthServiceOptions groups dependencies for AuthService.
type AuthServiceOptions struct {
	Provider ports.IdentityProvider
	Sessions ports.SessionStore
	Roles    ports.RoleMapper
}

// AuthService maintains the caller's authentication state across requests:
// it mints sessions from credentials, exposes denormalized claims, and keeps
// the access token fresh without forcing re-authentication on every expiry.
type AuthService struct {
	provider ports.IdentityProvider
	sessions ports.SessionStore
	roles    ports.RoleMapper

	// refreshes collapses concurrent refresh exchanges for the same session
	// into one outbound call. Two requests racing on an expired token would
	// otherwise both hit the refresh endpoint; with rotation enabled the
	// second exchange would kill the session.
	refreshes singleflight.Group

	now func() time.Time
}

// NewAuthService constructs a new AuthService.
func NewAuthService(opts AuthServiceOptions) *AuthService {
	return &AuthService{
		provider: opts.Provider,
		sessions: opts.Sessions,
		roles:    opts.Roles,
		now:      time.Now,
	}
}

// Login exchanges credentials for a new persisted session.
// Fails with an invalid-credentials error when the issuer rejects the
// credentials, or an unreachable error on network/parse failure.
func (s *AuthService) Login(ctx context.Context, creds ports.Credentials) (*domainauth.Session, error) {
	grant, err := s.provider.Mint(ctx, creds)
	if err != nil {
		return nil, err
	}

	sess, err := s.buildSession(generateSessionID(), grant)
	if err != nil {
		return nil, err
	}

	if saveErr := s.sessions.Save(ctx, sess); saveErr != nil {
		return nil, fmt.Errorf("save session: %w", saveErr)
	}
	return &sess, nil
}

// GetSession retrieves a session by ID without any freshness check or
// network I/O.
func (s *AuthService) GetSession(ctx context.Context, sessionID string) (*domainauth.Session, error) {
	if sessionID == "" {
		return nil, apperrors.NotFound("session ID is required")
	}
	sess, err := s.sessions.Get(ctx, sessionID)
	if err != nil {
		return nil, fmt.Errorf("get session: %w", err)
	}
	return &sess, nil
}

// Decorate returns the denormalized claims for a session without touching
// the network. Returns an error when no session is present.
func (s *AuthService) Decorate(ctx context.Context, sessionID string) (domainauth.Claims, error) {
	sess, err := s.GetSession(ctx, sessionID)
	if err != nil {
		return domainauth.Claims{}, err
	}
	return sess.User, nil
}

// Resolve fetches a session and guarantees it is fresh, refreshing through
// the identity service when the access token has expired. This is what the
// access-control middleware calls once per request.
func (s *AuthService) Resolve(ctx context.Context, sessionID string) (*domainauth.Session, error) {
	sess, err := s.GetSession(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	return s.EnsureFresh(ctx, sess)
}

// EnsureFresh returns the session unchanged when its access token is still
// valid (the common, cheap path: no network call). When expired it performs
// the refresh exchange and atomically replaces the token pair and expiry.
// Any refresh failure is fatal to the session: the session is cleared and a
// session-expired error returned, signaling the caller to route to sign-in.
func (s *AuthService) EnsureFresh(ctx context.Context, sess *domainauth.Session) (*domainauth.Session, error) {
	if !sess.Expired(s.now()) {
		return sess, nil
	}

	v, err, _ := s.refreshes.Do(sess.ID, func() (any, error) {
		return s.refresh(ctx, sess)
	})
	if err != nil {
		return nil, err
	}
	fresh, ok := v.(*domainauth.Session)
	if !ok {
		return nil, apperrors.Internal("unexpected refresh result type")
	}
	return fresh, nil
}

// refresh runs inside the singleflight group. A request that lost the race
// re-reads the store first: the winner has already rotated the tokens, and
// replaying the old refresh token against a rotating issuer would fail.
func (s *AuthService) refresh(ctx context.Context, sess *domainauth.Session) (*domainauth.Session, error) {
	if current, err := s.sessions.Get(ctx, sess.ID); err == nil && !current.Expired(s.now()) {
		return &current, nil
	}

	grant, err := s.provider.Refresh(ctx, sess.RefreshToken)
	if err != nil {
		s.clearSession(ctx, sess.ID)
		return nil, apperrors.SessionExpired(err)
	}

	fresh, err := s.buildSession(sess.ID, grant)
	if err != nil {
		s.clearSession(ctx, sess.ID)
		return nil, apperrors.SessionExpired(err)
	}

	if saveErr := s.sessions.Save(ctx, fresh); saveErr != nil {
		return nil, fmt.Errorf("save refreshed session: %w", saveErr)
	}
	return &fresh, nil
}

// Logout removes a session.
func (s *AuthService) Logout(ctx context.Context, sessionID string) error {
	if sessionID == "" {
		return nil // Nothing to logout
	}
	if err := s.sessions.Delete(ctx, sessionID); err != nil {
		return fmt.Errorf("delete session: %w", err)
	}
	return nil
}

// buildSession converts a token grant into a session. All three token
// fields and the denormalized claims are derived from one grant so they can
// never drift apart.
func (s *AuthService) buildSession(id string, grant ports.TokenGrant) (domainauth.Session, error) {
	role, err := s.roles.Map(grant.Claims.Raw)
	if err != nil {
		return domainauth.Session{}, fmt.Errorf("map role: %w", err)
	}

	return domainauth.Session{
		ID:           id,
		AccessToken:  grant.AccessToken,
		RefreshToken: grant.RefreshToken,
		ExpiresAt:    grant.Claims.ExpiresAt,
		User: domainauth.Claims{
			UserID:   grant.Claims.UserID,
			Email:    grant.Claims.Subject,
			Role:     role,
			BranchID: grant.Claims.BranchID,
		},
	}, nil
}

func (s *AuthService) clearSession(ctx context.Context, id string) {
	// Best effort: the session is already unusable; a failed delete only
	// delays reaping via the store TTL.
	_ = s.sessions.Delete(ctx, id)
}

// generateSessionID creates a cryptographically secure random session ID.
func generateSessionID() string {
	return uuid.New().String()
}
