package service

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	domainauth "github.com/retailops/pos-ui-api/internal/domain/auth"
	apperrors "github.com/retailops/pos-ui-api/internal/errors"
	"github.com/retailops/pos-ui-api/internal/mocks"
	mocksauth "github.com/retailops/pos-ui-api/internal/mocks/auth"
	"github.com/retailops/pos-ui-api/internal/ports"
	"github.com/retailops/pos-ui-api/internal/token"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

func newTestAuthService() (*AuthService, *mocksauth.MockIdentityProvider, *mocksauth.MemorySessionStore) {
	provider := mocksauth.NewMockIdentityProvider()
	sessions := mocksauth.NewMemorySessionStore()
	svc := NewAuthService(AuthServiceOptions{
		Provider: provider,
		Sessions: sessions,
		Roles:    mocksauth.StaticRoleMapper{Role: domainauth.RoleSalesRep},
	})
	return svc, provider, sessions
}

func TestNewAuthService(t *testing.T) {
	svc, provider, sessions := newTestAuthService()

	assert.NotNil(t, svc)
	assert.Equal(t, provider, svc.provider)
	assert.Equal(t, sessions, svc.sessions)
}

func TestAuthService_Login_Success(t *testing.T) {
	svc, _, sessions := newTestAuthService()
	ctx := context.Background()

	sess, err := svc.Login(ctx, ports.Credentials{Email: "rep@example.com", Password: "pw"})
	require.NoError(t, err)

	assert.NotEmpty(t, sess.ID)
	assert.Equal(t, "mock-access-1", sess.AccessToken)
	assert.Equal(t, "mock-refresh-1", sess.RefreshToken)
	assert.Equal(t, domainauth.RoleSalesRep, sess.User.Role)
	assert.Equal(t, "mock.user@example.com", sess.User.Email)

	stored, err := sessions.Get(ctx, sess.ID)
	require.NoError(t, err)
	assert.Equal(t, *sess, stored)
}

func TestAuthService_Login_InvalidCredentialsPassthrough(t *testing.T) {
	svc, provider, _ := newTestAuthService()
	provider.MintFunc = func(_ context.Context, _ ports.Credentials) (ports.TokenGrant, error) {
		return ports.TokenGrant{}, apperrors.InvalidCredentials("nope")
	}

	_, err := svc.Login(context.Background(), ports.Credentials{Email: "x@example.com", Password: "bad"})
	assert.True(t, apperrors.IsInvalidCredentials(err))
}

func TestAuthService_Login_RoleMappingFailure(t *testing.T) {
	provider := mocksauth.NewMockIdentityProvider()
	svc := NewAuthService(AuthServiceOptions{
		Provider: provider,
		Sessions: mocksauth.NewMemorySessionStore(),
		Roles:    mocksauth.StaticRoleMapper{Err: errors.New("unknown role")},
	})

	_, err := svc.Login(context.Background(), ports.Credentials{Email: "x@example.com", Password: "pw"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "map role")
}

func TestAuthService_Login_SaveError(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	store := mocks.NewMockSessionStore(ctrl)
	store.EXPECT().Save(gomock.Any(), gomock.Any()).Return(errors.New("redis down"))

	svc := NewAuthService(AuthServiceOptions{
		Provider: mocksauth.NewMockIdentityProvider(),
		Sessions: store,
		Roles:    mocksauth.StaticRoleMapper{Role: domainauth.RoleAdmin},
	})

	_, err := svc.Login(context.Background(), ports.Credentials{Email: "x@example.com", Password: "pw"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "save session")
}

func TestAuthService_Decorate_RoundTrip(t *testing.T) {
	svc, _, _ := newTestAuthService()
	ctx := context.Background()

	sess, err := svc.Login(ctx, ports.Credentials{Email: "rep@example.com", Password: "pw"})
	require.NoError(t, err)

	claims, err := svc.Decorate(ctx, sess.ID)
	require.NoError(t, err)
	assert.Equal(t, sess.User, claims)
}

func TestAuthService_Decorate_NoSession(t *testing.T) {
	svc, _, _ := newTestAuthService()

	_, err := svc.Decorate(context.Background(), "missing")
	assert.Error(t, err)

	_, err = svc.Decorate(context.Background(), "")
	assert.Error(t, err)
}

func TestAuthService_EnsureFresh_NotExpiredIsNoop(t *testing.T) {
	svc, provider, _ := newTestAuthService()
	ctx := context.Background()

	sess, err := svc.Login(ctx, ports.Credentials{Email: "rep@example.com", Password: "pw"})
	require.NoError(t, err)
	mintRefreshes := provider.RefreshCalls

	fresh, err := svc.EnsureFresh(ctx, sess)
	require.NoError(t, err)

	// Same token values, no refresh exchange observed.
	assert.Equal(t, sess, fresh)
	assert.Equal(t, mintRefreshes, provider.RefreshCalls)
}

func TestAuthService_EnsureFresh_ExpiredRefreshes(t *testing.T) {
	svc, provider, sessions := newTestAuthService()
	ctx := context.Background()

	sess, err := svc.Login(ctx, ports.Credentials{Email: "rep@example.com", Password: "pw"})
	require.NoError(t, err)

	// Widen the TTL for the refresh grant: the mock stamps expiry from the
	// wall clock, and login and refresh run within the same second.
	provider.TokenTTL = 2 * time.Hour

	// Advance the clock past the token expiry.
	svc.now = func() time.Time { return sess.Expiry().Add(time.Second) }

	fresh, err := svc.EnsureFresh(ctx, sess)
	require.NoError(t, err)

	assert.Equal(t, sess.ID, fresh.ID)
	assert.NotEqual(t, sess.AccessToken, fresh.AccessToken)
	assert.NotEqual(t, sess.RefreshToken, fresh.RefreshToken)
	assert.Greater(t, fresh.ExpiresAt, sess.ExpiresAt)

	// The store now holds the replaced session wholesale.
	stored, err := sessions.Get(ctx, sess.ID)
	require.NoError(t, err)
	assert.Equal(t, *fresh, stored)
}

func TestAuthService_EnsureFresh_RefreshRejectedClearsSession(t *testing.T) {
	svc, provider, sessions := newTestAuthService()
	ctx := context.Background()

	sess, err := svc.Login(ctx, ports.Credentials{Email: "rep@example.com", Password: "pw"})
	require.NoError(t, err)

	provider.RefreshFunc = func(_ context.Context, _ string) (ports.TokenGrant, error) {
		return ports.TokenGrant{}, errors.New("401 refresh token revoked")
	}
	svc.now = func() time.Time { return sess.Expiry().Add(time.Second) }

	_, err = svc.EnsureFresh(ctx, sess)
	assert.True(t, apperrors.IsSessionExpired(err), "got %v", err)

	_, err = sessions.Get(ctx, sess.ID)
	assert.Equal(t, mocksauth.ErrNotFound, err)
}

func TestAuthService_EnsureFresh_StoreAlreadyRefreshed(t *testing.T) {
	svc, provider, sessions := newTestAuthService()
	ctx := context.Background()

	sess, err := svc.Login(ctx, ports.Credentials{Email: "rep@example.com", Password: "pw"})
	require.NoError(t, err)

	// Another request already rotated the tokens: the store holds a fresh
	// session, while our caller still carries the stale copy.
	rotated := *sess
	rotated.AccessToken = "rotated-access"
	rotated.RefreshToken = "rotated-refresh"
	rotated.ExpiresAt = time.Now().Add(2 * time.Hour).Unix()
	require.NoError(t, sessions.Save(ctx, rotated))

	stale := *sess
	stale.ExpiresAt = time.Now().Add(-time.Minute).Unix()
	refreshesBefore := provider.RefreshCalls

	fresh, err := svc.EnsureFresh(ctx, &stale)
	require.NoError(t, err)
	assert.Equal(t, "rotated-access", fresh.AccessToken)
	assert.Equal(t, refreshesBefore, provider.RefreshCalls)
}

// countingProvider is a race-safe IdentityProvider for concurrency tests.
type countingProvider struct {
	refreshes atomic.Int32
	grant     ports.TokenGrant
}

func (p *countingProvider) Mint(_ context.Context, _ ports.Credentials) (ports.TokenGrant, error) {
	return p.grant, nil
}

func (p *countingProvider) Refresh(_ context.Context, _ string) (ports.TokenGrant, error) {
	p.refreshes.Add(1)
	time.Sleep(20 * time.Millisecond) // widen the race window
	return p.grant, nil
}

// lockedStore wraps MemorySessionStore for concurrent use.
type lockedStore struct {
	mu    sync.Mutex
	inner *mocksauth.MemorySessionStore
}

func (s *lockedStore) Save(ctx context.Context, sess domainauth.Session) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.inner.Save(ctx, sess)
}

func (s *lockedStore) Get(ctx context.Context, id string) (domainauth.Session, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.inner.Get(ctx, id)
}

func (s *lockedStore) Delete(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.inner.Delete(ctx, id)
}

func TestAuthService_EnsureFresh_ConcurrentRefreshIsSingleFlight(t *testing.T) {
	provider := &countingProvider{
		grant: ports.TokenGrant{
			AccessToken:  "fresh-access",
			RefreshToken: "fresh-refresh",
			Claims: token.Claims{
				Subject:   "rep@example.com",
				Role:      string(domainauth.RoleSalesRep),
				ExpiresAt: time.Now().Add(time.Hour).Unix(),
				Raw:       map[string]any{"role": "SALES_REP"},
			},
		},
	}
	store := &lockedStore{inner: mocksauth.NewMemorySessionStore()}
	svc := NewAuthService(AuthServiceOptions{
		Provider: provider,
		Sessions: store,
		Roles:    mocksauth.StaticRoleMapper{Role: domainauth.RoleSalesRep},
	})

	expired := domainauth.Session{
		ID:           "sess-race",
		AccessToken:  "stale-access",
		RefreshToken: "stale-refresh",
		ExpiresAt:    time.Now().Add(-time.Minute).Unix(),
		User:         domainauth.Claims{Role: domainauth.RoleSalesRep},
	}
	require.NoError(t, store.Save(context.Background(), expired))

	const workers = 8
	var wg sync.WaitGroup
	for range workers {
		wg.Add(1)
		go func() {
			defer wg.Done()
			sess := expired
			fresh, err := svc.EnsureFresh(context.Background(), &sess)
			assert.NoError(t, err)
			assert.Equal(t, "fresh-access", fresh.AccessToken)
		}()
	}
	wg.Wait()

	assert.Equal(t, int32(1), provider.refreshes.Load(), "refresh exchange should be de-duplicated")
}

func TestAuthService_Resolve_MissingSession(t *testing.T) {
	svc, _, _ := newTestAuthService()

	_, err := svc.Resolve(context.Background(), "nope")
	assert.Error(t, err)
}

func TestAuthService_Logout(t *testing.T) {
	svc, _, sessions := newTestAuthService()
	ctx := context.Background()

	sess, err := svc.Login(ctx, ports.Credentials{Email: "rep@example.com", Password: "pw"})
	require.NoError(t, err)

	require.NoError(t, svc.Logout(ctx, sess.ID))
	_, err = sessions.Get(ctx, sess.ID)
	assert.Equal(t, mocksauth.ErrNotFound, err)

	// Logging out with no session is a no-op.
	assert.NoError(t, svc.Logout(ctx, ""))
}
