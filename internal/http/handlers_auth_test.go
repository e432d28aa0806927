package httpx

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	domainauth "github.com/retailops/pos-ui-api/internal/domain/auth"
	apperrors "github.com/retailops/pos-ui-api/internal/errors"
	"github.com/retailops/pos-ui-api/internal/ports"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newAuthHandlers(auth AuthServiceInterface) *AuthHandlers {
	return &AuthHandlers{Svc: auth, Logger: newTestLogger()}
}

func findCookie(t *testing.T, rec *httptest.ResponseRecorder, name string) *http.Cookie {
	t.Helper()
	for _, c := range rec.Result().Cookies() {
		if c.Name == name {
			return c
		}
	}
	t.Fatalf("cookie %s not set", name)
	return nil
}

func TestAuthHandlers_Login_Success(t *testing.T) {
	sess := testSession(domainauth.RoleSalesRep)
	auth := &fakeAuth{
		loginFn: func(ctx context.Context, creds ports.Credentials) (*domainauth.Session, error) {
			assert.Equal(t, "user@example.com", creds.Email)
			assert.Equal(t, "hunter2", creds.Password)
			return sess, nil
		},
	}

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/auth/login",
		strings.NewReader(`{"email":"user@example.com","password":"hunter2"}`))
	newAuthHandlers(auth).Login(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)

	cookie := findCookie(t, rec, SessionCookieName)
	assert.Equal(t, sess.ID, cookie.Value)
	assert.True(t, cookie.HttpOnly)
	assert.Equal(t, "/", cookie.Path)
	assert.Equal(t, http.SameSiteLaxMode, cookie.SameSite)

	var body sessionResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, sess.User, body.User)
	assert.Equal(t, "/orders", body.Landing, "sales reps land on orders")
}

func TestAuthHandlers_Login_AdminLandsOnDashboard(t *testing.T) {
	auth := &fakeAuth{
		loginFn: func(ctx context.Context, creds ports.Credentials) (*domainauth.Session, error) {
			return testSession(domainauth.RoleAdmin), nil
		},
	}

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/auth/login",
		strings.NewReader(`{"email":"a@example.com","password":"x"}`))
	newAuthHandlers(auth).Login(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)

	var body sessionResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "/", body.Landing)
}

func TestAuthHandlers_Login_InvalidCredentialsStayInline(t *testing.T) {
	auth := &fakeAuth{
		loginFn: func(ctx context.Context, creds ports.Credentials) (*domainauth.Session, error) {
			return nil, apperrors.InvalidCredentials("invalid email or password")
		},
	}

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/auth/login",
		strings.NewReader(`{"email":"user@example.com","password":"wrong"}`))
	newAuthHandlers(auth).Login(rec, req)

	// A failed sign-in is an inline form error, not a redirect.
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Empty(t, rec.Header().Get("Location"))
	assert.Contains(t, rec.Body.String(), "invalid_credentials")
	assert.Empty(t, rec.Result().Cookies())
}

func TestAuthHandlers_Login_ValidationErrorNamesField(t *testing.T) {
	auth := &fakeAuth{
		loginFn: func(ctx context.Context, creds ports.Credentials) (*domainauth.Session, error) {
			return nil, apperrors.ValidationField("email", "email is required")
		},
	}

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/auth/login",
		strings.NewReader(`{"email":"","password":"x"}`))
	newAuthHandlers(auth).Login(rec, req)

	require.Equal(t, http.StatusBadRequest, rec.Code)

	var body map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "validation", body["error"])
	assert.Equal(t, "email", body["field"])
}

func TestAuthHandlers_Login_RejectsMalformedJSON(t *testing.T) {
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/auth/login", strings.NewReader(`{"email":`))
	newAuthHandlers(&fakeAuth{}).Login(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "invalid_json")
}

func TestAuthHandlers_Logout(t *testing.T) {
	auth := &fakeAuth{}

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/auth/logout", nil)
	req.AddCookie(&http.Cookie{Name: SessionCookieName, Value: "sess-1"})
	newAuthHandlers(auth).Logout(rec, req)

	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Equal(t, []string{"sess-1"}, auth.logoutCalls)

	cookie := findCookie(t, rec, SessionCookieName)
	assert.Empty(t, cookie.Value)
	assert.Negative(t, cookie.MaxAge)
}

func TestAuthHandlers_Logout_NoCookieStillClears(t *testing.T) {
	auth := &fakeAuth{}

	rec := httptest.NewRecorder()
	newAuthHandlers(auth).Logout(rec, httptest.NewRequest(http.MethodPost, "/auth/logout", nil))

	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Empty(t, auth.logoutCalls)
	assert.Negative(t, findCookie(t, rec, SessionCookieName).MaxAge)
}

func TestAuthHandlers_Logout_ServerErrorStillSignsOut(t *testing.T) {
	auth := &fakeAuth{
		logoutFn: func(ctx context.Context, sessionID string) error {
			return apperrors.Internal("delete session")
		},
	}

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/auth/logout", nil)
	req.AddCookie(&http.Cookie{Name: SessionCookieName, Value: "sess-1"})
	newAuthHandlers(auth).Logout(rec, req)

	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Negative(t, findCookie(t, rec, SessionCookieName).MaxAge)
}

func TestAuthHandlers_Session_Success(t *testing.T) {
	sess := testSession(domainauth.RoleManager)
	auth := &fakeAuth{
		resolveFn: func(ctx context.Context, sessionID string) (*domainauth.Session, error) {
			assert.Equal(t, "sess-1", sessionID)
			return sess, nil
		},
	}

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/auth/session", nil)
	req.AddCookie(&http.Cookie{Name: SessionCookieName, Value: "sess-1"})
	newAuthHandlers(auth).Session(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)

	var body sessionResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, sess.User, body.User)
	assert.Equal(t, "/", body.Landing)
}

func TestAuthHandlers_Session_NoCookie(t *testing.T) {
	rec := httptest.NewRecorder()
	newAuthHandlers(&fakeAuth{}).Session(rec, httptest.NewRequest(http.MethodGet, "/auth/session", nil))

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Contains(t, rec.Body.String(), "session_expired")
}

func TestAuthHandlers_Session_ResolveFailureClearsCookie(t *testing.T) {
	auth := &fakeAuth{
		resolveFn: func(ctx context.Context, sessionID string) (*domainauth.Session, error) {
			return nil, apperrors.SessionExpired(nil)
		},
	}

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/auth/session", nil)
	req.AddCookie(&http.Cookie{Name: SessionCookieName, Value: "stale"})
	newAuthHandlers(auth).Session(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Negative(t, findCookie(t, rec, SessionCookieName).MaxAge)
}
