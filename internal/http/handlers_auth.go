package httpx

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/retailops/pos-ui-api/internal/domain/access"
	domainauth "github.com/retailops/pos-ui-api/internal/domain/auth"
	apperrors "github.com/retailops/pos-ui-api/internal/errors"
	"github.com/retailops/pos-ui-api/internal/observability/metrics"
	"github.com/retailops/pos-ui-api/internal/observability/statsd"
	"github.com/retailops/pos-ui-api/internal/ports"
)

// AuthServiceInterface defines the interface for auth service operations.
type AuthServiceInterface interface {
	Login(ctx context.Context, creds ports.Credentials) (*domainauth.Session, error)
	Resolve(ctx context.Context, sessionID string) (*domainauth.Session, error)
	Logout(ctx context.Context, sessionID string) error
}

// AuthHandlers provides HTTP handlers for authentication operations.
type AuthHandlers struct {
	Svc          AuthServiceInterface
	CookieDomain string
	Logger       *slog.Logger
	Metrics      statsd.Sink
}

func (h *AuthHandlers) logger() *slog.Logger {
	if h != nil && h.Logger != nil {
		return h.Logger
	}
	return slog.Default()
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// sessionResponse is the wire shape for the signed-in user.
type sessionResponse struct {
	User    domainauth.Claims `json:"user"`
	Landing string            `json:"landing"`
}

// Login handles the credential sign-in endpoint.
// POST /auth/login with {"email": ..., "password": ...}.
//
// Credential failures are inline form errors, not redirects: the UI shows
// them next to the sign-in form.
func (h *AuthHandlers) Login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if !DecodeJSON(w, r, &req) {
		return
	}

	sess, err := h.Svc.Login(r.Context(), ports.Credentials{Email: req.Email, Password: req.Password})
	if err != nil {
		result := metrics.ResultError
		if apperrors.IsInvalidCredentials(err) || apperrors.IsValidation(err) {
			result = metrics.ResultDenied
		} else {
			h.logger().ErrorContext(r.Context(), "login failed", "error", err)
		}
		metrics.EmitAuthEvent(h.Metrics, metrics.AuthMetric{Event: "login", Result: result, Err: err})
		WriteAppError(w, err)
		return
	}

	metrics.EmitAuthEvent(h.Metrics, metrics.AuthMetric{Event: "login", Result: metrics.ResultSuccess})
	h.setSessionCookie(w, r, sess.ID)
	WriteJSON(w, http.StatusOK, sessionResponse{
		User:    sess.User,
		Landing: access.LandingPath(sess.User.Role),
	})
}

// Logout handles the sign-out endpoint.
// POST /auth/logout.
func (h *AuthHandlers) Logout(w http.ResponseWriter, r *http.Request) {
	if cookie, err := r.Cookie(SessionCookieName); err == nil {
		if logoutErr := h.Svc.Logout(r.Context(), cookie.Value); logoutErr != nil {
			h.logger().WarnContext(r.Context(), "logout failed", "error", logoutErr)
		}
	}
	clearSessionCookie(w)
	w.WriteHeader(http.StatusNoContent)
}

// Session handles the session-status endpoint the UI polls on load.
// GET /auth/session.
//
// Resolving refreshes an expired access token as a side effect, so a tab
// that sat idle past the token lifetime recovers silently here.
func (h *AuthHandlers) Session(w http.ResponseWriter, r *http.Request) {
	cookie, err := r.Cookie(SessionCookieName)
	if err != nil {
		WriteAppError(w, apperrors.SessionExpired(nil))
		return
	}

	sess, err := h.Svc.Resolve(r.Context(), cookie.Value)
	if err != nil {
		clearSessionCookie(w)
		WriteAppError(w, apperrors.SessionExpired(err))
		return
	}

	WriteJSON(w, http.StatusOK, sessionResponse{
		User:    sess.User,
		Landing: access.LandingPath(sess.User.Role),
	})
}

func (h *AuthHandlers) setSessionCookie(w http.ResponseWriter, r *http.Request, sessionID string) {
	http.SetCookie(w, &http.Cookie{
		Name:     SessionCookieName,
		Value:    sessionID,
		Path:     "/",
		Domain:   h.CookieDomain,
		HttpOnly: true,
		Secure:   r.TLS != nil,
		SameSite: http.SameSiteLaxMode,
	})
}

func clearSessionCookie(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     SessionCookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
}
