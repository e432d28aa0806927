package httpx

import (
	"errors"
	"log/slog"
	"net/http"
	"runtime/debug"
	"strings"
	"time"

	"github.com/retailops/pos-ui-api/internal/domain/access"
	"github.com/retailops/pos-ui-api/internal/observability/metrics"
	"github.com/retailops/pos-ui-api/internal/observability/statsd"
	"github.com/retailops/pos-ui-api/internal/service"
)

// Logging returns a middleware that logs HTTP requests and emits per-request metrics.
func Logging(logger *slog.Logger, sink statsd.Sink) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			const defaultHTTPStatus = 200
			ww := &respWriter{ResponseWriter: w, status: defaultHTTPStatus}
			next.ServeHTTP(ww, r)
			duration := time.Since(start)
			logger.Info("http",
				slog.String("method", r.Method),
				slog.String("path", r.URL.Path),
				slog.Int("status", ww.status),
				slog.Duration("duration", duration),
			)
			metrics.EmitRequest(sink, metrics.RequestMetric{
				Method:   r.Method,
				Status:   ww.status,
				Duration: duration,
			})
		})
	}
}

type respWriter struct {
	http.ResponseWriter
	status int
}

func (w *respWriter) WriteHeader(status int) {
	w.status = status
	w.ResponseWriter.WriteHeader(status)
}

// Recover returns a middleware that recovers from panics and logs them.
func Recover(logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				if err := recover(); err != nil {
					logger.Error("panic",
						slog.Any("error", err),
						slog.String("path", r.URL.Path),
						slog.String("method", r.Method),
						slog.String("stack", string(debug.Stack())))
					http.Error(w, "Internal Server Error", http.StatusInternalServerError)
				}
			}()
			next.ServeHTTP(w, r)
		})
	}
}

// AccessControlOptions contains the dependencies for the AccessControl middleware.
type AccessControlOptions struct {
	Auth    AuthServiceInterface
	Access  *service.AccessService
	Metrics statsd.Sink
}

// AccessControl gates every request on session freshness and the role rule
// table. Public paths bypass it entirely. Unauthenticated or expired
// sessions route to sign-in; authenticated but denied requests route to the
// role's landing page with the deny markers attached. Allowed requests get
// role and branch annotations plus the session in context.
func AccessControl(opts AccessControlOptions) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			path := r.URL.Path
			if opts.Access.IsPublic(path) {
				next.ServeHTTP(w, r)
				return
			}

			cookie, err := r.Cookie(SessionCookieName)
			if err != nil {
				requireSignIn(w, r, opts.Access.LoginRedirect(r.URL.RequestURI()))
				return
			}

			sess, err := opts.Auth.Resolve(r.Context(), cookie.Value)
			if err != nil {
				// Refresh failed or the session is gone; either way the
				// cookie no longer references a usable session.
				clearSessionCookie(w)
				metrics.EmitAuthEvent(opts.Metrics, metrics.AuthMetric{
					Event: "access", Result: metrics.ResultError, Err: err,
				})
				requireSignIn(w, r, opts.Access.LoginRedirect(r.URL.RequestURI()))
				return
			}

			role := sess.User.Role
			if opts.Access.Evaluate(role, evalPath(path)) != access.Allow {
				metrics.EmitAuthEvent(opts.Metrics, metrics.AuthMetric{
					Event: "access", Result: metrics.ResultDenied,
				})
				denyRequest(w, r, opts.Access.DenyRedirect(role, path))
				return
			}

			r.Header.Set(HeaderUserRole, string(role))
			r.Header.Set(HeaderUserBranch, sess.User.BranchID)
			ctx := SetSessionInContext(r.Context(), sess)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// evalPath maps API routes onto the page rule table: /api/orders/x is
// governed by the same rule as /orders/x.
func evalPath(path string) string {
	if rest, ok := strings.CutPrefix(path, "/api"); ok && strings.HasPrefix(rest, "/") {
		return rest
	}
	return path
}

// isAPIRequest reports whether errors should be JSON instead of redirects.
func isAPIRequest(r *http.Request) bool {
	return strings.HasPrefix(r.URL.Path, APIPrefix)
}

func requireSignIn(w http.ResponseWriter, r *http.Request, target string) {
	if isAPIRequest(r) {
		WriteError(w, ErrorParams{
			Code:    http.StatusUnauthorized,
			ErrCode: "authentication_required",
			Err:     errors.New("authentication required"),
		})
		return
	}
	http.Redirect(w, r, target, http.StatusSeeOther)
}

func denyRequest(w http.ResponseWriter, r *http.Request, target string) {
	if isAPIRequest(r) {
		WriteError(w, ErrorParams{
			Code:    http.StatusForbidden,
			ErrCode: "access_denied",
			Err:     errors.New("access denied for path " + r.URL.Path),
		})
		return
	}
	http.Redirect(w, r, target, http.StatusSeeOther)
}
