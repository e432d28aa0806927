package httpx

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/retailops/pos-ui-api/internal/adapters/backend"
)

const (
	defaultListLimit = 25
	maxListLimit     = 200
)

// parseIntQuery returns the integer value of a query param or a default.
// It is tolerant of missing/invalid values.
func parseIntQuery(r *http.Request, key string, def int) int {
	if v := r.URL.Query().Get(key); v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			return i
		}
	}
	return def
}

// ParseLimitOffset parses common pagination params and clamps to sane bounds.
func ParseLimitOffset(r *http.Request, defLimit, maxLimit int) (int, int) {
	if maxLimit < 1 {
		maxLimit = 1
	}

	lim := parseIntQuery(r, "limit", defLimit)
	off := parseIntQuery(r, "offset", 0)
	if lim < 1 {
		lim = 1
	}
	if lim > maxLimit {
		lim = maxLimit
	}
	if off < 0 {
		off = 0
	}
	return lim, off
}

// parseListQuery extracts the shared list params forwarded to the backend.
func parseListQuery(r *http.Request) backend.ListQuery {
	limit, offset := ParseLimitOffset(r, defaultListLimit, maxListLimit)
	return backend.ListQuery{
		Limit:    limit,
		Offset:   offset,
		Search:   r.URL.Query().Get("search"),
		BranchID: r.URL.Query().Get("branchId"),
	}
}

// requestToken pulls the backend access token out of the session placed in the
// request context by AccessControl. A missing session means the route was
// registered outside the middleware chain.
func requestToken(w http.ResponseWriter, r *http.Request) (string, bool) {
	sess, ok := GetUserSessionFromContext(r.Context())
	if !ok || sess.AccessToken == "" {
		WriteError(w, ErrorParams{
			Code:    http.StatusUnauthorized,
			ErrCode: "authentication_required",
			Err:     errors.New("no session on request"),
		})
		return "", false
	}
	return sess.AccessToken, true
}
