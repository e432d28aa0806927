package httpx

const (
	// SessionCookieName is the opaque session identifier cookie. The cookie
	// carries no tokens; those stay server-side in the session store.
	SessionCookieName = "session_id"

	// Role and branch annotations attached to allowed requests for
	// downstream handlers and proxied calls.
	HeaderUserRole   = "x-user-role"
	HeaderUserBranch = "x-user-branch"

	// APIPrefix marks JSON API routes. API requests get JSON errors where
	// page navigations get redirects.
	APIPrefix = "/api/"
)
