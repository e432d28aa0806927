package access

import (
	domainauth "github.com/retailops/pos-ui-api/internal/domain/auth"
)

// Query parameter names attached to a deny redirect so the UI can show a
// one-time notice and then strip the markers from the URL.
const (
	DeniedParam    = "denied"
	AttemptedParam = "attempted"
)

// PublicPaths bypass access evaluation entirely; no session lookup is
// performed for them. The list is fixed per deployment.
var PublicPaths = []string{
	"/login",
	"/forgot-password",
	"/auth/*",
	"/healthz",
}

// IsPublic reports whether a path is on the public allow-list.
func IsPublic(path string) bool {
	for _, p := range PublicPaths {
		if Match(p, path) {
			return true
		}
	}
	return false
}

// landingPaths are the per-role fallback destinations used on Deny.
var landingPaths = map[domainauth.Role]string{
	domainauth.RoleAdmin:    "/",
	domainauth.RoleManager:  "/",
	domainauth.RoleSalesRep: "/orders",
}

// LandingPath returns the role's deny destination, falling back to root for
// roles without a dedicated landing page.
func LandingPath(role domainauth.Role) string {
	if p, ok := landingPaths[role]; ok {
		return p
	}
	return "/"
}

// DefaultTable is the deployment rule table. Admins see everything;
// managers run their branch but cannot rename branches or administer users;
// sales reps work orders, products, and referrals.
func DefaultTable() Table {
	return Table{
		domainauth.RoleAdmin: {
			AllowedPaths: []string{"*"},
		},
		domainauth.RoleManager: {
			AllowedPaths: []string{
				"/",
				"/branches",
				"/branches/[id]",
				"/products",
				"/products/*",
				"/batches/*",
				"/inventory",
				"/inventory/*",
				"/orders",
				"/orders/*",
				"/referrals",
				"/referrals/*",
				"/reports/*",
			},
			RestrictedPaths: []string{
				"/branches/[id]/edit",
				"/users",
				"/users/*",
				"/settings/*",
			},
		},
		domainauth.RoleSalesRep: {
			AllowedPaths: []string{
				"/",
				"/orders",
				"/orders/*",
				"/products",
				"/products/[id]",
				"/referrals",
				"/referrals/*",
				"/inventory",
			},
			RestrictedPaths: []string{
				"/users",
				"/users/*",
				"/branches/[id]/edit",
				"/settings/*",
			},
		},
	}
}
