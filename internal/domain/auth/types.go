package auth

// Package auth contains domain-level types for authentication and sessions.
// It is pure and free of framework/adapter concerns.

import (
	"fmt"
	"time"
)

// Role represents an application's authorization role.
// Roles are embedded in access tokens by the identity service and are
// immutable for the lifetime of a session; changing a user's role requires
// a new sign-in. Valid values are defined as constants below.
type Role string

const (
	RoleAdmin    Role = "ADMIN"
	RoleManager  Role = "MANAGER"
	RoleSalesRep Role = "SALES_REP"
)

// ParseRole converts a raw claim value into a Role.
// Unknown values are rejected so that access evaluation can fail closed.
func ParseRole(s string) (Role, error) {
	switch Role(s) {
	case RoleAdmin, RoleManager, RoleSalesRep:
		return Role(s), nil
	default:
		return "", fmt.Errorf("unknown role %q", s)
	}
}

// Claims are the denormalized access-token claims we keep on a session so
// they need not be re-decoded on every access check.
type Claims struct {
	UserID   string `json:"id"`
	Email    string `json:"email"`
	Role     Role   `json:"role"`
	BranchID string `json:"branch_id,omitempty"`
}

// Session is the server-side record we persist for an authenticated caller.
// ID is an opaque session identifier (random URL-safe string); the token
// pair and ExpiresAt are replaced together by a refresh, never individually.
type Session struct {
	ID           string `json:"id"`
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`

	// ExpiresAt is seconds since epoch, mirroring the exp claim of the
	// currently stored AccessToken.
	ExpiresAt int64 `json:"expires_at"`

	User Claims `json:"user"`
}

// Expired reports whether the access token has passed its exp claim.
func (s Session) Expired(now time.Time) bool {
	return now.Unix() >= s.ExpiresAt
}

// Expiry returns ExpiresAt as a time.Time.
func (s Session) Expiry() time.Time {
	return time.Unix(s.ExpiresAt, 0)
}
