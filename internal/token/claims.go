package token

// Package token decodes access-token claims. Tokens are decoded without
// local signature verification: authenticity is established exclusively at
// mint/refresh time by trusting the issuing identity service over TLS.
// That trade-off is deliberate and documented in DESIGN.md; callers must
// never treat a decoded token as verified.

import (
	"errors"
	"fmt"

	"github.com/golang-jwt/jwt/v5"
)

// Claims is the decoded payload of an access token. The claim contract with
// the identity service: sub (email), role, userId, branchId (optional),
// exp, iat, iss.
type Claims struct {
	Subject   string
	UserID    string
	Role      string
	BranchID  string
	Issuer    string
	IssuedAt  int64
	ExpiresAt int64

	// Raw is the full claim payload for expression-based mappers.
	Raw map[string]any
}

var errNoExpiry = errors.New("token has no exp claim")

// Decode parses a compact JWT and extracts its claims without verifying the
// signature. It fails when the token is structurally invalid or missing the
// exp claim, since session expiry bookkeeping depends on it.
func Decode(raw string) (Claims, error) {
	mapClaims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(raw, mapClaims); err != nil {
		return Claims{}, fmt.Errorf("parse token: %w", err)
	}

	exp, err := mapClaims.GetExpirationTime()
	if err != nil {
		return Claims{}, fmt.Errorf("read exp claim: %w", err)
	}
	if exp == nil {
		return Claims{}, errNoExpiry
	}

	c := Claims{
		ExpiresAt: exp.Unix(),
		Raw:       map[string]any(mapClaims),
	}

	if sub, subErr := mapClaims.GetSubject(); subErr == nil {
		c.Subject = sub
	}
	if iss, issErr := mapClaims.GetIssuer(); issErr == nil {
		c.Issuer = iss
	}
	if iat, iatErr := mapClaims.GetIssuedAt(); iatErr == nil && iat != nil {
		c.IssuedAt = iat.Unix()
	}

	c.UserID = stringClaim(mapClaims, "userId")
	c.Role = stringClaim(mapClaims, "role")
	c.BranchID = stringClaim(mapClaims, "branchId")

	return c, nil
}

func stringClaim(m jwt.MapClaims, key string) string {
	if v, ok := m[key].(string); ok {
		return v
	}
	return ""
}
