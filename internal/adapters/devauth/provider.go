package devauth

// Package devauth provides a simple, config-driven identity provider for
// local development. It mints real JWTs signed with a per-process key so
// the rest of the stack behaves exactly as it does against a live issuer.

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v5"
	domainauth "github.com/retailops/pos-ui-api/internal/domain/auth"
	apperrors "github.com/retailops/pos-ui-api/internal/errors"
	"github.com/retailops/pos-ui-api/internal/ports"
	"github.com/retailops/pos-ui-api/internal/token"
)

var _ ports.IdentityProvider = (*Provider)(nil)

// Config controls the dev auth provider behavior.
type Config struct {
	UserID   string
	Role     domainauth.Role
	BranchID string
	// Password, when set, is required at sign-in. Empty accepts anything.
	Password string
	// TokenTTL defaults to 15m when zero. Keep it short so the refresh
	// path gets exercised during local development.
	TokenTTL time.Duration
}

// Provider implements ports.IdentityProvider for local development.
type Provider struct {
	cfg Config
	key []byte

	mu     sync.Mutex
	issued map[string]string // refresh token -> email it was minted for
}

// NewProvider constructs a dev auth provider from Config.
func NewProvider(cfg Config) (*Provider, error) {
	if cfg.UserID == "" {
		return nil, errors.New("dev auth: UserID is required")
	}
	if cfg.Role == "" {
		return nil, errors.New("dev auth: Role is required")
	}
	if cfg.TokenTTL == 0 {
		cfg.TokenTTL = 15 * time.Minute
	}

	key := make([]byte, 32)
	if _, err := rand.Read(key); err != nil {
		return nil, fmt.Errorf("dev auth: generate signing key: %w", err)
	}

	return &Provider{cfg: cfg, key: key, issued: make(map[string]string)}, nil
}

// Mint accepts the configured password (or anything, when none is set) and
// issues a token pair for the configured identity under the given email.
func (p *Provider) Mint(_ context.Context, creds ports.Credentials) (ports.TokenGrant, error) {
	if creds.Email == "" {
		return ports.TokenGrant{}, apperrors.ValidationField("email", "email is required")
	}
	if creds.Password == "" {
		return ports.TokenGrant{}, apperrors.ValidationField("password", "password is required")
	}
	if p.cfg.Password != "" && creds.Password != p.cfg.Password {
		return ports.TokenGrant{}, apperrors.InvalidCredentials("invalid email or password")
	}
	return p.grant(creds.Email)
}

// Refresh rotates a refresh token this process issued and re-issues the
// token pair for the email it was minted with. Tokens from a previous
// process are rejected, forcing a fresh sign-in.
func (p *Provider) Refresh(_ context.Context, refreshToken string) (ports.TokenGrant, error) {
	if refreshToken == "" {
		return ports.TokenGrant{}, errors.New("refresh token is required")
	}

	p.mu.Lock()
	email, ok := p.issued[refreshToken]
	if ok {
		delete(p.issued, refreshToken)
	}
	p.mu.Unlock()
	if !ok {
		return ports.TokenGrant{}, errors.New("unknown refresh token")
	}

	return p.grant(email)
}

func (p *Provider) grant(email string) (ports.TokenGrant, error) {
	now := time.Now()
	access, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub":      email,
		"userId":   p.cfg.UserID,
		"role":     string(p.cfg.Role),
		"branchId": p.cfg.BranchID,
		"iss":      "posadmin-dev",
		"iat":      now.Unix(),
		"exp":      now.Add(p.cfg.TokenTTL).Unix(),
	}).SignedString(p.key)
	if err != nil {
		return ports.TokenGrant{}, fmt.Errorf("dev auth: sign token: %w", err)
	}

	refresh, err := randomString(32)
	if err != nil {
		return ports.TokenGrant{}, fmt.Errorf("dev auth: generate refresh token: %w", err)
	}

	claims, err := token.Decode(access)
	if err != nil {
		return ports.TokenGrant{}, fmt.Errorf("dev auth: decode minted token: %w", err)
	}

	p.mu.Lock()
	p.issued[refresh] = email
	p.mu.Unlock()

	return ports.TokenGrant{
		AccessToken:  access,
		RefreshToken: refresh,
		Claims:       claims,
	}, nil
}

func randomString(n int) (string, error) {
	if n <= 0 {
		return "", nil
	}
	// Compute number of random bytes needed to produce at least n base64 URL chars
	bLen := (n*3 + 3) / 4
	b := make([]byte, bLen)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	s := base64.RawURLEncoding.EncodeToString(b)
	if len(s) < n {
		// pad
		extra := make([]byte, 1)
		if _, err := rand.Read(extra); err != nil {
			return "", err
		}
		s += base64.RawURLEncoding.EncodeToString(extra)
	}
	return s[:n], nil
}
