package identity

// Package identity implements the IdentityProvider port against the remote
// identity service's REST endpoints. Authenticity of issued tokens is
// established by trusting this service over TLS; tokens are decoded, not
// verified, locally.

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	apperrors "github.com/retailops/pos-ui-api/internal/errors"
	"github.com/retailops/pos-ui-api/internal/ports"
	"github.com/retailops/pos-ui-api/internal/token"
)

const (
	defaultLoginPath   = "/auth/login"
	defaultRefreshPath = "/auth/refresh-token"
)

// Config holds configuration for the identity client.
type Config struct {
	// BaseURL is the identity service root, e.g. "https://id.internal".
	BaseURL string
	// LoginPath and RefreshPath override the default endpoint paths.
	LoginPath   string
	RefreshPath string
	// Timeout bounds each exchange when no custom Client is supplied.
	Timeout time.Duration
	// Client is optional; defaults to a timeout-bound http.Client.
	Client *http.Client
}

// Client is the IdentityProvider implementation for password sign-in.
type Client struct {
	baseURL     string
	loginPath   string
	refreshPath string
	client      *http.Client
}

var _ ports.IdentityProvider = (*Client)(nil)

// NewClient builds an identity client. Callers should pass a validated config.
func NewClient(cfg Config) (*Client, error) {
	baseURL := strings.TrimSuffix(strings.TrimSpace(cfg.BaseURL), "/")
	if baseURL == "" {
		return nil, errors.New("identity base URL is required")
	}

	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}

	hc := cfg.Client
	if hc == nil {
		hc = &http.Client{Timeout: timeout}
	}

	return &Client{
		baseURL:     baseURL,
		loginPath:   fallbackString(cfg.LoginPath, defaultLoginPath),
		refreshPath: fallbackString(cfg.RefreshPath, defaultRefreshPath),
		client:      hc,
	}, nil
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type refreshRequest struct {
	RefreshToken string `json:"refreshToken"`
}

type tokenResponse struct {
	AccessToken  string `json:"accessToken"`
	RefreshToken string `json:"refreshToken"`
	TokenType    string `json:"tokenType"`
}

// Mint exchanges credentials for a token grant via POST /auth/login.
func (c *Client) Mint(ctx context.Context, creds ports.Credentials) (ports.TokenGrant, error) {
	if creds.Email == "" {
		return ports.TokenGrant{}, apperrors.ValidationField("email", "email is required")
	}
	if creds.Password == "" {
		return ports.TokenGrant{}, apperrors.ValidationField("password", "password is required")
	}

	body := loginRequest{Email: creds.Email, Password: creds.Password}
	resp, err := c.post(ctx, c.loginPath, body)
	if err != nil {
		return ports.TokenGrant{}, apperrors.Unreachable(err, "identity service login")
	}
	defer drainAndClose(resp.Body)

	switch {
	case resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusBadRequest:
		return ports.TokenGrant{}, apperrors.InvalidCredentials("identity service rejected credentials")
	case resp.StatusCode != http.StatusOK:
		return ports.TokenGrant{}, apperrors.Unreachable(
			fmt.Errorf("unexpected status %d", resp.StatusCode), "identity service login")
	}

	grant, err := c.decodeGrant(resp.Body)
	if err != nil {
		return ports.TokenGrant{}, apperrors.Unreachable(err, "identity service login response")
	}
	return grant, nil
}

// Refresh exchanges a refresh token for a new grant via POST /auth/refresh-token.
// Any failure is fatal to the session; the service layer converts it to a
// session-expired outcome.
func (c *Client) Refresh(ctx context.Context, refreshToken string) (ports.TokenGrant, error) {
	if refreshToken == "" {
		return ports.TokenGrant{}, errors.New("refresh token is required")
	}

	resp, err := c.post(ctx, c.refreshPath, refreshRequest{RefreshToken: refreshToken})
	if err != nil {
		return ports.TokenGrant{}, fmt.Errorf("refresh exchange: %w", err)
	}
	defer drainAndClose(resp.Body)

	if resp.StatusCode != http.StatusOK {
		return ports.TokenGrant{}, fmt.Errorf("refresh exchange: unexpected status %d", resp.StatusCode)
	}

	grant, err := c.decodeGrant(resp.Body)
	if err != nil {
		return ports.TokenGrant{}, fmt.Errorf("refresh exchange: %w", err)
	}
	return grant, nil
}

func (c *Client) post(ctx context.Context, path string, payload any) (*http.Response, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("encode request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	return c.client.Do(req)
}

// decodeGrant parses a token response and decodes the access token claims.
// A response whose access token cannot be decoded counts as a parse failure.
func (c *Client) decodeGrant(r io.Reader) (ports.TokenGrant, error) {
	var tr tokenResponse
	if err := json.NewDecoder(r).Decode(&tr); err != nil {
		return ports.TokenGrant{}, fmt.Errorf("decode response: %w", err)
	}
	if tr.AccessToken == "" || tr.RefreshToken == "" {
		return ports.TokenGrant{}, errors.New("response missing token pair")
	}

	claims, err := token.Decode(tr.AccessToken)
	if err != nil {
		return ports.TokenGrant{}, fmt.Errorf("decode access token: %w", err)
	}

	return ports.TokenGrant{
		AccessToken:  tr.AccessToken,
		RefreshToken: tr.RefreshToken,
		Claims:       claims,
	}, nil
}

func drainAndClose(body io.ReadCloser) {
	_, _ = io.Copy(io.Discard, body)
	_ = body.Close()
}

func fallbackString(v, fallback string) string {
	if v == "" {
		return fallback
	}
	return v
}
