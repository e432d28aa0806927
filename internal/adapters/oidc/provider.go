package oidc

// Package oidc implements the identity provider port against an OIDC issuer
// using the resource-owner password grant. Deployments that front the POS
// backend with Keycloak or ADFS use this mode instead of the plain identity
// HTTP adapter.

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	gooidc "github.com/coreos/go-oidc/v3/oidc"
	apperrors "github.com/retailops/pos-ui-api/internal/errors"
	"github.com/retailops/pos-ui-api/internal/ports"
	"github.com/retailops/pos-ui-api/internal/token"
	"golang.org/x/oauth2"
)

var _ ports.IdentityProvider = (*Provider)(nil)

// Provider implements ports.IdentityProvider over OAuth2/OIDC.
type Provider struct {
	config     *oauth2.Config
	httpClient *http.Client

	oidcProvider *gooidc.Provider
}

// ProviderConfig holds configuration for the OIDC provider.
type ProviderConfig struct {
	ClientID     string
	ClientSecret string
	Scope        string
	DiscoveryURL string
	HTTPClient   *http.Client // Optional, defaults to a 30s-timeout client
}

// NewProvider creates a new OIDC provider. Discovery runs once, at startup.
func NewProvider(config ProviderConfig) (*Provider, error) {
	if config.ClientID == "" {
		return nil, errors.New("client ID is required")
	}
	if config.ClientSecret == "" {
		return nil, errors.New("client secret is required")
	}
	if config.DiscoveryURL == "" {
		return nil, errors.New("discovery URL is required")
	}

	httpClient := config.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 30 * time.Second}
	}

	p := &Provider{httpClient: httpClient}

	ctx := context.WithValue(context.Background(), oauth2.HTTPClient, httpClient)
	issuer := strings.TrimSuffix(config.DiscoveryURL, "/")
	issuer = strings.TrimSuffix(issuer, "/.well-known/openid-configuration")
	issuer = strings.TrimSuffix(issuer, ".well-known/openid-configuration")
	op, err := gooidc.NewProvider(ctx, issuer)
	if err != nil {
		return nil, fmt.Errorf("oidc new provider: %w", err)
	}
	p.oidcProvider = op

	p.config = &oauth2.Config{
		ClientID:     config.ClientID,
		ClientSecret: config.ClientSecret,
		Scopes:       strings.Fields(config.Scope),
		Endpoint:     op.Endpoint(),
	}

	return p, nil
}

// Mint exchanges sign-in credentials for a token pair via the password
// grant. A rejected grant maps to an invalid-credentials error; anything
// else (network, discovery, malformed tokens) maps to unreachable.
func (p *Provider) Mint(ctx context.Context, creds ports.Credentials) (ports.TokenGrant, error) {
	if creds.Email == "" {
		return ports.TokenGrant{}, apperrors.ValidationField("email", "email is required")
	}
	if creds.Password == "" {
		return ports.TokenGrant{}, apperrors.ValidationField("password", "password is required")
	}

	ctx = context.WithValue(ctx, oauth2.HTTPClient, p.httpClient)
	tok, err := p.config.PasswordCredentialsToken(ctx, creds.Email, creds.Password)
	if err != nil {
		var retrieveErr *oauth2.RetrieveError
		if errors.As(err, &retrieveErr) && retrieveErr.Response != nil && rejectedStatus(retrieveErr.Response.StatusCode) {
			return ports.TokenGrant{}, apperrors.InvalidCredentials("invalid email or password")
		}
		return ports.TokenGrant{}, apperrors.Unreachable(err, "identity service unreachable")
	}

	return p.grantFromToken(tok, "")
}

// Refresh exchanges a refresh token for a new token pair. Errors are
// returned plainly; the caller decides whether they end the session.
func (p *Provider) Refresh(ctx context.Context, refreshToken string) (ports.TokenGrant, error) {
	if refreshToken == "" {
		return ports.TokenGrant{}, errors.New("refresh token is required")
	}

	ctx = context.WithValue(ctx, oauth2.HTTPClient, p.httpClient)
	src := p.config.TokenSource(ctx, &oauth2.Token{RefreshToken: refreshToken})
	tok, err := src.Token()
	if err != nil {
		return ports.TokenGrant{}, fmt.Errorf("refresh token exchange: %w", err)
	}

	return p.grantFromToken(tok, refreshToken)
}

// grantFromToken decodes the access token's claims into a grant. Issuers
// that do not rotate refresh tokens omit them from the response; the
// previous one stays in effect.
func (p *Provider) grantFromToken(tok *oauth2.Token, previousRefresh string) (ports.TokenGrant, error) {
	claims, err := token.Decode(tok.AccessToken)
	if err != nil {
		return ports.TokenGrant{}, apperrors.Unreachable(err, "identity service returned an undecodable access token")
	}

	refresh := tok.RefreshToken
	if refresh == "" {
		refresh = previousRefresh
	}

	return ports.TokenGrant{
		AccessToken:  tok.AccessToken,
		RefreshToken: refresh,
		Claims:       claims,
	}, nil
}

// rejectedStatus reports whether a token-endpoint status means the grant
// itself was refused rather than the service failing.
func rejectedStatus(code int) bool {
	return code == http.StatusBadRequest || code == http.StatusUnauthorized
}
