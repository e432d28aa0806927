package bootstrap

import (
	"fmt"

	"github.com/retailops/pos-ui-api/config"
	"github.com/retailops/pos-ui-api/internal/adapters/authroles"
	"github.com/retailops/pos-ui-api/internal/adapters/devauth"
	"github.com/retailops/pos-ui-api/internal/adapters/identity"
	"github.com/retailops/pos-ui-api/internal/adapters/oidc"
	domainauth "github.com/retailops/pos-ui-api/internal/domain/auth"
	"github.com/retailops/pos-ui-api/internal/ports"
	"github.com/retailops/pos-ui-api/internal/service"
)

// BuildAuthService assembles the auth service for the configured mode.
func BuildAuthService(cfg config.AuthConfig, sessions ports.SessionStore) (*service.AuthService, error) {
	provider, roles, err := buildIdentity(cfg)
	if err != nil {
		return nil, err
	}

	return service.NewAuthService(service.AuthServiceOptions{
		Provider: provider,
		Sessions: sessions,
		Roles:    roles,
	}), nil
}

func buildIdentity(cfg config.AuthConfig) (ports.IdentityProvider, ports.RoleMapper, error) {
	switch cfg.Mode {
	case config.AuthModePassword:
		return buildPasswordIdentity(cfg)
	case config.AuthModeOIDC:
		return buildOIDCIdentity(cfg)
	case config.AuthModeMock:
		return buildMockIdentity(cfg)
	default:
		return nil, nil, fmt.Errorf("unsupported auth mode %q", cfg.Mode)
	}
}

func buildPasswordIdentity(cfg config.AuthConfig) (ports.IdentityProvider, ports.RoleMapper, error) {
	provider, err := identity.NewClient(identity.Config{
		BaseURL:     cfg.Identity.BaseURL,
		LoginPath:   cfg.Identity.LoginPath,
		RefreshPath: cfg.Identity.RefreshPath,
		Timeout:     cfg.Identity.Timeout,
	})
	if err != nil {
		return nil, nil, fmt.Errorf("identity client: %w", err)
	}

	roles, err := authroles.NewExpressionMapper(cfg.RoleExpression)
	if err != nil {
		return nil, nil, fmt.Errorf("role mapper: %w", err)
	}
	return provider, roles, nil
}

func buildOIDCIdentity(cfg config.AuthConfig) (ports.IdentityProvider, ports.RoleMapper, error) {
	provider, err := oidc.NewProvider(oidc.ProviderConfig{
		ClientID:     cfg.OAuth.ClientID,
		ClientSecret: cfg.OAuth.ClientSecret,
		Scope:        cfg.OAuth.Scope,
		DiscoveryURL: cfg.OAuth.DiscoveryURL,
	})
	if err != nil {
		return nil, nil, fmt.Errorf("oidc provider: %w", err)
	}

	roles := authroles.GroupMapper{
		AdminGroup:   cfg.OAuth.AdminGroup,
		ManagerGroup: cfg.OAuth.ManagerGroup,
		SalesGroup:   cfg.OAuth.SalesGroup,
	}
	return provider, roles, nil
}

func buildMockIdentity(cfg config.AuthConfig) (ports.IdentityProvider, ports.RoleMapper, error) {
	role, err := domainauth.ParseRole(cfg.DevAuth.Role)
	if err != nil {
		return nil, nil, fmt.Errorf("dev auth role: %w", err)
	}

	provider, err := devauth.NewProvider(devauth.Config{
		UserID:   cfg.DevAuth.UserID,
		Role:     role,
		BranchID: cfg.DevAuth.BranchID,
		Password: cfg.DevAuth.Password,
		TokenTTL: cfg.DevAuth.TokenTTL,
	})
	if err != nil {
		return nil, nil, fmt.Errorf("dev auth provider: %w", err)
	}

	roles, err := authroles.NewExpressionMapper(cfg.RoleExpression)
	if err != nil {
		return nil, nil, fmt.Errorf("role mapper: %w", err)
	}
	return provider, roles, nil
}
