package bootstrap

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/redis/go-redis/v9"
	"github.com/retailops/pos-ui-api/config"
	"github.com/retailops/pos-ui-api/internal/adapters/backend"
	redisstore "github.com/retailops/pos-ui-api/internal/adapters/redis"
	"github.com/retailops/pos-ui-api/internal/observability/statsd"
	"github.com/retailops/pos-ui-api/internal/service"
)

// ServiceContainer holds the application services assembled at startup.
type ServiceContainer struct {
	Auth    *service.AuthService
	Access  *service.AccessService
	Backend *backend.Client
	Metrics *statsd.Client
}

// BuildOptions groups the dependencies needed to assemble services.
type BuildOptions struct {
	Config *config.AppConfig
	Redis  redis.UniversalClient
	Logger *slog.Logger
}

// BuildServices wires adapters into the service layer.
func BuildServices(opts BuildOptions) (ServiceContainer, error) {
	if opts.Config == nil {
		return ServiceContainer{}, errors.New("config is required")
	}
	if opts.Redis == nil {
		return ServiceContainer{}, errors.New("redis client is required")
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	cfg := opts.Config

	sessions := redisstore.NewSessionStoreWithPrefix(opts.Redis, cfg.Session.KeyPrefix, cfg.Session.TTL)

	authSvc, err := BuildAuthService(cfg.Auth, sessions)
	if err != nil {
		return ServiceContainer{}, fmt.Errorf("build auth service: %w", err)
	}

	accessSvc, err := service.NewAccessService(service.AccessServiceOptions{})
	if err != nil {
		return ServiceContainer{}, fmt.Errorf("build access service: %w", err)
	}

	backendClient, err := backend.NewClient(backend.Config{
		BaseURL: cfg.Backend.BaseURL,
		Timeout: cfg.Backend.Timeout,
	})
	if err != nil {
		return ServiceContainer{}, fmt.Errorf("build backend client: %w", err)
	}

	metrics, err := statsd.NewClient(statsd.Config{
		Enabled: cfg.Observability.Metrics.IsEnabled(),
		Address: cfg.Observability.Metrics.StatsdAddress,
		Prefix:  "posadmin",
		Logger:  logger,
	})
	if err != nil {
		// Metrics are best-effort; a bad statsd address never blocks startup.
		logger.Warn("statsd client disabled", "error", err)
		metrics = nil
	}

	return ServiceContainer{
		Auth:    authSvc,
		Access:  accessSvc,
		Backend: backendClient,
		Metrics: metrics,
	}, nil
}
