package httpx

import (
	"log/slog"
	"net/http"

	"github.com/retailops/pos-ui-api/internal/adapters/backend"
	"github.com/retailops/pos-ui-api/internal/observability/statsd"
	"github.com/retailops/pos-ui-api/internal/service"
)

// RouterServices holds all the services needed by the HTTP router.
type RouterServices struct {
	Auth         *service.AuthService
	Access       *service.AccessService
	Backend      *backend.Client
	CookieDomain string
	Logger       *slog.Logger
	Metrics      statsd.Sink
}

// NewRouter creates and configures the HTTP router with the middleware chain.
// Every route passes through access control; public paths short-circuit inside
// the middleware rather than bypassing it at registration time.
func NewRouter(services RouterServices) http.Handler {
	mux := http.NewServeMux()

	authHandlers := &AuthHandlers{
		Svc:          services.Auth,
		CookieDomain: services.CookieDomain,
		Logger:       services.Logger,
		Metrics:      services.Metrics,
	}
	branchHandlers := &BranchHandlers{Backend: services.Backend}
	productHandlers := &ProductHandlers{Backend: services.Backend}
	inventoryHandlers := &InventoryHandlers{Backend: services.Backend}
	orderHandlers := &OrderHandlers{Backend: services.Backend}
	referralHandlers := &ReferralHandlers{Backend: services.Backend}
	userHandlers := &UserHandlers{Backend: services.Backend}

	mux.HandleFunc("GET /healthz", healthHandler)
	mux.HandleFunc("HEAD /healthz", healthHandler)

	registerAuthRoutes(mux, authHandlers)
	registerBranchRoutes(mux, branchHandlers)
	registerProductRoutes(mux, productHandlers)
	registerInventoryRoutes(mux, inventoryHandlers)
	registerOrderRoutes(mux, orderHandlers)
	registerReferralRoutes(mux, referralHandlers)
	registerUserRoutes(mux, userHandlers)

	var handler http.Handler = mux
	handler = AccessControl(AccessControlOptions{
		Auth:    services.Auth,
		Access:  services.Access,
		Metrics: services.Metrics,
	})(handler)
	handler = Logging(services.Logger, services.Metrics)(handler)
	handler = Recover(services.Logger)(handler)
	return handler
}

// crudRoutes bundles the handler set for one resource base path.
type crudRoutes struct {
	Base    string
	Create  http.HandlerFunc
	List    http.HandlerFunc
	GetByID http.HandlerFunc
	Update  http.HandlerFunc
	Delete  http.HandlerFunc
}

func registerCRUD(mux *http.ServeMux, cfg crudRoutes) {
	if cfg.Base == "" {
		panic("registerCRUD: Base must not be empty") //nolint:forbidigo // Fail fast during server setup.
	}
	if cfg.Create == nil ||
		cfg.List == nil ||
		cfg.GetByID == nil ||
		cfg.Update == nil ||
		cfg.Delete == nil {
		panic("registerCRUD: nil handler for base " + cfg.Base) //nolint:forbidigo // Fail fast during server setup.
	}

	mux.HandleFunc("POST "+cfg.Base, cfg.Create)
	mux.HandleFunc("GET "+cfg.Base, cfg.List)
	mux.HandleFunc("GET "+cfg.Base+"/{id}", cfg.GetByID)
	mux.HandleFunc("PUT "+cfg.Base+"/{id}", cfg.Update)
	mux.HandleFunc("DELETE "+cfg.Base+"/{id}", cfg.Delete)
}

func registerAuthRoutes(mux *http.ServeMux, h *AuthHandlers) {
	mux.HandleFunc("POST /auth/login", h.Login)
	mux.HandleFunc("POST /auth/logout", h.Logout)
	mux.HandleFunc("GET /auth/session", h.Session)
}

func registerBranchRoutes(mux *http.ServeMux, h *BranchHandlers) {
	registerCRUD(mux, crudRoutes{
		Base:    "/api/branches",
		Create:  h.Create,
		List:    h.List,
		GetByID: h.Get,
		Update:  h.Update,
		Delete:  h.Delete,
	})
}

func registerProductRoutes(mux *http.ServeMux, h *ProductHandlers) {
	registerCRUD(mux, crudRoutes{
		Base:    "/api/products",
		Create:  h.Create,
		List:    h.List,
		GetByID: h.Get,
		Update:  h.Update,
		Delete:  h.Delete,
	})
	mux.HandleFunc("GET /api/batches", h.ListBatches)
	mux.HandleFunc("POST /api/batches", h.CreateBatch)
}

func registerInventoryRoutes(mux *http.ServeMux, h *InventoryHandlers) {
	mux.HandleFunc("GET /api/inventory", h.List)
	mux.HandleFunc("POST /api/inventory/adjustments", h.Adjust)
}

func registerOrderRoutes(mux *http.ServeMux, h *OrderHandlers) {
	mux.HandleFunc("GET /api/orders", h.List)
	mux.HandleFunc("POST /api/orders", h.Create)
	mux.HandleFunc("GET /api/orders/{id}", h.Get)
	mux.HandleFunc("PUT /api/orders/{id}/status", h.UpdateStatus)
}

func registerReferralRoutes(mux *http.ServeMux, h *ReferralHandlers) {
	mux.HandleFunc("GET /api/referrals", h.List)
	mux.HandleFunc("POST /api/referrals", h.Create)
}

func registerUserRoutes(mux *http.ServeMux, h *UserHandlers) {
	registerCRUD(mux, crudRoutes{
		Base:    "/api/users",
		Create:  h.Create,
		List:    h.List,
		GetByID: h.Get,
		Update:  h.Update,
		Delete:  h.Delete,
	})
}
