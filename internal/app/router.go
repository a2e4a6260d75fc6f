package app

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/wareline/wareline/internal/auth"
	"github.com/wareline/wareline/internal/export"
	"github.com/wareline/wareline/internal/files"
	"github.com/wareline/wareline/internal/inventory"
	"github.com/wareline/wareline/internal/masterdata/departments"
	"github.com/wareline/wareline/internal/masterdata/products"
	"github.com/wareline/wareline/internal/masterdata/suppliers"
	"github.com/wareline/wareline/internal/notifications"
	"github.com/wareline/wareline/internal/observability"
	"github.com/wareline/wareline/internal/platform/httpx"
	"github.com/wareline/wareline/internal/preparation"
	"github.com/wareline/wareline/internal/sales/orders"
	"github.com/wareline/wareline/internal/users"
)

// RouterConfig collects the mounted module handlers.
type RouterConfig struct {
	Middleware    []func(http.Handler) http.Handler
	Metrics       *observability.Metrics
	Auth          *auth.Handler
	Users         *users.Handler
	Products      *products.Handler
	Suppliers     *suppliers.Handler
	Departments   *departments.Handler
	Inventory     *inventory.Handler
	Orders        *orders.Handler
	Preparation   *preparation.Handler
	Notifications *notifications.Handler
	Export        *export.Handler
	Files         *files.Handler
}

// NewRouter assembles the API surface.
func NewRouter(cfg RouterConfig) chi.Router {
	r := chi.NewRouter()
	for _, mw := range cfg.Middleware {
		r.Use(mw)
	}

	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		httpx.JSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})
	if cfg.Metrics != nil {
		r.Method(http.MethodGet, "/metrics", cfg.Metrics.Handler())
	}

	r.Route("/api/v1", func(r chi.Router) {
		r.Route("/auth", cfg.Auth.MountRoutes)
		r.Route("/users", cfg.Users.MountRoutes)
		r.Route("/products", cfg.Products.MountRoutes)
		r.Route("/suppliers", cfg.Suppliers.MountRoutes)
		r.Route("/departments", cfg.Departments.MountRoutes)
		r.Route("/inventory", cfg.Inventory.MountRoutes)
		r.Route("/sales/orders", cfg.Orders.MountRoutes)
		r.Route("/preparation/tasks", cfg.Preparation.MountRoutes)
		r.Route("/notifications", cfg.Notifications.MountRoutes)
		r.Route("/exports", cfg.Export.MountRoutes)
		r.Route("/files", cfg.Files.MountRoutes)
	})

	return r
}
