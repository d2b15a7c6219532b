package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"blueberry/internal/admin/api/http/handle"
	"blueberry/internal/xpkg/auth"
	"blueberry/internal/xpkg/httpx"
	"blueberry/internal/xpkg/logger"
	"blueberry/internal/xpkg/metrics"
	"blueberry/internal/xpkg/models"
)

type Handlers struct {
	Dashboard  *handle.DashboardHandler
	Products   *handle.ProductHandler
	Categories *handle.CategoryHandler
	Orders     *handle.OrderHandler
	Users      *handle.UserHandler
	Settings   *handle.SettingsHandler

	Auther   *auth.Middleware
	Accounts auth.Accounts
	Metrics  *metrics.Metrics
	Health   http.HandlerFunc
}

// NewRouter mounts every dashboard route under /admin, reachable only with
// a valid token whose account is currently stored with the admin role.
func NewRouter(h Handlers, mylog logger.Logger) chi.Router {
	r := chi.NewRouter()
	r.Use(httpx.RequestID, httpx.Recoverer(mylog), httpx.Logging(mylog), h.Metrics.Middleware)

	if h.Health != nil {
		r.Get("/health", h.Health)
	}
	r.Method(http.MethodGet, "/metrics", h.Metrics.Handler())

	r.Route("/admin", func(r chi.Router) {
		r.Use(h.Auther.Require, h.Auther.RequireStoredRole(h.Accounts, models.RoleAdmin))

		r.Get("/dashboard", h.Dashboard.Dashboard())
		r.Get("/stats", h.Dashboard.Stats())

		r.Route("/products", func(r chi.Router) {
			r.Get("/", h.Products.List())
			r.Post("/", h.Products.Create())
			r.Get("/count", h.Products.Count())
			r.Get("/{id}", h.Products.Get())
			r.Put("/{id}", h.Products.Update())
			r.Patch("/{id}", h.Products.Update())
			r.Delete("/{id}", h.Products.Delete())
			r.Post("/{id}/toggle-available", h.Products.ToggleAvailable())
			r.Post("/{id}/toggle-special", h.Products.ToggleSpecial())
		})

		r.Route("/categories", func(r chi.Router) {
			r.Get("/", h.Categories.List())
			r.Post("/", h.Categories.Create())
			r.Get("/product-counts", h.Categories.ProductCounts())
			r.Get("/{id}", h.Categories.Get())
			r.Put("/{id}", h.Categories.Update())
			r.Delete("/{id}", h.Categories.Delete())
		})

		r.Route("/orders", func(r chi.Router) {
			r.Get("/", h.Orders.List())
			r.Get("/{id}", h.Orders.Get())
			r.Patch("/{id}", h.Orders.Update())
			r.Delete("/{id}", h.Orders.Delete())
			r.Get("/{id}/history", h.Orders.History())
		})

		r.Route("/users", func(r chi.Router) {
			r.Get("/", h.Users.List())
			r.Get("/{id}", h.Users.Get())
			r.Put("/{id}/role", h.Users.ChangeRole())
			r.Delete("/{id}", h.Users.Delete())
		})

		r.Route("/settings", func(r chi.Router) {
			r.Get("/entreprise", h.Settings.Entreprise())
			r.Put("/entreprise", h.Settings.SaveEntreprise())
			r.Get("/appearance", h.Settings.Appearance())
			r.Put("/appearance", h.Settings.SaveAppearance())
			r.Post("/appearance/{kind}", h.Settings.UploadBranding())
		})
	})
	return r
}
