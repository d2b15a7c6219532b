package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"blueberry/internal/storefront/api/http/handle"
	"blueberry/internal/xpkg/auth"
	"blueberry/internal/xpkg/httpx"
	"blueberry/internal/xpkg/logger"
	"blueberry/internal/xpkg/metrics"
)

// Handlers groups everything the storefront router mounts.
type Handlers struct {
	Menu          *handle.MenuHandler
	Basket        *handle.BasketHandler
	Order         *handle.OrderHandler
	Auth          *handle.AuthHandler
	Profile       *handle.ProfileHandler
	Notifications *handle.NotificationHandler
	Settings      *handle.SettingsHandler

	Auther  *auth.Middleware
	Limiter *auth.RateLimiter
	Metrics *metrics.Metrics
	Health  http.HandlerFunc
}

func NewRouter(h Handlers, mylog logger.Logger) chi.Router {
	r := chi.NewRouter()
	r.Use(httpx.RequestID, httpx.Recoverer(mylog), httpx.Logging(mylog), h.Metrics.Middleware)

	if h.Health != nil {
		r.Get("/health", h.Health)
	}
	r.Method(http.MethodGet, "/metrics", h.Metrics.Handler())

	r.Group(func(r chi.Router) {
		r.Use(h.Auther.Optional)

		r.Get("/menu", h.Menu.Menu())
		r.Get("/categories", h.Menu.Categories())
		r.Get("/products", h.Menu.Products())
		r.Get("/products/{id}", h.Menu.Product())
		r.Get("/daily-special", h.Menu.DailySpecials())

		r.Get("/settings/entreprise", h.Settings.Entreprise())
		r.Get("/settings/appearance", h.Settings.Appearance())

		r.Route("/cart", func(r chi.Router) {
			r.Get("/", h.Basket.Cart())
			r.Delete("/", h.Basket.ClearCart())
			r.Post("/items", h.Basket.AddToCart())
			r.Patch("/items/{id}", h.Basket.SetCartQuantity())
			r.Delete("/items/{id}", h.Basket.RemoveFromCart())
			r.Post("/items/{id}/increase", h.Basket.IncreaseCartItem())
			r.Post("/items/{id}/decrease", h.Basket.DecreaseCartItem())
		})

		r.Route("/plateau", func(r chi.Router) {
			r.Get("/", h.Basket.Plateau())
			r.Delete("/", h.Basket.ClearPlateau())
			r.Post("/items", h.Basket.AddToPlateau())
			r.Delete("/items/{id}", h.Basket.RemoveFromPlateau())
			r.Post("/items/{id}/increase", h.Basket.IncreasePlateauItem())
			r.Post("/items/{id}/decrease", h.Basket.DecreasePlateauItem())
			r.Post("/checkout", h.Basket.PlateauToCart())
		})

		r.Route("/auth", func(r chi.Router) {
			r.With(h.Limiter.Middleware).Post("/signup", h.Auth.SignUp())
			r.With(h.Limiter.Middleware).Post("/login", h.Auth.SignIn())
			r.With(h.Limiter.Middleware).Post("/password-reset", h.Auth.RequestPasswordReset())
			r.With(h.Limiter.Middleware).Post("/password-reset/confirm", h.Auth.ConfirmPasswordReset())
			r.With(h.Auther.Require).Post("/logout", h.Auth.SignOut())
			r.With(h.Auther.Require).Get("/me", h.Auth.Me())
		})

		r.Group(func(r chi.Router) {
			r.Use(h.Auther.Require)

			r.Post("/checkout", h.Order.Checkout())
			r.Get("/orders", h.Order.List())
			r.Get("/orders/{id}", h.Order.Get())
			r.Post("/orders/{id}/confirm", h.Order.Confirm())
			r.Get("/orders/{id}/tracking", h.Order.Tracking())
			r.Get("/orders/{id}/history", h.Order.History())

			r.Get("/profile", h.Profile.Get())
			r.Patch("/profile", h.Profile.Update())
			r.Post("/profile/photo", h.Profile.UploadPhoto())
			r.Get("/profile/addresses", h.Profile.Addresses())
			r.Post("/profile/addresses", h.Profile.AddAddress())
			r.Put("/profile/addresses/{id}", h.Profile.UpdateAddress())
			r.Delete("/profile/addresses/{id}", h.Profile.DeleteAddress())
			r.Post("/profile/addresses/{id}/default", h.Profile.SetDefaultAddress())

			r.Get("/notifications", h.Notifications.List())
			r.Post("/notifications/read-all", h.Notifications.MarkAllRead())
			r.Post("/notifications/{id}/read", h.Notifications.MarkRead())
		})
	})
	return r
}
