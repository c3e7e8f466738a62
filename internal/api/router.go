// Package api exposes the storefront over HTTP. Routes live under /api and
// mirror the JSON contract the web client binds to; /health and /metrics sit
// at the root for probes and scrapers.
package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	appcoupon "github.com/ironfitwear/storefront/internal/application/coupon"
	apporder "github.com/ironfitwear/storefront/internal/application/order"
	apppayment "github.com/ironfitwear/storefront/internal/application/payment"
	appuser "github.com/ironfitwear/storefront/internal/application/user"
	"github.com/ironfitwear/storefront/internal/application/catalog"
	"github.com/ironfitwear/storefront/internal/domain/user"
	"github.com/ironfitwear/storefront/internal/infrastructure/ratelimit"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
)

// Deps collects everything the router needs wired in.
type Deps struct {
	Users    *appuser.Service
	Catalog  *catalog.Service
	Coupons  *appcoupon.Service
	Orders   *apporder.Service
	Payments *apppayment.Service

	UserRepo user.Repository
	Tokens   TokenVerifier
	Limiter  ratelimit.Limiter
	Logger   *zap.Logger
	Metrics  *Metrics

	// AllowedOrigin is the web client origin allowed by CORS; empty
	// disables the headers.
	AllowedOrigin string
}

// NewRouter builds the full HTTP surface.
// Middleware order: trace span, request logger + metrics, rate limit, then
// per-route auth guards.
func NewRouter(d Deps) http.Handler {
	uh := &userHandler{users: d.Users}
	ph := &productHandler{catalog: d.Catalog}
	ch := &couponHandler{coupons: d.Coupons}
	oh := &orderHandler{orders: d.Orders}
	pay := &paymentHandler{payments: d.Payments}

	auth := withAuth(d.Tokens, d.UserRepo)

	r := chi.NewRouter()
	r.Use(withCORS(d.AllowedOrigin))
	r.Use(withTrace)
	r.Use(withObservability(d.Logger, d.Metrics))

	// probes and scrapers bypass the rate limit
	r.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})
	r.Method(http.MethodGet, "/metrics", promhttp.Handler())

	r.Route("/api", func(r chi.Router) {
		r.Use(withRateLimit(d.Limiter))
		r.Route("/users", func(r chi.Router) {
			r.Post("/", uh.register)
			r.Post("/login", uh.login)

			r.Group(func(r chi.Router) {
				r.Use(auth)
				r.Get("/me", uh.me)
				r.Post("/wishlist", uh.toggleWishlist)
				r.Get("/wishlist", uh.wishlist)
			})
			r.Group(func(r chi.Router) {
				r.Use(auth, requireAdmin)
				r.Get("/", uh.list)
				r.Delete("/{id}", uh.delete)
			})
		})

		r.Route("/products", func(r chi.Router) {
			r.Get("/", ph.search)
			r.Get("/top", ph.top)
			r.Get("/{slug}", ph.getBySlug)

			r.Group(func(r chi.Router) {
				r.Use(auth, requireAdmin)
				r.Get("/id/{id}", ph.getByID)
				r.Post("/", ph.create)
				r.Put("/{id}", ph.update)
				r.Delete("/{id}", ph.delete)
			})
		})

		r.Route("/coupons", func(r chi.Router) {
			r.Group(func(r chi.Router) {
				r.Use(auth)
				r.Post("/validate", ch.validate)
			})
			r.Group(func(r chi.Router) {
				r.Use(auth, requireAdmin)
				r.Post("/", ch.create)
				r.Get("/", ch.list)
				r.Delete("/{id}", ch.delete)
			})
		})

		r.Route("/orders", func(r chi.Router) {
			r.Use(auth)
			r.Post("/", oh.place)
			r.Post("/verify", oh.verify)
			r.Get("/myorders", oh.mine)
			r.Get("/{id}", oh.get)

			r.Group(func(r chi.Router) {
				r.Use(requireAdmin)
				r.Get("/", oh.list)
				r.Put("/{id}/status", oh.updateStatus)
			})
		})

		r.Route("/payments", func(r chi.Router) {
			r.Use(auth)
			r.Post("/create-order", pay.createOrder)
			r.Post("/verify", pay.verify)
			r.Get("/history", pay.history)
		})
	})

	return r
}
