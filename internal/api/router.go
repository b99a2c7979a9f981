package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	httpSwagger "github.com/swaggo/http-swagger"

	"babypool/internal/auth"
	"babypool/internal/metrics"
)

func (a *API) Router() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)

	r.Handle("/metrics", metrics.Handler())
	r.Get("/swagger/*", httpSwagger.Handler(httpSwagger.URL("/swagger/doc.json")))

	// Public
	r.Get("/subdomains/check", a.CheckSubdomain)
	r.Get("/subdomains/suggest", a.SuggestSubdomains)
	r.Get("/tenants/{id}", a.GetTenant)
	r.Get("/tenants/{id}/site", a.GetSite)
	r.Get("/tenants/{id}/categories", a.ListCategories)
	r.Post("/tenants/{id}/bets", a.PlaceBets)

	// Operator
	r.Group(func(r chi.Router) {
		r.Use(auth.ProvisioningKeyMiddleware(a.ProvisioningKey))

		r.Post("/tenants", a.CreateTenant)
		r.Put("/tenants/{id}", a.UpdateTenant)
		r.Delete("/tenants/{id}", a.DeleteTenant)
		r.Post("/tenants/{id}/tokens", a.IssueToken)
	})

	// Tenant admin
	r.Group(func(r chi.Router) {
		r.Use(auth.JWTAuthMiddleware)

		r.Put("/tenants/{id}/categories", a.ReplaceCategories)
		r.Get("/tenants/{id}/bets", a.ListBets)
		r.Post("/tenants/{id}/bets/validate", a.ValidateBets)
		r.Get("/tenants/{id}/stats", a.GetStats)
	})

	return r
}
