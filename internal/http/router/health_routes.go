package router

import "github.com/go-chi/chi/v5"

// registerHealthRoutes registra liveness, readiness y métricas. Sin auth.
func registerHealthRoutes(r chi.Router, d Deps) {
	c := d.Health.Health

	r.Get("/health", c.Health)
	r.Get("/readyz", c.Readyz)

	if d.Metrics != nil {
		r.Method("GET", "/metrics", d.Metrics.Handler())
	}
}
