// Package router arma el árbol de rutas HTTP del servicio sobre chi.
package router

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	healthctrl "github.com/dropDatabas3/hellomail/internal/http/controllers/health"
	mailctrl "github.com/dropDatabas3/hellomail/internal/http/controllers/mail"
	userctrl "github.com/dropDatabas3/hellomail/internal/http/controllers/user"
	httperrors "github.com/dropDatabas3/hellomail/internal/http/errors"
	mw "github.com/dropDatabas3/hellomail/internal/http/middlewares"
	"github.com/dropDatabas3/hellomail/internal/jwt"
	"github.com/dropDatabas3/hellomail/internal/metrics"
)

// Deps contiene todo lo que el router necesita para montar las rutas.
type Deps struct {
	Issuer      *jwt.Issuer
	Metrics     *metrics.Metrics // opcional: sin él no se expone /metrics
	CORSOrigins []string

	User   *userctrl.Controllers
	Mail   *mailctrl.Controllers
	Health *healthctrl.Controllers
}

// New crea el handler raíz.
//
//	/health, /readyz, /metrics       públicos
//	/api/user/register, /login       públicos, no-store
//	/api/user/me, /settings          RequireAuth
//	/api/mail/send, /history         RequireAuth
func New(d Deps) http.Handler {
	r := chi.NewRouter()

	r.Use(
		mw.WithRecover(),
		mw.WithRequestID(),
		mw.WithLogging(),
		mw.WithMetrics(d.Metrics),
		mw.WithSecurityHeaders(),
		mw.WithCORS(d.CORSOrigins),
	)

	r.NotFound(func(w http.ResponseWriter, _ *http.Request) {
		httperrors.WriteError(w, httperrors.ErrRouteNotFound)
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, _ *http.Request) {
		httperrors.WriteError(w, httperrors.ErrMethodNotAllowed)
	})

	registerHealthRoutes(r, d)

	r.Route("/api", func(api chi.Router) {
		api.Use(mw.WithNoStore())
		registerUserRoutes(api, d)
		registerMailRoutes(api, d)
	})

	return r
}
