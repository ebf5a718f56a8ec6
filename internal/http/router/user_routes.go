package router

import (
	"github.com/go-chi/chi/v5"

	mw "github.com/dropDatabas3/hellomail/internal/http/middlewares"
)

func registerUserRoutes(r chi.Router, d Deps) {
	c := d.User

	r.Route("/user", func(u chi.Router) {
		u.Post("/register", c.Register.Register)
		u.Post("/login", c.Login.Login)

		u.Group(func(auth chi.Router) {
			auth.Use(mw.RequireAuth(d.Issuer))
			auth.Get("/me", c.Profile.Me)
			auth.Put("/settings", c.Profile.Settings)
		})
	})
}
