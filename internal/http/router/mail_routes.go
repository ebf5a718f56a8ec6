package router

import (
	"github.com/go-chi/chi/v5"

	mw "github.com/dropDatabas3/hellomail/internal/http/middlewares"
)

func registerMailRoutes(r chi.Router, d Deps) {
	c := d.Mail

	r.Route("/mail", func(m chi.Router) {
		m.Use(mw.RequireAuth(d.Issuer))
		m.Post("/send", c.Send.Send)
		m.Get("/history", c.History.List)
	})
}
