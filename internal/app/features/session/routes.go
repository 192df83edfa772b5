// internal/app/features/session/routes.go
package session

import "github.com/go-chi/chi/v5"

func Routes(h *Handler) chi.Router {
	r := chi.NewRouter()
	r.Post("/", h.Login)
	r.With(h.Tokens.RequireToken).Get("/", h.Me)
	return r
}
