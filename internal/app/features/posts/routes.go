// internal/app/features/posts/routes.go
package posts

import "github.com/go-chi/chi/v5"

func Routes(h *Handler) chi.Router {
	r := chi.NewRouter()
	r.Use(h.Tokens.RequireToken)

	r.Post("/", h.Create)
	r.Get("/", h.List)
	r.Get("/{id}", h.Get)
	r.Delete("/{id}", h.Delete)
	r.Put("/like/{id}", h.Like)
	r.Put("/unlike/{id}", h.Unlike)
	r.Post("/comment/{id}", h.Comment)
	r.Delete("/comment/{id}/{comment_id}", h.DeleteComment)

	return r
}
