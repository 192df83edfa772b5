// internal/app/features/profiles/routes.go
package profiles

import "github.com/go-chi/chi/v5"

func Routes(h *Handler) chi.Router {
	r := chi.NewRouter()

	r.Get("/", h.ListAll)
	r.Get("/users/{user_id}", h.GetByUser)
	r.Get("/github/{username}", h.GithubRepos)

	r.Group(func(r chi.Router) {
		r.Use(h.Tokens.RequireToken)
		r.Get("/me", h.GetMine)
		r.Post("/", h.Upsert)
		r.Delete("/", h.DeleteAccount)
		r.Put("/experience", h.AddExperience)
		r.Delete("/experience/{exp_id}", h.RemoveExperience)
		r.Put("/education", h.AddEducation)
		r.Delete("/education/{edu_id}", h.RemoveEducation)
	})

	return r
}
