package api

import (
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/jwtauth"
	"github.com/portfoliokit/media-content/pkg/mediacontent"
)

var kindPaths = []struct {
	path string
	kind mediacontent.ContentKind
}{
	{"/photos", mediacontent.KindPhoto},
	{"/videos", mediacontent.KindVideo},
	{"/press", mediacontent.KindPress},
}

// Router assembles the full content API. Reads are public; every mutating
// route sits behind the admin credential gate when auth is non-nil.
func Router(service mediacontent.Service, auth *jwtauth.JWTAuth) chi.Router {
	r := chi.NewRouter()

	for _, kp := range kindPaths {
		h := NewRecordsHandler(service, kp.kind)
		r.Route(kp.path, func(r chi.Router) {
			r.Get("/", h.List)
			r.Get("/{id}", h.Get)

			r.Group(func(r chi.Router) {
				gate(r, auth)
				r.Post("/", h.CreateWithUpload)
				r.Post("/import", h.CreateFromAssets)
				r.Put("/{id}", h.Update)
				r.Delete("/{id}", h.Delete)
			})
		})
	}

	ch := NewCategoriesHandler(service)
	r.Route("/categories", func(r chi.Router) {
		r.Get("/", ch.List)

		r.Group(func(r chi.Router) {
			gate(r, auth)
			r.Post("/", ch.Create)
			r.Delete("/{id}", ch.Delete)
		})
	})

	return r
}

func gate(r chi.Router, auth *jwtauth.JWTAuth) {
	if auth == nil {
		return
	}
	r.Use(jwtauth.Verifier(auth))
	r.Use(jwtauth.Authenticator)
}
