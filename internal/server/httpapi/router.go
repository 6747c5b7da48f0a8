package httpapi

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

// NewRouter mounts every route. Mutating store routes sit behind RequireAdmin.
func NewRouter(a *API) *chi.Mux {
	r := chi.NewRouter()
	r.Use(middleware.RequestID, middleware.RealIP, requestLogger(a.logger), middleware.Recoverer)
	r.Use(middleware.Timeout(a.opts.RequestTimeout))

	r.Get("/health", a.health)

	r.Get("/store", a.getStore)
	r.Post("/checkout", a.createCheckout)

	r.Post("/auth/login", a.login)
	r.Post("/auth/logout", a.logout)

	r.Group(func(r chi.Router) {
		r.Use(RequireAdmin(a.auth, a.logger))
		r.Put("/store", a.updateStore)
		r.Get("/admin/store", a.getAdminStore)
	})

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusNotFound, errorBody{Error: "not found"})
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusMethodNotAllowed, errorBody{Error: "method not allowed"})
	})

	return r
}
