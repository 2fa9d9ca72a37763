package httpapi

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Router builds the HTTP handler with all routes and middleware.
func (s *HTTPServer) Router() http.Handler {
	r := chi.NewRouter()

	r.Use(s.requestIDMiddleware)
	r.Use(s.loggingMiddleware)
	r.Use(s.recoveryMiddleware)
	r.Use(s.bodySizeLimitMiddleware)
	r.Use(s.timeoutMiddleware)
	r.Use(s.sessionMiddleware)

	r.Get("/healthz", s.handleHealth)
	if s.gatherer != nil {
		r.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(s.gatherer, promhttp.HandlerOpts{}))
	}

	r.Route("/api", func(r chi.Router) {
		r.Post("/signup", s.handleSignup)
		r.Post("/signin", s.withRateLimit("signin", s.config.SigninRateLimit, s.handleSignin))
		r.Post("/signout", s.handleSignout)
		r.Get("/me", s.handleMe)

		r.Get("/users", s.handleListUsers)
		r.Put("/users/{id}/permissions", s.handleUpdatePermissions)

		r.Post("/reset/request", s.withRateLimit("reset_request", s.config.ResetRateLimit, s.handleRequestReset))
		r.Post("/reset/confirm", s.handleConfirmReset)

		r.Route("/items", func(r chi.Router) {
			r.Get("/", s.handleListItems)
			r.Post("/", s.handleCreateItem)
			r.Post("/image-upload", s.handleItemImageUpload)

			r.Route("/{id}", func(r chi.Router) {
				r.Get("/", s.handleGetItem)
				r.Patch("/", s.handleUpdateItem)
				r.Delete("/", s.handleDeleteItem)
			})
		})
	})

	return r
}

func (s *HTTPServer) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
