package router

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/medina-starter/accounts/backend/internal/setup"
	"github.com/medina-starter/accounts/shared/api"
	mw "github.com/medina-starter/accounts/shared/middleware"
	"github.com/medina-starter/accounts/shared/middleware/metrics"
	"github.com/medina-starter/accounts/shared/utils"
)

// New creates the chi router with all the routes.
func New(deps *setup.Dependencies) http.Handler {
	r := chi.NewRouter()

	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(mw.RequestLogger)
	r.Use(mw.Recoverer)
	r.Use(metrics.Middleware)
	r.Use(chimw.Timeout(30 * time.Second))

	if origins := deps.Config.Public.CORSOrigins; len(origins) > 0 {
		r.Use(cors.Handler(cors.Options{
			AllowedOrigins: origins,
			AllowedMethods: []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
			AllowedHeaders: []string{"Content-Type", "Authorization"},
			MaxAge:         300,
		}))
	}

	r.Use(mw.SecurityHeaders(false))

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		utils.WriteJSON(w, http.StatusNotFound, api.ErrorResponse{Message: "Not found"})
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		utils.WriteJSON(w, http.StatusMethodNotAllowed, api.ErrorResponse{Message: "Method not allowed"})
	})

	h := deps.Handler

	r.Get("/health", h.Health)
	r.Get("/ready", h.Ready)
	r.Handle("/metrics", promhttp.Handler())

	r.Route("/auth", func(r chi.Router) {
		r.Post("/register", h.Register)
		r.Get("/confirm", h.Confirm)
		r.Post("/login", h.Login)
		r.Post("/check-email", h.CheckEmail)
	})

	r.Route("/api/users", func(r chi.Router) {
		r.Use(deps.AuthMiddleware.NeedAuth())
		r.Get("/", h.ListUsers)
		r.Get("/{id}", h.GetUser)
		r.Put("/{id}", h.UpdateUser)
		r.Delete("/{id}", h.DeleteUser)
	})

	return r
}
