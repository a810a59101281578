package httpapi

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// RouterOptions configures cross-cutting concerns for the router.
type RouterOptions struct {
	// AuthMiddleware wraps every authenticated route. Required.
	AuthMiddleware func(http.Handler) http.Handler
}

// NewRouter constructs the API HTTP router.
//
// This is intentionally a thin adapter: it wires routes/middleware and
// delegates request handling to the Server.
func NewRouter(api *Server, opts RouterOptions) http.Handler {
	r := chi.NewRouter()

	// Baseline production-safe middleware (minimal but useful).
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)

	// Infra endpoints are unauthenticated.
	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})
	r.Handle("/metrics", promhttp.Handler())

	// The public schedule is viewable without a login.
	r.Get("/api/schedule", api.getSchedule)

	r.Group(func(pr chi.Router) {
		pr.Use(opts.AuthMiddleware)

		pr.Post("/trainees", api.createTrainee)
		pr.Post("/trainees/{memberId}/invite", api.invite)

		pr.Get("/api/schedule/{memberId}", api.getMemberSchedule)
		pr.Post("/api/schedule/{memberId}/session/{sessionId}", api.register)
		pr.Delete("/api/schedule/{memberId}/session/{sessionId}", api.withdraw)
	})

	return r
}
