// Package httpapi assembles the public router.
package httpapi

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	lifecyclehandler "guardpost/internal/lifecycle/handler"
	"guardpost/internal/platform/middleware"
)

// NewRouter wires the middleware stack and mounts all endpoints. Health and
// metrics stay outside the auth boundary.
func NewRouter(h *lifecyclehandler.Handler, validator middleware.TokenValidator, logger *slog.Logger) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RequestTime)
	r.Use(middleware.ClientMetadata)

	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})
	r.Handle("/metrics", promhttp.Handler())

	r.Group(func(r chi.Router) {
		r.Use(middleware.RequireAuth(validator, logger))
		h.Register(r)
	})

	return r
}
