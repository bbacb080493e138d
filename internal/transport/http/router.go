package httptransport

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"datagov/internal/access"
	"datagov/internal/platform/middleware"
)

// NewRouter wires the governance API. Probes and metrics stay outside the
// auth boundary; everything under /v1 requires a bearer token or a service
// account credential.
func NewRouter(h *Handler, verifier *middleware.JWTVerifier, accounts *access.Accounts) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.Recovery(h.logger))
	r.Use(middleware.RequestID)
	r.Use(middleware.RequestTime)
	r.Use(middleware.Logger(h.logger))

	r.Get("/healthz", h.handleHealth)
	r.Method(http.MethodGet, "/metrics", promhttp.Handler())

	r.Route("/v1", func(r chi.Router) {
		r.Use(middleware.RequireAuth(verifier, accounts, h.logger))

		r.Post("/pipeline/runs", h.handleRunPipeline)
		r.Get("/pipeline/runs/latest", h.handleLatestReport)
		r.Post("/quality/{dataset}/validate", h.handleValidate)
		r.Get("/catalog", h.handleListCatalog)
		r.Get("/catalog/{name}", h.handleGetAsset)
		r.Get("/lineage", h.handleListLineage)
	})

	return r
}

func (h *Handler) handleHealth(w http.ResponseWriter, r *http.Request) {
	status := map[string]string{"status": "ok"}
	if h.cache != nil {
		if err := h.cache.Health(r.Context()); err != nil {
			status["status"] = "degraded"
			status["cache"] = err.Error()
			writeJSON(w, http.StatusServiceUnavailable, status)
			return
		}
		status["cache"] = "ok"
	}
	writeJSON(w, http.StatusOK, status)
}
