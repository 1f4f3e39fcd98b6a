package controllers

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/David2024patton/discord-attendance-bot/internal/runtime"
	sessionsvc "github.com/David2024patton/discord-attendance-bot/internal/services/sessions"
)

// GeneralController handles health and metrics endpoints.
type GeneralController struct {
	rt  *runtime.Runtime
	svc *sessionsvc.Service
}

// NewGeneralController creates a new general controller.
func NewGeneralController(rt *runtime.Runtime, svc *sessionsvc.Service) *GeneralController {
	return &GeneralController{rt: rt, svc: svc}
}

// RegisterRoutes registers general routes with the given mux.
func (c *GeneralController) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("/v1/healthz", c.handleHealth)
	mux.Handle("/metrics", promhttp.Handler())
}

// handleHealth reports not_serving until the registry has loaded and the
// store answers reads.
func (c *GeneralController) handleHealth(w http.ResponseWriter, r *http.Request) {
	if !c.svc.Ready() {
		writeError(w, http.StatusServiceUnavailable, "loading")
		return
	}
	if err := c.rt.CheckHealth(r.Context()); err != nil {
		writeError(w, http.StatusServiceUnavailable, "not_serving")
		return
	}
	writeJSON(w, map[string]string{"status": "ok"})
}
