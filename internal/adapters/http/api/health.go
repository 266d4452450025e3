// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"net/http"

	"github.com/mentorverse/sensei/pkg/metrics"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// HealthHandler backs the liveness and metrics endpoint.
type HealthHandler struct{}

// NewHealthHandler creates a health handler.
func NewHealthHandler() *HealthHandler {
	return &HealthHandler{}
}

// HandleHealth serves Prometheus metrics from the service registry. The
// endpoint doubles as the liveness probe: a scrapeable response means the
// HTTP layer and the metrics pipeline are both up.
func (h *HealthHandler) HandleHealth(w http.ResponseWriter, r *http.Request) {
	promhttp.HandlerFor(metrics.GetRegistry(), promhttp.HandlerOpts{}).ServeHTTP(w, r)
}
