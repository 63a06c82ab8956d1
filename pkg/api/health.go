package api

import (
	"net/http"

	"github.com/cuemby/nurseduty/pkg/metrics"
)

// healthHandler implements the /health endpoint.
// This is a liveness check: 200 unless a component reported itself unhealthy.
func (s *Server) healthHandler(w http.ResponseWriter, r *http.Request) {
	health := metrics.GetHealth()

	status := http.StatusOK
	if health.Status == "unhealthy" {
		status = http.StatusServiceUnavailable
	}
	writeJSON(w, status, health)
}

// readyHandler implements the /ready endpoint. It probes storage with a
// read before reporting, so a backend that went away turns the server
// not ready.
func (s *Server) readyHandler(w http.ResponseWriter, r *http.Request) {
	if _, err := s.store.GetAllFormulas(); err != nil {
		metrics.RegisterComponent("storage", false, err.Error())
	} else {
		metrics.RegisterComponent("storage", true, "")
	}

	readiness := metrics.GetReadiness()

	status := http.StatusOK
	if readiness.Status != "ready" {
		status = http.StatusServiceUnavailable
	}
	writeJSON(w, status, readiness)
}
