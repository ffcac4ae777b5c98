package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/wattchdog/gateway-core/internal/netinfo"
)

// buildRouter creates the HTTP router with all routes and middleware.
func (s *Server) buildRouter() http.Handler {
	r := chi.NewRouter()

	// Global middleware
	r.Use(s.requestIDMiddleware)
	r.Use(s.loggingMiddleware)
	r.Use(s.recoveryMiddleware)
	r.Use(s.bodySizeLimitMiddleware)

	r.Route("/api", func(r chi.Router) {
		r.Get("/health", s.handleHealth)
		r.Get("/ip", s.handleIP)

		r.Get("/devices", s.handleListDevices)
		r.Post("/config", s.handleSubmitConfig)
		r.Post("/simulate", s.handleSimulate)

		r.Get("/ws", s.handleWebSocket)
	})

	return r
}

// handleHealth returns the server health status.
func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"status":  "ok",
		"version": s.version,
	})
}

// handleIP returns the gateway's LAN address, so the dashboard can show
// operators where to point their browser.
func (s *Server) handleIP(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"ip": netinfo.LocalIP(),
	})
}
