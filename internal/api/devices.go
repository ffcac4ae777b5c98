package api

import "net/http"

// handleListDevices returns every known device in registration order.
//
// The response is always a JSON array, [] when the registry is empty.
func (s *Server) handleListDevices(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, s.registry.List())
}
