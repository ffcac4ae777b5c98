package api

import (
	"encoding/json"
	"net/http"
)

// simulateRequest carries a synthetic device message through the same
// intake path as a real broker delivery.
type simulateRequest struct {
	Topic   string          `json:"topic"`
	Payload json.RawMessage `json:"payload"`
}

// handleSimulate injects a device message as if it arrived over the broker.
// Useful for bench testing the gateway without any hardware attached.
func (s *Server) handleSimulate(w http.ResponseWriter, r *http.Request) {
	var req simulateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON")
		return
	}

	desc, err := s.intake.HandleMessage(req.Topic, req.Payload)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"status":  "ok",
		"message": desc,
	})
}
