package api

import (
	"encoding/json"
	"net/http"

	"github.com/wattchdog/gateway-core/internal/configmsg"
)

// handleSubmitConfig validates a configuration payload and, when a
// dispatcher is wired, publishes the prepared message to the target device.
//
// Client mistakes produce 400 with the validator's message verbatim;
// anything unexpected collapses to the generic "bad request". Dispatch
// failures do not fail the request: the message was accepted, transport
// trouble is logged and surfaced through gateway status instead.
func (s *Server) handleSubmitConfig(w http.ResponseWriter, r *http.Request) {
	var payload any
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON")
		return
	}

	msg, err := s.validator.Prepare(payload)
	if err != nil {
		if configmsg.IsClientError(err) {
			s.logger.Warn("config payload rejected", "error", err)
			writeError(w, http.StatusBadRequest, err.Error())
		} else {
			s.logger.Error("config preparation failed", "error", err)
			writeError(w, http.StatusBadRequest, "bad request")
		}
		return
	}

	if s.dispatcher != nil {
		if err := s.dispatcher.Send(msg.Serial, msg); err != nil {
			s.logger.Error("config dispatch failed",
				"serial", msg.Serial,
				"id", msg.ID,
				"error", err,
			)
		}
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"status": "ok",
		"id":     msg.ID,
	})
}
