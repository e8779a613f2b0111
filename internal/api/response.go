package api

import (
	"encoding/json"
	"net/http"

	"github.com/pfrederiksen/boatrace-odds/internal/logger"
)

// envelope is the uniform response body
type envelope struct {
	Success bool        `json:"success"`
	Data    interface{} `json:"data,omitempty"`
	Error   string      `json:"error,omitempty"`
}

func respondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)

	if err := json.NewEncoder(w).Encode(envelope{Success: true, Data: data}); err != nil {
		logger.Error("encoding response", nil, err)
	}
}

func respondError(w http.ResponseWriter, status int, message string, err error) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)

	if err != nil {
		fields := logger.Fields{"status": status, "message": message}
		if status >= http.StatusInternalServerError {
			logger.Error("request failed", fields, err)
		} else {
			fields["error"] = err.Error()
			logger.Debug("request rejected", fields)
		}
	}

	if err := json.NewEncoder(w).Encode(envelope{Success: false, Error: message}); err != nil {
		logger.Error("encoding error response", nil, err)
	}
}
