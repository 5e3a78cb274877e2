package drivetelemetry

import (
	"encoding/json"
	"net/http"
)

type errorPayload struct {
	Error     string `json:"error"`
	Timestamp string `json:"timestamp"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, errorPayload{Error: msg, Timestamp: iso8601Now()})
}
