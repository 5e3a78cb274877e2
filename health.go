package drivetelemetry

import (
	"net/http"
)

type healthResponse struct {
	Status          string `json:"status"`
	TripActive      bool   `json:"trip_active"`
	LastSampleEpoch int64  `json:"last_sample_epoch"`
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	snap := s.pipeline.Status()
	writeJSON(w, http.StatusOK, healthResponse{
		Status:          "ok",
		TripActive:      snap.TripActive,
		LastSampleEpoch: snap.LastSampleEpoch,
	})
}
