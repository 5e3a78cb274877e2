package drivetelemetry

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/theoremus-urban-solutions/drive-telemetry/geo"
	"github.com/theoremus-urban-solutions/drive-telemetry/store"
	"github.com/theoremus-urban-solutions/drive-telemetry/telemetry"
)

type tripStartRequest struct {
	StartName string `json:"startName"`
}

type tripStopRequest struct {
	EndName string `json:"endName"`
}

type routeRequest struct {
	Destination geo.Point `json:"destination"`
}

func (s *Server) handleStatus(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.pipeline.Status())
}

func (s *Server) handleTripStart(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeError(w, http.StatusMethodNotAllowed, "POST required")
		return
	}
	var req tripStartRequest
	_ = json.NewDecoder(r.Body).Decode(&req) // empty body is a valid free-drive start

	rec, err := s.pipeline.StartTrip(req.StartName)
	if err != nil {
		writeError(w, http.StatusConflict, err.Error())
		return
	}
	writeJSON(w, http.StatusCreated, rec)
}

func (s *Server) handleTripStop(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeError(w, http.StatusMethodNotAllowed, "POST required")
		return
	}
	var req tripStopRequest
	_ = json.NewDecoder(r.Body).Decode(&req)

	rec, err := s.pipeline.StopTrip(req.EndName)
	if err != nil {
		writeError(w, http.StatusConflict, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, rec)
}

func (s *Server) handleRoute(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeError(w, http.StatusMethodNotAllowed, "POST required")
		return
	}
	var req routeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid route request")
		return
	}
	if err := s.pipeline.RequestRoute(req.Destination); err != nil {
		writeError(w, http.StatusConflict, err.Error())
		return
	}
	// The route installs asynchronously; subscribers see route.installed.
	writeJSON(w, http.StatusAccepted, map[string]string{"status": "requested"})
}

func (s *Server) handleLocationSample(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeError(w, http.StatusMethodNotAllowed, "POST required")
		return
	}
	var fix telemetry.RawFix
	if err := json.NewDecoder(r.Body).Decode(&fix); err != nil {
		writeError(w, http.StatusBadRequest, "invalid fix")
		return
	}
	s.pipeline.SubmitFix(fix)
	w.WriteHeader(http.StatusAccepted)
}

func (s *Server) handleMotionSample(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeError(w, http.StatusMethodNotAllowed, "POST required")
		return
	}
	var m telemetry.MotionSample
	if err := json.NewDecoder(r.Body).Decode(&m); err != nil {
		writeError(w, http.StatusBadRequest, "invalid motion sample")
		return
	}
	s.pipeline.SubmitMotion(m)
	w.WriteHeader(http.StatusAccepted)
}

func (s *Server) handleOrientationSample(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeError(w, http.StatusMethodNotAllowed, "POST required")
		return
	}
	var o telemetry.OrientationSample
	if err := json.NewDecoder(r.Body).Decode(&o); err != nil {
		writeError(w, http.StatusBadRequest, "invalid orientation sample")
		return
	}
	s.pipeline.SubmitOrientation(o)
	w.WriteHeader(http.StatusAccepted)
}

func (s *Server) handleInteractionSample(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeError(w, http.StatusMethodNotAllowed, "POST required")
		return
	}
	var ev telemetry.Interaction
	if err := json.NewDecoder(r.Body).Decode(&ev); err != nil {
		writeError(w, http.StatusBadRequest, "invalid interaction")
		return
	}
	s.pipeline.SubmitInteraction(ev)
	w.WriteHeader(http.StatusAccepted)
}

func (s *Server) handleListTrips(w http.ResponseWriter, r *http.Request) {
	if s.trips == nil {
		writeError(w, http.StatusServiceUnavailable, "no trip store configured")
		return
	}
	limit, err := parsePositiveInt(r.URL.Query().Get("limit"), 50)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	recs, err := s.trips.ListTrips(r.Context(), limit)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, recs)
}

func (s *Server) handleGetTrip(w http.ResponseWriter, r *http.Request) {
	if s.trips == nil {
		writeError(w, http.StatusServiceUnavailable, "no trip store configured")
		return
	}
	id := strings.TrimPrefix(r.URL.Path, "/api/trips/")
	if id == "" {
		writeError(w, http.StatusBadRequest, "trip id required")
		return
	}
	rec, err := s.trips.GetTrip(r.Context(), id)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			writeError(w, http.StatusNotFound, "no such trip")
			return
		}
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, rec)
}
