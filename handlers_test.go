package drivetelemetry

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/theoremus-urban-solutions/drive-telemetry/config"
	"github.com/theoremus-urban-solutions/drive-telemetry/store"
	"github.com/theoremus-urban-solutions/drive-telemetry/timeutil"
	"github.com/theoremus-urban-solutions/drive-telemetry/trip"
)

func newTestServer(t *testing.T) (*Server, *http.ServeMux) {
	t.Helper()
	cfg := config.Default()
	trips, err := store.Open(filepath.Join(t.TempDir(), "trips.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = trips.Close() })

	t0 := time.Date(2026, 3, 2, 12, 0, 0, 0, time.UTC)
	p := NewPipeline(cfg, Collaborators{Sink: trips, Clock: timeutil.NewMockClock(t0)})
	go p.Run()
	t.Cleanup(p.Shutdown)

	srv := NewServer(cfg, p, trips, nil)
	return srv, srv.routes()
}

func doJSON(mux *http.ServeMux, method, path, body string) *httptest.ResponseRecorder {
	var rdr *strings.Reader
	if body == "" {
		rdr = strings.NewReader("")
	} else {
		rdr = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, rdr)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	mux.ServeHTTP(w, req)
	return w
}

func TestHealthEndpoint(t *testing.T) {
	_, mux := newTestServer(t)

	w := doJSON(mux, http.MethodGet, "/api/health", "")
	require.Equal(t, http.StatusOK, w.Code)

	var body healthResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, "ok", body.Status)
	assert.False(t, body.TripActive)
}

func TestTripLifecycleEndpoints(t *testing.T) {
	_, mux := newTestServer(t)

	w := doJSON(mux, http.MethodPost, "/api/trip/start", `{"startName":"Home"}`)
	require.Equal(t, http.StatusCreated, w.Code)
	var rec trip.Record
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &rec))
	assert.NotEmpty(t, rec.ID)
	assert.Equal(t, "Home", rec.StartName)

	// Double start conflicts.
	w = doJSON(mux, http.MethodPost, "/api/trip/start", `{}`)
	assert.Equal(t, http.StatusConflict, w.Code)

	w = doJSON(mux, http.MethodGet, "/api/status", "")
	require.Equal(t, http.StatusOK, w.Code)
	var snap Snapshot
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &snap))
	assert.True(t, snap.TripActive)
	assert.Equal(t, rec.ID, snap.TripID)

	w = doJSON(mux, http.MethodPost, "/api/trip/stop", `{"endName":"Office"}`)
	require.Equal(t, http.StatusOK, w.Code)
	var final trip.Record
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &final))
	assert.Equal(t, rec.ID, final.ID)
	assert.Equal(t, "Office", final.EndName)

	// Double stop conflicts.
	w = doJSON(mux, http.MethodPost, "/api/trip/stop", `{}`)
	assert.Equal(t, http.StatusConflict, w.Code)

	// The finished trip is queryable from the store.
	w = doJSON(mux, http.MethodGet, "/api/trips/"+rec.ID, "")
	require.Equal(t, http.StatusOK, w.Code)
	var stored trip.Record
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &stored))
	assert.Equal(t, rec.ID, stored.ID)
}

func TestTripStartRequiresPost(t *testing.T) {
	_, mux := newTestServer(t)
	w := doJSON(mux, http.MethodGet, "/api/trip/start", "")
	assert.Equal(t, http.StatusMethodNotAllowed, w.Code)
}

func TestSampleIngestion(t *testing.T) {
	_, mux := newTestServer(t)

	w := doJSON(mux, http.MethodPost, "/api/samples/location",
		`{"lat":59.3293,"lng":18.0686,"accuracy":5,"reportedSpeed":40,"reportedHeading":90,"timestamp":"2026-03-02T12:00:00Z"}`)
	assert.Equal(t, http.StatusAccepted, w.Code)

	w = doJSON(mux, http.MethodPost, "/api/samples/motion", `{"ax":0.5,"ay":-0.2,"az":9.8}`)
	assert.Equal(t, http.StatusAccepted, w.Code)

	w = doJSON(mux, http.MethodPost, "/api/samples/orientation", `{"yaw":135,"pitch":0,"roll":0}`)
	assert.Equal(t, http.StatusAccepted, w.Code)

	w = doJSON(mux, http.MethodPost, "/api/samples/interaction", `{"kind":"touch"}`)
	assert.Equal(t, http.StatusAccepted, w.Code)
}

func TestSampleIngestionRejectsBadJSON(t *testing.T) {
	_, mux := newTestServer(t)
	w := doJSON(mux, http.MethodPost, "/api/samples/location", `{not json`)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	var payload errorPayload
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &payload))
	assert.NotEmpty(t, payload.Error)
	assert.NotEmpty(t, payload.Timestamp)
}

func TestListTrips(t *testing.T) {
	srv, mux := newTestServer(t)

	// Seed two finished trips directly.
	base := time.Date(2026, 3, 2, 8, 0, 0, 0, time.UTC)
	for i, id := range []string{"t1", "t2"} {
		rec := trip.Record{
			ID:        id,
			StartTime: base.Add(time.Duration(i) * time.Hour),
			EndTime:   base.Add(time.Duration(i)*time.Hour + 30*time.Minute),
			Validity:  trip.Valid,
			Mode:      trip.ModeCar,
		}
		require.NoError(t, srv.trips.SaveTrip(context.Background(), rec))
	}

	w := doJSON(mux, http.MethodGet, "/api/trips", "")
	require.Equal(t, http.StatusOK, w.Code)
	var recs []trip.Record
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &recs))
	require.Len(t, recs, 2)
	assert.Equal(t, "t2", recs[0].ID, "newest first")

	w = doJSON(mux, http.MethodGet, "/api/trips?limit=1", "")
	require.Equal(t, http.StatusOK, w.Code)
	recs = nil
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &recs))
	assert.Len(t, recs, 1)
}

func TestListTripsRejectsBadLimit(t *testing.T) {
	_, mux := newTestServer(t)
	w := doJSON(mux, http.MethodGet, "/api/trips?limit=abc", "")
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestGetTripNotFound(t *testing.T) {
	_, mux := newTestServer(t)
	w := doJSON(mux, http.MethodGet, "/api/trips/does-not-exist", "")
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestGetTripMissingID(t *testing.T) {
	_, mux := newTestServer(t)
	w := doJSON(mux, http.MethodGet, "/api/trips/", "")
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestRouteWithoutRouterConflicts(t *testing.T) {
	_, mux := newTestServer(t)
	w := doJSON(mux, http.MethodPost, "/api/route", `{"destination":{"lat":59.03,"lng":18.0}}`)
	assert.Equal(t, http.StatusConflict, w.Code)

	var payload errorPayload
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &payload))
	assert.Equal(t, ErrNoRouteService.Error(), payload.Error)
}
