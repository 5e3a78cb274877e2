package drivetelemetry

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/theoremus-urban-solutions/drive-telemetry/config"
	"github.com/theoremus-urban-solutions/drive-telemetry/store"
	"github.com/theoremus-urban-solutions/drive-telemetry/stream"
)

// Server exposes the pipeline over HTTP: sample ingestion, trip lifecycle,
// stored trip queries and the live event stream.
type Server struct {
	cfg      config.AppConfig
	pipeline *Pipeline
	trips    *store.Store
	hub      *stream.Hub

	httpServer *http.Server
}

// NewServer wires the HTTP surface around a running pipeline.
func NewServer(cfg config.AppConfig, p *Pipeline, trips *store.Store, hub *stream.Hub) *Server {
	return &Server{cfg: cfg, pipeline: p, trips: trips, hub: hub}
}

// routes builds the HTTP mux for this server.
func (s *Server) routes() *http.ServeMux {
	mux := http.NewServeMux()
	mux.HandleFunc("/api/health", s.handleHealth)
	mux.HandleFunc("/api/status", s.handleStatus)
	mux.HandleFunc("/api/trip/start", s.handleTripStart)
	mux.HandleFunc("/api/trip/stop", s.handleTripStop)
	mux.HandleFunc("/api/route", s.handleRoute)
	mux.HandleFunc("/api/samples/location", s.handleLocationSample)
	mux.HandleFunc("/api/samples/motion", s.handleMotionSample)
	mux.HandleFunc("/api/samples/orientation", s.handleOrientationSample)
	mux.HandleFunc("/api/samples/interaction", s.handleInteractionSample)
	mux.HandleFunc("/api/trips", s.handleListTrips)
	mux.HandleFunc("/api/trips/", s.handleGetTrip)
	if s.hub != nil {
		mux.HandleFunc("/api/stream", s.hub.ServeWS)
	}
	return mux
}

// Start begins serving in a background goroutine.
func (s *Server) Start() {
	addr := fmt.Sprintf(":%d", s.cfg.Server.Port)
	s.httpServer = &http.Server{
		Addr:              addr,
		Handler:           s.routes(),
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       10 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       60 * time.Second,
	}
	go func() {
		if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("server error: %v", err)
		}
	}()
	log.Printf("server listening on %s", addr)
}

// HandleGracefulShutdown blocks until SIGINT/SIGTERM, then drains the HTTP
// server and stops the pipeline.
func (s *Server) HandleGracefulShutdown() {
	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM)
	<-sigs
	log.Printf("shutdown signal received")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if s.httpServer != nil {
		if err := s.httpServer.Shutdown(ctx); err != nil {
			log.Printf("server shutdown error: %v", err)
		} else {
			log.Printf("server shut down successfully")
		}
	}
	s.pipeline.Shutdown()
}
