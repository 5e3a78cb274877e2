package main

import (
	"flag"
	"log"

	lib "github.com/theoremus-urban-solutions/drive-telemetry"
	"github.com/theoremus-urban-solutions/drive-telemetry/config"
	"github.com/theoremus-urban-solutions/drive-telemetry/directions"
	"github.com/theoremus-urban-solutions/drive-telemetry/roadctx"
	"github.com/theoremus-urban-solutions/drive-telemetry/store"
	"github.com/theoremus-urban-solutions/drive-telemetry/stream"
)

func main() {
	configPath := flag.String("config", "", "path to config.yml (default: ./config.yml)")
	dbPath := flag.String("db", "", "trip database path (overrides config)")
	port := flag.Int("port", 0, "listen port (overrides config)")
	flag.Parse()

	lib.InitLogging()

	var cfg config.AppConfig
	var err error
	if *configPath != "" {
		cfg, err = config.Load(*configPath)
	} else {
		cfg, err = config.Load()
	}
	if err != nil {
		log.Printf("config not loaded (%v), using defaults", err)
		cfg = config.Default()
	}
	if *dbPath != "" {
		cfg.Storage.Path = *dbPath
	}
	if *port != 0 {
		cfg.Server.Port = *port
	}

	trips, err := store.Open(cfg.Storage.Path)
	if err != nil {
		log.Fatalf("open trip store: %v", err)
	}
	defer func() { _ = trips.Close() }()

	hub := stream.NewHub()
	pipeline := lib.NewPipeline(cfg, lib.Collaborators{
		Roads:    roadctx.NewClient(cfg.RoadContext),
		Router:   directions.NewClient(cfg.Directions),
		Sink:     trips,
		Events:   hub,
		Feedback: hub,
	})
	go pipeline.Run()

	server := lib.NewServer(cfg, pipeline, trips, hub)
	server.Start()
	server.HandleGracefulShutdown()
}
