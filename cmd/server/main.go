package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"strconv"
	"time"

	"roadnet/pkg/api"
	"roadnet/pkg/graph"
	"roadnet/pkg/routing"
	"roadnet/pkg/tabfile"
)

func main() {
	graphPath := flag.String("graph", "graph.bin", "Path to preprocessed graph snapshot")
	dataDir := flag.String("data", "", "Load .tab map files from this directory instead of a snapshot")
	port := flag.Int("port", 0, "HTTP port (default $PORT or 8080)")
	corsOrigin := flag.String("cors-origin", "", "CORS allowed origin (empty = same-origin)")
	maxConcurrent := flag.Int("max-concurrent", 0, "Maximum concurrent requests (0 = 2 x CPUs)")
	queryTimeout := flag.Duration("query-timeout", 5*time.Second, "Per-request query timeout")
	flag.Parse()

	start := time.Now()

	// Load input records.
	var in *graph.Input
	var err error
	if *dataDir != "" {
		log.Printf("Loading map files from %s...", *dataDir)
		in, _, err = tabfile.Load(*dataDir)
	} else {
		log.Printf("Loading snapshot from %s...", *graphPath)
		in, err = graph.ReadBinary(*graphPath)
	}
	if err != nil {
		log.Fatalf("Failed to load map: %v", err)
	}

	// Build graph and routing engine.
	g, report := graph.Build(in)
	log.Println("Building name index...")
	engine := routing.NewEngine(g)
	components := graph.Components(g)

	log.Printf("Ready in %s", time.Since(start).Round(time.Millisecond))

	// Setup HTTP server.
	addr := fmt.Sprintf(":%d", resolvePort(*port))
	cfg := api.DefaultConfig(addr)
	cfg.CORSOrigin = *corsOrigin
	cfg.QueryTimeout = *queryTimeout
	if *maxConcurrent > 0 {
		cfg.MaxConcurrent = *maxConcurrent
	}

	stats := api.StatsResponse{
		Intersections:    report.Intersections,
		Roads:            report.Roads,
		Segments:         report.Segments,
		Components:       components.Count,
		LargestComponent: components.Largest,
	}

	handlers := api.NewHandlers(engine, stats)
	srv := api.NewServer(cfg, handlers)

	if err := api.ListenAndServe(srv); err != nil {
		log.Printf("Server stopped: %v", err)
		os.Exit(1)
	}
}

// resolvePort prefers the flag, then $PORT, then 8080.
func resolvePort(flagPort int) int {
	if flagPort > 0 {
		return flagPort
	}
	if p, err := strconv.Atoi(os.Getenv("PORT")); err == nil && p > 0 {
		return p
	}
	return 8080
}
