package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"time"

	"roadnet/pkg/graph"
	osmparser "roadnet/pkg/osm"
	"roadnet/pkg/tabfile"
)

func main() {
	dataDir := flag.String("data", "", "Directory holding the .tab map files")
	osmPath := flag.String("osm", "", "Path to .osm.pbf file")
	output := flag.String("output", "graph.bin", "Output snapshot file path")
	bbox := flag.String("bbox", "", "Bounding box filter for -osm: minLat,minLng,maxLat,maxLng (e.g. -37.1,174.5,-36.7,175.0)")
	flag.Parse()

	if (*dataDir == "") == (*osmPath == "") {
		fmt.Fprintln(os.Stderr, "Usage: preprocess (--data <dir> | --osm <file.osm.pbf> [--bbox minLat,minLng,maxLat,maxLng]) [--output graph.bin]")
		os.Exit(1)
	}

	start := time.Now()

	// Step 1: Read input records.
	var in *graph.Input
	if *dataDir != "" {
		log.Printf("Reading map files from %s...", *dataDir)
		var err error
		in, _, err = tabfile.Load(*dataDir)
		if err != nil {
			log.Fatalf("Failed to load map files: %v", err)
		}
	} else {
		var opts osmparser.ParseOptions
		if *bbox != "" {
			var minLat, minLng, maxLat, maxLng float64
			_, err := fmt.Sscanf(*bbox, "%f,%f,%f,%f", &minLat, &minLng, &maxLat, &maxLng)
			if err != nil {
				log.Fatalf("Invalid bbox format (expected minLat,minLng,maxLat,maxLng): %v", err)
			}
			opts.BBox = osmparser.BBox{MinLat: minLat, MaxLat: maxLat, MinLng: minLng, MaxLng: maxLng}
			log.Printf("Using bounding box filter: lat [%.4f, %.4f], lng [%.4f, %.4f]", minLat, maxLat, minLng, maxLng)
		}

		log.Println("Opening OSM file...")
		f, err := os.Open(*osmPath)
		if err != nil {
			log.Fatalf("Failed to open input file: %v", err)
		}
		defer f.Close()

		log.Println("Parsing OSM data...")
		in, err = osmparser.Parse(context.Background(), f, opts)
		if err != nil {
			log.Fatalf("Failed to parse OSM data: %v", err)
		}
	}

	// Step 2: Build once to validate and report.
	log.Println("Building graph...")
	g, report := graph.Build(in)
	stats := graph.Components(g)
	log.Printf("Components: %d (largest %d intersections, %.1f%%)", stats.Count, stats.Largest,
		float64(stats.Largest)/float64(max(report.Intersections, 1))*100)

	// Step 3: Serialize to binary.
	log.Printf("Writing snapshot to %s...", *output)
	if err := graph.WriteBinary(*output, in); err != nil {
		log.Fatalf("Failed to write snapshot: %v", err)
	}

	info, _ := os.Stat(*output)
	elapsed := time.Since(start)
	log.Printf("Done in %s. Output: %s (%.1f MB)", elapsed.Round(time.Millisecond), *output, float64(info.Size())/(1024*1024))
}
