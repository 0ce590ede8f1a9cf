package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"

	"roadnet/pkg/geo"
	"roadnet/pkg/graph"
	"roadnet/pkg/routing"
	"roadnet/pkg/tabfile"
)

func main() {
	graphPath := flag.String("graph", "", "Path to preprocessed graph snapshot")
	dataDir := flag.String("data", "", "Directory holding the .tab map files")
	route := flag.String("route", "", "Find a route between two intersection IDs: from,to")
	speed := flag.Bool("speed", false, "Weight the route by travel time instead of distance")
	root := flag.String("articulation", "", "List choke points, starting the search at this intersection ID")
	search := flag.String("search", "", "List up to ten roads whose name starts with this prefix")
	near := flag.String("near", "", "Find the intersection nearest to projected coordinates: x,y")
	flag.Parse()

	if (*graphPath == "") == (*dataDir == "") {
		fmt.Fprintln(os.Stderr, "Usage: mapquery (--graph graph.bin | --data <dir>) [--route a,b [--speed]] [--articulation id] [--search prefix] [--near x,y]")
		os.Exit(1)
	}

	var in *graph.Input
	var err error
	if *dataDir != "" {
		in, _, err = tabfile.Load(*dataDir)
	} else {
		in, err = graph.ReadBinary(*graphPath)
	}
	if err != nil {
		log.Fatalf("Failed to load map: %v", err)
	}

	g, _ := graph.Build(in)
	engine := routing.NewEngine(g)
	ctx := context.Background()

	if *route != "" {
		from, to, err := parsePair(*route, strconv.Atoi)
		if err != nil {
			log.Fatalf("Invalid -route (expected from,to): %v", err)
		}
		res, err := engine.Route(ctx, from, to, *speed)
		switch {
		case errors.Is(err, routing.ErrNoRoute):
			fmt.Println("No route found")
		case err != nil:
			log.Fatalf("Route: %v", err)
		default:
			for _, leg := range res.Summary {
				fmt.Println(leg)
			}
			fmt.Printf("Total: %.2fkm over %d segments\n", res.Length, len(res.Segments))
		}
	}

	if *root != "" {
		id, err := strconv.Atoi(*root)
		if err != nil {
			log.Fatalf("Invalid -articulation: %v", err)
		}
		points, err := engine.ArticulationPoints(ctx, id)
		if err != nil {
			log.Fatalf("Articulation points: %v", err)
		}
		fmt.Printf("%d articulation points\n", len(points))
		for _, n := range points {
			fmt.Println(n.ID)
		}
	}

	if *search != "" {
		for _, r := range engine.SearchRoads(*search) {
			fmt.Println(strings.ReplaceAll(r.Details(), "\n", " | "))
		}
	}

	if *near != "" {
		x, y, err := parsePair(*near, func(s string) (float64, error) { return strconv.ParseFloat(s, 64) })
		if err != nil {
			log.Fatalf("Invalid -near (expected x,y): %v", err)
		}
		n, ok := engine.Nearest(geo.Point{x, y})
		if !ok {
			fmt.Println("Map has no intersections")
		} else if info, ok := engine.Intersection(n.ID); ok {
			fmt.Println(info.Details)
		}
	}
}

func parsePair[T any](s string, parse func(string) (T, error)) (T, T, error) {
	var zero T
	a, b, ok := strings.Cut(s, ",")
	if !ok {
		return zero, zero, fmt.Errorf("missing comma in %q", s)
	}
	first, err := parse(strings.TrimSpace(a))
	if err != nil {
		return zero, zero, err
	}
	second, err := parse(strings.TrimSpace(b))
	if err != nil {
		return zero, zero, err
	}
	return first, second, nil
}
