// Package osm imports an OpenStreetMap PBF extract as road network records.
package osm

import (
	"context"
	"fmt"
	"io"
	"log"
	"sort"

	"github.com/paulmach/osm"
	"github.com/paulmach/osm/osmpbf"

	"roadnet/pkg/geo"
	"roadnet/pkg/graph"
)

// wayInfo holds parsed way data collected during Pass 1.
type wayInfo struct {
	Road    graph.RoadRecord
	NodeIDs []osm.NodeID
}

// BBox defines a geographic bounding box for filtering.
// If non-zero, only segments with both endpoints inside the box are kept.
type BBox struct {
	MinLat, MaxLat float64
	MinLng, MaxLng float64
}

// IsZero returns true if the bbox is unset.
func (b BBox) IsZero() bool {
	return b.MinLat == 0 && b.MaxLat == 0 && b.MinLng == 0 && b.MaxLng == 0
}

// Contains returns true if the point is inside the bounding box.
func (b BBox) Contains(lat, lng float64) bool {
	return lat >= b.MinLat && lat <= b.MaxLat && lng >= b.MinLng && lng <= b.MaxLng
}

// ParseOptions configures the OSM parser.
type ParseOptions struct {
	BBox BBox // if non-zero, filter segments to this bounding box
}

// Parse reads an OSM PBF file and returns one road per highway way and one
// segment per consecutive node pair. The reader is consumed twice (seeks
// back to start for the second pass), so it must implement io.ReadSeeker.
func Parse(ctx context.Context, rs io.ReadSeeker, opts ...ParseOptions) (*graph.Input, error) {
	var opt ParseOptions
	if len(opts) > 0 {
		opt = opts[0]
	}

	// Pass 1: Scan ways to collect referenced node IDs and road records.
	referencedNodes := make(map[osm.NodeID]struct{})
	var ways []wayInfo

	scanner := osmpbf.New(ctx, rs, 1)
	scanner.SkipNodes = true
	scanner.SkipRelations = true

	for scanner.Scan() {
		w, ok := scanner.Object().(*osm.Way)
		if !ok {
			continue
		}

		road, nodeIDs, ok := roadFromWay(w)
		if !ok {
			continue
		}
		for _, id := range nodeIDs {
			referencedNodes[id] = struct{}{}
		}
		ways = append(ways, wayInfo{Road: road, NodeIDs: nodeIDs})
	}
	if err := scanner.Err(); err != nil {
		scanner.Close()
		return nil, fmt.Errorf("pass 1 (ways): %w", err)
	}
	scanner.Close()

	log.Printf("Pass 1 complete: %d ways, %d referenced nodes", len(ways), len(referencedNodes))

	// Pass 2: Scan nodes to collect coordinates for referenced nodes only.
	if _, err := rs.Seek(0, io.SeekStart); err != nil {
		return nil, fmt.Errorf("seek for pass 2: %w", err)
	}

	coords := make(map[osm.NodeID]geo.LatLon, len(referencedNodes))

	scanner = osmpbf.New(ctx, rs, 1)
	scanner.SkipWays = true
	scanner.SkipRelations = true

	for scanner.Scan() {
		n, ok := scanner.Object().(*osm.Node)
		if !ok {
			continue
		}
		if _, needed := referencedNodes[n.ID]; !needed {
			continue
		}
		coords[n.ID] = geo.LatLon{Lat: n.Lat, Lon: n.Lon}
	}
	if err := scanner.Err(); err != nil {
		scanner.Close()
		return nil, fmt.Errorf("pass 2 (nodes): %w", err)
	}
	scanner.Close()

	log.Printf("Pass 2 complete: %d node coordinates collected", len(coords))

	return assemble(ways, coords, opt), nil
}

// assemble turns the collected ways and coordinates into load input. Only
// nodes used by a kept segment become intersections; roads left without
// segments are dropped.
func assemble(ways []wayInfo, coords map[osm.NodeID]geo.LatLon, opt ParseOptions) *graph.Input {
	useBBox := !opt.BBox.IsZero()
	in := &graph.Input{}
	used := make(map[osm.NodeID]struct{})
	var skippedSegments, bboxFiltered int

	for _, w := range ways {
		kept := 0
		for i := 0; i < len(w.NodeIDs)-1; i++ {
			fromID := w.NodeIDs[i]
			toID := w.NodeIDs[i+1]

			from, fromOk := coords[fromID]
			to, toOk := coords[toID]
			if !fromOk || !toOk {
				skippedSegments++
				continue
			}

			// Bounding box filter: skip segments with any endpoint outside.
			if useBBox && (!opt.BBox.Contains(from.Lat, from.Lon) || !opt.BBox.Contains(to.Lat, to.Lon)) {
				bboxFiltered++
				continue
			}

			in.Segments = append(in.Segments, graph.SegmentRecord{
				RoadID:    w.Road.ID,
				Length:    geo.HaversineKm(from.Lat, from.Lon, to.Lat, to.Lon),
				EndpointA: int(fromID),
				EndpointB: int(toID),
				Coords:    []geo.LatLon{from, to},
			})
			used[fromID] = struct{}{}
			used[toID] = struct{}{}
			kept++
		}
		if kept > 0 {
			in.Roads = append(in.Roads, w.Road)
		}
	}

	in.Intersections = make([]graph.IntersectionRecord, 0, len(used))
	for id := range used {
		c := coords[id]
		in.Intersections = append(in.Intersections, graph.IntersectionRecord{ID: int(id), Lat: c.Lat, Lon: c.Lon})
	}
	sort.Slice(in.Intersections, func(i, j int) bool {
		return in.Intersections[i].ID < in.Intersections[j].ID
	})

	if skippedSegments > 0 {
		log.Printf("Warning: skipped %d segments due to missing node coordinates", skippedSegments)
	}
	if bboxFiltered > 0 {
		log.Printf("Filtered %d segments outside bounding box", bboxFiltered)
	}
	log.Printf("Built %d intersections, %d roads, %d segments",
		len(in.Intersections), len(in.Roads), len(in.Segments))

	return in
}
