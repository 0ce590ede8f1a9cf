package osm

import (
	"testing"

	"github.com/paulmach/osm"

	"roadnet/pkg/geo"
	"roadnet/pkg/graph"
)

func TestAssemble(t *testing.T) {
	ways := []wayInfo{
		{Road: graph.RoadRecord{ID: 100, Name: "a"}, NodeIDs: []osm.NodeID{1, 2, 3}},
		{Road: graph.RoadRecord{ID: 200, Name: "b"}, NodeIDs: []osm.NodeID{3, 4}},
		{Road: graph.RoadRecord{ID: 300, Name: "c"}, NodeIDs: []osm.NodeID{5, 6}}, // 6 has no coordinates
	}
	coords := map[osm.NodeID]geo.LatLon{
		1: {Lat: 1.30, Lon: 103.80},
		2: {Lat: 1.31, Lon: 103.80},
		3: {Lat: 1.31, Lon: 103.81},
		4: {Lat: 1.32, Lon: 103.81},
		5: {Lat: 1.33, Lon: 103.82},
	}

	in := assemble(ways, coords, ParseOptions{})

	if len(in.Segments) != 3 {
		t.Fatalf("got %d segments, want 3", len(in.Segments))
	}
	if len(in.Roads) != 2 {
		t.Errorf("got %d roads, want 2 (road without segments dropped)", len(in.Roads))
	}
	if len(in.Intersections) != 4 {
		t.Fatalf("got %d intersections, want 4", len(in.Intersections))
	}
	for i, rec := range in.Intersections {
		if rec.ID != i+1 {
			t.Errorf("intersection %d has ID %d, want %d", i, rec.ID, i+1)
		}
	}

	seg := in.Segments[0]
	if seg.RoadID != 100 || seg.EndpointA != 1 || seg.EndpointB != 2 || len(seg.Coords) != 2 {
		t.Errorf("segment = %+v", seg)
	}
	// 0.01 degrees of latitude is about 1.11 km.
	if seg.Length < 1.10 || seg.Length > 1.12 {
		t.Errorf("Length = %f, want about 1.11", seg.Length)
	}

	g, report := graph.Build(in)
	if len(report.Warnings) != 0 {
		t.Errorf("Build warnings: %v", report.Warnings)
	}
	if g.NumIntersections() != 4 {
		t.Errorf("graph has %d intersections", g.NumIntersections())
	}
}

func TestAssembleBBox(t *testing.T) {
	ways := []wayInfo{
		{Road: graph.RoadRecord{ID: 1}, NodeIDs: []osm.NodeID{1, 2, 3}},
	}
	coords := map[osm.NodeID]geo.LatLon{
		1: {Lat: 1.30, Lon: 103.80},
		2: {Lat: 1.31, Lon: 103.80},
		3: {Lat: 2.00, Lon: 104.00},
	}
	opt := ParseOptions{BBox: BBox{MinLat: 1.0, MaxLat: 1.5, MinLng: 103.5, MaxLng: 104.5}}

	in := assemble(ways, coords, opt)

	if len(in.Segments) != 1 {
		t.Fatalf("got %d segments, want 1", len(in.Segments))
	}
	if len(in.Intersections) != 2 {
		t.Errorf("got %d intersections, want 2", len(in.Intersections))
	}
}

func TestBBox(t *testing.T) {
	var zero BBox
	if !zero.IsZero() {
		t.Error("zero BBox should report IsZero")
	}
	b := BBox{MinLat: 1, MaxLat: 2, MinLng: 103, MaxLng: 104}
	if b.IsZero() {
		t.Error("non-zero BBox reported IsZero")
	}
	if !b.Contains(1.5, 103.5) || b.Contains(0.5, 103.5) || b.Contains(1.5, 105) {
		t.Error("Contains gave the wrong answer")
	}
}
