package graph

import (
	"errors"
	"reflect"
	"testing"

	"roadnet/pkg/geo"
)

// triangleInput builds:
//
//	1 ---a--- 2
//	 \       /
//	  c     b
//	   \   /
//	     3
//
// Road 10 ("Queen Street") holds a and b, road 20 ("Karangahape Road", one-way) holds c (3 -> 1).
func triangleInput() *Input {
	return &Input{
		Intersections: []IntersectionRecord{
			{ID: 3, Lat: -36.86, Lon: 174.76},
			{ID: 1, Lat: -36.84, Lon: 174.76},
			{ID: 2, Lat: -36.84, Lon: 174.78},
		},
		Roads: []RoadRecord{
			{ID: 20, Name: "karangahape road", City: "auckland", OneWay: true, SpeedClass: 3},
			{ID: 10, Name: "queen street", City: "auckland", SpeedClass: 2, NotForCar: true},
		},
		Segments: []SegmentRecord{
			{RoadID: 10, Length: 1.8, EndpointA: 1, EndpointB: 2,
				Coords: []geo.LatLon{{Lat: -36.84, Lon: 174.76}, {Lat: -36.84, Lon: 174.78}}},
			{RoadID: 10, Length: 2.2, EndpointA: 2, EndpointB: 3,
				Coords: []geo.LatLon{{Lat: -36.84, Lon: 174.78}, {Lat: -36.86, Lon: 174.76}}},
			{RoadID: 20, Length: 2.2, EndpointA: 3, EndpointB: 1,
				Coords: []geo.LatLon{{Lat: -36.86, Lon: 174.76}, {Lat: -36.84, Lon: 174.76}}},
		},
	}
}

func TestBuildTriangle(t *testing.T) {
	g, report := Build(triangleInput())

	if len(report.Warnings) != 0 {
		t.Fatalf("unexpected warnings: %v", report.Warnings)
	}
	if g.NumIntersections() != 3 || g.Roads.Len() != 2 || len(g.Segments) != 3 {
		t.Fatalf("got %d intersections, %d roads, %d segments", g.NumIntersections(), g.Roads.Len(), len(g.Segments))
	}

	// Registries are sorted by ID.
	for i := 0; i < 3; i++ {
		if g.Node(i).ID != i+1 {
			t.Errorf("Node(%d).ID = %d, want %d", i, g.Node(i).ID, i+1)
		}
		if g.Node(i).Index() != i {
			t.Errorf("Node(%d).Index() = %d", i, g.Node(i).Index())
		}
	}

	// Every intersection has exactly two incident segments.
	for _, n := range g.Intersections.All() {
		if len(n.Incident) != 2 {
			t.Errorf("intersection %d has %d incident segments, want 2", n.ID, len(n.Incident))
		}
	}

	road, ok := g.Road(20)
	if !ok {
		t.Fatal("road 20 missing")
	}
	seg := g.Segments[road.Segments[0]]
	if !seg.OneWay || seg.SpeedKmh != 60 || seg.RoadName != "karangahape road, auckland" {
		t.Errorf("segment attributes not copied from road: %+v", seg)
	}
	if seg.AccurateLength <= 0 {
		t.Errorf("AccurateLength = %f, want > 0", seg.AccurateLength)
	}
}

func TestBuildMissingIntersection(t *testing.T) {
	in := triangleInput()
	in.Segments = append(in.Segments, SegmentRecord{RoadID: 10, Length: 1, EndpointA: 2, EndpointB: 99})

	g, report := Build(in)

	if report.Disconnected != 1 {
		t.Errorf("Disconnected = %d, want 1", report.Disconnected)
	}
	if len(report.Warnings) != 1 || !errors.Is(report.Warnings[0], ErrIntersectionNotFound) {
		t.Fatalf("Warnings = %v, want one ErrIntersectionNotFound", report.Warnings)
	}

	// The segment stays connected on the side that resolved.
	last := g.Segments[len(g.Segments)-1]
	if last.From < 0 || last.To != noIntersection {
		t.Errorf("From=%d To=%d, want From resolved and To unresolved", last.From, last.To)
	}
	n2, _ := g.Intersection(2)
	if len(n2.Incident) != 3 {
		t.Errorf("intersection 2 has %d incident segments, want 3", len(n2.Incident))
	}
	if _, ok := g.Opposite(last.Index, n2.Index(), false); ok {
		t.Error("Opposite across an unresolved endpoint should fail")
	}
}

func TestBuildMissingRoadAndDuplicates(t *testing.T) {
	in := triangleInput()
	in.Intersections = append(in.Intersections, IntersectionRecord{ID: 1, Lat: 0, Lon: 0})
	in.Roads = append(in.Roads, RoadRecord{ID: 10, Name: "shadow"})
	in.Segments = append(in.Segments, SegmentRecord{RoadID: 77, EndpointA: 1, EndpointB: 2})

	g, report := Build(in)

	var dup, missing int
	for _, w := range report.Warnings {
		switch {
		case errors.Is(w, ErrDuplicateID):
			dup++
		case errors.Is(w, ErrRoadNotFound):
			missing++
		}
	}
	if dup != 2 || missing != 1 {
		t.Errorf("dup=%d missing=%d, want 2 and 1 (warnings: %v)", dup, missing, report.Warnings)
	}
	if len(g.Segments) != 3 {
		t.Errorf("segments = %d, want 3", len(g.Segments))
	}
	r, _ := g.Road(10)
	if r.Name != "queen street" {
		t.Errorf("first road record should win, got %q", r.Name)
	}
}

func TestBuildDeterministic(t *testing.T) {
	g1, _ := Build(triangleInput())
	g2, _ := Build(triangleInput())

	for i := 0; i < g1.NumIntersections(); i++ {
		if !reflect.DeepEqual(g1.Node(i).Incident, g2.Node(i).Incident) {
			t.Errorf("intersection %d adjacency differs: %v vs %v", g1.Node(i).ID, g1.Node(i).Incident, g2.Node(i).Incident)
		}
	}
}

func TestBuildLoopSegmentRegisteredOnce(t *testing.T) {
	in := triangleInput()
	in.Segments = append(in.Segments, SegmentRecord{RoadID: 10, Length: 0.3, EndpointA: 3, EndpointB: 3})

	g, _ := Build(in)
	n3, _ := g.Intersection(3)
	if len(n3.Incident) != 3 {
		t.Errorf("intersection 3 has %d incident segments, want 3", len(n3.Incident))
	}
}

func TestOppositeOneWay(t *testing.T) {
	g, _ := Build(triangleInput())
	road, _ := g.Road(20)
	si := road.Segments[0] // 3 -> 1, one-way
	n1, _ := g.Intersection(1)
	n3, _ := g.Intersection(3)

	if got, ok := g.Opposite(si, n3.Index(), true); !ok || got != n1.Index() {
		t.Errorf("forward traversal refused")
	}
	if _, ok := g.Opposite(si, n1.Index(), true); ok {
		t.Errorf("traversal against one-way allowed in directional mode")
	}
	if got, ok := g.Opposite(si, n1.Index(), false); !ok || got != n3.Index() {
		t.Errorf("undirected traversal refused")
	}
}

func TestDetails(t *testing.T) {
	g, _ := Build(triangleInput())

	r, _ := g.Road(10)
	if got, want := r.Details(), "queen street, auckland\nNo Car Access"; got != want {
		t.Errorf("Details = %q, want %q", got, want)
	}
	r20, _ := g.Road(20)
	if got, want := r20.Details(), "karangahape road, auckland\nOneway Road"; got != want {
		t.Errorf("Details = %q, want %q", got, want)
	}

	n1, _ := g.Intersection(1)
	want := "1\nqueen street, auckland\nkarangahape road, auckland"
	if got := g.IntersectionDetails(n1); got != want {
		t.Errorf("IntersectionDetails = %q, want %q", got, want)
	}
}

func TestSpeedForClass(t *testing.T) {
	want := map[int]int{0: 0, 1: 20, 2: 40, 3: 60, 4: 80, 5: 100, 6: 110, 7: 120, 8: 0, -1: 0}
	for class, kmh := range want {
		if got := SpeedForClass(class); got != kmh {
			t.Errorf("SpeedForClass(%d) = %d, want %d", class, got, kmh)
		}
	}
}

func TestNearest(t *testing.T) {
	g, _ := Build(triangleInput())

	n, ok := g.Nearest(geo.Project(-36.859, 174.761))
	if !ok || n.ID != 3 {
		t.Errorf("Nearest = %v, want intersection 3", n)
	}
	n, ok = g.Nearest(geo.Project(-36.84, 174.779))
	if !ok || n.ID != 2 {
		t.Errorf("Nearest = %v, want intersection 2", n)
	}

	empty, _ := Build(&Input{})
	if _, ok := empty.Nearest(geo.Point{1, 1}); ok {
		t.Error("Nearest on empty graph returned a result")
	}
}
