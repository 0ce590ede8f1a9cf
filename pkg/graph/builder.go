package graph

import (
	"errors"
	"fmt"
	"log"

	"github.com/paulmach/orb"

	"roadnet/pkg/geo"
)

var (
	// ErrIntersectionNotFound is reported when a segment names an unknown intersection.
	ErrIntersectionNotFound = errors.New("intersection not found")
	// ErrRoadNotFound is reported when a segment names an unknown road.
	ErrRoadNotFound = errors.New("road not found")
	// ErrDuplicateID is reported when two records share an ID.
	ErrDuplicateID = errors.New("duplicate id")
)

// IntersectionRecord is one row of intersection input.
type IntersectionRecord struct {
	ID  int
	Lat float64
	Lon float64
}

// RoadRecord is one row of road input.
type RoadRecord struct {
	ID               int
	Type             int
	Name             string
	City             string
	OneWay           bool
	SpeedClass       int
	RoadClass        bool
	NotForCar        bool
	NotForPedestrian bool
	NotForBicycle    bool
}

// SegmentRecord is one row of segment input.
type SegmentRecord struct {
	RoadID    int
	Length    float64 // km
	EndpointA int
	EndpointB int
	Coords    []geo.LatLon
}

// Input is everything needed to build a Graph.
type Input struct {
	Intersections []IntersectionRecord
	Roads         []RoadRecord
	Segments      []SegmentRecord
}

// BuildReport summarises a Build. Warnings are non-fatal and wrap one of
// the package sentinel errors.
type BuildReport struct {
	Intersections int
	Roads         int
	Segments      int
	Disconnected  int // segments with at least one unresolved endpoint
	Warnings      []error
}

func (r *BuildReport) warn(err error) {
	r.Warnings = append(r.Warnings, err)
}

// Build creates the graph from raw records. Bad records are reported and
// skipped; Build itself never fails.
func Build(in *Input) (*Graph, *BuildReport) {
	report := &BuildReport{}

	// Step 1: Intersection registry.
	nb := NewRegistryBuilder[*Intersection](len(in.Intersections))
	for _, rec := range in.Intersections {
		nb.Add(&Intersection{
			ID:       rec.ID,
			Location: geo.Project(rec.Lat, rec.Lon),
			Coord:    geo.LatLon{Lat: rec.Lat, Lon: rec.Lon},
		})
	}
	for _, id := range nb.Duplicates() {
		report.warn(fmt.Errorf("intersection %d: %w", id, ErrDuplicateID))
	}
	nodes := nb.Sort()
	for i, n := range nodes.All() {
		n.index = i
	}

	// Step 2: Road registry.
	rb := NewRegistryBuilder[*Road](len(in.Roads))
	for _, rec := range in.Roads {
		rb.Add(&Road{
			ID:               rec.ID,
			Type:             rec.Type,
			Name:             rec.Name,
			City:             rec.City,
			OneWay:           rec.OneWay,
			SpeedClass:       rec.SpeedClass,
			RoadClass:        rec.RoadClass,
			NotForCar:        rec.NotForCar,
			NotForPedestrian: rec.NotForPedestrian,
			NotForBicycle:    rec.NotForBicycle,
		})
	}
	for _, id := range rb.Duplicates() {
		report.warn(fmt.Errorf("road %d: %w", id, ErrDuplicateID))
	}
	roads := rb.Sort()

	g := &Graph{
		Intersections: nodes,
		Roads:         roads,
		Segments:      make([]Segment, 0, len(in.Segments)),
	}

	// Step 3: Attach segments to their roads.
	for i := range in.Segments {
		rec := &in.Segments[i]
		road, ok := roads.Get(rec.RoadID)
		if !ok {
			report.warn(fmt.Errorf("segment %d: road %d: %w", i, rec.RoadID, ErrRoadNotFound))
			continue
		}

		polyline := make(orb.LineString, len(rec.Coords))
		for j, c := range rec.Coords {
			polyline[j] = geo.Project(c.Lat, c.Lon)
		}

		idx := len(g.Segments)
		g.Segments = append(g.Segments, Segment{
			Index:          idx,
			RoadID:         road.ID,
			Length:         rec.Length,
			AccurateLength: geo.PolylineLength(polyline),
			EndpointA:      rec.EndpointA,
			EndpointB:      rec.EndpointB,
			From:           noIntersection,
			To:             noIntersection,
			Polyline:       polyline,
			Coords:         rec.Coords,
			RoadName:       road.Label(),
			OneWay:         road.OneWay,
			SpeedKmh:       road.SpeedKmh(),
		})
		road.Segments = append(road.Segments, idx)
	}

	// Step 4: Wire segments to intersections.
	g.connect(report)

	// Step 5: Spatial index for nearest-intersection lookups.
	g.spatial = newSpatialIndex(nodes)

	report.Intersections = nodes.Len()
	report.Roads = roads.Len()
	report.Segments = len(g.Segments)

	for _, w := range report.Warnings {
		log.Printf("Warning: %v", w)
	}
	log.Printf("Graph: %d intersections, %d roads, %d segments (%d disconnected)",
		report.Intersections, report.Roads, report.Segments, report.Disconnected)

	return g, report
}

// connect resolves every segment's endpoints and registers the segment on
// each resolved intersection. It is the only place adjacency is written.
func (g *Graph) connect(report *BuildReport) {
	for _, road := range g.Roads.All() {
		for _, si := range road.Segments {
			s := &g.Segments[si]

			if a, ok := g.Intersections.Get(s.EndpointA); ok {
				s.From = a.index
				a.Incident = append(a.Incident, si)
			} else {
				report.warn(fmt.Errorf("segment %d of road %d: intersection %d: %w",
					si, road.ID, s.EndpointA, ErrIntersectionNotFound))
			}

			if b, ok := g.Intersections.Get(s.EndpointB); ok {
				s.To = b.index
				// A loop segment is registered once.
				if s.To != s.From {
					b.Incident = append(b.Incident, si)
				}
			} else {
				report.warn(fmt.Errorf("segment %d of road %d: intersection %d: %w",
					si, road.ID, s.EndpointB, ErrIntersectionNotFound))
			}

			if !s.Connected() {
				report.Disconnected++
			}
		}
	}
}
