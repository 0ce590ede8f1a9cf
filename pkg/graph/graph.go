package graph

import (
	"strconv"
	"strings"

	"github.com/paulmach/orb"

	"roadnet/pkg/geo"
)

// noIntersection marks a segment endpoint that could not be resolved.
const noIntersection = -1

// Intersection is a graph vertex.
type Intersection struct {
	ID       int
	Location geo.Point
	Coord    geo.LatLon
	Incident []int // indices into Graph.Segments, in connection order

	index int
}

// Key implements Keyed.
func (n *Intersection) Key() int { return n.ID }

// Index returns the intersection's position in Graph.Intersections.
func (n *Intersection) Index() int { return n.index }

// Road is a named group of segments sharing speed and access rules.
type Road struct {
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
	Segments         []int // indices into Graph.Segments
}

// Key implements Keyed.
func (r *Road) Key() int { return r.ID }

// Label is the display name of the road: "<name>, <city>".
func (r *Road) Label() string {
	return r.Name + ", " + r.City
}

// SpeedKmh maps the speed class to its km/h bucket; unknown classes map to 0.
func (r *Road) SpeedKmh() int {
	return SpeedForClass(r.SpeedClass)
}

// SpeedForClass maps a speed class (1-7) to km/h.
func SpeedForClass(class int) int {
	switch class {
	case 1:
		return 20
	case 2:
		return 40
	case 3:
		return 60
	case 4:
		return 80
	case 5:
		return 100
	case 6:
		return 110
	case 7:
		return 120
	default:
		return 0
	}
}

// Details returns the road label followed by its one-way and access flags,
// one per line.
func (r *Road) Details() string {
	var sb strings.Builder
	sb.WriteString(r.Label())
	if r.OneWay {
		sb.WriteString("\nOneway Road")
	}
	if r.NotForCar {
		sb.WriteString("\nNo Car Access")
	}
	if r.NotForBicycle {
		sb.WriteString("\nNo Bike Access")
	}
	if r.NotForPedestrian {
		sb.WriteString("\nNo Pedestrian Access")
	}
	return sb.String()
}

// Segment is a graph edge: one drawable, traversable piece of a road.
type Segment struct {
	Index          int
	RoadID         int
	Length         float64 // km, as given by the input
	AccurateLength float64 // km, measured along the polyline
	EndpointA      int     // intersection ID
	EndpointB      int     // intersection ID
	From           int     // intersection index of EndpointA, or -1
	To             int     // intersection index of EndpointB, or -1
	Polyline       orb.LineString
	Coords         []geo.LatLon
	RoadName       string
	OneWay         bool
	SpeedKmh       int
}

// Connected reports whether both endpoints were resolved.
func (s *Segment) Connected() bool {
	return s.From != noIntersection && s.To != noIntersection
}

// Graph is the road network. It is immutable after Build; queries keep
// their per-run state in side tables.
type Graph struct {
	Intersections *Registry[*Intersection]
	Roads         *Registry[*Road]
	Segments      []Segment

	spatial *spatialIndex
}

// Intersection looks up an intersection by ID.
func (g *Graph) Intersection(id int) (*Intersection, bool) {
	return g.Intersections.Get(id)
}

// Road looks up a road by ID.
func (g *Graph) Road(id int) (*Road, bool) {
	return g.Roads.Get(id)
}

// NumIntersections returns the number of vertices.
func (g *Graph) NumIntersections() int { return g.Intersections.Len() }

// Node returns the intersection at index i.
func (g *Graph) Node(i int) *Intersection { return g.Intersections.At(i) }

// Opposite returns the index of the intersection at the other end of
// segment seg when leaving from intersection index from. With directional
// set, leaving a one-way segment from its B end is refused.
func (g *Graph) Opposite(seg, from int, directional bool) (int, bool) {
	s := &g.Segments[seg]
	switch from {
	case s.From:
		if s.To == noIntersection {
			return 0, false
		}
		return s.To, true
	case s.To:
		if s.OneWay && directional {
			return 0, false
		}
		if s.From == noIntersection {
			return 0, false
		}
		return s.From, true
	}
	return 0, false
}

// IntersectionDetails returns the intersection ID followed by the road name
// of every incident segment, one per line.
func (g *Graph) IntersectionDetails(n *Intersection) string {
	var sb strings.Builder
	sb.WriteString(strconv.Itoa(n.ID))
	for _, si := range n.Incident {
		sb.WriteByte('\n')
		sb.WriteString(g.Segments[si].RoadName)
	}
	return sb.String()
}
