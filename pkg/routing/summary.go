package routing

import (
	"strconv"

	"roadnet/pkg/graph"
)

// Leg is one line of a route summary: a contiguous stretch of one road.
type Leg struct {
	RoadName string
	Km       float64 // truncated to two decimals
	Segments int
}

func (l Leg) String() string {
	return l.RoadName + ": " + strconv.FormatFloat(l.Km, 'f', -1, 64) + "km"
}

// truncate2 drops everything past the second decimal.
func truncate2(x float64) float64 {
	return float64(int(x*100)) / 100
}

// legKm is the length a segment contributes to a summary: the length
// measured along its polyline, or the given length when it has none.
func legKm(s *graph.Segment) float64 {
	if s.AccurateLength > 0 {
		return s.AccurateLength
	}
	return s.Length
}

// Summarize merges consecutive same-named segments of a route, walking from
// the destination back to the source, and sums their measured length.
func Summarize(g *graph.Graph, route *Route) []Leg {
	var legs []Leg
	var cur Leg
	var sum float64
	for i := len(route.Segments) - 1; i >= 0; i-- {
		s := &g.Segments[route.Segments[i]]
		if cur.Segments > 0 && s.RoadName != cur.RoadName {
			cur.Km = truncate2(sum)
			legs = append(legs, cur)
			cur, sum = Leg{}, 0
		}
		cur.RoadName = s.RoadName
		cur.Segments++
		sum += legKm(s)
	}
	if cur.Segments > 0 {
		cur.Km = truncate2(sum)
		legs = append(legs, cur)
	}
	return legs
}
