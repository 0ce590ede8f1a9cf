package routing

import (
	"context"
	"errors"

	"roadnet/pkg/geo"
	"roadnet/pkg/graph"
)

var (
	// ErrNoRoute is returned when the destination cannot be reached.
	ErrNoRoute = errors.New("no route found")
	// ErrNoSelection is returned when the source or destination is unknown.
	ErrNoSelection = errors.New("source or destination not selected")
)

// fallbackSpeedKmh is used in speed mode for roads without a speed class.
const fallbackSpeedKmh = 20

// noEntry marks the source entry, which has no predecessor.
const noEntry = -1

// FrontierEntry is one candidate on the A* frontier.
type FrontierEntry struct {
	Node   int // intersection index
	Parent int // index of the predecessor entry, or -1
	G      float64
	H      float64
	Edge   int // segment used to reach Node, or -1
}

// Route is the result of a route search.
type Route struct {
	Segments []int   // segment indices, source to destination
	Length   float64 // km, sum of segment lengths
	Cost     float64 // g at the destination: km, or hours in speed mode
	Explored int     // intersections finalized by the search
}

// Selected returns the set of segments on the route.
func (r *Route) Selected() map[int]bool {
	sel := make(map[int]bool, len(r.Segments))
	for _, s := range r.Segments {
		sel[s] = true
	}
	return sel
}

// segmentCost is the g increment for traversing s.
func segmentCost(s *graph.Segment, useSpeed bool) float64 {
	if !useSpeed {
		return s.Length
	}
	kmh := s.SpeedKmh
	if kmh <= 0 {
		kmh = fallbackSpeedKmh
	}
	return s.Length / float64(kmh)
}

// FindRoute runs A* from intersection srcID to dstID. The heuristic is the
// straight-line projected distance to the destination; in speed mode g is
// measured in hours while h stays a distance, so the result is then no
// longer guaranteed optimal. Ties on g+h are broken by heap order.
func FindRoute(ctx context.Context, g *graph.Graph, srcID, dstID int, useSpeed bool) (*Route, error) {
	src, ok := g.Intersection(srcID)
	if !ok {
		return &Route{}, ErrNoSelection
	}
	dst, ok := g.Intersection(dstID)
	if !ok {
		return &Route{}, ErrNoSelection
	}

	target := dst.Location
	visited := make([]bool, g.NumIntersections())
	entries := make([]FrontierEntry, 0, 256)
	pq := MinHeap{items: make([]PQItem, 0, 256)}

	h0 := geo.Distance(src.Location, target)
	entries = append(entries, FrontierEntry{Node: src.Index(), Parent: noEntry, H: h0, Edge: -1})
	pq.Push(0, h0)

	explored, iterations := 0, 0
	for pq.Len() > 0 {
		// Check context cancellation periodically.
		iterations++
		if iterations%100 == 0 {
			if err := ctx.Err(); err != nil {
				return &Route{}, err
			}
		}

		item := pq.Pop()
		cur := entries[item.Entry]
		if visited[cur.Node] {
			continue // stale entry
		}
		visited[cur.Node] = true
		explored++

		if cur.Node == dst.Index() {
			route := reconstruct(g, entries, item.Entry)
			route.Cost = cur.G
			route.Explored = explored
			return route, nil
		}

		for _, si := range g.Node(cur.Node).Incident {
			next, ok := g.Opposite(si, cur.Node, true)
			if !ok || visited[next] {
				continue
			}
			gNext := cur.G + segmentCost(&g.Segments[si], useSpeed)
			hNext := geo.Distance(g.Node(next).Location, target)
			entries = append(entries, FrontierEntry{
				Node:   next,
				Parent: item.Entry,
				G:      gNext,
				H:      hNext,
				Edge:   si,
			})
			pq.Push(len(entries)-1, gNext+hNext)
		}
	}

	return &Route{Explored: explored}, ErrNoRoute
}

// reconstruct walks the predecessor chain back from the destination entry.
func reconstruct(g *graph.Graph, entries []FrontierEntry, last int) *Route {
	route := &Route{}
	for e := last; entries[e].Parent != noEntry; e = entries[e].Parent {
		si := entries[e].Edge
		route.Segments = append(route.Segments, si)
		route.Length += g.Segments[si].Length
	}
	for i, j := 0, len(route.Segments)-1; i < j; i, j = i+1, j-1 {
		route.Segments[i], route.Segments[j] = route.Segments[j], route.Segments[i]
	}
	return route
}
