package routing

import (
	"context"
	"log"

	"roadnet/pkg/articulation"
	"roadnet/pkg/geo"
	"roadnet/pkg/graph"
	"roadnet/pkg/trie"
)

// RouteResult is the output of a route query.
type RouteResult struct {
	Segments []graph.Segment       // source to destination
	Path     []*graph.Intersection // len(Segments)+1 intersections, source to destination
	Length   float64               // km
	Cost     float64               // km, or hours in speed mode
	Explored int
	Summary  []Leg // destination back to source
}

// IntersectionInfo is an intersection with its textual details.
type IntersectionInfo struct {
	*graph.Intersection
	Details string
}

// Router is the interface for queries over a loaded map.
type Router interface {
	Route(ctx context.Context, from, to int, useSpeed bool) (*RouteResult, error)
	ArticulationPoints(ctx context.Context, root int) ([]*graph.Intersection, error)
	SearchRoads(prefix string) []*graph.Road
	Road(id int) (*graph.Road, bool)
	Intersection(id int) (*IntersectionInfo, bool)
	Nearest(p geo.Point) (*graph.Intersection, bool)
}

// Engine implements Router over an immutable graph and its name index.
// It is safe for concurrent use: every query keeps its own state.
type Engine struct {
	g     *graph.Graph
	names *trie.Index
}

// NewEngine indexes the road names of g.
func NewEngine(g *graph.Graph) *Engine {
	names := trie.New()
	skipped := 0
	for _, r := range g.Roads.All() {
		if !names.Add(r) {
			skipped++
		}
	}
	if skipped > 0 {
		log.Printf("Warning: %d roads have no indexable name", skipped)
	}
	return &Engine{g: g, names: names}
}

// Graph returns the underlying graph.
func (e *Engine) Graph() *graph.Graph { return e.g }

// Route finds a route between two intersection IDs.
func (e *Engine) Route(ctx context.Context, from, to int, useSpeed bool) (*RouteResult, error) {
	route, err := FindRoute(ctx, e.g, from, to, useSpeed)
	if err != nil {
		return nil, err
	}
	res := &RouteResult{
		Segments: make([]graph.Segment, len(route.Segments)),
		Length:   route.Length,
		Cost:     route.Cost,
		Explored: route.Explored,
		Summary:  Summarize(e.g, route),
	}
	src, _ := e.g.Intersection(from)
	res.Path = append(res.Path, src)
	cur := src.Index()
	for i, si := range route.Segments {
		res.Segments[i] = e.g.Segments[si]
		cur, _ = e.g.Opposite(si, cur, true)
		res.Path = append(res.Path, e.g.Node(cur))
	}
	return res, nil
}

// ArticulationPoints returns the choke points of the map, starting the
// search at root.
func (e *Engine) ArticulationPoints(ctx context.Context, root int) ([]*graph.Intersection, error) {
	ids, err := articulation.Find(ctx, e.g, root)
	if err != nil {
		return nil, err
	}
	out := make([]*graph.Intersection, 0, len(ids))
	for _, id := range ids {
		n, _ := e.g.Intersection(id)
		out = append(out, n)
	}
	return out, nil
}

// SearchRoads returns up to ten roads matching prefix.
func (e *Engine) SearchRoads(prefix string) []*graph.Road {
	return e.names.GetTen(prefix)
}

// Road looks up a road by ID.
func (e *Engine) Road(id int) (*graph.Road, bool) {
	return e.g.Road(id)
}

// Intersection looks up an intersection by ID.
func (e *Engine) Intersection(id int) (*IntersectionInfo, bool) {
	n, ok := e.g.Intersection(id)
	if !ok {
		return nil, false
	}
	return &IntersectionInfo{Intersection: n, Details: e.g.IntersectionDetails(n)}, true
}

// Nearest returns the intersection closest to a projected point.
func (e *Engine) Nearest(p geo.Point) (*graph.Intersection, bool) {
	return e.g.Nearest(p)
}
