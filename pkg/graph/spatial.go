package graph

import (
	"github.com/tidwall/rtree"

	"roadnet/pkg/geo"
)

// spatialIndex answers nearest-intersection queries in the projected plane.
type spatialIndex struct {
	tr rtree.RTreeG[int]
}

func newSpatialIndex(nodes *Registry[*Intersection]) *spatialIndex {
	idx := &spatialIndex{}
	for i, n := range nodes.All() {
		pt := [2]float64(n.Location)
		idx.tr.Insert(pt, pt, i)
	}
	return idx
}

// Nearest returns the intersection closest to p, or false for an empty graph.
func (g *Graph) Nearest(p geo.Point) (*Intersection, bool) {
	if g.spatial == nil || g.Intersections.Len() == 0 {
		return nil, false
	}
	target := [2]float64(p)
	best := -1
	g.spatial.tr.Nearby(
		rtree.BoxDist[float64, int](target, target, nil),
		func(min, max [2]float64, data int, dist float64) bool {
			best = data
			return false
		},
	)
	if best < 0 {
		return nil, false
	}
	return g.Intersections.At(best), true
}
