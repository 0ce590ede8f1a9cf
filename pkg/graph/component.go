package graph

// UnionFind implements a disjoint-set data structure with path compression
// and union by rank.
type UnionFind struct {
	parent []int
	rank   []byte
	size   []int
}

// NewUnionFind creates a UnionFind for n elements.
func NewUnionFind(n int) *UnionFind {
	parent := make([]int, n)
	size := make([]int, n)
	for i := 0; i < n; i++ {
		parent[i] = i
		size[i] = 1
	}
	return &UnionFind{
		parent: parent,
		rank:   make([]byte, n),
		size:   size,
	}
}

// Find returns the representative of the set containing x, with path halving.
func (uf *UnionFind) Find(x int) int {
	for uf.parent[x] != x {
		uf.parent[x] = uf.parent[uf.parent[x]]
		x = uf.parent[x]
	}
	return x
}

// Union merges the sets containing x and y. Returns false if already same set.
func (uf *UnionFind) Union(x, y int) bool {
	rx := uf.Find(x)
	ry := uf.Find(y)
	if rx == ry {
		return false
	}

	if uf.rank[rx] < uf.rank[ry] {
		rx, ry = ry, rx
	}
	uf.parent[ry] = rx
	uf.size[rx] += uf.size[ry]
	if uf.rank[rx] == uf.rank[ry] {
		uf.rank[rx]++
	}
	return true
}

// ComponentStats describes the weakly connected components of a graph.
type ComponentStats struct {
	Count   int // number of components, isolated intersections included
	Largest int // intersections in the biggest component
}

// Components counts weakly connected components, ignoring one-way rules.
func Components(g *Graph) ComponentStats {
	n := g.NumIntersections()
	if n == 0 {
		return ComponentStats{}
	}

	uf := NewUnionFind(n)
	for i := range g.Segments {
		s := &g.Segments[i]
		if s.Connected() {
			uf.Union(s.From, s.To)
		}
	}

	var stats ComponentStats
	for i := 0; i < n; i++ {
		if uf.Find(i) == i {
			stats.Count++
			if uf.size[i] > stats.Largest {
				stats.Largest = uf.size[i]
			}
		}
	}
	return stats
}
