package graph

import "testing"

func TestUnionFind(t *testing.T) {
	uf := NewUnionFind(5)

	// Initially all separate.
	for i := 0; i < 5; i++ {
		if uf.Find(i) != i {
			t.Errorf("Find(%d) = %d, want %d", i, uf.Find(i), i)
		}
	}

	uf.Union(0, 1)
	if uf.Find(0) != uf.Find(1) {
		t.Error("0 and 1 should be in same set")
	}

	uf.Union(2, 3)
	if uf.Find(2) != uf.Find(3) {
		t.Error("2 and 3 should be in same set")
	}

	if uf.Find(0) == uf.Find(2) {
		t.Error("0 and 2 should be in different sets")
	}

	if !uf.Union(1, 3) {
		t.Error("Union(1, 3) should merge two sets")
	}
	if uf.Find(0) != uf.Find(3) {
		t.Error("0 and 3 should now be in same set")
	}
	if uf.Union(0, 2) {
		t.Error("Union(0, 2) should report already joined")
	}
}

func TestComponents(t *testing.T) {
	// Component 1: 1 - 2 - 3 (3 intersections)
	// Component 2: 4 -> 5 (one-way, still one component)
	// Component 3: 6 (isolated)
	in := &Input{
		Intersections: []IntersectionRecord{
			{ID: 1}, {ID: 2}, {ID: 3}, {ID: 4}, {ID: 5}, {ID: 6},
		},
		Roads: []RoadRecord{
			{ID: 1, Name: "a"},
			{ID: 2, Name: "b", OneWay: true},
		},
		Segments: []SegmentRecord{
			{RoadID: 1, EndpointA: 1, EndpointB: 2},
			{RoadID: 1, EndpointA: 2, EndpointB: 3},
			{RoadID: 2, EndpointA: 4, EndpointB: 5},
			{RoadID: 2, EndpointA: 5, EndpointB: 404}, // dangling
		},
	}
	g, _ := Build(in)

	got := Components(g)
	want := ComponentStats{Count: 3, Largest: 3}
	if got != want {
		t.Errorf("Components = %+v, want %+v", got, want)
	}
}

func TestComponentsEmpty(t *testing.T) {
	g, _ := Build(&Input{})
	if got := Components(g); got != (ComponentStats{}) {
		t.Errorf("Components = %+v, want zero", got)
	}
}
