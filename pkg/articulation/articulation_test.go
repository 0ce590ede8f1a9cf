package articulation

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"roadnet/pkg/graph"
)

// buildEdges makes a graph with intersections 1..n and one segment per edge.
// Coordinates do not matter for connectivity.
func buildEdges(t *testing.T, n int, edges [][2]int, oneWay bool) *graph.Graph {
	t.Helper()
	in := &graph.Input{Roads: []graph.RoadRecord{{ID: 1, Name: "ring", OneWay: oneWay}}}
	for id := 1; id <= n; id++ {
		in.Intersections = append(in.Intersections, graph.IntersectionRecord{ID: id, Lat: float64(id), Lon: float64(id)})
	}
	for _, e := range edges {
		in.Segments = append(in.Segments, graph.SegmentRecord{RoadID: 1, Length: 1, EndpointA: e[0], EndpointB: e[1]})
	}
	g, _ := graph.Build(in)
	return g
}

func cycle(from, to int) [][2]int {
	var edges [][2]int
	for i := from; i < to; i++ {
		edges = append(edges, [2]int{i, i + 1})
	}
	return append(edges, [2]int{to, from})
}

func TestFindCycleHasNone(t *testing.T) {
	g := buildEdges(t, 5, cycle(1, 5), false)
	for root := 1; root <= 5; root++ {
		got, err := Find(context.Background(), g, root)
		require.NoError(t, err)
		assert.Empty(t, got, "root %d", root)
	}
}

func TestFindTwoCyclesJoinedByBridgeNode(t *testing.T) {
	// 1-2-3-4 and 4-5-6-7 share intersection 4.
	edges := append(cycle(1, 4), cycle(4, 7)...)
	g := buildEdges(t, 7, edges, false)

	for root := 1; root <= 7; root++ {
		t.Run(fmt.Sprintf("root=%d", root), func(t *testing.T) {
			got, err := Find(context.Background(), g, root)
			require.NoError(t, err)
			assert.Equal(t, []int{4}, got)
		})
	}
}

func TestFindIgnoresOneWay(t *testing.T) {
	edges := append(cycle(1, 4), cycle(4, 7)...)
	g := buildEdges(t, 7, edges, true)

	got, err := Find(context.Background(), g, 6)
	require.NoError(t, err)
	assert.Equal(t, []int{4}, got)
}

func TestFindPath(t *testing.T) {
	// 1 - 2 - 3 - 4: every inner intersection is a cut vertex.
	g := buildEdges(t, 4, [][2]int{{1, 2}, {2, 3}, {3, 4}}, false)

	for _, root := range []int{1, 2, 4} {
		got, err := Find(context.Background(), g, root)
		require.NoError(t, err)
		assert.Equal(t, []int{2, 3}, got, "root %d", root)
	}
}

func TestFindDisconnectedComponents(t *testing.T) {
	// Component A: triangle 1-2-3 with a tail 3-4.
	// Component B: path 5-6-7.
	// Component C: isolated 8.
	edges := [][2]int{{1, 2}, {2, 3}, {3, 1}, {3, 4}, {5, 6}, {6, 7}}
	g := buildEdges(t, 8, edges, false)

	for _, root := range []int{1, 6, 8} {
		got, err := Find(context.Background(), g, root)
		require.NoError(t, err)
		assert.Equal(t, []int{3, 6}, got, "root %d", root)
	}
}

func TestFindParallelSegments(t *testing.T) {
	// Two segments between 2 and 3 still leave 2 and 3 as cut vertices
	// of the path 1 - 2 = 3 - 4.
	g := buildEdges(t, 4, [][2]int{{1, 2}, {2, 3}, {3, 2}, {3, 4}}, false)

	got, err := Find(context.Background(), g, 1)
	require.NoError(t, err)
	assert.Equal(t, []int{2, 3}, got)
}

func TestFindSkipsDanglingAndLoops(t *testing.T) {
	// 2 has a self-loop and 3 has a segment to a missing intersection.
	g := buildEdges(t, 3, [][2]int{{1, 2}, {2, 2}, {2, 3}, {3, 99}}, false)

	got, err := Find(context.Background(), g, 1)
	require.NoError(t, err)
	assert.Equal(t, []int{2}, got)
}

func TestFindNoSelection(t *testing.T) {
	g := buildEdges(t, 3, cycle(1, 3), false)

	got, err := Find(context.Background(), g, 42)
	assert.ErrorIs(t, err, ErrNoSelection)
	assert.Nil(t, got)
}

func TestFindDeepPath(t *testing.T) {
	// Deep enough that a recursive search would be a problem on small stacks.
	const n = 100_000
	edges := make([][2]int, 0, n-1)
	for i := 1; i < n; i++ {
		edges = append(edges, [2]int{i, i + 1})
	}
	g := buildEdges(t, n, edges, false)

	got, err := Find(context.Background(), g, 1)
	require.NoError(t, err)
	assert.Len(t, got, n-2)
	assert.Equal(t, 2, got[0])
	assert.Equal(t, n-1, got[len(got)-1])
}

func TestFindCancelled(t *testing.T) {
	const n = 5_000
	g := buildEdges(t, n, cycle(1, n), false)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := Find(ctx, g, 1)
	assert.ErrorIs(t, err, context.Canceled)
}
