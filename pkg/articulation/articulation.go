// Package articulation finds cut vertices of the road graph with an
// iterative depth-first search. One-way restrictions are ignored: the
// question is connectivity, not legal travel.
package articulation

import (
	"context"
	"errors"
	"math"
	"sort"

	"roadnet/pkg/graph"
)

// ErrNoSelection is returned when the root intersection is unknown.
var ErrNoSelection = errors.New("no intersection selected")

const unvisited = math.MaxInt

// noFrame marks the parent of a component root.
const noFrame = -1

// Frame is one level of the explicit DFS stack.
type Frame struct {
	Node       int
	Parent     int // frame index, or -1 for the component root
	ParentEdge int // segment that led here, or -1
	Depth      int
	Low        int
	Pending    []int // segment indices still to explore
	Started    bool
}

// search holds per-query side tables. The graph itself is never written.
type search struct {
	g      *graph.Graph
	depth  []int
	frames []Frame
	stack  []int
	cut    map[int]bool
	steps  int
}

// Find returns the IDs of every articulation point, in ascending order. The
// search starts at rootID and then restarts from each intersection still
// unvisited, in ID order, so every component is covered.
func Find(ctx context.Context, g *graph.Graph, rootID int) ([]int, error) {
	root, ok := g.Intersection(rootID)
	if !ok {
		return nil, ErrNoSelection
	}

	s := &search{
		g:     g,
		depth: make([]int, g.NumIntersections()),
		cut:   make(map[int]bool),
	}
	for i := range s.depth {
		s.depth[i] = unvisited
	}

	if err := s.component(ctx, root.Index()); err != nil {
		return nil, err
	}
	for i := range s.depth {
		if s.depth[i] == unvisited {
			if err := s.component(ctx, i); err != nil {
				return nil, err
			}
		}
	}

	ids := make([]int, 0, len(s.cut))
	for n := range s.cut {
		ids = append(ids, g.Node(n).ID)
	}
	sort.Ints(ids)
	return ids, nil
}

// component runs one DFS tree rooted at r. The root is a cut vertex when it
// has more than one DFS subtree.
func (s *search) component(ctx context.Context, r int) error {
	s.frames = s.frames[:0]
	s.stack = s.stack[:0]

	s.depth[r] = 0
	s.frames = append(s.frames, Frame{Node: r, Parent: noFrame, ParentEdge: -1, Started: true})

	subtrees := 0
	for _, si := range s.g.Node(r).Incident {
		child, ok := s.neighbour(si, r)
		if !ok || s.depth[child] != unvisited {
			continue
		}
		subtrees++
		s.push(0, child, si)
		if err := s.run(ctx); err != nil {
			return err
		}
	}
	if subtrees > 1 {
		s.cut[r] = true
	}
	return nil
}

// neighbour returns the other end of si, ignoring direction. Self-loops and
// unresolved endpoints have no neighbour.
func (s *search) neighbour(si, from int) (int, bool) {
	next, ok := s.g.Opposite(si, from, false)
	if !ok || next == from {
		return 0, false
	}
	return next, true
}

func (s *search) push(parent, node, edge int) {
	s.frames = append(s.frames, Frame{
		Node:       node,
		Parent:     parent,
		ParentEdge: edge,
		Depth:      s.frames[parent].Depth + 1,
	})
	s.stack = append(s.stack, len(s.frames)-1)
}

// run drains the stack. Frames are addressed by index because push may
// reallocate s.frames.
func (s *search) run(ctx context.Context) error {
	for len(s.stack) > 0 {
		s.steps++
		if s.steps%1000 == 0 {
			if err := ctx.Err(); err != nil {
				return err
			}
		}

		fi := s.stack[len(s.stack)-1]
		f := &s.frames[fi]

		if !f.Started {
			f.Started = true
			s.depth[f.Node] = f.Depth
			f.Low = f.Depth
			for _, si := range s.g.Node(f.Node).Incident {
				if si != f.ParentEdge {
					f.Pending = append(f.Pending, si)
				}
			}
		}

		if len(f.Pending) > 0 {
			si := f.Pending[0]
			f.Pending = f.Pending[1:]
			child, ok := s.neighbour(si, f.Node)
			if !ok {
				continue
			}
			if d := s.depth[child]; d != unvisited {
				f.Low = min(f.Low, d)
				continue
			}
			s.push(fi, child, si)
			continue
		}

		// Fully explored: report the parent and fold low upwards.
		p := &s.frames[f.Parent]
		if f.Low >= p.Depth && p.Parent != noFrame {
			s.cut[p.Node] = true
		}
		p.Low = min(p.Low, f.Low)
		s.stack = s.stack[:len(s.stack)-1]
	}
	return nil
}
