// Package trie indexes road names for prefix search. Only the letters a-z
// are significant: case, spaces, digits and punctuation are dropped from
// both names and queries.
package trie

import (
	"strings"

	"roadnet/pkg/graph"
)

// MaxResults bounds the size of a GetTen result.
const MaxResults = 10

type node struct {
	children [26]*node
	roads    []*graph.Road
}

// Index is a 26-way prefix trie of roads keyed by their normalized label.
type Index struct {
	root node
	size int
}

// New returns an empty index.
func New() *Index {
	return &Index{}
}

// Normalize lowercases s and keeps only the letters a-z.
func Normalize(s string) string {
	var sb strings.Builder
	sb.Grow(len(s))
	for i := 0; i < len(s); i++ {
		c := s[i]
		if c >= 'A' && c <= 'Z' {
			c += 'a' - 'A'
		}
		if c >= 'a' && c <= 'z' {
			sb.WriteByte(c)
		}
	}
	return sb.String()
}

// Add indexes r under its label. Returns false if the label has no letters.
func (ix *Index) Add(r *graph.Road) bool {
	key := Normalize(r.Label())
	if key == "" {
		return false
	}
	n := &ix.root
	for i := 0; i < len(key); i++ {
		c := key[i] - 'a'
		if n.children[c] == nil {
			n.children[c] = &node{}
		}
		n = n.children[c]
	}
	n.roads = append(n.roads, r)
	ix.size++
	return true
}

// Len returns the number of indexed roads.
func (ix *Index) Len() int { return ix.size }

// GetTen returns up to ten roads whose normalized label starts with the
// normalized prefix, visiting branches in letter order. An empty prefix
// only looks at the first non-empty top-level branch; a non-empty prefix
// without letters matches nothing.
func (ix *Index) GetTen(prefix string) []*graph.Road {
	key := Normalize(prefix)
	if key == "" && prefix != "" {
		return nil
	}

	n := &ix.root
	if key == "" {
		n = nil
		for _, c := range ix.root.children {
			if c != nil {
				n = c
				break
			}
		}
		if n == nil {
			return nil
		}
	}
	for i := 0; i < len(key); i++ {
		n = n.children[key[i]-'a']
		if n == nil {
			return nil
		}
	}

	var out []*graph.Road
	collect(n, &out)
	if len(out) > MaxResults {
		out = out[:MaxResults]
	}
	return out
}

// collect appends the roads of n and its subtree, depth first, until
// MaxResults have been gathered.
func collect(n *node, out *[]*graph.Road) {
	*out = append(*out, n.roads...)
	for _, c := range n.children {
		if len(*out) >= MaxResults {
			return
		}
		if c != nil {
			collect(c, out)
		}
	}
}
