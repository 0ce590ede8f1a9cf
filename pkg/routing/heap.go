package routing

import "math"

// MinHeap is a concrete-typed min-heap for the A* frontier.
// Avoids interface boxing overhead of container/heap.
type MinHeap struct {
	items []PQItem
}

// PQItem is a priority queue entry: a frontier entry index and its g+h key.
type PQItem struct {
	Entry int
	Key   float64
}

func (h *MinHeap) Len() int { return len(h.items) }

func (h *MinHeap) Push(entry int, key float64) {
	h.items = append(h.items, PQItem{entry, key})
	h.siftUp(len(h.items) - 1)
}

func (h *MinHeap) Pop() PQItem {
	n := len(h.items)
	item := h.items[0]
	h.items[0] = h.items[n-1]
	h.items = h.items[:n-1]
	if len(h.items) > 0 {
		h.siftDown(0)
	}
	return item
}

func (h *MinHeap) PeekKey() float64 {
	if len(h.items) == 0 {
		return math.Inf(1)
	}
	return h.items[0].Key
}

func (h *MinHeap) Reset() {
	h.items = h.items[:0]
}

func (h *MinHeap) siftUp(i int) {
	for i > 0 {
		parent := (i - 1) / 2
		if h.items[i].Key >= h.items[parent].Key {
			break
		}
		h.items[i], h.items[parent] = h.items[parent], h.items[i]
		i = parent
	}
}

func (h *MinHeap) siftDown(i int) {
	n := len(h.items)
	for {
		smallest := i
		left := 2*i + 1
		right := 2*i + 2
		if left < n && h.items[left].Key < h.items[smallest].Key {
			smallest = left
		}
		if right < n && h.items[right].Key < h.items[smallest].Key {
			smallest = right
		}
		if smallest == i {
			break
		}
		h.items[i], h.items[smallest] = h.items[smallest], h.items[i]
		i = smallest
	}
}
