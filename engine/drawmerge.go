package engine

import (
	"container/heap"

	"github.com/lixenwraith/hitgrid/core"
)

// mergeDrawOrder emits the union of sorted locator buckets in draw order,
// each node once; duplicates across chunks share a key so they surface adjacently
// emit returning false stops the merge
func mergeDrawOrder(buckets [][]drawEntry, emit func(core.NodeID) bool) {
	switch len(buckets) {
	case 0:
		return
	case 1:
		for _, e := range buckets[0] {
			if !emit(e.id) {
				return
			}
		}
	case 2:
		mergeTwo(buckets[0], buckets[1], emit)
	default:
		mergeMany(buckets, emit)
	}
}

func mergeTwo(a, b []drawEntry, emit func(core.NodeID) bool) {
	var last core.NodeID
	i, j := 0, 0
	for i < len(a) || j < len(b) {
		var e drawEntry
		if j >= len(b) || (i < len(a) && compareEntry(a[i], b[j]) <= 0) {
			e = a[i]
			i++
		} else {
			e = b[j]
			j++
		}
		if e.id == last {
			continue
		}
		last = e.id
		if !emit(e.id) {
			return
		}
	}
}

// cursor walks one chunk's bucket during a k-way merge
type cursor struct {
	entries []drawEntry
	pos     int
}

func (c *cursor) head() drawEntry {
	return c.entries[c.pos]
}

type cursorHeap []*cursor

func (h cursorHeap) Len() int           { return len(h) }
func (h cursorHeap) Less(i, j int) bool { return compareEntry(h[i].head(), h[j].head()) < 0 }
func (h cursorHeap) Swap(i, j int)      { h[i], h[j] = h[j], h[i] }

func (h *cursorHeap) Push(x any) {
	*h = append(*h, x.(*cursor))
}

func (h *cursorHeap) Pop() any {
	old := *h
	n := len(old)
	c := old[n-1]
	old[n-1] = nil
	*h = old[:n-1]
	return c
}

func mergeMany(buckets [][]drawEntry, emit func(core.NodeID) bool) {
	h := make(cursorHeap, 0, len(buckets))
	for _, b := range buckets {
		if len(b) > 0 {
			h = append(h, &cursor{entries: b})
		}
	}
	heap.Init(&h)

	var last core.NodeID
	for h.Len() > 0 {
		c := h[0]
		e := c.head()
		c.pos++
		if c.pos == len(c.entries) {
			heap.Pop(&h)
		} else {
			heap.Fix(&h, 0)
		}
		if e.id == last {
			continue
		}
		last = e.id
		if !emit(e.id) {
			return
		}
	}
}
