package engine

import (
	"github.com/lixenwraith/hitgrid/core"
)

// regionRange maps a query box to the chunks it spans, clipped to the extent
func (g *ChunkGrid) regionRange(region core.Edges) (ChunkRange, bool) {
	return g.clip(g.RangeFor(region))
}

// viewRange maps a half-open viewport to the chunks whose interior it reaches
// Memberships are padded by the inclusive rule, so every node with a point
// inside the viewport is a member of one of these chunks
func (g *ChunkGrid) viewRange(view core.Edges) (ChunkRange, bool) {
	return g.clip(ExclusiveRange(view, g.chunkW, g.chunkH))
}

// QueryRegion returns the nodes holding role in any chunk the region spans
// Solid queries union all four directions
func (g *ChunkGrid) QueryRegion(region core.Edges, role core.Role) map[core.NodeID]struct{} {
	out := make(map[core.NodeID]struct{})
	r, ok := g.regionRange(region)
	if !ok {
		return out
	}
	r.Each(func(k ChunkKey) {
		if c := g.chunks[k]; c != nil {
			c.collect(role, out)
		}
	})
	return out
}

// QuerySolid returns nodes presenting a solid surface in direction d within the region
func (g *ChunkGrid) QuerySolid(region core.Edges, d core.Direction) map[core.NodeID]struct{} {
	out := make(map[core.NodeID]struct{})
	r, ok := g.regionRange(region)
	if !ok {
		return out
	}
	r.Each(func(k ChunkKey) {
		if c := g.chunks[k]; c != nil {
			for id := range c.set(SolidSlot(d), false) {
				out[id] = struct{}{}
			}
		}
	})
	return out
}

// locatorBuckets gathers the non-empty sorted buckets of the chunks in r
func (g *ChunkGrid) locatorBuckets(r ChunkRange, ok bool) [][]drawEntry {
	if !ok {
		return nil
	}
	var buckets [][]drawEntry
	r.Each(func(k ChunkKey) {
		if c := g.chunks[k]; c != nil && len(c.locators) > 0 {
			buckets = append(buckets, c.locators)
		}
	})
	return buckets
}

// QueryDrawOrder returns the locator nodes of the spanned chunks sorted by
// (layer, creation), each once; callers re-check exact containment
func (g *ChunkGrid) QueryDrawOrder(region core.Edges) []core.NodeID {
	buckets := g.locatorBuckets(g.regionRange(region))
	if len(buckets) == 1 {
		out := make([]core.NodeID, len(buckets[0]))
		for i, e := range buckets[0] {
			out[i] = e.id
		}
		return out
	}
	var out []core.NodeID
	mergeDrawOrder(buckets, func(id core.NodeID) bool {
		out = append(out, id)
		return true
	})
	return out
}

// EachDrawOrder streams the QueryDrawOrder sequence without copying buckets
// The grid rejects mutation until fn returns; return false to stop early
func (g *ChunkGrid) EachDrawOrder(region core.Edges, fn func(core.NodeID) bool) {
	g.lock()
	defer g.unlock()
	mergeDrawOrder(g.locatorBuckets(g.regionRange(region)), fn)
}

// EachDrawOrderView is EachDrawOrder for a half-open render viewport
// It visits the chunks from ExclusiveRange, skipping the boundary padding
func (g *ChunkGrid) EachDrawOrderView(view core.Edges, fn func(core.NodeID) bool) {
	g.lock()
	defer g.unlock()
	mergeDrawOrder(g.locatorBuckets(g.viewRange(view)), fn)
}
