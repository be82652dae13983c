package engine

import (
	"fmt"

	"github.com/lixenwraith/hitgrid/core"
)

// Validate checks membership soundness: a node sits in a chunk's slot bucket
// if and only if the chunk lies in its clipped range and the slot is active
func (g *ChunkGrid) Validate() error {
	for id, t := range g.trackers {
		slots := t.Slots()
		if t.Count != len(slots) || t.Count == 0 {
			return fmt.Errorf("%w: node %d count %d with %d active slots", ErrInconsistent, id, t.Count, len(slots))
		}
		if want := g.RangeFor(g.src.Edges(id)); want != t.Range {
			return fmt.Errorf("%w: node %d cached range %+v, bounds give %+v", ErrInconsistent, id, t.Range, want)
		}
		r, ok := g.clip(t.Range)
		if !ok {
			continue
		}
		var err error
		r.Each(func(k ChunkKey) {
			if err != nil {
				return
			}
			c := g.chunks[k]
			for _, s := range slots {
				if c == nil || !c.Has(s, id) {
					err = fmt.Errorf("%w: node %d missing from chunk %+v %s", ErrInconsistent, id, k, slotName(s))
					return
				}
			}
		})
		if err != nil {
			return err
		}
	}

	for k, c := range g.chunks {
		if err := g.validateChunk(k, c); err != nil {
			return err
		}
	}
	return nil
}

func (g *ChunkGrid) validateChunk(k ChunkKey, c *Chunk) error {
	check := func(id core.NodeID, s Slot) error {
		t, ok := g.trackers[id]
		if !ok || !t.Active(s) {
			return fmt.Errorf("%w: chunk %+v holds node %d in inactive %s", ErrInconsistent, k, id, slotName(s))
		}
		if r, ok := g.clip(t.Range); !ok || !r.Contains(k) {
			return fmt.Errorf("%w: chunk %+v outside node %d range %+v", ErrInconsistent, k, id, t.Range)
		}
		return nil
	}

	locator := RoleSlot(core.RoleLocator)
	for i, e := range c.locators {
		if err := check(e.id, locator); err != nil {
			return err
		}
		if e.key != g.trackers[e.id].Key {
			return fmt.Errorf("%w: chunk %+v stale draw key for node %d", ErrInconsistent, k, e.id)
		}
		if i > 0 && compareEntry(c.locators[i-1], e) >= 0 {
			return fmt.Errorf("%w: chunk %+v locator bucket out of order", ErrInconsistent, k)
		}
	}
	for _, role := range []core.Role{core.RoleOverlap, core.RoleCollision} {
		for id := range c.set(RoleSlot(role), false) {
			if err := check(id, RoleSlot(role)); err != nil {
				return err
			}
		}
	}
	for d := core.Direction(0); d < core.DirCount; d++ {
		for id := range c.solids[d] {
			if err := check(id, SolidSlot(d)); err != nil {
				return err
			}
		}
	}
	return nil
}
