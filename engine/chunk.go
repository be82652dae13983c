package engine

import (
	"cmp"
	"slices"

	"github.com/lixenwraith/hitgrid/core"
	"github.com/lixenwraith/hitgrid/parameter"
)

type nodeSet map[core.NodeID]struct{}

type drawEntry struct {
	key DrawKey
	id  core.NodeID
}

func compareEntry(a, b drawEntry) int {
	if c := cmp.Compare(a.key.Layer, b.key.Layer); c != 0 {
		return c
	}
	if c := cmp.Compare(a.key.Creation, b.key.Creation); c != 0 {
		return c
	}
	return cmp.Compare(a.id, b.id)
}

// Chunk is one grid cell holding per-role member buckets
// Chunks reference nodes but never own them
type Chunk struct {
	key        ChunkKey
	locators   []drawEntry // sorted by compareEntry
	overlaps   nodeSet
	collisions nodeSet
	solids     [core.DirCount]nodeSet
}

func newChunk(key ChunkKey) *Chunk {
	return &Chunk{
		key:      key,
		locators: make([]drawEntry, 0, parameter.DefaultLocatorBucketCap),
	}
}

func (c *Chunk) Key() ChunkKey {
	return c.key
}

// set returns the unordered bucket for a slot, allocating when create is set
func (c *Chunk) set(s Slot, create bool) nodeSet {
	var p *nodeSet
	switch s.Role {
	case core.RoleOverlap:
		p = &c.overlaps
	case core.RoleCollision:
		p = &c.collisions
	case core.RoleSolid:
		p = &c.solids[s.Dir]
	default:
		return nil
	}
	if *p == nil && create {
		*p = make(nodeSet)
	}
	return *p
}

func (c *Chunk) insert(s Slot, id core.NodeID, key DrawKey) bool {
	if s.Role == core.RoleLocator {
		e := drawEntry{key: key, id: id}
		i, found := slices.BinarySearchFunc(c.locators, e, compareEntry)
		if found {
			return false
		}
		c.locators = slices.Insert(c.locators, i, e)
		return true
	}
	set := c.set(s, true)
	if _, ok := set[id]; ok {
		return false
	}
	set[id] = struct{}{}
	return true
}

func (c *Chunk) remove(s Slot, id core.NodeID, key DrawKey) bool {
	if s.Role == core.RoleLocator {
		i, found := slices.BinarySearchFunc(c.locators, drawEntry{key: key, id: id}, compareEntry)
		if !found {
			return false
		}
		c.locators = slices.Delete(c.locators, i, i+1)
		return true
	}
	set := c.set(s, false)
	if _, ok := set[id]; !ok {
		return false
	}
	delete(set, id)
	return true
}

// Has reports whether id occupies the slot in this chunk
func (c *Chunk) Has(s Slot, id core.NodeID) bool {
	if s.Role == core.RoleLocator {
		for _, e := range c.locators {
			if e.id == id {
				return true
			}
		}
		return false
	}
	_, ok := c.set(s, false)[id]
	return ok
}

// Len returns the member count of a slot
func (c *Chunk) Len(s Slot) int {
	if s.Role == core.RoleLocator {
		return len(c.locators)
	}
	return len(c.set(s, false))
}

// Locators returns a copy of the draw-ordered locator bucket
func (c *Chunk) Locators() []core.NodeID {
	out := make([]core.NodeID, len(c.locators))
	for i, e := range c.locators {
		out[i] = e.id
	}
	return out
}

// Members returns a sorted copy of a slot's bucket
func (c *Chunk) Members(s Slot) []core.NodeID {
	if s.Role == core.RoleLocator {
		return c.Locators()
	}
	set := c.set(s, false)
	out := make([]core.NodeID, 0, len(set))
	for id := range set {
		out = append(out, id)
	}
	slices.Sort(out)
	return out
}

// Empty reports whether no bucket holds any member
func (c *Chunk) Empty() bool {
	if len(c.locators) > 0 || len(c.overlaps) > 0 || len(c.collisions) > 0 {
		return false
	}
	for _, s := range c.solids {
		if len(s) > 0 {
			return false
		}
	}
	return true
}

// collect unions the slot buckets for role into dst, all directions for solids
func (c *Chunk) collect(role core.Role, dst nodeSet) {
	switch role {
	case core.RoleLocator:
		for _, e := range c.locators {
			dst[e.id] = struct{}{}
		}
	case core.RoleSolid:
		for _, s := range c.solids {
			for id := range s {
				dst[id] = struct{}{}
			}
		}
	default:
		for id := range c.set(RoleSlot(role), false) {
			dst[id] = struct{}{}
		}
	}
}
