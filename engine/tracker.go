package engine

import "github.com/lixenwraith/hitgrid/core"

// Slot is one bucket a node can occupy in a chunk
// Dir is read only when Role is core.RoleSolid
type Slot struct {
	Role core.Role
	Dir  core.Direction
}

// RoleSlot returns the slot for a non-solid role
func RoleSlot(r core.Role) Slot {
	return Slot{Role: r}
}

// SolidSlot returns the solid slot for one surface direction
func SolidSlot(d core.Direction) Slot {
	return Slot{Role: core.RoleSolid, Dir: d}
}

// DrawKey orders locator nodes, Creation makes the order total and stable
type DrawKey struct {
	Layer    int
	Creation uint64
}

// Less orders by layer then creation
func (k DrawKey) Less(o DrawKey) bool {
	if k.Layer != o.Layer {
		return k.Layer < o.Layer
	}
	return k.Creation < o.Creation
}

// RoleTracker is the per-node membership bookkeeping kept by the grid
// Range is valid if and only if Count > 0
type RoleTracker struct {
	Roles [core.RoleCount]bool
	Solid core.DirectionSet
	Count int
	Range ChunkRange
	Key   DrawKey
}

// Active reports whether the slot is currently registered
func (t *RoleTracker) Active(s Slot) bool {
	if s.Role == core.RoleSolid {
		return t.Solid.Has(s.Dir)
	}
	return t.Roles[s.Role]
}

// HasRange reports whether a cached chunk range exists
func (t *RoleTracker) HasRange() bool {
	return t.Count > 0
}

// Slots lists every active slot
func (t *RoleTracker) Slots() []Slot {
	out := make([]Slot, 0, t.Count)
	for r := core.Role(0); r < core.RoleCount; r++ {
		if r == core.RoleSolid {
			for d := core.Direction(0); d < core.DirCount; d++ {
				if t.Solid.Has(d) {
					out = append(out, SolidSlot(d))
				}
			}
			continue
		}
		if t.Roles[r] {
			out = append(out, RoleSlot(r))
		}
	}
	return out
}

func (t *RoleTracker) set(s Slot, on bool) {
	if s.Role == core.RoleSolid {
		if on {
			t.Solid = t.Solid.With(s.Dir)
		} else {
			t.Solid = t.Solid.Without(s.Dir)
		}
		t.Roles[core.RoleSolid] = t.Solid != core.SurfaceNone
		return
	}
	t.Roles[s.Role] = on
}
