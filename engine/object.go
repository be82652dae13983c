package engine

import (
	"github.com/lixenwraith/hitgrid/core"
)

// Object owns a locator node plus optional overlap, solid and collision nodes
// drawn from the locator's subtree, and mirrors them into the chunk grid while
// it is added to its container
type Object struct {
	id core.ObjectID
	c  *Container

	locator   core.NodeID
	overlap   core.NodeID
	solid     core.NodeID
	collision core.NodeID
	surfaces  core.DirectionSet // relative to the solid node's mirror state

	layer      int
	appearance any
	alpha      float64
	active     bool
	added      bool
}

func (o *Object) ID() core.ObjectID            { return o.id }
func (o *Object) Locator() core.NodeID         { return o.locator }
func (o *Object) Overlap() core.NodeID         { return o.overlap }
func (o *Object) Solid() core.NodeID           { return o.solid }
func (o *Object) Collision() core.NodeID       { return o.collision }
func (o *Object) Surfaces() core.DirectionSet  { return o.surfaces }
func (o *Object) Layer() int                   { return o.layer }
func (o *Object) Appearance() any              { return o.appearance }
func (o *Object) Alpha() float64               { return o.alpha }
func (o *Object) Active() bool                 { return o.active }
func (o *Object) Added() bool                  { return o.added }
func (o *Object) SetAppearance(appearance any) { o.appearance = appearance }
func (o *Object) SetActive(active bool)        { o.active = active }

// SetAlpha clamps to [0, 1]
func (o *Object) SetAlpha(alpha float64) {
	o.alpha = max(0, min(1, alpha))
}

// RoleNode returns the node serving role, zero if none
func (o *Object) RoleNode(role core.Role) core.NodeID {
	return *o.roleRef(role)
}

func (o *Object) roleRef(role core.Role) *core.NodeID {
	switch role {
	case core.RoleOverlap:
		return &o.overlap
	case core.RoleSolid:
		return &o.solid
	case core.RoleCollision:
		return &o.collision
	default:
		return &o.locator
	}
}

// AbsoluteSurfaces returns the solid directions after the solid node's mirroring
func (o *Object) AbsoluteSurfaces() core.DirectionSet {
	if o.solid == 0 {
		return core.SurfaceNone
	}
	xf, yf := o.c.Nodes.AbsoluteFlip(o.solid)
	return o.surfaces.Mirror(xf, yf)
}

// SetLayer changes draw order, reordering grid buckets if added
func (o *Object) SetLayer(layer int) bool {
	if o.layer == layer {
		return true
	}
	if o.added && o.c.Grid.Iterating() {
		return false
	}
	o.layer = layer
	if o.added {
		if err := o.c.Grid.Rekey(o.locator); err != nil {
			o.c.log.Warn("rekey locator", "object", o.id, "error", err)
			return false
		}
	}
	return true
}

// SetOverlap assigns the overlap node, zero clears it
func (o *Object) SetOverlap(id core.NodeID) bool {
	return o.setRole(core.RoleOverlap, id)
}

// SetCollision assigns the collision node, zero clears it
func (o *Object) SetCollision(id core.NodeID) bool {
	return o.setRole(core.RoleCollision, id)
}

// SetSolid assigns the solid node and its surface set, zero clears it
func (o *Object) SetSolid(id core.NodeID, surfaces core.DirectionSet) bool {
	if o.added && o.c.Grid.Iterating() {
		return false
	}
	if id == o.solid {
		return o.SetSurfaces(surfaces)
	}
	prev := o.surfaces
	o.surfaces = surfaces
	if !o.setRole(core.RoleSolid, id) {
		o.surfaces = prev
		return false
	}
	return true
}

// SetSurfaces replaces the relative solid surface set
func (o *Object) SetSurfaces(surfaces core.DirectionSet) bool {
	if o.added && o.c.Grid.Iterating() {
		return false
	}
	if o.added {
		o.unregisterRole(core.RoleSolid)
	}
	o.surfaces = surfaces
	if o.added {
		o.registerRole(core.RoleSolid)
	}
	return true
}

// setRole swaps the node serving a non-locator role
// The new node must be capable, inside the locator subtree, and free of other owners
func (o *Object) setRole(role core.Role, id core.NodeID) bool {
	ref := o.roleRef(role)
	cur := *ref
	if id == cur {
		return true
	}
	if o.added && o.c.Grid.Iterating() {
		return false
	}
	nodes := o.c.Nodes
	if id != 0 {
		if !nodes.Capability(id).Has(role.Capability()) || !nodes.IsDescendantOrSelf(id, o.locator) {
			return false
		}
		if !nodes.Claim(id, o.id) {
			return false
		}
	}

	if o.added {
		o.unregisterRole(role)
	}
	*ref = id
	if cur != 0 {
		o.releaseIfUnused(cur)
	}
	if o.added {
		o.registerRole(role)
	}
	return true
}

func (o *Object) releaseIfUnused(id core.NodeID) {
	if id == o.locator || id == o.overlap || id == o.solid || id == o.collision {
		return
	}
	o.c.Nodes.Release(id, o.id)
}

func (o *Object) registerRole(role core.Role) {
	id := o.RoleNode(role)
	if id == 0 {
		return
	}
	if role == core.RoleSolid {
		abs := o.AbsoluteSurfaces()
		for d := core.Direction(0); d < core.DirCount; d++ {
			if abs.Has(d) {
				o.c.register(id, SolidSlot(d))
			}
		}
		return
	}
	o.c.register(id, RoleSlot(role))
}

func (o *Object) unregisterRole(role core.Role) {
	id := o.RoleNode(role)
	if id == 0 {
		return
	}
	t, ok := o.c.Grid.Tracker(id)
	if !ok {
		return
	}
	if role == core.RoleSolid {
		for d := core.Direction(0); d < core.DirCount; d++ {
			if t.Solid.Has(d) {
				o.c.unregister(id, SolidSlot(d))
			}
		}
		return
	}
	if t.Roles[role] {
		o.c.unregister(id, RoleSlot(role))
	}
}

// syncSurfaces moves solid membership to match the current mirror state
func (o *Object) syncSurfaces() {
	t, _ := o.c.Grid.Tracker(o.solid)
	want := o.AbsoluteSurfaces()
	for d := core.Direction(0); d < core.DirCount; d++ {
		switch {
		case t.Solid.Has(d) && !want.Has(d):
			o.c.unregister(o.solid, SolidSlot(d))
		case !t.Solid.Has(d) && want.Has(d):
			o.c.register(o.solid, SolidSlot(d))
		}
	}
}
