package hitbox

import (
	"slices"

	"github.com/lixenwraith/hitgrid/core"
	"github.com/lixenwraith/hitgrid/vmath"
)

// SetRelativePosition moves a node relative to its parent
func (a *Arena) SetRelativePosition(id core.NodeID, x, y float64) bool {
	n := a.get(id)
	if n == nil {
		return false
	}
	n.relPos = vmath.Vec2{X: x, Y: y}
	a.update(id)
	return true
}

// Translate offsets the relative position
func (a *Arena) Translate(id core.NodeID, dx, dy float64) bool {
	n := a.get(id)
	if n == nil {
		return false
	}
	return a.SetRelativePosition(id, n.relPos.X+dx, n.relPos.Y+dy)
}

// SetRelativeFlip sets the mirror flags relative to the parent
func (a *Arena) SetRelativeFlip(id core.NodeID, xFlip, yFlip bool) bool {
	n := a.get(id)
	if n == nil {
		return false
	}
	n.relXFlip, n.relYFlip = xFlip, yFlip
	a.update(id)
	return true
}

// SetRelativeAngle sets the rotation in degrees relative to the parent
func (a *Arena) SetRelativeAngle(id core.NodeID, deg float64) bool {
	n := a.get(id)
	if n == nil {
		return false
	}
	n.relAngle = vmath.NormalizeAngle(deg)
	a.update(id)
	return true
}

// Attach makes parent the parent of child
// Rejects unknown nodes, already-parented children, subtrees holding owned nodes,
// cycles, and children a composite parent does not accept
func (a *Arena) Attach(child, parent core.NodeID) bool {
	c, p := a.get(child), a.get(parent)
	if c == nil || p == nil || child == parent || c.parent != 0 {
		return false
	}
	if a.ownedIn(child) || a.IsDescendantOrSelf(parent, child) {
		return false
	}
	if p.kind == core.ShapeComposite && !a.Capability(child).Has(p.accept) {
		return false
	}

	c.parent = parent
	p.children = append(p.children, child)
	a.update(child)
	return true
}

// Detach turns child into a root, recomputing it against the identity transform
func (a *Arena) Detach(child core.NodeID) bool {
	c := a.get(child)
	if c == nil || c.parent == 0 || a.ownedIn(child) {
		return false
	}
	a.unlink(child)
	a.update(child)
	return true
}

// unlink drops the parent edge and settles the old parent chain
func (a *Arena) unlink(child core.NodeID) {
	c := &a.nodes[child-1]
	parent := c.parent
	p := &a.nodes[parent-1]
	if i := slices.Index(p.children, child); i >= 0 {
		p.children = slices.Delete(p.children, i, i+1)
	}
	c.parent = 0
	a.settleAncestors(parent)
}

// update recomputes the subtree rooted at id
// Transforms settle in pre-order, edges in reverse so composites see final children,
// then the listener hears about every touched node
func (a *Arena) update(id core.NodeID) {
	visited := a.subtree(id)
	for _, d := range visited {
		a.compose(&a.nodes[d-1])
	}
	for i := len(visited) - 1; i >= 0; i-- {
		n := &a.nodes[visited[i]-1]
		n.edges = a.shapeEdges(n)
	}
	for _, d := range visited {
		a.notify(d)
	}
	a.settleAncestors(a.nodes[id-1].parent)
}

// settleAncestors refreshes composite edges up the chain until one is unchanged
func (a *Arena) settleAncestors(start core.NodeID) {
	for cur := start; cur != 0; {
		n := &a.nodes[cur-1]
		if n.kind != core.ShapeComposite {
			return
		}
		edges := a.shapeEdges(n)
		if edges == n.edges {
			return
		}
		n.edges = edges
		a.notify(cur)
		cur = n.parent
	}
}

// compose derives absolute state from the parent's absolute state
func (a *Arena) compose(n *node) {
	if n.parent == 0 {
		n.absPos = n.relPos
		n.absXFlip, n.absYFlip = n.relXFlip, n.relYFlip
		n.absAngle = n.relAngle
	} else {
		p := &a.nodes[n.parent-1]
		n.absPos = p.absPos.Add(n.relPos.Transform(p.absXFlip, p.absYFlip, p.cos, p.sin))
		n.absXFlip = p.absXFlip != n.relXFlip
		n.absYFlip = p.absYFlip != n.relYFlip
		n.absAngle = vmath.ComposeAngle(p.absAngle, p.absXFlip, p.absYFlip, n.relAngle)
	}
	n.cos, n.sin = vmath.Direction(n.absAngle)
}

func (a *Arena) notify(id core.NodeID) {
	if a.listener != nil {
		a.listener(id)
	}
}

func (a *Arena) RelativePosition(id core.NodeID) (x, y float64) {
	if n := a.get(id); n != nil {
		return n.relPos.X, n.relPos.Y
	}
	return 0, 0
}

func (a *Arena) RelativeFlip(id core.NodeID) (xFlip, yFlip bool) {
	if n := a.get(id); n != nil {
		return n.relXFlip, n.relYFlip
	}
	return false, false
}

func (a *Arena) RelativeAngle(id core.NodeID) float64 {
	if n := a.get(id); n != nil {
		return n.relAngle
	}
	return 0
}

func (a *Arena) AbsolutePosition(id core.NodeID) (x, y float64) {
	if n := a.get(id); n != nil {
		return n.absPos.X, n.absPos.Y
	}
	return 0, 0
}

func (a *Arena) AbsoluteFlip(id core.NodeID) (xFlip, yFlip bool) {
	if n := a.get(id); n != nil {
		return n.absXFlip, n.absYFlip
	}
	return false, false
}

func (a *Arena) AbsoluteAngle(id core.NodeID) float64 {
	if n := a.get(id); n != nil {
		return n.absAngle
	}
	return 0
}

// Heading returns the cached screen-space unit vector of the absolute angle
func (a *Arena) Heading(id core.NodeID) (dx, dy float64) {
	if n := a.get(id); n != nil {
		return n.cos, -n.sin
	}
	return 1, 0
}

// Edges returns the absolute bounding box
func (a *Arena) Edges(id core.NodeID) core.Edges {
	if n := a.get(id); n != nil {
		return n.edges
	}
	return core.Edges{}
}
