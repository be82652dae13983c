// Package hitbox holds the transform hierarchy of bounding shapes
// Nodes live in an arena and refer to each other by core.NodeID, never by pointer
package hitbox

import (
	"errors"
	"fmt"

	"github.com/lixenwraith/hitgrid/core"
	"github.com/lixenwraith/hitgrid/physics"
	"github.com/lixenwraith/hitgrid/vmath"
)

var (
	ErrInvalidShape = errors.New("invalid shape")
	ErrUnknownNode  = errors.New("unknown node")
)

// BoundsListener is told about every node whose absolute state may have changed
// Calls arrive after the whole affected subtree has settled
type BoundsListener func(id core.NodeID)

// node is one arena slot
// Shape parameters are relative to the node origin before mirror and rotation
type node struct {
	kind  core.ShapeKind
	alive bool

	relPos   vmath.Vec2
	relXFlip bool
	relYFlip bool
	relAngle float64

	absPos   vmath.Vec2
	absXFlip bool
	absYFlip bool
	absAngle float64
	cos, sin float64

	parent   core.NodeID
	children []core.NodeID

	radius float64
	rect   core.Edges
	end    vmath.Vec2
	verts  []vmath.Vec2
	accept core.Capability

	edges core.Edges
	owner core.ObjectID
}

// Arena owns every node of one simulation container
type Arena struct {
	nodes    []node // index = id - 1
	live     int
	listener BoundsListener
}

// NewArena creates an empty node arena
func NewArena() *Arena {
	return &Arena{
		nodes: make([]node, 0, 64),
	}
}

// SetListener installs the callback fired after absolute state changes
func (a *Arena) SetListener(fn BoundsListener) {
	a.listener = fn
}

// Len returns the number of live nodes
func (a *Arena) Len() int {
	return a.live
}

// IDs returns every live node in ascending order
func (a *Arena) IDs() []core.NodeID {
	out := make([]core.NodeID, 0, a.live)
	for i := range a.nodes {
		if a.nodes[i].alive {
			out = append(out, core.NodeID(i+1))
		}
	}
	return out
}

// Alive reports whether id refers to a live node
func (a *Arena) Alive(id core.NodeID) bool {
	return a.get(id) != nil
}

func (a *Arena) get(id core.NodeID) *node {
	if id == 0 || int(id) > len(a.nodes) {
		return nil
	}
	n := &a.nodes[id-1]
	if !n.alive {
		return nil
	}
	return n
}

// alloc appends a root node positioned at (x, y)
// IDs are never reused so stale handles stay dead
func (a *Arena) alloc(kind core.ShapeKind, x, y float64) (core.NodeID, *node) {
	a.nodes = append(a.nodes, node{
		kind:   kind,
		alive:  true,
		relPos: vmath.Vec2{X: x, Y: y},
		absPos: vmath.Vec2{X: x, Y: y},
		cos:    1,
	})
	a.live++
	id := core.NodeID(len(a.nodes))
	n := &a.nodes[id-1]
	n.edges = a.shapeEdges(n)
	return id, n
}

// NewPoint creates a point node at (x, y)
func (a *Arena) NewPoint(x, y float64) core.NodeID {
	id, _ := a.alloc(core.ShapePoint, x, y)
	return id
}

// NewCircle creates a circle of the given radius centered on its origin
func (a *Arena) NewCircle(x, y, radius float64) (core.NodeID, error) {
	if radius < 0 {
		return 0, fmt.Errorf("%w: negative radius %v", ErrInvalidShape, radius)
	}
	id, n := a.alloc(core.ShapeCircle, x, y)
	n.radius = radius
	n.edges = a.shapeEdges(n)
	return id, nil
}

// NewRect creates an axis-aligned rectangle whose edges are offsets from its origin
// Rectangles mirror with their node but ignore rotation
func (a *Arena) NewRect(x, y float64, rel core.Edges) (core.NodeID, error) {
	if !rel.Valid() {
		return 0, fmt.Errorf("%w: inverted rectangle %+v", ErrInvalidShape, rel)
	}
	id, n := a.alloc(core.ShapeRect, x, y)
	n.rect = rel
	n.edges = a.shapeEdges(n)
	return id, nil
}

// NewLine creates a segment from its origin to origin+(dx, dy)
func (a *Arena) NewLine(x, y, dx, dy float64) core.NodeID {
	id, n := a.alloc(core.ShapeLine, x, y)
	n.end = vmath.Vec2{X: dx, Y: dy}
	n.edges = a.shapeEdges(n)
	return id
}

// NewPolygon creates a convex polygon with vertices relative to its origin
func (a *Arena) NewPolygon(x, y float64, verts []vmath.Vec2) (core.NodeID, error) {
	if !physics.IsConvex(verts) {
		return 0, fmt.Errorf("%w: polygon must be convex with at least 3 vertices", ErrInvalidShape)
	}
	id, n := a.alloc(core.ShapePolygon, x, y)
	n.verts = append([]vmath.Vec2(nil), verts...)
	n.edges = a.shapeEdges(n)
	return id, nil
}

// NewComposite creates an aggregate node; children must carry every bit of accept
func (a *Arena) NewComposite(x, y float64, accept core.Capability) core.NodeID {
	id, n := a.alloc(core.ShapeComposite, x, y)
	n.accept = accept
	return id
}

// MustRect is NewRect for static setup, panics on invalid input
func (a *Arena) MustRect(x, y float64, rel core.Edges) core.NodeID {
	id, err := a.NewRect(x, y, rel)
	if err != nil {
		panic(err)
	}
	return id
}

// MustCircle is NewCircle for static setup, panics on invalid input
func (a *Arena) MustCircle(x, y, radius float64) core.NodeID {
	id, err := a.NewCircle(x, y, radius)
	if err != nil {
		panic(err)
	}
	return id
}

// Destroy removes a node, detaching it from its parent and orphaning its children
// A subtree holding an owned node cannot be split this way
func (a *Arena) Destroy(id core.NodeID) bool {
	n := a.get(id)
	if n == nil || a.ownedIn(id) {
		return false
	}
	if n.parent != 0 {
		a.unlink(id)
	}
	children := n.children
	n.children = nil
	for _, c := range children {
		a.nodes[c-1].parent = 0
		a.update(c)
	}
	n.alive = false
	n.verts = nil
	a.live--
	return true
}

// DestroyTree removes a node and all of its descendants, ignoring ownership
// Callers release ownership beforehand
func (a *Arena) DestroyTree(id core.NodeID) int {
	n := a.get(id)
	if n == nil {
		return 0
	}
	if n.parent != 0 {
		a.unlink(id)
	}
	doomed := a.subtree(id)
	for _, d := range doomed {
		dn := &a.nodes[d-1]
		dn.alive = false
		dn.children = nil
		dn.verts = nil
		dn.owner = 0
	}
	count := len(doomed)
	a.live -= count
	return count
}

// Owner returns the object a node currently serves, zero if none
func (a *Arena) Owner(id core.NodeID) core.ObjectID {
	if n := a.get(id); n != nil {
		return n.owner
	}
	return 0
}

// Claim marks a node as serving obj, succeeds if unowned or already obj's
func (a *Arena) Claim(id core.NodeID, obj core.ObjectID) bool {
	n := a.get(id)
	if n == nil || obj == 0 {
		return false
	}
	if n.owner != 0 && n.owner != obj {
		return false
	}
	n.owner = obj
	return true
}

// Release clears ownership if held by obj
func (a *Arena) Release(id core.NodeID, obj core.ObjectID) {
	if n := a.get(id); n != nil && n.owner == obj {
		n.owner = 0
	}
}

// Kind returns the shape kind of a node
func (a *Arena) Kind(id core.NodeID) (core.ShapeKind, bool) {
	n := a.get(id)
	if n == nil {
		return 0, false
	}
	return n.kind, true
}

// Capability returns the roles a node is able to serve
func (a *Arena) Capability(id core.NodeID) core.Capability {
	n := a.get(id)
	if n == nil {
		return core.CapNone
	}
	if n.kind == core.ShapeComposite {
		return n.accept | core.CapLocator
	}
	return core.KindCapability(n.kind)
}

func (a *Arena) Parent(id core.NodeID) core.NodeID {
	if n := a.get(id); n != nil {
		return n.parent
	}
	return 0
}

// Children returns a copy of the child list
func (a *Arena) Children(id core.NodeID) []core.NodeID {
	n := a.get(id)
	if n == nil || len(n.children) == 0 {
		return nil
	}
	out := make([]core.NodeID, len(n.children))
	copy(out, n.children)
	return out
}

// IsDescendantOrSelf reports whether id lies in the subtree rooted at root
// O(depth) walk up the parent chain
func (a *Arena) IsDescendantOrSelf(id, root core.NodeID) bool {
	for cur := id; cur != 0; cur = a.nodes[cur-1].parent {
		if a.get(cur) == nil {
			return false
		}
		if cur == root {
			return true
		}
	}
	return false
}

// Walk visits the subtree rooted at id in pre-order
func (a *Arena) Walk(id core.NodeID, fn func(core.NodeID)) {
	if a.get(id) == nil {
		return
	}
	a.walk(id, fn)
}

func (a *Arena) walk(id core.NodeID, fn func(core.NodeID)) {
	fn(id)
	for _, c := range a.nodes[id-1].children {
		a.walk(c, fn)
	}
}

// subtree returns the IDs rooted at id in pre-order
func (a *Arena) subtree(id core.NodeID) []core.NodeID {
	var out []core.NodeID
	a.walk(id, func(d core.NodeID) {
		out = append(out, d)
	})
	return out
}

// ownedIn reports whether any node of the subtree serves an object
func (a *Arena) ownedIn(id core.NodeID) bool {
	owned := false
	a.walk(id, func(d core.NodeID) {
		if a.nodes[d-1].owner != 0 {
			owned = true
		}
	})
	return owned
}

// Spec describes a node for Create; fields not used by Kind are ignored
type Spec struct {
	Kind   core.ShapeKind
	X, Y   float64
	Radius float64
	Rect   core.Edges
	DX, DY float64
	Verts  []vmath.Vec2
	Accept core.Capability
}

// Create builds a node of any kind from a Spec description
func (a *Arena) Create(s Spec) (core.NodeID, error) {
	switch s.Kind {
	case core.ShapePoint:
		return a.NewPoint(s.X, s.Y), nil
	case core.ShapeCircle:
		return a.NewCircle(s.X, s.Y, s.Radius)
	case core.ShapeRect:
		return a.NewRect(s.X, s.Y, s.Rect)
	case core.ShapeLine:
		return a.NewLine(s.X, s.Y, s.DX, s.DY), nil
	case core.ShapePolygon:
		return a.NewPolygon(s.X, s.Y, s.Verts)
	case core.ShapeComposite:
		return a.NewComposite(s.X, s.Y, s.Accept), nil
	default:
		return 0, fmt.Errorf("%w: unknown kind %d", ErrInvalidShape, s.Kind)
	}
}
