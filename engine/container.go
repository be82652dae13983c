package engine

import (
	"cmp"
	"errors"
	"fmt"
	"log/slog"
	"slices"

	"github.com/google/uuid"

	"github.com/lixenwraith/hitgrid/core"
	"github.com/lixenwraith/hitgrid/hitbox"
	"github.com/lixenwraith/hitgrid/parameter"
	"github.com/lixenwraith/hitgrid/physics"
	"github.com/lixenwraith/hitgrid/vmath"
)

var (
	ErrNodeOwned = errors.New("node already serves another object")
	ErrIncapable = errors.New("node cannot serve role")
)

// Container is one simulation space: it owns the node arena, the chunk grid
// and the objects living in it. All calls come from a single goroutine
type Container struct {
	ID    uuid.UUID
	Nodes *hitbox.Arena
	Grid  *ChunkGrid

	cfg        parameter.Config
	objects    map[core.ObjectID]*Object
	nextObject core.ObjectID
	pending    map[core.NodeID]struct{}
	step       uint64
	log        *slog.Logger
	closed     bool
}

// containerSource feeds the grid from the arena and object table
type containerSource struct {
	c *Container
}

func (s containerSource) Edges(id core.NodeID) core.Edges {
	return s.c.Nodes.Edges(id)
}

func (s containerSource) DrawKey(id core.NodeID) DrawKey {
	if o := s.c.OwnerOf(id); o != nil {
		return DrawKey{Layer: o.layer, Creation: uint64(o.id)}
	}
	return DrawKey{Creation: uint64(id)}
}

// NewContainer creates an empty container with its own arena and grid
func NewContainer(cfg parameter.Config) (*Container, error) {
	c := &Container{
		ID:         uuid.New(),
		Nodes:      hitbox.NewArena(),
		cfg:        cfg,
		objects:    make(map[core.ObjectID]*Object),
		nextObject: 1,
		pending:    make(map[core.NodeID]struct{}),
	}
	grid, err := NewChunkGrid(cfg, containerSource{c: c})
	if err != nil {
		return nil, fmt.Errorf("new container: %w", err)
	}
	c.Grid = grid
	c.log = slog.Default().With("container", c.ID.String())

	c.Nodes.SetListener(c.boundsChanged)
	c.Grid.OnUnlock(c.flush)
	return c, nil
}

// SetLogger replaces the container logger, tagging it with the container ID
func (c *Container) SetLogger(l *slog.Logger) {
	c.log = l.With("container", c.ID.String())
}

// Config returns the settings the container was built with
func (c *Container) Config() parameter.Config {
	return c.cfg
}

// Step returns the number of completed Advance calls
func (c *Container) Step() uint64 {
	return c.step
}

// Pending returns the number of deferred bounds refreshes
func (c *Container) Pending() int {
	return len(c.pending)
}

// boundsChanged is the arena listener; refreshes run now unless a streaming
// query holds the grid, in which case they wait for unlock
func (c *Container) boundsChanged(id core.NodeID) {
	if !c.Grid.Tracked(id) {
		return
	}
	if c.Grid.Iterating() {
		c.pending[id] = struct{}{}
		return
	}
	c.sync(id)
}

func (c *Container) sync(id core.NodeID) {
	if _, err := c.Grid.Refresh(id); err != nil {
		c.pending[id] = struct{}{}
		return
	}
	if o := c.OwnerOf(id); o != nil && o.added && o.solid == id {
		o.syncSurfaces()
	}
}

// flush applies deferred refreshes in ID order
func (c *Container) flush() {
	if len(c.pending) == 0 || c.Grid.Iterating() {
		return
	}
	ids := make([]core.NodeID, 0, len(c.pending))
	for id := range c.pending {
		ids = append(ids, id)
	}
	slices.Sort(ids)
	clear(c.pending)
	for _, id := range ids {
		if c.Nodes.Alive(id) && c.Grid.Tracked(id) {
			c.sync(id)
		}
	}
	c.log.Debug("flushed deferred refreshes", "count", len(ids))
}

// Advance is the step boundary: pending membership updates are applied so that
// queries issued afterwards see a settled grid
func (c *Container) Advance() {
	c.flush()
	if c.cfg.EvictEmpty {
		if n := c.Grid.Evict(); n > 0 {
			c.log.Debug("evicted empty chunks", "count", n, "step", c.step)
		}
	}
	c.step++
}

// NewPoint creates a root point node
func (c *Container) NewPoint(x, y float64) core.NodeID {
	return c.Nodes.NewPoint(x, y)
}

// NewCircle creates a root circle node
func (c *Container) NewCircle(x, y, radius float64) (core.NodeID, error) {
	return c.Nodes.NewCircle(x, y, radius)
}

// NewRect creates a root rectangle with edges relative to (x, y)
func (c *Container) NewRect(x, y float64, rel core.Edges) (core.NodeID, error) {
	return c.Nodes.NewRect(x, y, rel)
}

// NewLine creates a root segment from (x, y) along (dx, dy)
func (c *Container) NewLine(x, y, dx, dy float64) core.NodeID {
	return c.Nodes.NewLine(x, y, dx, dy)
}

// NewPolygon creates a root convex polygon with vertices relative to (x, y)
func (c *Container) NewPolygon(x, y float64, verts []vmath.Vec2) (core.NodeID, error) {
	return c.Nodes.NewPolygon(x, y, verts)
}

// NewComposite creates a root composite accepting children with every accept bit
func (c *Container) NewComposite(x, y float64, accept core.Capability) core.NodeID {
	return c.Nodes.NewComposite(x, y, accept)
}

func (c *Container) Attach(child, parent core.NodeID) bool {
	return c.Nodes.Attach(child, parent)
}

func (c *Container) Detach(child core.NodeID) bool {
	return c.Nodes.Detach(child)
}

func (c *Container) SetRelativePosition(id core.NodeID, x, y float64) bool {
	return c.Nodes.SetRelativePosition(id, x, y)
}

func (c *Container) SetRelativeFlip(id core.NodeID, xFlip, yFlip bool) bool {
	return c.Nodes.SetRelativeFlip(id, xFlip, yFlip)
}

func (c *Container) SetRelativeAngle(id core.NodeID, deg float64) bool {
	return c.Nodes.SetRelativeAngle(id, deg)
}

func (c *Container) register(id core.NodeID, s Slot) {
	if err := c.Grid.Register(id, s); err != nil {
		c.log.Warn("register slot", "node", id, "slot", slotName(s), "error", err)
	}
}

func (c *Container) unregister(id core.NodeID, s Slot) {
	if err := c.Grid.Unregister(id, s); err != nil {
		c.log.Warn("unregister slot", "node", id, "slot", slotName(s), "error", err)
	}
}

// NewObject creates an object around a locator node it claims exclusively
func (c *Container) NewObject(locator core.NodeID) (*Object, error) {
	if !c.Nodes.Alive(locator) {
		return nil, fmt.Errorf("%w: %d", hitbox.ErrUnknownNode, locator)
	}
	if !c.Nodes.Capability(locator).Has(core.CapLocator) {
		return nil, fmt.Errorf("%w: node %d locator", ErrIncapable, locator)
	}
	id := c.nextObject
	if !c.Nodes.Claim(locator, id) {
		return nil, fmt.Errorf("%w: node %d", ErrNodeOwned, locator)
	}
	c.nextObject++

	o := &Object{
		id:      id,
		c:       c,
		locator: locator,
		alpha:   1,
		active:  true,
	}
	c.objects[id] = o
	return o, nil
}

// RegisterObject builds an object with all its role nodes in one call
// Zero IDs leave a role empty; any rejected assignment discards the object
func (c *Container) RegisterObject(locator, overlap, solid, collision core.NodeID, surfaces core.DirectionSet) (*Object, bool) {
	o, err := c.NewObject(locator)
	if err != nil {
		return nil, false
	}
	if !o.SetOverlap(overlap) || !o.SetSolid(solid, surfaces) || !o.SetCollision(collision) {
		c.release(o)
		delete(c.objects, o.id)
		return nil, false
	}
	return o, true
}

// Object looks an object up by ID
func (c *Container) Object(id core.ObjectID) *Object {
	return c.objects[id]
}

// OwnerOf returns the object a node serves, nil if none
func (c *Container) OwnerOf(id core.NodeID) *Object {
	if oid := c.Nodes.Owner(id); oid != 0 {
		return c.objects[oid]
	}
	return nil
}

// Objects returns every object in ID order
func (c *Container) Objects() []*Object {
	out := make([]*Object, 0, len(c.objects))
	for _, o := range c.objects {
		out = append(out, o)
	}
	slices.SortFunc(out, func(a, b *Object) int { return cmp.Compare(a.id, b.id) })
	return out
}

// Add registers every role of the object in the grid
func (c *Container) Add(o *Object) bool {
	if o == nil || o.c != c || o.added || c.closed || c.Grid.Iterating() {
		return false
	}
	o.added = true
	for r := core.Role(0); r < core.RoleCount; r++ {
		o.registerRole(r)
	}
	c.log.Debug("object added", "object", o.id, "locator", o.locator)
	return true
}

// Remove withdraws every role of the object from the grid
func (c *Container) Remove(o *Object) bool {
	if o == nil || o.c != c || !o.added || c.Grid.Iterating() {
		return false
	}
	for r := core.Role(0); r < core.RoleCount; r++ {
		o.unregisterRole(r)
	}
	o.added = false
	c.log.Debug("object removed", "object", o.id)
	return true
}

// DestroyObject removes the object and frees its node tree
// Nodes serving other objects keep the tree alive; only ownership is dropped then
func (c *Container) DestroyObject(o *Object) bool {
	if o == nil || o.c != c || c.Grid.Iterating() {
		return false
	}
	if o.added {
		c.Remove(o)
	}
	c.release(o)
	delete(c.objects, o.id)

	foreign := false
	c.Nodes.Walk(o.locator, func(id core.NodeID) {
		if c.Nodes.Owner(id) != 0 {
			foreign = true
		}
	})
	if foreign {
		c.log.Debug("object destroyed, tree kept for other owners", "object", o.id)
		return true
	}
	n := c.Nodes.DestroyTree(o.locator)
	c.log.Debug("object destroyed", "object", o.id, "nodes", n)
	return true
}

func (c *Container) release(o *Object) {
	for _, id := range []core.NodeID{o.locator, o.overlap, o.solid, o.collision} {
		if id != 0 {
			c.Nodes.Release(id, o.id)
		}
	}
}

// QueryRegion returns nodes holding role in the chunks the region spans
func (c *Container) QueryRegion(region core.Edges, role core.Role) map[core.NodeID]struct{} {
	return c.Grid.QueryRegion(region, role)
}

// QuerySolid returns nodes presenting a solid surface in direction d
func (c *Container) QuerySolid(region core.Edges, d core.Direction) map[core.NodeID]struct{} {
	return c.Grid.QuerySolid(region, d)
}

// QueryDrawOrder returns locator nodes of the spanned chunks in draw order
func (c *Container) QueryDrawOrder(region core.Edges) []core.NodeID {
	return c.Grid.QueryDrawOrder(region)
}

// EachDrawOrder streams locator nodes in draw order; transform changes made
// from fn are applied to the grid once iteration ends
func (c *Container) EachDrawOrder(region core.Edges, fn func(core.NodeID) bool) {
	c.Grid.EachDrawOrder(region, fn)
}

// EachDrawOrderView streams locator nodes for a half-open viewport in draw order
func (c *Container) EachDrawOrderView(view core.Edges, fn func(core.NodeID) bool) {
	c.Grid.EachDrawOrderView(view, fn)
}

// ObjectsInRegion returns added objects whose role node's box meets the region
func (c *Container) ObjectsInRegion(region core.Edges, role core.Role) []*Object {
	var out []*Object
	for id := range c.Grid.QueryRegion(region, role) {
		o := c.OwnerOf(id)
		if o == nil || !o.added || !c.Nodes.Edges(id).Overlaps(region) {
			continue
		}
		out = append(out, o)
	}
	return sortUnique(out)
}

// Overlapping returns active objects whose role node intersects o's overlap
// node (its locator when it has none), using the grid as the broad phase
func (c *Container) Overlapping(o *Object, role core.Role) []*Object {
	if o == nil || !o.added {
		return nil
	}
	probe := o.overlap
	if probe == 0 {
		probe = o.locator
	}
	shape, ok := c.Nodes.Shape(probe)
	if !ok {
		return nil
	}
	bounds := c.Nodes.Edges(probe)

	var out []*Object
	for id := range c.Grid.QueryRegion(bounds, role) {
		other := c.OwnerOf(id)
		if other == nil || other == o || !other.active || !other.added {
			continue
		}
		if !c.Nodes.Edges(id).Overlaps(bounds) {
			continue
		}
		if s, ok := c.Nodes.Shape(id); ok && physics.Overlaps(shape, s) {
			out = append(out, other)
		}
	}
	return sortUnique(out)
}

func sortUnique(objs []*Object) []*Object {
	slices.SortFunc(objs, func(a, b *Object) int { return cmp.Compare(a.id, b.id) })
	return slices.CompactFunc(objs, func(a, b *Object) bool { return a == b })
}

// Validate checks grid soundness and that every added object's roles are registered
func (c *Container) Validate() error {
	if err := c.Grid.Validate(); err != nil {
		return err
	}
	for _, o := range c.objects {
		for r := core.Role(0); r < core.RoleCount; r++ {
			id := o.RoleNode(r)
			if id == 0 {
				continue
			}
			t, tracked := c.Grid.Tracker(id)
			if r == core.RoleSolid {
				want := core.SurfaceNone
				if o.added {
					want = o.AbsoluteSurfaces()
				}
				if t.Solid != want {
					return fmt.Errorf("%w: object %d solid surfaces %04b, want %04b", ErrInconsistent, o.id, t.Solid, want)
				}
				continue
			}
			if (tracked && t.Roles[r]) != o.added {
				return fmt.Errorf("%w: object %d %s registration mismatch", ErrInconsistent, o.id, r)
			}
		}
	}
	return nil
}

// Close withdraws every object and clears the grid; the container is unusable afterwards
func (c *Container) Close() {
	if c.closed {
		return
	}
	for _, o := range c.objects {
		o.added = false
	}
	c.Grid.Clear()
	clear(c.pending)
	c.closed = true
	c.log.Debug("container closed", "objects", len(c.objects), "steps", c.step)
}
