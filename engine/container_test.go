package engine

import (
	"math/rand/v2"
	"slices"
	"testing"

	"github.com/lixenwraith/hitgrid/core"
	"github.com/lixenwraith/hitgrid/parameter"
)

func newTestContainer(t *testing.T) *Container {
	t.Helper()
	c, err := NewContainer(parameter.Default())
	if err != nil {
		t.Fatalf("NewContainer: %v", err)
	}
	return c
}

func mustValidate(t *testing.T, c *Container) {
	t.Helper()
	if err := c.Validate(); err != nil {
		t.Fatalf("Validate: %v", err)
	}
}

// addBox creates a rectangle object centered at (x, y) with the given half extents
func addBox(t *testing.T, c *Container, x, y, hw, hh float64, layer int) *Object {
	t.Helper()
	id, err := c.NewRect(x, y, core.Edges{Left: -hw, Right: hw, Top: -hh, Bottom: hh})
	if err != nil {
		t.Fatal(err)
	}
	o, ok := c.RegisterObject(id, id, 0, id, core.SurfaceNone)
	if !ok {
		t.Fatalf("RegisterObject(%d) failed", id)
	}
	o.SetLayer(layer)
	if !c.Add(o) {
		t.Fatal("Add failed")
	}
	return o
}

func TestDrawOrderAcrossChunks(t *testing.T) {
	c := newTestContainer(t)
	// B is created first so only its layer puts it after A
	b := addBox(t, c, 125, 32, 25, 10, 1)
	a := addBox(t, c, 60, 32, 20, 10, 0)

	if r, _ := c.Grid.RangeOf(a.Locator()); r.MinCol != 0 || r.MaxCol != 1 {
		t.Fatalf("A spans %+v, want cols [0,1]", r)
	}
	if r, _ := c.Grid.RangeOf(b.Locator()); r.MinCol != 1 || r.MaxCol != 2 {
		t.Fatalf("B spans %+v, want cols [1,2]", r)
	}

	got := c.QueryDrawOrder(core.Edges{Left: 10, Right: 180, Top: 10, Bottom: 50})
	want := []core.NodeID{a.Locator(), b.Locator()}
	if !slices.Equal(got, want) {
		t.Errorf("QueryDrawOrder = %v, want %v", got, want)
	}

	// Same layer falls back to creation order
	b.SetLayer(0)
	got = c.QueryDrawOrder(core.Edges{Left: 10, Right: 180, Top: 10, Bottom: 50})
	if !slices.Equal(got, []core.NodeID{b.Locator(), a.Locator()}) {
		t.Errorf("after relayer QueryDrawOrder = %v", got)
	}
	mustValidate(t, c)
}

func TestMoveAcrossChunks(t *testing.T) {
	c := newTestContainer(t)
	a := addBox(t, c, 60, 32, 20, 10, 0)
	id := a.Locator()

	if !c.SetRelativePosition(id, 370, 32) {
		t.Fatal("SetRelativePosition failed")
	}

	r, _ := c.Grid.RangeOf(id)
	if r.MinCol != 5 || r.MaxCol != 6 {
		t.Fatalf("range after move %+v, want cols [5,6]", r)
	}
	for _, col := range []int{0, 1} {
		ch := c.Grid.Chunk(col, 0)
		for _, role := range []core.Role{core.RoleLocator, core.RoleOverlap, core.RoleCollision} {
			if ch.Has(RoleSlot(role), id) {
				t.Errorf("old chunk (%d,0) still holds %s", col, role)
			}
		}
	}
	for _, col := range []int{5, 6} {
		ch := c.Grid.Chunk(col, 0)
		if ch == nil || !ch.Has(RoleSlot(core.RoleCollision), id) || !ch.Has(RoleSlot(core.RoleLocator), id) {
			t.Errorf("new chunk (%d,0) missing node", col)
		}
	}
	if got := c.QueryRegion(core.Edges{Left: 10, Right: 100, Top: 10, Bottom: 50}, core.RoleCollision); len(got) != 0 {
		t.Errorf("old columns still report %v", got)
	}
	if got := c.QueryRegion(core.Edges{Left: 330, Right: 340, Top: 10, Bottom: 50}, core.RoleCollision); len(got) != 1 {
		t.Errorf("new columns report %v", got)
	}
	mustValidate(t, c)
}

func TestUnchangedTransformIsFree(t *testing.T) {
	c := newTestContainer(t)
	a := addBox(t, c, 60, 32, 20, 10, 0)
	before := c.Grid.Mutations()

	c.SetRelativePosition(a.Locator(), 60, 32)
	c.SetRelativePosition(a.Locator(), 61, 33)
	c.SetRelativeAngle(a.Locator(), 90)
	if c.Grid.Mutations() != before {
		t.Errorf("moves inside the same chunks mutated %d buckets", c.Grid.Mutations()-before)
	}
}

func TestObjectRoleRules(t *testing.T) {
	c := newTestContainer(t)
	root := c.Nodes.MustRect(0, 0, core.Edges{Left: -5, Right: 5, Top: -5, Bottom: 5})
	child := c.Nodes.MustCircle(10, 0, 3)
	point := c.NewPoint(0, 10)
	stranger := c.Nodes.MustRect(100, 100, core.Edges{Left: -1, Right: 1, Top: -1, Bottom: 1})
	c.Attach(child, root)
	c.Attach(point, root)

	o, err := c.NewObject(root)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := c.NewObject(root); err == nil {
		t.Error("second object on the same locator should fail")
	}

	tests := []struct {
		name string
		set  func() bool
		want bool
	}{
		{"overlap outside locator subtree", func() bool { return o.SetOverlap(stranger) }, false},
		{"point cannot be solid", func() bool { return o.SetSolid(point, core.SurfaceUp) }, false},
		{"circle cannot be solid", func() bool { return o.SetSolid(child, core.SurfaceUp) }, false},
		{"point cannot collide", func() bool { return o.SetCollision(point) }, false},
		{"circle collides", func() bool { return o.SetCollision(child) }, true},
		{"locator may double as solid", func() bool { return o.SetSolid(root, core.SurfaceUp) }, true},
		{"point overlaps", func() bool { return o.SetOverlap(point) }, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.set(); got != tt.want {
				t.Errorf("got %v, want %v", got, tt.want)
			}
		})
	}

	other, err := c.NewObject(stranger)
	if err != nil {
		t.Fatal(err)
	}
	if other.SetOverlap(child) {
		t.Error("node owned by another object was accepted")
	}
	if c.Detach(child) {
		t.Error("owned node was detached")
	}

	// Clearing a role releases the node
	o.SetCollision(0)
	if c.Nodes.Owner(child) != 0 {
		t.Error("cleared role node is still owned")
	}
	if !c.Detach(child) {
		t.Error("released node should detach")
	}

	if _, ok := c.RegisterObject(child, stranger, 0, 0, core.SurfaceNone); ok {
		t.Error("RegisterObject with a foreign overlap node succeeded")
	}
	if c.Nodes.Owner(child) != 0 {
		t.Error("failed RegisterObject left its locator claimed")
	}
}

func TestAddRemove(t *testing.T) {
	c := newTestContainer(t)
	o := addBox(t, c, 32, 32, 4, 4, 0)

	if c.Add(o) {
		t.Error("second Add succeeded")
	}
	if !c.Remove(o) || c.Remove(o) {
		t.Error("Remove should succeed exactly once")
	}
	if c.Grid.Tracked(o.Locator()) {
		t.Error("removed object still tracked")
	}
	mustValidate(t, c)

	// Changes made while removed apply on the next Add
	o.SetLayer(3)
	c.SetRelativePosition(o.Locator(), 200, 200)
	if !c.Add(o) {
		t.Fatal("re-Add failed")
	}
	if tr, _ := c.Grid.Tracker(o.Locator()); tr.Key.Layer != 3 || tr.Range.MinCol != 3 {
		t.Errorf("tracker after re-add %+v", tr)
	}
	mustValidate(t, c)
}

func TestSolidSurfacesMirror(t *testing.T) {
	c := newTestContainer(t)
	root := c.NewComposite(32, 32, core.CapNone)
	wall := c.Nodes.MustRect(0, 0, core.Edges{Left: -10, Right: 10, Top: -10, Bottom: 10})
	c.Attach(wall, root)

	o, ok := c.RegisterObject(root, 0, wall, 0, core.SurfaceLeft|core.SurfaceUp)
	if !ok || !c.Add(o) {
		t.Fatal("setup failed")
	}
	region := core.Edges{Left: 0, Right: 60, Top: 0, Bottom: 60}

	check := func(want core.DirectionSet) {
		t.Helper()
		for d := core.Direction(0); d < core.DirCount; d++ {
			_, has := c.QuerySolid(region, d)[wall]
			if has != want.Has(d) {
				t.Errorf("solid %s present = %v, want %v", d, has, want.Has(d))
			}
		}
		mustValidate(t, c)
	}

	check(core.SurfaceLeft | core.SurfaceUp)
	c.SetRelativeFlip(root, true, false)
	check(core.SurfaceRight | core.SurfaceUp)
	c.SetRelativeFlip(wall, false, true)
	check(core.SurfaceRight | core.SurfaceDown)
	c.SetRelativeFlip(root, false, false)
	check(core.SurfaceLeft | core.SurfaceDown)

	if tr, _ := c.Grid.Tracker(wall); tr.Count != 2 {
		t.Errorf("each solid direction counts once, count = %d", tr.Count)
	}
	o.SetSurfaces(core.SurfaceAll)
	check(core.SurfaceAll)
}

func TestDeferredRefreshDuringIteration(t *testing.T) {
	c := newTestContainer(t)
	a := addBox(t, c, 32, 32, 4, 4, 0)
	b := addBox(t, c, 40, 32, 4, 4, 1)
	view := core.Edges{Left: 0, Right: 60, Top: 0, Bottom: 60}

	var seen []core.NodeID
	c.EachDrawOrder(view, func(id core.NodeID) bool {
		seen = append(seen, id)
		if id == a.Locator() {
			c.SetRelativePosition(id, 500, 500)
			if c.Pending() != 1 {
				t.Errorf("pending = %d during iteration", c.Pending())
			}
			if c.Add(a) || c.Remove(b) {
				t.Error("membership changed during iteration")
			}
		}
		return true
	})

	if !slices.Equal(seen, []core.NodeID{a.Locator(), b.Locator()}) {
		t.Errorf("iteration saw %v", seen)
	}
	if c.Pending() != 0 {
		t.Errorf("pending = %d after iteration", c.Pending())
	}
	if got := c.QueryDrawOrder(view); !slices.Equal(got, []core.NodeID{b.Locator()}) {
		t.Errorf("after flush view holds %v", got)
	}
	mustValidate(t, c)
}

func TestOverlapping(t *testing.T) {
	c := newTestContainer(t)
	circle := func(x, y, r float64) *Object {
		id := c.Nodes.MustCircle(x, y, r)
		o, ok := c.RegisterObject(id, id, 0, 0, core.SurfaceNone)
		if !ok || !c.Add(o) {
			t.Fatal("setup failed")
		}
		return o
	}
	a := circle(0, 0, 10)
	b := circle(15, 0, 10)
	circle(100, 100, 5)
	// Boxes touch at the corner but the shapes do not
	corner := c.Nodes.MustRect(8, 8, core.Edges{Left: 0, Right: 10, Top: 0, Bottom: 10})
	d, _ := c.RegisterObject(corner, corner, 0, 0, core.SurfaceNone)
	c.Add(d)

	got := c.Overlapping(a, core.RoleOverlap)
	if len(got) != 1 || got[0] != b {
		t.Errorf("Overlapping = %v, want only b", got)
	}

	b.SetActive(false)
	if got := c.Overlapping(a, core.RoleOverlap); len(got) != 0 {
		t.Errorf("inactive objects should be skipped, got %d", len(got))
	}

	inRegion := c.ObjectsInRegion(core.Edges{Left: -1, Right: 9, Top: -1, Bottom: 9}, core.RoleOverlap)
	if len(inRegion) != 3 {
		t.Errorf("ObjectsInRegion found %d objects, want 3", len(inRegion))
	}
}

func TestDestroyObject(t *testing.T) {
	c := newTestContainer(t)
	o := addBox(t, c, 32, 32, 4, 4, 0)
	child := c.NewPoint(1, 1)
	c.Attach(child, o.Locator())
	root := o.Locator()

	if !c.DestroyObject(o) {
		t.Fatal("DestroyObject failed")
	}
	if c.Nodes.Alive(root) || c.Nodes.Alive(child) {
		t.Error("object tree should be destroyed")
	}
	if c.Grid.Tracked(root) || c.Object(o.ID()) != nil {
		t.Error("destroyed object still registered")
	}
	mustValidate(t, c)
}

func TestDestroyBetweenRoleNodesRejected(t *testing.T) {
	c := newTestContainer(t)
	locator := c.NewPoint(10, 10)
	mid := c.NewPoint(2, 0)
	col, err := c.NewCircle(3, 0, 1)
	if err != nil {
		t.Fatal(err)
	}
	c.Attach(mid, locator)
	c.Attach(col, mid)
	o, ok := c.RegisterObject(locator, 0, 0, col, core.SurfaceNone)
	if !ok {
		t.Fatal("RegisterObject failed")
	}
	c.Add(o)

	if c.Detach(mid) {
		t.Error("Detach of a subtree holding a role node should fail")
	}
	if c.Nodes.Destroy(mid) {
		t.Error("Destroy of a node above a role node should fail")
	}
	if !c.Nodes.IsDescendantOrSelf(col, locator) {
		t.Error("collision node escaped its locator subtree")
	}
	mustValidate(t, c)
}

func TestAdvanceEvictsEmptyChunks(t *testing.T) {
	cfg := parameter.Default()
	cfg.EvictEmpty = true
	c, err := NewContainer(cfg)
	if err != nil {
		t.Fatal(err)
	}
	o := addBox(t, c, 100, 100, 80, 80, 0)
	if c.Grid.Len() == 0 {
		t.Fatal("no chunks created")
	}
	c.Remove(o)
	c.Advance()
	if c.Grid.Len() != 0 || c.Step() != 1 {
		t.Errorf("after Advance: %d chunks, step %d", c.Grid.Len(), c.Step())
	}
}

func TestClose(t *testing.T) {
	c := newTestContainer(t)
	o := addBox(t, c, 0, 0, 4, 4, 0)
	c.Close()
	if o.Added() || c.Grid.Len() != 0 || c.Add(o) {
		t.Error("closed container should hold nothing and accept nothing")
	}
}

// fuzzWorld is a small scene driven by random operations
type fuzzWorld struct {
	c       *Container
	objects []*Object
	nodes   []core.NodeID // every node, owned or not
	free    []core.NodeID // nodes no object may claim
}

func newFuzzWorld(t *testing.T, rng *rand.Rand) *fuzzWorld {
	w := &fuzzWorld{c: newTestContainer(t)}
	c := w.c
	for i := 0; i < 12; i++ {
		x, y := rng.Float64()*400-200, rng.Float64()*400-200
		root := c.Nodes.MustRect(x, y, core.Edges{Left: -8, Right: 8, Top: -6, Bottom: 6})
		arm := c.Nodes.MustRect(20, 0, core.Edges{Left: -4, Right: 30, Top: -3, Bottom: 3})
		tip := c.Nodes.MustCircle(30, 5, 4)
		c.Attach(arm, root)
		c.Attach(tip, arm)
		w.nodes = append(w.nodes, root, arm, tip)

		o, ok := c.RegisterObject(root, tip, arm, root, core.SurfaceUp|core.SurfaceLeft)
		if !ok {
			t.Fatal("RegisterObject failed")
		}
		o.SetLayer(rng.IntN(3))
		c.Add(o)
		w.objects = append(w.objects, o)
	}
	for i := 0; i < 6; i++ {
		id := c.Nodes.MustRect(rng.Float64()*200, rng.Float64()*200, core.Edges{Left: -70, Right: 70, Top: -2, Bottom: 2})
		w.nodes = append(w.nodes, id)
		w.free = append(w.free, id)
	}
	return w
}

func (w *fuzzWorld) step(rng *rand.Rand) {
	c := w.c
	node := w.nodes[rng.IntN(len(w.nodes))]
	o := w.objects[rng.IntN(len(w.objects))]

	switch rng.IntN(9) {
	case 0:
		c.SetRelativePosition(node, rng.Float64()*600-300, rng.Float64()*600-300)
	case 1:
		c.SetRelativeAngle(node, rng.Float64()*360)
	case 2:
		c.SetRelativeFlip(node, rng.IntN(2) == 0, rng.IntN(2) == 0)
	case 3:
		free := w.free[rng.IntN(len(w.free))]
		if c.Nodes.Parent(free) != 0 {
			c.Detach(free)
		} else {
			c.Attach(free, node)
		}
	case 4:
		if o.Added() {
			c.Remove(o)
		} else {
			c.Add(o)
		}
	case 5:
		kids := c.Nodes.Children(o.Locator())
		if len(kids) > 0 {
			o.SetOverlap(kids[rng.IntN(len(kids))])
		} else {
			o.SetOverlap(0)
		}
	case 6:
		o.SetSurfaces(core.DirectionSet(rng.IntN(16)))
	case 7:
		o.SetLayer(rng.IntN(4))
	case 8:
		view := core.Edges{Left: -300, Right: 300, Top: -300, Bottom: 300}
		c.EachDrawOrder(view, func(id core.NodeID) bool {
			c.Nodes.Translate(id, rng.Float64()*40-20, rng.Float64()*40-20)
			return rng.IntN(4) != 0
		})
	}
}

func TestMembershipSoundness(t *testing.T) {
	for seed := uint64(1); seed <= 5; seed++ {
		rng := rand.New(rand.NewPCG(seed, seed))
		w := newFuzzWorld(t, rng)
		mustValidate(t, w.c)
		for i := 0; i < 400; i++ {
			w.step(rng)
			if err := w.c.Validate(); err != nil {
				t.Fatalf("seed %d step %d: %v", seed, i, err)
			}
			if i%50 == 0 {
				w.c.Advance()
			}
		}
	}
}
