package snapshot

import (
	"strings"
	"testing"

	"github.com/lixenwraith/hitgrid/core"
	"github.com/lixenwraith/hitgrid/engine"
	"github.com/lixenwraith/hitgrid/parameter"
)

// buildScene populates a container the same way every call
func buildScene(t *testing.T) (*engine.Container, core.NodeID) {
	t.Helper()
	c, err := engine.NewContainer(parameter.Default())
	if err != nil {
		t.Fatal(err)
	}
	root := c.Nodes.MustRect(60, 32, core.Edges{Left: -20, Right: 20, Top: -10, Bottom: 10})
	arm := c.Nodes.MustRect(30, 0, core.Edges{Left: 0, Right: 40, Top: -2, Bottom: 2})
	c.Attach(arm, root)
	c.SetRelativeFlip(root, true, false)

	o, ok := c.RegisterObject(root, arm, arm, root, core.SurfaceUp|core.SurfaceLeft)
	if !ok || !c.Add(o) {
		t.Fatal("setup failed")
	}
	other := c.Nodes.MustCircle(130, 40, 8)
	o2, _ := c.RegisterObject(other, other, 0, other, core.SurfaceNone)
	o2.SetLayer(2)
	c.Add(o2)
	c.Advance()
	return c, root
}

func TestCaptureRoundTrip(t *testing.T) {
	c, root := buildScene(t)
	f := Capture(c)

	if len(f.Nodes) != 3 || f.Step != 1 || f.Container != c.ID.String() {
		t.Fatalf("frame header: %d nodes, step %d, container %s", len(f.Nodes), f.Step, f.Container)
	}
	if n := f.Nodes[0]; n.ID != root || !n.XFlip || n.Owner == 0 {
		t.Errorf("root node captured as %+v", n)
	}
	if len(f.Members) != 3 {
		t.Errorf("captured %d members, want 3", len(f.Members))
	}
	// arm solid surfaces are mirrored by the root flip
	if m := f.Members[1]; m.Solid != core.SurfaceUp|core.SurfaceRight {
		t.Errorf("arm solid surfaces %04b", m.Solid)
	}

	b, err := Encode(f)
	if err != nil {
		t.Fatal(err)
	}
	back, err := Decode(b)
	if err != nil {
		t.Fatal(err)
	}
	if d := Diff(f, back); len(d) != 0 {
		t.Errorf("decoded frame differs: %v", d)
	}
	if back.Container != f.Container {
		t.Errorf("container id %q, want %q", back.Container, f.Container)
	}
}

func TestDiffDetectsDivergence(t *testing.T) {
	c1, root1 := buildScene(t)
	c2, _ := buildScene(t)

	if d := Diff(Capture(c1), Capture(c2)); len(d) != 0 {
		t.Fatalf("identical scenes differ: %v", d)
	}

	c1.SetRelativePosition(root1, 400, 32)
	d := Diff(Capture(c1), Capture(c2))
	if len(d) == 0 {
		t.Fatal("moved scene reported no difference")
	}
	joined := strings.Join(d, "\n")
	for _, want := range []string{"node", "member", "chunk"} {
		if !strings.Contains(joined, want) {
			t.Errorf("diff does not mention %s:\n%s", want, joined)
		}
	}
}

func TestDecodeRejectsGarbage(t *testing.T) {
	if _, err := Decode([]byte{0xc1}); err == nil {
		t.Error("Decode accepted an invalid frame")
	}
}
