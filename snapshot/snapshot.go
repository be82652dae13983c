// Package snapshot captures container state as compact msgpack frames
// Frames compare field by field, which the bench uses to check that two runs
// driven by the same seed stay identical
package snapshot

import (
	"fmt"

	"github.com/vmihailenco/msgpack/v5"

	"github.com/lixenwraith/hitgrid/core"
	"github.com/lixenwraith/hitgrid/engine"
)

// Node is the settled transform of one arena node
type Node struct {
	ID     core.NodeID    `msgpack:"id"`
	Kind   core.ShapeKind `msgpack:"k"`
	Parent core.NodeID    `msgpack:"p,omitempty"`
	Owner  core.ObjectID  `msgpack:"o,omitempty"`
	X      float64        `msgpack:"x"`
	Y      float64        `msgpack:"y"`
	XFlip  bool           `msgpack:"fx,omitempty"`
	YFlip  bool           `msgpack:"fy,omitempty"`
	Angle  float64        `msgpack:"a"`
	Edges  core.Edges     `msgpack:"e"`
}

// Member is the grid bookkeeping of one tracked node
type Member struct {
	ID    core.NodeID       `msgpack:"id"`
	Roles uint8             `msgpack:"r"` // core.Role bit per active non-solid role
	Solid core.DirectionSet `msgpack:"s,omitempty"`
	Range engine.ChunkRange `msgpack:"g"`
}

// Chunk lists the locator bucket of one materialized chunk in draw order
type Chunk struct {
	Col      int           `msgpack:"c"`
	Row      int           `msgpack:"r"`
	Locators []core.NodeID `msgpack:"l,omitempty"`
}

// Frame is a whole container at one step
type Frame struct {
	Container string   `msgpack:"cid"`
	Step      uint64   `msgpack:"step"`
	Nodes     []Node   `msgpack:"n"`
	Members   []Member `msgpack:"m"`
	Chunks    []Chunk  `msgpack:"ch"`
}

// Capture reads a container into a frame; IDs come out in ascending order
func Capture(c *engine.Container) Frame {
	f := Frame{
		Container: c.ID.String(),
		Step:      c.Step(),
	}

	nodes := c.Nodes
	for _, id := range nodes.IDs() {
		kind, _ := nodes.Kind(id)
		x, y := nodes.AbsolutePosition(id)
		xf, yf := nodes.AbsoluteFlip(id)
		f.Nodes = append(f.Nodes, Node{
			ID:     id,
			Kind:   kind,
			Parent: nodes.Parent(id),
			Owner:  nodes.Owner(id),
			X:      x,
			Y:      y,
			XFlip:  xf,
			YFlip:  yf,
			Angle:  nodes.AbsoluteAngle(id),
			Edges:  nodes.Edges(id),
		})
	}

	for _, id := range c.Grid.Nodes() {
		t, _ := c.Grid.Tracker(id)
		m := Member{ID: id, Solid: t.Solid, Range: t.Range}
		for r := core.Role(0); r < core.RoleCount; r++ {
			if t.Roles[r] {
				m.Roles |= 1 << r
			}
		}
		f.Members = append(f.Members, m)
	}

	for _, k := range c.Grid.Keys() {
		ch := c.Grid.Chunk(k.Col, k.Row)
		if ch == nil {
			continue
		}
		f.Chunks = append(f.Chunks, Chunk{Col: k.Col, Row: k.Row, Locators: ch.Locators()})
	}
	return f
}

// Encode serializes a frame
func Encode(f Frame) ([]byte, error) {
	b, err := msgpack.Marshal(&f)
	if err != nil {
		return nil, fmt.Errorf("encode frame: %w", err)
	}
	return b, nil
}

// Decode parses a frame produced by Encode
func Decode(b []byte) (Frame, error) {
	var f Frame
	if err := msgpack.Unmarshal(b, &f); err != nil {
		return Frame{}, fmt.Errorf("decode frame: %w", err)
	}
	return f, nil
}
