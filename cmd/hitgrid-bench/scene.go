package main

import (
	"fmt"
	"math/rand/v2"

	"github.com/lixenwraith/hitgrid/core"
	"github.com/lixenwraith/hitgrid/engine"
	"github.com/lixenwraith/hitgrid/parameter"
)

// worldSpan is the side of the square objects are scattered over
const worldSpan = 2048.0

// scene drives one container with seeded random operations
// Nothing here iterates a map, so equal seeds give equal states
type scene struct {
	c       *engine.Container
	rng     *rand.Rand
	objects []*engine.Object
	nodes   []core.NodeID
	free    []core.NodeID

	ops      [opCount]int
	last     int
	rejected int
}

const (
	opMove = iota
	opRotate
	opFlip
	opReparent
	opToggle
	opOverlap
	opSurfaces
	opLayer
	opView
	opCount
)

var opNames = [opCount]string{"move", "rotate", "flip", "reparent", "toggle", "overlap", "surfaces", "layer", "view"}

func newScene(cfg parameter.Config, seed uint64) (*scene, error) {
	c, err := engine.NewContainer(cfg)
	if err != nil {
		return nil, err
	}
	s := &scene{c: c, rng: rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))}

	for i := 0; i < cfg.BenchObjects; i++ {
		if err := s.spawn(); err != nil {
			return nil, fmt.Errorf("spawn object %d: %w", i, err)
		}
	}
	for i := 0; i < cfg.BenchObjects/8+1; i++ {
		id, err := c.NewRect(s.coord(), s.coord(), core.Edges{Left: -90, Right: 90, Top: -3, Bottom: 3})
		if err != nil {
			return nil, err
		}
		s.nodes = append(s.nodes, id)
		s.free = append(s.free, id)
	}
	return s, nil
}

func (s *scene) coord() float64 {
	return s.rng.Float64()*worldSpan - worldSpan/2
}

// spawn adds an object whose locator carries an arm rectangle and a sensor circle
func (s *scene) spawn() error {
	c := s.c
	root, err := c.NewRect(s.coord(), s.coord(), core.Edges{Left: -10, Right: 10, Top: -8, Bottom: 8})
	if err != nil {
		return err
	}
	arm, err := c.NewRect(24, 0, core.Edges{Left: -4, Right: 40, Top: -3, Bottom: 3})
	if err != nil {
		return err
	}
	sensor, err := c.NewCircle(40, 6, 5)
	if err != nil {
		return err
	}
	c.Attach(arm, root)
	c.Attach(sensor, arm)

	o, ok := c.RegisterObject(root, sensor, arm, root, core.SurfaceUp|core.SurfaceLeft)
	if !ok {
		return fmt.Errorf("register object at node %d", root)
	}
	o.SetLayer(s.rng.IntN(4))
	c.Add(o)
	s.objects = append(s.objects, o)
	s.nodes = append(s.nodes, root, arm, sensor)
	return nil
}

// step applies one random operation
func (s *scene) step() {
	c := s.c
	node := s.nodes[s.rng.IntN(len(s.nodes))]
	o := s.objects[s.rng.IntN(len(s.objects))]
	op := s.rng.IntN(opCount)
	s.ops[op]++
	s.last = op

	ok := true
	switch op {
	case opMove:
		ok = c.Nodes.Translate(node, s.rng.Float64()*160-80, s.rng.Float64()*160-80)
	case opRotate:
		ok = c.SetRelativeAngle(node, s.rng.Float64()*360)
	case opFlip:
		ok = c.SetRelativeFlip(node, s.rng.IntN(2) == 0, s.rng.IntN(2) == 0)
	case opReparent:
		free := s.free[s.rng.IntN(len(s.free))]
		if c.Nodes.Parent(free) != 0 {
			ok = c.Detach(free)
		} else {
			ok = c.Attach(free, node)
		}
	case opToggle:
		if o.Added() {
			ok = c.Remove(o)
		} else {
			ok = c.Add(o)
		}
	case opOverlap:
		kids := c.Nodes.Children(o.Locator())
		if len(kids) == 0 {
			ok = o.SetOverlap(0)
		} else {
			ok = o.SetOverlap(kids[s.rng.IntN(len(kids))])
		}
	case opSurfaces:
		ok = o.SetSurfaces(core.DirectionSet(s.rng.IntN(16)))
	case opLayer:
		ok = o.SetLayer(s.rng.IntN(4))
	case opView:
		// Nudge every visible object while streaming; refreshes wait for the end
		x, y := s.coord(), s.coord()
		view := core.Edges{Left: x, Right: x + 400, Top: y, Bottom: y + 240}
		c.EachDrawOrder(view, func(id core.NodeID) bool {
			c.Nodes.Translate(id, s.rng.Float64()*8-4, s.rng.Float64()*8-4)
			return true
		})
	}
	if !ok {
		s.rejected++
	}
}
