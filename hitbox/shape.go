package hitbox

import (
	"github.com/lixenwraith/hitgrid/core"
	"github.com/lixenwraith/hitgrid/physics"
	"github.com/lixenwraith/hitgrid/vmath"
)

// shapeEdges computes the absolute bounding box from settled absolute state
func (a *Arena) shapeEdges(n *node) core.Edges {
	switch n.kind {
	case core.ShapeCircle:
		return core.Edges{
			Left:   n.absPos.X - n.radius,
			Right:  n.absPos.X + n.radius,
			Top:    n.absPos.Y - n.radius,
			Bottom: n.absPos.Y + n.radius,
		}

	case core.ShapeRect:
		l, r, t, b := n.rect.Left, n.rect.Right, n.rect.Top, n.rect.Bottom
		if n.absXFlip {
			l, r = -r, -l
		}
		if n.absYFlip {
			t, b = -b, -t
		}
		return core.Edges{Left: n.absPos.X + l, Right: n.absPos.X + r, Top: n.absPos.Y + t, Bottom: n.absPos.Y + b}

	case core.ShapeLine:
		end := n.absPos.Add(n.end.Transform(n.absXFlip, n.absYFlip, n.cos, n.sin))
		return core.PointEdges(n.absPos.X, n.absPos.Y).Union(core.PointEdges(end.X, end.Y))

	case core.ShapePolygon:
		e := core.PointEdges(n.absPos.X, n.absPos.Y)
		for i, v := range n.verts {
			w := n.absPos.Add(v.Transform(n.absXFlip, n.absYFlip, n.cos, n.sin))
			if i == 0 {
				e = core.PointEdges(w.X, w.Y)
				continue
			}
			e = e.Union(core.PointEdges(w.X, w.Y))
		}
		return e

	case core.ShapeComposite:
		if len(n.children) == 0 {
			return core.PointEdges(n.absPos.X, n.absPos.Y)
		}
		e := a.nodes[n.children[0]-1].edges
		for _, c := range n.children[1:] {
			e = e.Union(a.nodes[c-1].edges)
		}
		return e

	default:
		return core.PointEdges(n.absPos.X, n.absPos.Y)
	}
}

// Shape returns the world-space geometry of a node for narrow-phase tests
func (a *Arena) Shape(id core.NodeID) (physics.Shape, bool) {
	n := a.get(id)
	if n == nil {
		return physics.Shape{}, false
	}

	s := physics.Shape{Kind: n.kind, Center: n.absPos}
	switch n.kind {
	case core.ShapeCircle:
		s.Radius = n.radius
	case core.ShapeRect:
		s.Box = n.edges
	case core.ShapeLine:
		s.A = n.absPos
		s.B = n.absPos.Add(n.end.Transform(n.absXFlip, n.absYFlip, n.cos, n.sin))
	case core.ShapePolygon:
		s.Points = make([]vmath.Vec2, len(n.verts))
		for i, v := range n.verts {
			s.Points[i] = n.absPos.Add(v.Transform(n.absXFlip, n.absYFlip, n.cos, n.sin))
		}
	case core.ShapeComposite:
		s.Parts = make([]physics.Shape, 0, len(n.children))
		for _, c := range n.children {
			if part, ok := a.Shape(c); ok {
				s.Parts = append(s.Parts, part)
			}
		}
	}
	return s, true
}
