package physics

import (
	"math"

	"github.com/lixenwraith/hitgrid/core"
	"github.com/lixenwraith/hitgrid/vmath"
)

// Shape is a world-space snapshot of a hitbox used by the narrow phase
// Only the fields relevant to Kind are read
type Shape struct {
	Kind   core.ShapeKind
	Center vmath.Vec2   // point, circle
	Radius float64      // circle
	Box    core.Edges   // rect
	A, B   vmath.Vec2   // line endpoints
	Points []vmath.Vec2 // convex polygon, either winding
	Parts  []Shape      // composite children
}

// Overlaps reports whether two shapes intersect, touching counts as overlap
func Overlaps(a, b Shape) bool {
	if a.Kind == core.ShapeComposite {
		for i := range a.Parts {
			if Overlaps(a.Parts[i], b) {
				return true
			}
		}
		return false
	}
	if b.Kind == core.ShapeComposite {
		for i := range b.Parts {
			if Overlaps(a, b.Parts[i]) {
				return true
			}
		}
		return false
	}

	aRound, bRound := isRound(a), isRound(b)
	switch {
	case aRound && bRound:
		r := a.radius() + b.radius()
		return a.Center.DistanceSq(b.Center) <= r*r
	case aRound:
		return circlePolygon(a.Center, a.radius(), b.hull())
	case bRound:
		return circlePolygon(b.Center, b.radius(), a.hull())
	default:
		return polygonPolygon(a.hull(), b.hull())
	}
}

// Bounds returns the world-space AABB of the shape
func (s Shape) Bounds() core.Edges {
	switch s.Kind {
	case core.ShapePoint:
		return core.PointEdges(s.Center.X, s.Center.Y)
	case core.ShapeCircle:
		return core.Edges{
			Left:   s.Center.X - s.Radius,
			Right:  s.Center.X + s.Radius,
			Top:    s.Center.Y - s.Radius,
			Bottom: s.Center.Y + s.Radius,
		}
	case core.ShapeRect:
		return s.Box
	case core.ShapeComposite:
		if len(s.Parts) == 0 {
			return core.PointEdges(s.Center.X, s.Center.Y)
		}
		e := s.Parts[0].Bounds()
		for i := 1; i < len(s.Parts); i++ {
			e = e.Union(s.Parts[i].Bounds())
		}
		return e
	default:
		pts := s.hull()
		e := core.PointEdges(pts[0].X, pts[0].Y)
		for _, p := range pts[1:] {
			e = e.Union(core.PointEdges(p.X, p.Y))
		}
		return e
	}
}

func isRound(s Shape) bool {
	return s.Kind == core.ShapePoint || s.Kind == core.ShapeCircle
}

func (s Shape) radius() float64 {
	if s.Kind == core.ShapeCircle {
		return s.Radius
	}
	return 0
}

// hull returns the vertex list used for separating axis tests
func (s Shape) hull() []vmath.Vec2 {
	switch s.Kind {
	case core.ShapeRect:
		return []vmath.Vec2{
			{X: s.Box.Left, Y: s.Box.Top},
			{X: s.Box.Right, Y: s.Box.Top},
			{X: s.Box.Right, Y: s.Box.Bottom},
			{X: s.Box.Left, Y: s.Box.Bottom},
		}
	case core.ShapeLine:
		return []vmath.Vec2{s.A, s.B}
	default:
		return s.Points
	}
}

// axes collects edge normals, plus the edge direction for two-vertex hulls
// so that collinear segments still get a separating candidate
func axes(pts []vmath.Vec2, dst []vmath.Vec2) []vmath.Vec2 {
	n := len(pts)
	if n < 2 {
		return dst
	}
	if n == 2 {
		edge := pts[1].Sub(pts[0])
		if edge.LengthSq() == 0 {
			return dst
		}
		return append(dst, edge.Perp(), edge)
	}
	for i := 0; i < n; i++ {
		edge := pts[(i+1)%n].Sub(pts[i])
		if edge.LengthSq() == 0 {
			continue
		}
		dst = append(dst, edge.Perp())
	}
	return dst
}

func project(pts []vmath.Vec2, axis vmath.Vec2) (lo, hi float64) {
	lo, hi = math.Inf(1), math.Inf(-1)
	for _, p := range pts {
		d := p.Dot(axis)
		lo = min(lo, d)
		hi = max(hi, d)
	}
	return lo, hi
}

func polygonPolygon(a, b []vmath.Vec2) bool {
	var buf [16]vmath.Vec2
	ax := axes(a, buf[:0])
	ax = axes(b, ax)
	if len(ax) == 0 {
		// Both hulls collapse to points
		return len(a) > 0 && len(b) > 0 && a[0] == b[0]
	}
	for _, axis := range ax {
		aLo, aHi := project(a, axis)
		bLo, bHi := project(b, axis)
		if aHi < bLo || bHi < aLo {
			return false
		}
	}
	return true
}

func circlePolygon(c vmath.Vec2, r float64, pts []vmath.Vec2) bool {
	if len(pts) == 0 {
		return false
	}
	if len(pts) == 2 {
		return segmentDistanceSq(c, pts[0], pts[1]) <= r*r
	}

	var buf [16]vmath.Vec2
	ax := axes(pts, buf[:0])

	// Axis toward the nearest vertex separates circles sitting off a corner
	nearest := pts[0]
	for _, p := range pts[1:] {
		if p.DistanceSq(c) < nearest.DistanceSq(c) {
			nearest = p
		}
	}
	if toVertex := nearest.Sub(c); toVertex.LengthSq() > 0 {
		ax = append(ax, toVertex)
	} else {
		return true
	}

	for _, axis := range ax {
		length := axis.Length()
		lo, hi := project(pts, axis)
		center := c.Dot(axis)
		reach := r * length
		if hi < center-reach || center+reach < lo {
			return false
		}
	}
	return true
}

func segmentDistanceSq(p, a, b vmath.Vec2) float64 {
	ab := b.Sub(a)
	lenSq := ab.LengthSq()
	if lenSq == 0 {
		return p.DistanceSq(a)
	}
	t := p.Sub(a).Dot(ab) / lenSq
	t = max(0, min(1, t))
	return p.DistanceSq(a.Add(ab.Scale(t)))
}

// IsConvex reports whether the vertex loop is convex with consistent winding
func IsConvex(pts []vmath.Vec2) bool {
	n := len(pts)
	if n < 3 {
		return false
	}
	sign := 0
	for i := 0; i < n; i++ {
		a, b, c := pts[i], pts[(i+1)%n], pts[(i+2)%n]
		cross := b.Sub(a).Cross(c.Sub(b))
		switch {
		case cross > 0:
			if sign < 0 {
				return false
			}
			sign = 1
		case cross < 0:
			if sign > 0 {
				return false
			}
			sign = -1
		}
	}
	return sign != 0
}
