package vmath

import "math"

// Vec2 is a float world-space vector on a y-down plane
type Vec2 struct {
	X, Y float64
}

func (v Vec2) Add(o Vec2) Vec2           { return Vec2{v.X + o.X, v.Y + o.Y} }
func (v Vec2) Sub(o Vec2) Vec2           { return Vec2{v.X - o.X, v.Y - o.Y} }
func (v Vec2) Scale(f float64) Vec2      { return Vec2{v.X * f, v.Y * f} }
func (v Vec2) Dot(o Vec2) float64        { return v.X*o.X + v.Y*o.Y }
func (v Vec2) Cross(o Vec2) float64      { return v.X*o.Y - v.Y*o.X }
func (v Vec2) LengthSq() float64         { return v.X*v.X + v.Y*v.Y }
func (v Vec2) Length() float64           { return math.Sqrt(v.LengthSq()) }
func (v Vec2) Perp() Vec2                { return Vec2{-v.Y, v.X} }
func (v Vec2) DistanceSq(o Vec2) float64 { return v.Sub(o).LengthSq() }

// Mirror negates the mirrored axes
func (v Vec2) Mirror(xFlip, yFlip bool) Vec2 {
	if xFlip {
		v.X = -v.X
	}
	if yFlip {
		v.Y = -v.Y
	}
	return v
}

// Rotate turns v counter-clockwise on screen by the angle whose unit vector is (cos, sin)
// On a y-down plane that is x' = x*cos + y*sin, y' = -x*sin + y*cos
func (v Vec2) Rotate(cos, sin float64) Vec2 {
	return Vec2{
		X: v.X*cos + v.Y*sin,
		Y: -v.X*sin + v.Y*cos,
	}
}

// Transform applies mirror then rotation, the order node transforms compose in
func (v Vec2) Transform(xFlip, yFlip bool, cos, sin float64) Vec2 {
	return v.Mirror(xFlip, yFlip).Rotate(cos, sin)
}
