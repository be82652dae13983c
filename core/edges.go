package core

// Edges is an axis-aligned bounding box in world units
// Y grows downward, so Top <= Bottom for a well-formed box
type Edges struct {
	Left, Right, Top, Bottom float64
}

// PointEdges returns the degenerate box at (x, y)
func PointEdges(x, y float64) Edges {
	return Edges{Left: x, Right: x, Top: y, Bottom: y}
}

// Valid reports whether the box is not inverted
func (e Edges) Valid() bool {
	return e.Left <= e.Right && e.Top <= e.Bottom
}

// Degenerate reports whether all four edges coincide
func (e Edges) Degenerate() bool {
	return e.Left == e.Right && e.Top == e.Bottom
}

func (e Edges) Width() float64  { return e.Right - e.Left }
func (e Edges) Height() float64 { return e.Bottom - e.Top }

// Overlaps reports closed-interval intersection; touching boxes overlap
func (e Edges) Overlaps(o Edges) bool {
	return e.Left <= o.Right && o.Left <= e.Right && e.Top <= o.Bottom && o.Top <= e.Bottom
}

// Contains reports whether the point lies within the closed box
func (e Edges) Contains(x, y float64) bool {
	return x >= e.Left && x <= e.Right && y >= e.Top && y <= e.Bottom
}

// Union returns the smallest box containing both
func (e Edges) Union(o Edges) Edges {
	return Edges{
		Left:   min(e.Left, o.Left),
		Right:  max(e.Right, o.Right),
		Top:    min(e.Top, o.Top),
		Bottom: max(e.Bottom, o.Bottom),
	}
}

// Translate offsets the box
func (e Edges) Translate(dx, dy float64) Edges {
	return Edges{Left: e.Left + dx, Right: e.Right + dx, Top: e.Top + dy, Bottom: e.Bottom + dy}
}
