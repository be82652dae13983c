package core

// Area represents a rectangular region of screen cells
type Area struct {
	X, Y          int // Top-left corner
	Width, Height int
}

// Empty reports whether the area covers no cell
func (a Area) Empty() bool {
	return a.Width <= 0 || a.Height <= 0
}

// Contains reports whether cell (x, y) lies inside the area
func (a Area) Contains(x, y int) bool {
	return x >= a.X && y >= a.Y && x < a.X+a.Width && y < a.Y+a.Height
}

// Clip restricts the area to a width x height screen
func (a Area) Clip(width, height int) Area {
	x0, y0 := max(a.X, 0), max(a.Y, 0)
	x1, y1 := min(a.X+a.Width, width), min(a.Y+a.Height, height)
	return Area{X: x0, Y: y0, Width: max(0, x1-x0), Height: max(0, y1-y0)}
}
