package render

import (
	"math"

	"github.com/lixenwraith/hitgrid/core"
)

// Camera maps world coordinates onto screen cells
// X and Y are the world position of the top-left cell; CellW and CellH are
// world units per cell
type Camera struct {
	X, Y         float64
	CellW, CellH float64
}

// NewCamera returns a camera at the origin with one world unit per cell
func NewCamera() Camera {
	return Camera{CellW: 1, CellH: 1}
}

// Region returns the world box visible on a width x height screen
func (c Camera) Region(width, height int) core.Edges {
	return core.Edges{
		Left:   c.X,
		Right:  c.X + float64(width)*c.CellW,
		Top:    c.Y,
		Bottom: c.Y + float64(height)*c.CellH,
	}
}

// ToCell returns the screen cell holding a world point
func (c Camera) ToCell(x, y float64) (int, int) {
	return int(math.Floor((x - c.X) / c.CellW)), int(math.Floor((y - c.Y) / c.CellH))
}

// ToWorld returns the world position of a cell's top-left corner
func (c Camera) ToWorld(cx, cy int) (float64, float64) {
	return c.X + float64(cx)*c.CellW, c.Y + float64(cy)*c.CellH
}

// Pan moves the camera by whole cells
func (c *Camera) Pan(dx, dy int) {
	c.X += float64(dx) * c.CellW
	c.Y += float64(dy) * c.CellH
}
