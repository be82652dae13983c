package render

import (
	"github.com/lixenwraith/hitgrid/core"
	"github.com/lixenwraith/hitgrid/engine"
)

// Renderer draws a container's objects through a camera in draw order
type Renderer struct {
	Camera Camera
	// Viewport is the screen area the world is drawn into; empty means the whole screen
	Viewport core.Area

	c *engine.Container
}

// NewRenderer creates a renderer for c with a unit camera at the origin
func NewRenderer(c *engine.Container) *Renderer {
	return &Renderer{Camera: NewCamera(), c: c}
}

func (r *Renderer) viewport(s Screen) core.Area {
	w, h := s.Size()
	if r.Viewport.Empty() {
		return core.Area{Width: w, Height: h}
	}
	return r.Viewport.Clip(w, h)
}

// Draw renders every visible object and returns how many were drawn
// The grid only narrows candidates to chunks, so each anchor is checked
// against the viewport again; inactive objects and ones without an
// Appearance are skipped
func (r *Renderer) Draw(s Screen) int {
	view := r.viewport(s)
	if view.Empty() {
		return 0
	}
	region := r.Camera.Region(view.Width, view.Height)

	drawn := 0
	r.c.EachDrawOrderView(region, func(id core.NodeID) bool {
		o := r.c.OwnerOf(id)
		if o == nil || !o.Active() || o.Alpha() <= 0 {
			return true
		}
		app, ok := o.Appearance().(Appearance)
		if !ok {
			return true
		}
		cx, cy := r.Camera.ToCell(r.c.Nodes.AbsolutePosition(id))
		cx, cy = cx+view.X, cy+view.Y
		if !view.Contains(cx, cy) {
			return true
		}
		app.Draw(s, cx, cy, o.Alpha())
		drawn++
		return true
	})
	return drawn
}

// DrawChunks marks the top-left corner of every materialized chunk in view
func (r *Renderer) DrawChunks(s Screen) {
	view := r.viewport(s)
	cw, ch := r.c.Grid.ChunkSize()
	for _, k := range r.c.Grid.Keys() {
		cx, cy := r.Camera.ToCell(float64(k.Col)*cw, float64(k.Row)*ch)
		cx, cy = cx+view.X, cy+view.Y
		if !view.Contains(cx, cy) {
			continue
		}
		Glyph{Rune: '+', Fg: RgbChunkGrid, Transparent: true}.Draw(s, cx, cy, 1)
	}
}
