package render

import (
	"github.com/gdamore/tcell/v2"
)

// Appearance draws one object at a screen cell
// Objects carry it opaquely; alpha comes from the object
type Appearance interface {
	Draw(s Screen, x, y int, alpha float64)
}

// Glyph is a single character blended over whatever the cell already shows
type Glyph struct {
	Rune rune
	Fg   RGB
	Bg   RGB
	// Transparent keeps the existing cell background
	Transparent bool
}

func (g Glyph) Draw(s Screen, x, y int, alpha float64) {
	if alpha <= 0 {
		return
	}
	_, _, under, _ := s.GetContent(x, y)
	fg, bg := cellColors(under)

	fg = Blend(fg, g.Fg, alpha)
	if !g.Transparent {
		bg = Blend(bg, g.Bg, alpha)
	}
	style := tcell.StyleDefault.Foreground(fg.Color()).Background(bg.Color())
	s.SetContent(x, y, g.Rune, nil, style)
}

// Label is a short horizontal string starting at the anchor cell
type Label struct {
	Text string
	Fg   RGB
}

func (l Label) Draw(s Screen, x, y int, alpha float64) {
	w, _ := s.Size()
	for _, r := range l.Text {
		if x >= w {
			return
		}
		Glyph{Rune: r, Fg: l.Fg, Transparent: true}.Draw(s, x, y, alpha)
		x++
	}
}
