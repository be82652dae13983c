package render

import (
	"testing"

	"github.com/gdamore/tcell/v2"

	"github.com/lixenwraith/hitgrid/core"
	"github.com/lixenwraith/hitgrid/engine"
	"github.com/lixenwraith/hitgrid/parameter"
)

type mockCell struct {
	r     rune
	style tcell.Style
}

// MockScreen records SetContent calls on a fixed-size surface
type MockScreen struct {
	width, height int
	cells         map[[2]int]mockCell
	writes        int
}

func newMockScreen(w, h int) *MockScreen {
	return &MockScreen{width: w, height: h, cells: make(map[[2]int]mockCell)}
}

func (m *MockScreen) Size() (int, int) { return m.width, m.height }

func (m *MockScreen) SetContent(x, y int, mainc rune, combc []rune, style tcell.Style) {
	m.cells[[2]int{x, y}] = mockCell{r: mainc, style: style}
	m.writes++
}

func (m *MockScreen) GetContent(x, y int) (rune, []rune, tcell.Style, int) {
	c, ok := m.cells[[2]int{x, y}]
	if !ok {
		return ' ', nil, tcell.StyleDefault, 1
	}
	return c.r, nil, c.style, 1
}

func (m *MockScreen) runeAt(x, y int) rune {
	return m.cells[[2]int{x, y}].r
}

func newScene(t *testing.T) *engine.Container {
	t.Helper()
	c, err := engine.NewContainer(parameter.Default())
	if err != nil {
		t.Fatal(err)
	}
	return c
}

func addGlyph(t *testing.T, c *engine.Container, x, y float64, r rune, layer int) *engine.Object {
	t.Helper()
	id := c.Nodes.MustRect(x, y, core.Edges{Left: -1, Right: 1, Top: -1, Bottom: 1})
	o, ok := c.RegisterObject(id, id, 0, 0, core.SurfaceNone)
	if !ok {
		t.Fatal("RegisterObject failed")
	}
	o.SetLayer(layer)
	o.SetAppearance(Glyph{Rune: r, Fg: RgbForeground, Bg: RgbBackground})
	c.Add(o)
	return o
}

func TestRendererDrawOrder(t *testing.T) {
	c := newScene(t)
	// Higher layer drawn later wins the cell
	addGlyph(t, c, 5.5, 5.5, 'B', 1)
	addGlyph(t, c, 5.2, 5.7, 'A', 0)
	addGlyph(t, c, 10, 3, 'C', 0)

	s := newMockScreen(40, 20)
	r := NewRenderer(c)
	if n := r.Draw(s); n != 3 {
		t.Errorf("drew %d objects, want 3", n)
	}
	if got := s.runeAt(5, 5); got != 'B' {
		t.Errorf("cell (5,5) = %q, want B on top", got)
	}
	if got := s.runeAt(10, 3); got != 'C' {
		t.Errorf("cell (10,3) = %q, want C", got)
	}
}

func TestRendererSkips(t *testing.T) {
	c := newScene(t)
	inactive := addGlyph(t, c, 2, 2, 'I', 0)
	inactive.SetActive(false)
	faded := addGlyph(t, c, 3, 3, 'F', 0)
	faded.SetAlpha(0)
	// Shares a chunk with the view but sits past the screen edge
	addGlyph(t, c, 50, 2, 'O', 0)
	plain := addGlyph(t, c, 4, 4, 'P', 0)
	plain.SetAppearance(nil)

	s := newMockScreen(40, 20)
	if n := NewRenderer(c).Draw(s); n != 0 {
		t.Errorf("drew %d objects, want 0", n)
	}
	if s.writes != 0 {
		t.Errorf("screen received %d writes", s.writes)
	}
}

func TestRendererCamera(t *testing.T) {
	c := newScene(t)
	addGlyph(t, c, 130, 70, 'X', 0)

	s := newMockScreen(20, 10)
	r := NewRenderer(c)
	if n := r.Draw(s); n != 0 {
		t.Fatalf("object outside the view was drawn")
	}

	r.Camera.Pan(120, 65)
	if n := r.Draw(s); n != 1 {
		t.Fatalf("drew %d after pan, want 1", n)
	}
	if got := s.runeAt(10, 5); got != 'X' {
		t.Errorf("cell (10,5) = %q, want X", got)
	}

	r.Camera = Camera{X: 0, Y: 0, CellW: 8, CellH: 8}
	if x, y := r.Camera.ToCell(130, 70); x != 16 || y != 8 {
		t.Errorf("ToCell = (%d,%d), want (16,8)", x, y)
	}
}

func TestRendererChunkBoundary(t *testing.T) {
	c := newScene(t)
	w := parameter.DefaultChunkWidth

	// A bare point on the boundary belongs only to the chunk on its right
	pt := c.NewPoint(w, 0)
	o, ok := c.RegisterObject(pt, 0, 0, 0, core.SurfaceNone)
	if !ok {
		t.Fatal("RegisterObject failed")
	}
	o.SetAppearance(Glyph{Rune: 'P', Fg: RgbForeground, Bg: RgbBackground})
	c.Add(o)
	addGlyph(t, c, w, 4, 'R', 0)
	addGlyph(t, c, w-0.5, 6, 'L', 0)

	s := newMockScreen(20, 10)
	r := NewRenderer(c)
	r.Camera.X = w
	if n := r.Draw(s); n != 2 {
		t.Errorf("drew %d objects, want 2", n)
	}
	if got := s.runeAt(0, 0); got != 'P' {
		t.Errorf("cell (0,0) = %q, want P", got)
	}
	if got := s.runeAt(0, 4); got != 'R' {
		t.Errorf("cell (0,4) = %q, want R", got)
	}
	if got := s.runeAt(0, 6); got == 'L' {
		t.Error("anchor left of the view was drawn")
	}
}

func TestGlyphAlphaBlend(t *testing.T) {
	s := newMockScreen(4, 4)
	bg := RGB{0, 0, 0}
	s.SetContent(1, 1, ' ', nil, tcell.StyleDefault.Background(bg.Color()).Foreground(bg.Color()))

	Glyph{Rune: '@', Fg: RGB{200, 100, 0}, Bg: RGB{100, 100, 100}}.Draw(s, 1, 1, 0.5)
	_, _, style, _ := s.GetContent(1, 1)
	fg, gotBg := cellColors(style)
	if fg != (RGB{100, 50, 0}) {
		t.Errorf("fg = %v, want half blend", fg)
	}
	if gotBg != (RGB{50, 50, 50}) {
		t.Errorf("bg = %v, want half blend", gotBg)
	}

	// An untouched cell blends over the palette
	Glyph{Rune: '#', Fg: RgbForeground, Transparent: true}.Draw(s, 3, 3, 0.5)
	_, _, style, _ = s.GetContent(3, 3)
	if fg, bg := cellColors(style); fg != RgbForeground || bg != RgbBackground {
		t.Errorf("default cell resolved to fg=%v bg=%v", fg, bg)
	}

	Label{Text: "hello", Fg: RgbForeground}.Draw(s, 2, 0, 1)
	if s.runeAt(2, 0) != 'h' || s.runeAt(3, 0) != 'e' {
		t.Error("label not written from its anchor")
	}
	if _, ok := s.cells[[2]int{4, 0}]; ok {
		t.Error("label wrote past the screen edge")
	}
}

func TestBlend(t *testing.T) {
	a, b := RGB{0, 0, 0}, RGB{255, 255, 255}
	tests := []struct {
		alpha float64
		want  RGB
	}{
		{-1, a},
		{0, a},
		{1, b},
		{2, b},
		{0.5, RGB{127, 127, 127}},
	}
	for _, tt := range tests {
		if got := Blend(a, b, tt.alpha); got != tt.want {
			t.Errorf("Blend(%v) = %v, want %v", tt.alpha, got, tt.want)
		}
	}
}

func TestRendererViewport(t *testing.T) {
	c := newScene(t)
	addGlyph(t, c, 3, 3, 'V', 0)
	addGlyph(t, c, 12, 1, 'W', 0)

	s := newMockScreen(20, 10)
	r := NewRenderer(c)
	r.Viewport = core.Area{X: 2, Y: 1, Width: 10, Height: 5}
	if n := r.Draw(s); n != 1 {
		t.Fatalf("drew %d objects, want 1 inside the viewport", n)
	}
	if got := s.runeAt(5, 4); got != 'V' {
		t.Errorf("cell (5,4) = %q, want V offset by the viewport origin", got)
	}

	r.DrawChunks(s)
	if got := s.runeAt(2, 1); got != '+' {
		t.Errorf("chunk origin marker at (2,1) = %q", got)
	}
}
