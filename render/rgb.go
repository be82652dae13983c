package render

import "github.com/gdamore/tcell/v2"

// RGB is a 24-bit color used for alpha compositing before conversion to tcell
type RGB struct {
	R, G, B uint8
}

// Color returns the tcell true-color value
func (c RGB) Color() tcell.Color {
	return tcell.NewRGBColor(int32(c.R), int32(c.G), int32(c.B))
}

// cellColors reads the colors a cell shows; unset colors resolve to the palette
func cellColors(style tcell.Style) (fg, bg RGB) {
	f, b, _ := style.Decompose()
	return toRGB(f, RgbForeground), toRGB(b, RgbBackground)
}

func toRGB(c tcell.Color, unset RGB) RGB {
	if c == tcell.ColorDefault {
		return unset
	}
	r, g, b := c.RGB()
	return RGB{uint8(r), uint8(g), uint8(b)}
}

// Blend mixes src over c by alpha
// Alpha at or beyond the ends returns an input unchanged
func Blend(c, src RGB, alpha float64) RGB {
	if alpha >= 1.0 {
		return src
	}
	if alpha <= 0.0 {
		return c
	}

	inv := 1.0 - alpha
	return RGB{
		R: uint8(float64(src.R)*alpha + float64(c.R)*inv),
		G: uint8(float64(src.G)*alpha + float64(c.G)*inv),
		B: uint8(float64(src.B)*alpha + float64(c.B)*inv),
	}
}
