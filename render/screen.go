// Package render draws container contents onto a character-cell screen
package render

import "github.com/gdamore/tcell/v2"

// Screen is the subset of tcell.Screen the renderer needs
type Screen interface {
	SetContent(x, y int, primary rune, combining []rune, style tcell.Style)
	GetContent(x, y int) (primary rune, combining []rune, style tcell.Style, width int)
	Size() (width, height int)
}
