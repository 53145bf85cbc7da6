package core

import "fmt"

// CharCell is one position of a character grid.
// Cells are compared with == by the diff renderer.
type CharCell struct {
	Glyph rune
	Fg    X256
	Bg    X256
}

// Blank is the default cell: null glyph, foreground on background.
var Blank = CharCell{Fg: Foreground, Bg: Background}

// NewCell returns a cell with the given glyph and colors.
func NewCell(r rune, fg, bg X256) CharCell {
	return CharCell{Glyph: r, Fg: fg, Bg: bg}
}

// Cell returns a glyph in default colors.
func Cell(r rune) CharCell {
	return CharCell{Glyph: r, Fg: Foreground, Bg: Background}
}

// DisplayGlyph is the rune actually drawn for the cell, null renders as space
func (c CharCell) DisplayGlyph() rune {
	if c.Glyph == 0 {
		return ' '
	}
	return c.Glyph
}

// NewBuffer allocates a w*h buffer filled with Blank cells
func NewBuffer(w, h int) []CharCell {
	buf := make([]CharCell, w*h)
	for i := range buf {
		buf[i] = Blank
	}
	return buf
}

// CheckBuffer panics when a buffer does not hold exactly w*h elements.
// A mismatched buffer is a caller bug, not a runtime condition.
func CheckBuffer(w, h, n int) {
	if w < 0 || h < 0 || w*h != n {
		panic(fmt.Sprintf("core: buffer length %d does not match %dx%d", n, w, h))
	}
}
