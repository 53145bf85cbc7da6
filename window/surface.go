package window

import (
	"image"

	"github.com/lixenwraith/cellframe/core"
)

// Surface is the toolkit side of a window backend
type Surface interface {
	// Size is the drawable area in device pixels
	Size() image.Point
	// CellSize is the pixel size of one character cell at scale 1
	CellSize() image.Point
	PresentChars(v Viewport, w, h int, cells []Glyph) error
	PresentPixels(v Viewport, w, h int, pix []core.Rgba) error
	// Quit ends the host event loop
	Quit()
}

// Glyph is a character cell with resolved colors
type Glyph struct {
	Rune   rune
	Fg, Bg core.Rgba
}

// Viewport places a canvas on the surface. Canvas pixel (x, y) covers the
// Scale x Scale square at Offset + (x, y)*Scale.
type Viewport struct {
	Offset image.Point
	Scale  int
}

// FitCanvas returns the largest integer scale at which a w x h canvas fits
// the surface, centered. A canvas larger than the surface keeps scale 1 and
// gets a negative offset, cropping equally on both sides.
func FitCanvas(surface image.Point, w, h int) Viewport {
	if w <= 0 || h <= 0 {
		return Viewport{Scale: 1}
	}
	s := 1
	for (s+1)*w <= surface.X && (s+1)*h <= surface.Y {
		s++
	}
	return Viewport{
		Offset: image.Pt((surface.X-s*w)/2, (surface.Y-s*h)/2),
		Scale:  s,
	}
}
