package render

import (
	"image"

	"github.com/lixenwraith/cellframe/core"
)

// HalfBlock is the upper half block glyph used for pixel output
const HalfBlock = '▀'

// Downsample packs vertical pixel pairs into half-block cells: the
// foreground is the top pixel and the background the bottom one. An odd
// trailing pixel row is dropped.
func Downsample(w, h int, pix []core.Rgba) (cw, ch int, cells []core.CharCell) {
	core.CheckBuffer(w, h, len(pix))
	cw, ch = w, h/2
	cells = make([]core.CharCell, cw*ch)
	for y := 0; y < ch; y++ {
		top := pix[2*y*w : 2*y*w+w]
		bottom := pix[(2*y+1)*w : (2*y+1)*w+w]
		row := cells[y*cw : y*cw+cw]
		for x := range row {
			row[x] = core.NewCell(HalfBlock, top[x].X256(), bottom[x].X256())
		}
	}
	return cw, ch, cells
}

// Projection maps host pointer coordinates into buffer coordinates:
// (p - Offset) * Mul / Div. Zero Mul or Div components count as 1.
type Projection struct {
	Offset image.Point
	Mul    image.Point
	Div    image.Point
}

// Apply projects p
func (pr Projection) Apply(p image.Point) image.Point {
	q := p.Sub(pr.Offset)
	q.X = floorDiv(q.X*one(pr.Mul.X), one(pr.Div.X))
	q.Y = floorDiv(q.Y*one(pr.Mul.Y), one(pr.Div.Y))
	return q
}

// floorDiv keeps points left of or above the canvas negative
func floorDiv(a, b int) int {
	q := a / b
	if (a%b != 0) && ((a < 0) != (b < 0)) {
		q--
	}
	return q
}

func one(v int) int {
	if v == 0 {
		return 1
	}
	return v
}
