package render

import (
	"fmt"
	"image"
	"slices"

	"github.com/mattn/go-runewidth"

	"github.com/lixenwraith/cellframe/core"
)

// Stats counts the operations a Render call sent to the sink
type Stats struct {
	Moves   int
	Styles  int
	Glyphs  int
	Cleared bool
	Flushed bool
}

// DiffRenderer presents character buffers on a grid of cols x rows,
// emitting only cells that differ from the previous frame
type DiffRenderer struct {
	sink       Sink
	cols, rows int

	// snapshot of the last rendered buffer
	prev         []core.CharCell
	prevW, prevH int
	havePrev     bool

	// last emitted style, kept across frames until a clear
	style      Style
	styleValid bool

	offset image.Point
}

// NewDiffRenderer creates a renderer for a host of the given size
func NewDiffRenderer(sink Sink, cols, rows int) *DiffRenderer {
	return &DiffRenderer{sink: sink, cols: cols, rows: rows}
}

// SetScreenSize records new host dimensions. The next Render repaints fully.
func (r *DiffRenderer) SetScreenSize(cols, rows int) {
	if cols == r.cols && rows == r.rows {
		return
	}
	r.cols, r.rows = cols, rows
	r.Invalidate()
}

// ScreenSize returns the host dimensions
func (r *DiffRenderer) ScreenSize() (cols, rows int) {
	return r.cols, r.rows
}

// Invalidate drops the snapshot so the next Render clears and repaints
func (r *DiffRenderer) Invalidate() {
	r.havePrev = false
	r.styleValid = false
}

// Offset is where the last buffer was placed on the host grid
func (r *DiffRenderer) Offset() image.Point {
	return r.offset
}

// Render draws a w x h buffer. Buffers smaller than the host are centered,
// larger ones are clipped. The snapshot is replaced on every call and the
// sink is flushed only when output was produced.
func (r *DiffRenderer) Render(w, h int, cells []core.CharCell) (Stats, error) {
	core.CheckBuffer(w, h, len(cells))
	var st Stats

	full := !r.havePrev || r.prevW != w || r.prevH != h
	if full {
		r.sink.Clear()
		r.styleValid = false
		st.Cleared = true
	}

	r.offset = image.Point{}
	if w < r.cols {
		r.offset.X = (r.cols - w) / 2
	}
	if h < r.rows {
		r.offset.Y = (r.rows - h) / 2
	}

	vw, vh := min(w, r.cols), min(h, r.rows)
	for y := 0; y < vh; y++ {
		needMove := true
		// set when a wide glyph was replaced, its right half still covers x
		coveredStale := false
		for x := 0; x < vw; x++ {
			i := y*w + x
			c := cells[i]
			if !full && r.prev[i] == c && !coveredStale {
				needMove = true
				continue
			}
			coveredStale = false

			if needMove {
				r.sink.MoveTo(x+r.offset.X, y+r.offset.Y)
				st.Moves++
				needMove = false
			}

			if s := StyleOf(c); !r.styleValid || s != r.style {
				r.sink.SetStyle(s)
				r.style = s
				r.styleValid = true
				st.Styles++
			}

			g := c.DisplayGlyph()
			r.sink.PutGlyph(g)
			st.Glyphs++
			// cursor column no longer tracks x after wide or zero-width glyphs
			gw := runewidth.RuneWidth(g)
			if gw != 1 {
				needMove = true
			}
			if !full && gw < 2 && runewidth.RuneWidth(r.prev[i].DisplayGlyph()) == 2 {
				coveredStale = true
			}
		}
	}

	r.prev = append(r.prev[:0], cells...)
	r.prevW, r.prevH = w, h
	r.havePrev = true

	if st.Cleared || st.Glyphs > 0 {
		if err := r.sink.Flush(); err != nil {
			return st, fmt.Errorf("render flush: %w", err)
		}
		st.Flushed = true
	}
	return st, nil
}

// Snapshot returns a copy of the last rendered buffer
func (r *DiffRenderer) Snapshot() (w, h int, cells []core.CharCell) {
	return r.prevW, r.prevH, slices.Clone(r.prev)
}
