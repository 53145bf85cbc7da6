package render

import (
	"image"
	"testing"

	"github.com/lixenwraith/cellframe/core"
)

func TestDownsample(t *testing.T) {
	red := core.Rgba{R: 0xff, A: 0xff}
	blue := core.Rgba{B: 0xff, A: 0xff}
	white := core.Rgba{R: 0xff, G: 0xff, B: 0xff, A: 0xff}

	// 2x3: the odd last row is dropped
	pix := []core.Rgba{
		red, blue,
		blue, red,
		white, white,
	}
	w, h, cells := Downsample(2, 3, pix)
	if w != 2 || h != 1 || len(cells) != 2 {
		t.Fatalf("got %dx%d with %d cells", w, h, len(cells))
	}
	if want := core.NewCell(HalfBlock, red.X256(), blue.X256()); cells[0] != want {
		t.Errorf("cell 0 = %+v, want %+v", cells[0], want)
	}
	if want := core.NewCell(HalfBlock, blue.X256(), red.X256()); cells[1] != want {
		t.Errorf("cell 1 = %+v, want %+v", cells[1], want)
	}
}

func TestProjection(t *testing.T) {
	tests := []struct {
		name string
		pr   Projection
		in   image.Point
		want image.Point
	}{
		{"identity", Projection{}, image.Pt(3, 4), image.Pt(3, 4)},
		{"offset", Projection{Offset: image.Pt(2, 1)}, image.Pt(3, 4), image.Pt(1, 3)},
		{"half block", Projection{Mul: image.Pt(1, 2)}, image.Pt(3, 4), image.Pt(3, 8)},
		{"scaled window", Projection{Offset: image.Pt(10, 0), Div: image.Pt(8, 16)}, image.Pt(26, 33), image.Pt(2, 2)},
		{"left of canvas", Projection{Offset: image.Pt(10, 0), Div: image.Pt(8, 8)}, image.Pt(9, 0), image.Pt(-1, 0)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.pr.Apply(tt.in); got != tt.want {
				t.Errorf("Apply(%v) = %v, want %v", tt.in, got, tt.want)
			}
		})
	}
}
