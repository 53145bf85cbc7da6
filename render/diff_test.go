package render

import (
	"errors"
	"fmt"
	"image"
	"testing"

	"github.com/lixenwraith/cellframe/core"
)

// recordSink logs every operation as a string
type recordSink struct {
	ops     []string
	flushes int
	err     error
}

func (s *recordSink) Clear()          { s.ops = append(s.ops, "clear") }
func (s *recordSink) MoveTo(x, y int) { s.ops = append(s.ops, fmt.Sprintf("move %d,%d", x, y)) }
func (s *recordSink) SetStyle(st Style) {
	s.ops = append(s.ops, fmt.Sprintf("style %+v", st))
}
func (s *recordSink) PutGlyph(r rune) { s.ops = append(s.ops, fmt.Sprintf("glyph %c", r)) }
func (s *recordSink) Flush() error {
	s.flushes++
	return s.err
}

func (s *recordSink) reset() {
	s.ops = nil
	s.flushes = 0
}

func (s *recordSink) count(prefix string) int {
	n := 0
	for _, op := range s.ops {
		if len(op) >= len(prefix) && op[:len(prefix)] == prefix {
			n++
		}
	}
	return n
}

func filled(w, h int, c core.CharCell) []core.CharCell {
	buf := make([]core.CharCell, w*h)
	for i := range buf {
		buf[i] = c
	}
	return buf
}

func TestRenderIdenticalFrameIsSilent(t *testing.T) {
	sink := &recordSink{}
	r := NewDiffRenderer(sink, 3, 1)

	buf := filled(3, 1, core.Cell(' '))
	buf[1] = core.NewCell('X', core.Red, core.Background)

	if _, err := r.Render(3, 1, buf); err != nil {
		t.Fatal(err)
	}
	if sink.flushes != 1 {
		t.Fatalf("first render flushed %d times, want 1", sink.flushes)
	}

	sink.reset()
	st, err := r.Render(3, 1, buf)
	if err != nil {
		t.Fatal(err)
	}
	if len(sink.ops) != 0 {
		t.Errorf("second render emitted %v", sink.ops)
	}
	if sink.flushes != 0 || st.Flushed {
		t.Error("unchanged frame must not flush")
	}
	if st != (Stats{}) {
		t.Errorf("stats = %+v, want zero", st)
	}
}

func TestRenderSingleCellChange(t *testing.T) {
	sink := &recordSink{}
	r := NewDiffRenderer(sink, 4, 2)

	buf := filled(4, 2, core.Cell('.'))
	r.Render(4, 2, buf)

	sink.reset()
	buf[5] = core.Cell('#')
	st, err := r.Render(4, 2, buf)
	if err != nil {
		t.Fatal(err)
	}

	want := []string{"move 1,1", "glyph #"}
	if fmt.Sprint(sink.ops) != fmt.Sprint(want) {
		t.Errorf("ops = %v, want %v", sink.ops, want)
	}
	if st.Moves != 1 || st.Glyphs != 1 || st.Styles != 0 || !st.Flushed {
		t.Errorf("stats = %+v", st)
	}
}

func TestRenderColorChangeEmitsStyle(t *testing.T) {
	sink := &recordSink{}
	r := NewDiffRenderer(sink, 2, 1)
	buf := filled(2, 1, core.Cell('a'))
	r.Render(2, 1, buf)

	sink.reset()
	buf[0] = core.NewCell('a', core.Red, core.Background)
	st, _ := r.Render(2, 1, buf)
	if st.Styles != 1 {
		t.Errorf("styles = %d, want 1", st.Styles)
	}
}

func TestRenderRunsShareOneMove(t *testing.T) {
	sink := &recordSink{}
	r := NewDiffRenderer(sink, 5, 1)
	buf := filled(5, 1, core.Cell('-'))
	r.Render(5, 1, buf)

	sink.reset()
	buf[1], buf[2] = core.Cell('a'), core.Cell('b')
	buf[4] = core.Cell('c')
	st, _ := r.Render(5, 1, buf)
	if st.Moves != 2 {
		t.Errorf("moves = %d, want 2 (one per run), ops %v", st.Moves, sink.ops)
	}
	if st.Glyphs != 3 {
		t.Errorf("glyphs = %d, want 3", st.Glyphs)
	}
}

func TestRenderDimensionChangeRepaints(t *testing.T) {
	sink := &recordSink{}
	r := NewDiffRenderer(sink, 10, 10)

	r.Render(2, 2, filled(2, 2, core.Cell('x')))
	sink.reset()

	st, _ := r.Render(4, 1, filled(4, 1, core.Cell('x')))
	if !st.Cleared || st.Glyphs != 4 {
		t.Errorf("resize should clear and repaint all cells, stats %+v", st)
	}
	if sink.ops[0] != "clear" {
		t.Errorf("first op = %q, want clear", sink.ops[0])
	}
}

func TestRenderScreenResizeRepaints(t *testing.T) {
	sink := &recordSink{}
	r := NewDiffRenderer(sink, 3, 3)
	buf := filled(3, 3, core.Cell('o'))
	r.Render(3, 3, buf)

	r.SetScreenSize(5, 5)
	sink.reset()
	st, _ := r.Render(3, 3, buf)
	if !st.Cleared || st.Glyphs != 9 {
		t.Errorf("stats %+v, want full repaint", st)
	}
	if r.Offset() != image.Pt(1, 1) {
		t.Errorf("offset = %v, want (1,1)", r.Offset())
	}
}

func TestRenderCentersAndClips(t *testing.T) {
	sink := &recordSink{}
	r := NewDiffRenderer(sink, 6, 4)
	r.Render(2, 2, filled(2, 2, core.Cell('x')))
	if sink.ops[1] != "move 2,1" {
		t.Errorf("small buffer should be centered, ops %v", sink.ops)
	}

	sink.reset()
	st, _ := r.Render(8, 5, filled(8, 5, core.Cell('y')))
	if st.Glyphs != 24 {
		t.Errorf("large buffer should be clipped to 24 cells, got %d", st.Glyphs)
	}
	if r.Offset() != (image.Point{}) {
		t.Errorf("offset = %v, want origin", r.Offset())
	}
}

func TestRenderColorStatePersists(t *testing.T) {
	sink := &recordSink{}
	r := NewDiffRenderer(sink, 2, 1)
	red := core.NewCell('r', core.Red, core.Background)
	r.Render(2, 1, []core.CharCell{red, red})

	sink.reset()
	st, _ := r.Render(2, 1, []core.CharCell{red, core.NewCell('s', core.Red, core.Background)})
	if st.Styles != 0 {
		t.Errorf("matching colors should reuse the emitted style, ops %v", sink.ops)
	}
}

func TestRenderNullGlyphIsSpace(t *testing.T) {
	sink := &recordSink{}
	r := NewDiffRenderer(sink, 1, 1)
	r.Render(1, 1, []core.CharCell{core.Blank})
	if sink.count("glyph  ") != 1 {
		t.Errorf("null glyph should be drawn as space, ops %v", sink.ops)
	}
}

func TestRenderWideGlyphRepositions(t *testing.T) {
	sink := &recordSink{}
	r := NewDiffRenderer(sink, 3, 1)
	st, _ := r.Render(3, 1, []core.CharCell{core.Cell('漢'), core.Cell('a'), core.Cell('b')})
	if st.Moves != 2 {
		t.Errorf("moves = %d, want 2 after a wide glyph, ops %v", st.Moves, sink.ops)
	}
}

func TestRenderRedrawsCellUnderReplacedWideGlyph(t *testing.T) {
	sink := &recordSink{}
	r := NewDiffRenderer(sink, 3, 1)
	r.Render(3, 1, []core.CharCell{core.Cell('漢'), core.Cell('b'), core.Cell('c')})

	sink.reset()
	r.Render(3, 1, []core.CharCell{core.Cell('x'), core.Cell('b'), core.Cell('c')})
	want := []string{"move 0,0", "glyph x", "glyph b"}
	if len(sink.ops) != len(want) {
		t.Fatalf("ops = %v, want %v", sink.ops, want)
	}
	for i := range want {
		if sink.ops[i] != want[i] {
			t.Fatalf("ops = %v, want %v", sink.ops, want)
		}
	}

	// once redrawn, the cell is clean again
	sink.reset()
	if st, _ := r.Render(3, 1, []core.CharCell{core.Cell('x'), core.Cell('b'), core.Cell('c')}); st.Glyphs != 0 {
		t.Errorf("unchanged frame drew %d glyphs, ops %v", st.Glyphs, sink.ops)
	}
}

func TestRenderFlushError(t *testing.T) {
	boom := errors.New("broken pipe")
	sink := &recordSink{err: boom}
	r := NewDiffRenderer(sink, 1, 1)
	if _, err := r.Render(1, 1, []core.CharCell{core.Cell('x')}); !errors.Is(err, boom) {
		t.Errorf("err = %v, want wrapped %v", err, boom)
	}
}

func TestRenderBadLengthPanics(t *testing.T) {
	r := NewDiffRenderer(&recordSink{}, 2, 2)
	defer func() {
		if recover() == nil {
			t.Error("expected panic")
		}
	}()
	r.Render(2, 2, make([]core.CharCell, 3))
}

func TestRenderSnapshotIsCopy(t *testing.T) {
	r := NewDiffRenderer(&recordSink{}, 2, 1)
	buf := []core.CharCell{core.Cell('a'), core.Cell('b')}
	r.Render(2, 1, buf)
	buf[0] = core.Cell('z')

	_, _, snap := r.Snapshot()
	if snap[0] != core.Cell('a') {
		t.Error("snapshot must not alias the caller's buffer")
	}
}
