package terminal

import (
	"errors"
	"image"
	"io"
	"testing"

	"github.com/lixenwraith/cellframe/core"
	"github.com/lixenwraith/cellframe/engine"
	"github.com/lixenwraith/cellframe/input"
	"github.com/lixenwraith/cellframe/render"
)

type nopSink struct{ glyphs int }

func (s *nopSink) Clear()                {}
func (s *nopSink) MoveTo(x, y int)       {}
func (s *nopSink) SetStyle(render.Style) {}
func (s *nopSink) PutGlyph(r rune)       { s.glyphs++ }
func (s *nopSink) Flush() error          { return nil }

type fakeDriver struct {
	cols, rows int
	sink       nopSink
	events     chan Event
	inits      int
	finis      int
}

func newFakeDriver(cols, rows int, evs ...Event) *fakeDriver {
	d := &fakeDriver{cols: cols, rows: rows, events: make(chan Event, 64)}
	for _, ev := range evs {
		d.events <- ev
	}
	return d
}

func (d *fakeDriver) Init() error          { d.inits++; return nil }
func (d *fakeDriver) Fini()                { d.finis++ }
func (d *fakeDriver) Size() (int, int)     { return d.cols, d.rows }
func (d *fakeDriver) Sink() render.Sink    { return &d.sink }
func (d *fakeDriver) Events() <-chan Event { return d.events }

func keyEvent(code string) Event {
	kt, err := input.ParseKeyTyped(code)
	if err != nil {
		panic(err)
	}
	return Event{Type: EventKey, Key: kt}
}

var fastOpts = engine.Options{FrameRate: 1000}

func TestAdapterRunsApp(t *testing.T) {
	drv := newFakeDriver(10, 3,
		keyEvent("q"),
		Event{Type: EventMouse, Action: MousePress, Button: input.ButtonLeft, Pos: image.Pt(5, 1)},
	)
	a := NewAdapter(drv, fastOpts)

	var keys []string
	var mouse input.MouseState
	var kind engine.Kind
	var cw, ch, pw, ph int
	err := a.Run(func(b engine.Backend) {
		kind = b.Kind()
		cw, ch = b.CharResolution(0, 0)
		pw, ph = b.PixelResolution()
		cells := []core.CharCell{core.Cell('o'), core.Cell('k')}
		for i := 0; i < 3; i++ {
			b.DrawChars(2, 1, cells)
			keys = append(keys, b.Keypress().String())
			if i == 0 {
				mouse = b.MouseState()
			}
		}
	})
	if err != nil {
		t.Fatalf("Run: %v", err)
	}

	if kind != engine.KindTerminal {
		t.Errorf("kind = %v", kind)
	}
	if cw != 10 || ch != 3 || pw != 10 || ph != 6 {
		t.Errorf("resolutions chars %dx%d pixels %dx%d", cw, ch, pw, ph)
	}
	want := []string{"q", "none", "none"}
	for i := range want {
		if keys[i] != want[i] {
			t.Errorf("frame %d key %q, want %q", i, keys[i], want[i])
		}
	}
	// buffer centered at (4,1)
	if got := mouse.Pos(); got != image.Pt(1, 0) || mouse.Kind() != input.MousePressed {
		t.Errorf("mouse = %v, want pressed at (1,0)", mouse)
	}
	if drv.inits != 1 || drv.finis != 1 {
		t.Errorf("init %d fini %d, want 1 each", drv.inits, drv.finis)
	}
	if drv.sink.glyphs != 2 {
		t.Errorf("drew %d glyphs, want 2 (unchanged frames skipped)", drv.sink.glyphs)
	}
}

func TestAdapterPixelMouse(t *testing.T) {
	drv := newFakeDriver(4, 2, Event{Type: EventMouse, Action: MouseMove, Pos: image.Pt(3, 1)})
	a := NewAdapter(drv, fastOpts)

	var pos image.Point
	err := a.Run(func(b engine.Backend) {
		b.DrawPixels(4, 4, make([]core.Rgba, 16))
		pos = b.MouseState().Pos()
	})
	if err != nil {
		t.Fatal(err)
	}
	if pos != image.Pt(3, 2) {
		t.Errorf("pixel mouse = %v, want (3,2)", pos)
	}
}

func TestAdapterInputClosed(t *testing.T) {
	drv := newFakeDriver(10, 3, Event{Type: EventClosed})
	a := NewAdapter(drv, fastOpts)

	unwound := false
	err := a.Run(func(b engine.Backend) {
		defer func() { unwound = true }()
		for {
			b.NextFrame()
		}
	})
	if !errors.Is(err, io.EOF) {
		t.Fatalf("Run error = %v, want io.EOF", err)
	}
	if !unwound {
		t.Error("application task was not unwound")
	}
	if drv.finis != 1 {
		t.Errorf("fini called %d times", drv.finis)
	}
}

func TestAdapterResizeAndFocus(t *testing.T) {
	drv := newFakeDriver(10, 3,
		Event{Type: EventFocus, Focused: false},
		Event{Type: EventResize, Width: 20, Height: 5},
	)
	a := NewAdapter(drv, fastOpts)

	var sizes [][2]int
	err := a.Run(func(b engine.Backend) {
		for i := 0; i < 2; i++ {
			w, h := b.CharResolution(0, 0)
			sizes = append(sizes, [2]int{w, h})
			b.NextFrame()
		}
	})
	if err != nil {
		t.Fatal(err)
	}
	if sizes[0] != [2]int{10, 3} || sizes[1] != [2]int{20, 5} {
		t.Errorf("sizes = %v", sizes)
	}
	if a.focusLost {
		t.Error("focus should be regained by the next event")
	}
}

func TestAdapterInputError(t *testing.T) {
	boom := errors.New("read failed")
	drv := newFakeDriver(10, 3, Event{Type: EventError, Err: boom})
	err := NewAdapter(drv, fastOpts).Run(func(b engine.Backend) {
		for {
			b.NextFrame()
		}
	})
	if !errors.Is(err, boom) {
		t.Errorf("Run error = %v, want %v", err, boom)
	}
}
