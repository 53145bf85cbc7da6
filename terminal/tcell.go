package terminal

import (
	"image"
	"log"
	"sync"
	"time"

	"github.com/gdamore/tcell/v2"
	"github.com/mattn/go-runewidth"

	"github.com/lixenwraith/cellframe/engine"
	"github.com/lixenwraith/cellframe/input"
	"github.com/lixenwraith/cellframe/render"
)

// tcellDriver runs on a tcell.Screen
type tcellDriver struct {
	scr   tcell.Screen
	mouse bool
	sink  *tcellSink

	events chan Event
	stopCh chan struct{}
	doneCh chan struct{}
	once   sync.Once

	// buttons held as of the last mouse event
	buttons tcell.ButtonMask
}

// NewTcell creates a driver for scr. The screen is initialized by Init.
func NewTcell(scr tcell.Screen, mouse bool) Driver {
	return &tcellDriver{
		scr:    scr,
		mouse:  mouse,
		sink:   &tcellSink{scr: scr},
		events: make(chan Event, 256),
		stopCh: make(chan struct{}),
		doneCh: make(chan struct{}),
	}
}

func (d *tcellDriver) Init() error {
	if err := d.scr.Init(); err != nil {
		return err
	}
	d.scr.HideCursor()
	d.scr.EnableFocus()
	if d.mouse {
		d.scr.EnableMouse()
	}
	d.scr.Clear()

	engine.Go(d.pump)

	cols, rows := d.scr.Size()
	log.Printf("terminal: tcell initialized %dx%d", cols, rows)
	return nil
}

func (d *tcellDriver) Fini() {
	d.once.Do(func() {
		close(d.stopCh)
		d.scr.Fini()
		select {
		case <-d.doneCh:
		case <-time.After(100 * time.Millisecond):
		}
		log.Printf("terminal: tcell finalized")
	})
}

func (d *tcellDriver) Size() (int, int) { return d.scr.Size() }

func (d *tcellDriver) Sink() render.Sink { return d.sink }

func (d *tcellDriver) Events() <-chan Event { return d.events }

func (d *tcellDriver) pump() {
	defer close(d.doneCh)
	for {
		ev := d.scr.PollEvent()
		if ev == nil {
			d.send(Event{Type: EventClosed})
			return
		}
		for _, e := range d.convert(ev) {
			if !d.send(e) {
				return
			}
		}
	}
}

func (d *tcellDriver) send(ev Event) bool {
	select {
	case d.events <- ev:
		return true
	case <-d.stopCh:
		return false
	}
}

func (d *tcellDriver) convert(ev tcell.Event) []Event {
	switch ev := ev.(type) {
	case *tcell.EventKey:
		if kt, ok := tcellKey(ev); ok {
			return []Event{{Type: EventKey, Key: kt}}
		}
	case *tcell.EventMouse:
		return d.mouseEvents(ev)
	case *tcell.EventResize:
		w, h := ev.Size()
		return []Event{{Type: EventResize, Width: w, Height: h}}
	case *tcell.EventFocus:
		return []Event{{Type: EventFocus, Focused: ev.Focused}}
	case *tcell.EventError:
		return []Event{{Type: EventError, Err: ev}}
	}
	return nil
}

var tcellButtons = []struct {
	mask tcell.ButtonMask
	btn  input.MouseButton
}{
	{tcell.Button1, input.ButtonLeft},
	{tcell.Button3, input.ButtonMiddle},
	{tcell.Button2, input.ButtonRight},
}

var tcellWheel = []struct {
	mask  tcell.ButtonMask
	delta image.Point
}{
	{tcell.WheelUp, image.Pt(0, -1)},
	{tcell.WheelDown, image.Pt(0, 1)},
	{tcell.WheelLeft, image.Pt(-1, 0)},
	{tcell.WheelRight, image.Pt(1, 0)},
}

// mouseEvents splits a tcell button mask snapshot into a move followed by
// press, release and wheel transitions
func (d *tcellDriver) mouseEvents(ev *tcell.EventMouse) []Event {
	x, y := ev.Position()
	pos := image.Pt(x, y)
	mask := ev.Buttons()

	out := []Event{{Type: EventMouse, Action: MouseMove, Pos: pos}}
	for _, b := range tcellButtons {
		was, is := d.buttons&b.mask != 0, mask&b.mask != 0
		switch {
		case is && !was:
			out = append(out, Event{Type: EventMouse, Action: MousePress, Button: b.btn, Pos: pos})
		case was && !is:
			out = append(out, Event{Type: EventMouse, Action: MouseRelease, Button: b.btn, Pos: pos})
		}
	}
	for _, w := range tcellWheel {
		if mask&w.mask != 0 {
			out = append(out, Event{Type: EventMouse, Action: MouseScroll, Scroll: w.delta, Pos: pos})
		}
	}
	d.buttons = mask & (tcell.Button1 | tcell.Button2 | tcell.Button3)
	return out
}

var tcellKeys = map[tcell.Key]input.Key{
	tcell.KeyUp:         input.KeyUp,
	tcell.KeyDown:       input.KeyDown,
	tcell.KeyLeft:       input.KeyLeft,
	tcell.KeyRight:      input.KeyRight,
	tcell.KeyTab:        input.KeyTab,
	tcell.KeyEnter:      input.KeyEnter,
	tcell.KeyLF:         input.KeyEnter,
	tcell.KeyEscape:     input.KeyEsc,
	tcell.KeyBackspace:  input.KeyBackspace,
	tcell.KeyBackspace2: input.KeyBackspace,
	tcell.KeyDelete:     input.KeyDelete,
	tcell.KeyInsert:     input.KeyInsert,
	tcell.KeyHome:       input.KeyHome,
	tcell.KeyEnd:        input.KeyEnd,
	tcell.KeyPgUp:       input.KeyPageUp,
	tcell.KeyPgDn:       input.KeyPageDown,
}

// tcellKey converts a tcell key event, reporting false for keys with no
// equivalent
func tcellKey(ev *tcell.EventKey) (input.KeyTyped, bool) {
	m := ev.Modifiers()
	mods := input.KeyMods{
		Shift: m&tcell.ModShift != 0,
		Ctrl:  m&tcell.ModCtrl != 0,
		Alt:   m&tcell.ModAlt != 0,
		Logo:  m&tcell.ModMeta != 0,
	}

	var key input.Key
	switch k := ev.Key(); {
	case k == tcell.KeyRune:
		rk, ok := runeKey(ev.Rune())
		if !ok {
			return input.KeyTyped{}, false
		}
		key = rk
	case k >= tcell.KeyCtrlA && k <= tcell.KeyCtrlZ:
		key, mods.Ctrl = input.Char(rune('a'+(k-tcell.KeyCtrlA))), true
	case k == tcell.KeyCtrlSpace:
		key, mods.Ctrl = input.KeySpace, true
	case k >= tcell.KeyF1 && k <= tcell.KeyF12:
		key = input.F(int(k-tcell.KeyF1) + 1)
	case k == tcell.KeyBacktab:
		key, mods.Shift = input.KeyTab, true
	default:
		named, ok := tcellKeys[k]
		switch {
		case ok:
			key = named
		case k < tcell.Key(' '):
			// remaining raw C0 codes
			ck, cm := controlKey(byte(k))
			key, mods.Ctrl = ck, mods.Ctrl || cm.Ctrl
		default:
			return input.KeyTyped{}, false
		}
	}
	return input.Typed(key, mods, false), true
}

// tcellSink renders through tcell's cell buffer
type tcellSink struct {
	scr   tcell.Screen
	x, y  int
	style tcell.Style
}

func (s *tcellSink) Clear() { s.scr.Clear() }

func (s *tcellSink) MoveTo(x, y int) { s.x, s.y = x, y }

func (s *tcellSink) SetStyle(st render.Style) {
	s.style = tcellStyle(st)
}

func tcellStyle(st render.Style) tcell.Style {
	ts := tcell.StyleDefault
	if st.FgSet {
		ts = ts.Foreground(tcell.PaletteColor(int(st.Fg)))
	}
	if st.BgSet {
		ts = ts.Background(tcell.PaletteColor(int(st.Bg)))
	}
	return ts.Reverse(st.Reverse).Bold(st.Bold)
}

func (s *tcellSink) PutGlyph(r rune) {
	s.scr.SetContent(s.x, s.y, r, nil, s.style)
	s.x += max(runewidth.RuneWidth(r), 0)
}

func (s *tcellSink) Flush() error {
	s.scr.Show()
	return nil
}

func init() {
	engine.Register("tcell", func(opts engine.Options) (engine.Adapter, error) {
		scr, err := tcell.NewScreen()
		if err != nil {
			return nil, err
		}
		return NewAdapter(NewTcell(scr, opts.Mouse), opts), nil
	})
}
