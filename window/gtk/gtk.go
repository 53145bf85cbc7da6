//go:build gtk

// Package gtk hosts window backends in a GTK3 window. Import it for its side
// effect of registering the "gtk" backend; building requires the gtk tag and
// the GTK3 development libraries.
package gtk

import (
	"fmt"
	"image"
	"log"
	"runtime"

	"github.com/gotk3/gotk3/cairo"
	"github.com/gotk3/gotk3/gdk"
	"github.com/gotk3/gotk3/glib"
	"github.com/gotk3/gotk3/gtk"

	"github.com/lixenwraith/cellframe/core"
	"github.com/lixenwraith/cellframe/engine"
	"github.com/lixenwraith/cellframe/input"
	"github.com/lixenwraith/cellframe/window"
)

const (
	fontFamily = "Monospace"
	fontSize   = 16
	// initial window size in cells
	defaultCols = 80
	defaultRows = 25
)

func init() {
	engine.Register("gtk", func(opts engine.Options) (engine.Adapter, error) {
		return &host{opts: opts}, nil
	})
}

type frameMode uint8

const (
	modeNone frameMode = iota
	modeChars
	modePixels
)

// host owns the GTK main loop and implements window.Surface. The last
// presented frame is kept and painted from the draw signal.
type host struct {
	opts    engine.Options
	adapter *window.Adapter
	win     *gtk.Window
	da      *gtk.DrawingArea
	cell    image.Point
	pressed *window.RepeatTracker

	mode   frameMode
	view   window.Viewport
	w, h   int
	glyphs []window.Glyph
	pix    []core.Rgba
}

func (h *host) Run(app engine.App) error {
	runtime.LockOSThread()
	defer runtime.UnlockOSThread()

	gtk.Init(nil)
	h.cell = image.Pt(fontSize*6/10, fontSize*12/10)
	h.pressed = window.NewRepeatTracker()

	win, err := gtk.WindowNew(gtk.WINDOW_TOPLEVEL)
	if err != nil {
		return fmt.Errorf("gtk window: %w", err)
	}
	da, err := gtk.DrawingAreaNew()
	if err != nil {
		return fmt.Errorf("gtk drawing area: %w", err)
	}
	h.win, h.da = win, da

	title := h.opts.Title
	if title == "" {
		title = "cellframe"
	}
	win.SetTitle(title)
	win.SetDefaultSize(defaultCols*h.cell.X, defaultRows*h.cell.Y)
	win.Connect("destroy", gtk.MainQuit)

	da.SetCanFocus(true)
	da.AddEvents(int(gdk.BUTTON_PRESS_MASK | gdk.BUTTON_RELEASE_MASK |
		gdk.POINTER_MOTION_MASK | gdk.SCROLL_MASK | gdk.KEY_PRESS_MASK |
		gdk.KEY_RELEASE_MASK | gdk.FOCUS_CHANGE_MASK))
	da.Connect("draw", h.onDraw)
	da.Connect("key-press-event", h.onKeyPress)
	da.Connect("key-release-event", h.onKeyRelease)
	da.Connect("button-press-event", h.onButtonPress)
	da.Connect("button-release-event", h.onButtonRelease)
	da.Connect("motion-notify-event", h.onMotion)
	da.Connect("scroll-event", h.onScroll)
	da.Connect("focus-in-event", h.onFocusIn)
	da.Connect("focus-out-event", h.onFocusOut)

	win.Add(da)
	win.ShowAll()
	da.GrabFocus()

	h.adapter = window.NewAdapter(h, h.opts, nil)
	h.adapter.Start(app)
	defer h.adapter.Close()

	// poll at twice the frame rate; the adapter's pacer decides when a frame runs
	interval := uint(max(h.opts.FrameDuration().Milliseconds()/2, 1))
	glib.TimeoutAdd(interval, h.tick)

	log.Printf("gtk: window %q open", title)
	gtk.Main()
	log.Printf("gtk: main loop exited")
	return h.adapter.Err()
}

// tick runs on the GTK thread, so a panic in the application is reported
// through the crash handler instead of unwinding through cgo
func (h *host) tick() (more bool) {
	defer func() {
		if r := recover(); r != nil {
			engine.HandleCrash(r)
		}
	}()
	return h.adapter.OnFrame()
}

// window.Surface

func (h *host) Size() image.Point {
	return image.Pt(h.da.GetAllocatedWidth(), h.da.GetAllocatedHeight())
}

func (h *host) CellSize() image.Point { return h.cell }

func (h *host) PresentChars(v window.Viewport, w, ht int, cells []window.Glyph) error {
	h.mode, h.view, h.w, h.h = modeChars, v, w, ht
	h.glyphs = append(h.glyphs[:0], cells...)
	h.da.QueueDraw()
	return nil
}

func (h *host) PresentPixels(v window.Viewport, w, ht int, pix []core.Rgba) error {
	h.mode, h.view, h.w, h.h = modePixels, v, w, ht
	h.pix = append(h.pix[:0], pix...)
	h.da.QueueDraw()
	return nil
}

func (h *host) Quit() { gtk.MainQuit() }

func setColor(cr *cairo.Context, c core.Rgba) {
	cr.SetSourceRGB(float64(c.R)/255, float64(c.G)/255, float64(c.B)/255)
}

func (h *host) onDraw(da *gtk.DrawingArea, cr *cairo.Context) bool {
	pal := h.adapter.Palette()
	setColor(cr, pal[core.Background])
	cr.Rectangle(0, 0, float64(da.GetAllocatedWidth()), float64(da.GetAllocatedHeight()))
	cr.Fill()

	cr.Translate(float64(h.view.Offset.X), float64(h.view.Offset.Y))
	s := float64(h.view.Scale)
	cr.Scale(s, s)

	switch h.mode {
	case modeChars:
		cw, ch := float64(h.cell.X), float64(h.cell.Y)
		cr.SelectFontFace(fontFamily, cairo.FONT_SLANT_NORMAL, cairo.FONT_WEIGHT_NORMAL)
		cr.SetFontSize(fontSize)
		for y := 0; y < h.h; y++ {
			for x := 0; x < h.w; x++ {
				g := h.glyphs[y*h.w+x]
				setColor(cr, g.Bg)
				cr.Rectangle(float64(x)*cw, float64(y)*ch, cw, ch)
				cr.Fill()
				if g.Rune == ' ' {
					continue
				}
				setColor(cr, g.Fg)
				// baseline at roughly 80% of the cell height
				cr.MoveTo(float64(x)*cw, float64(y)*ch+ch*0.8)
				cr.ShowText(string(g.Rune))
			}
		}
	case modePixels:
		for y := 0; y < h.h; y++ {
			for x := 0; x < h.w; x++ {
				setColor(cr, h.pix[y*h.w+x])
				cr.Rectangle(float64(x), float64(y), 1, 1)
				cr.Fill()
			}
		}
	}
	return true
}

var gtkKeys = map[uint]input.Key{
	gdk.KEY_Up:           input.KeyUp,
	gdk.KEY_Down:         input.KeyDown,
	gdk.KEY_Left:         input.KeyLeft,
	gdk.KEY_Right:        input.KeyRight,
	gdk.KEY_Tab:          input.KeyTab,
	gdk.KEY_ISO_Left_Tab: input.KeyTab,
	gdk.KEY_Return:       input.KeyEnter,
	gdk.KEY_KP_Enter:     input.KeyEnter,
	gdk.KEY_Escape:       input.KeyEsc,
	gdk.KEY_BackSpace:    input.KeyBackspace,
	gdk.KEY_Delete:       input.KeyDelete,
	gdk.KEY_Insert:       input.KeyInsert,
	gdk.KEY_Home:         input.KeyHome,
	gdk.KEY_End:          input.KeyEnd,
	gdk.KEY_Page_Up:      input.KeyPageUp,
	gdk.KEY_Page_Down:    input.KeyPageDown,
	gdk.KEY_Shift_L:      input.KeyShift,
	gdk.KEY_Shift_R:      input.KeyShift,
	gdk.KEY_Control_L:    input.KeyCtrl,
	gdk.KEY_Control_R:    input.KeyCtrl,
	gdk.KEY_Alt_L:        input.KeyAlt,
	gdk.KEY_Alt_R:        input.KeyAlt,
	gdk.KEY_Super_L:      input.KeyIcon,
	gdk.KEY_Super_R:      input.KeyIcon,
	gdk.KEY_F1:           input.F(1),
	gdk.KEY_F2:           input.F(2),
	gdk.KEY_F3:           input.F(3),
	gdk.KEY_F4:           input.F(4),
	gdk.KEY_F5:           input.F(5),
	gdk.KEY_F6:           input.F(6),
	gdk.KEY_F7:           input.F(7),
	gdk.KEY_F8:           input.F(8),
	gdk.KEY_F9:           input.F(9),
	gdk.KEY_F10:          input.F(10),
	gdk.KEY_F11:          input.F(11),
	gdk.KEY_F12:          input.F(12),
}

func keyMods(state uint) input.KeyMods {
	return input.KeyMods{
		Shift: state&uint(gdk.SHIFT_MASK) != 0,
		Ctrl:  state&uint(gdk.CONTROL_MASK) != 0,
		Alt:   state&uint(gdk.MOD1_MASK) != 0,
		Logo:  state&uint(gdk.SUPER_MASK|gdk.META_MASK) != 0,
	}
}

// physicalKey resolves a keyval to the key reported as held
func physicalKey(keyval uint) (input.Key, rune) {
	if k, ok := gtkKeys[keyval]; ok {
		return k, 0
	}
	r := gdk.KeyvalToUnicode(keyval)
	if r == 0 {
		return input.KeyNone, 0
	}
	if r == ' ' {
		return input.KeySpace, r
	}
	return input.Char(r).Lower(), r
}

func (h *host) onKeyPress(da *gtk.DrawingArea, ev *gdk.Event) bool {
	key := gdk.EventKeyNewFromEvent(ev)
	keyval := key.KeyVal()
	mods := keyMods(key.State())
	k, r := physicalKey(keyval)
	repeat := h.pressed.Press(k)
	if k.Valid() {
		h.adapter.OnKeyDown(k, mods, repeat)
	}
	if r != 0 {
		h.adapter.OnChar(r, mods, repeat)
	}
	return true
}

func (h *host) onKeyRelease(da *gtk.DrawingArea, ev *gdk.Event) bool {
	k, _ := physicalKey(gdk.EventKeyNewFromEvent(ev).KeyVal())
	h.pressed.Release(k)
	if k.Valid() {
		h.adapter.OnKeyUp(k)
	}
	return true
}

func mouseButton(b gdk.Button) (input.MouseButton, bool) {
	switch b {
	case gdk.BUTTON_PRIMARY:
		return input.ButtonLeft, true
	case gdk.BUTTON_MIDDLE:
		return input.ButtonMiddle, true
	case gdk.BUTTON_SECONDARY:
		return input.ButtonRight, true
	}
	return 0, false
}

func (h *host) onButtonPress(da *gtk.DrawingArea, ev *gdk.Event) bool {
	btn := gdk.EventButtonNewFromEvent(ev)
	da.GrabFocus()
	if b, ok := mouseButton(btn.Button()); ok {
		h.adapter.OnMouseDown(image.Pt(int(btn.X()), int(btn.Y())), b)
	}
	return true
}

func (h *host) onButtonRelease(da *gtk.DrawingArea, ev *gdk.Event) bool {
	btn := gdk.EventButtonNewFromEvent(ev)
	if b, ok := mouseButton(btn.Button()); ok {
		h.adapter.OnMouseUp(image.Pt(int(btn.X()), int(btn.Y())), b)
	}
	return true
}

func (h *host) onMotion(da *gtk.DrawingArea, ev *gdk.Event) bool {
	x, y := gdk.EventMotionNewFromEvent(ev).MotionVal()
	h.adapter.OnMouseMove(image.Pt(int(x), int(y)))
	return true
}

func (h *host) onScroll(da *gtk.DrawingArea, ev *gdk.Event) bool {
	scroll := gdk.EventScrollNewFromEvent(ev)
	switch scroll.Direction() {
	case gdk.SCROLL_UP:
		h.adapter.OnWheel(0, 1)
	case gdk.SCROLL_DOWN:
		h.adapter.OnWheel(0, -1)
	case gdk.SCROLL_LEFT:
		h.adapter.OnWheel(1, 0)
	case gdk.SCROLL_RIGHT:
		h.adapter.OnWheel(-1, 0)
	case gdk.SCROLL_SMOOTH:
		h.adapter.OnWheel(-scroll.DeltaX(), -scroll.DeltaY())
	}
	return true
}

func (h *host) onFocusIn(da *gtk.DrawingArea, ev *gdk.Event) bool {
	h.adapter.OnFocus(true)
	return false
}

func (h *host) onFocusOut(da *gtk.DrawingArea, ev *gdk.Event) bool {
	h.pressed.Clear()
	h.adapter.OnFocus(false)
	return false
}
