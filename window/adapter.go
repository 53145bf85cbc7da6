package window

import (
	"image"
	"log"
	"unicode"

	"github.com/lixenwraith/cellframe/core"
	"github.com/lixenwraith/cellframe/engine"
	"github.com/lixenwraith/cellframe/frame"
	"github.com/lixenwraith/cellframe/input"
	"github.com/lixenwraith/cellframe/render"
)

// maxChar is the highest code point accepted from character callbacks
const maxChar = 1 << 15

// Adapter connects a Surface host to the application task. All methods must
// be called from the host's event loop thread. It implements engine.Host.
type Adapter struct {
	surf  Surface
	opts  engine.Options
	clock frame.Clock
	pal   core.Palette

	pacer  *frame.Pacer
	sess   *engine.Session
	ex     *frame.Executor
	glyphs []Glyph
	done   bool
	err    error
}

// NewAdapter creates an adapter presenting on surf. A nil clock uses wall time.
func NewAdapter(surf Surface, opts engine.Options, clock frame.Clock) *Adapter {
	if clock == nil {
		clock = frame.WallClock
	}
	return &Adapter{surf: surf, opts: opts, clock: clock, pal: core.DefaultPalette()}
}

// Palette is the current system color rendition
func (a *Adapter) Palette() core.Palette { return a.pal }

// Start binds app. The first frame runs on the first OnFrame call after one
// frame period has elapsed.
func (a *Adapter) Start(app engine.App) {
	a.sess = engine.NewSession(engine.KindWindow, a, input.NewHeldKeys(), a.clock)
	a.ex = frame.New(a.sess.Task(app))
	a.pacer = frame.NewPacer(a.opts.FrameDuration(), a.clock)
	log.Printf("window: started at %v per frame", a.opts.FrameDuration())
}

// OnFrame is called from the host timer. It runs at most one application
// frame and reports false once the application finished or presenting
// failed, after asking the surface to quit.
func (a *Adapter) OnFrame() bool {
	if a.done || a.ex == nil {
		return false
	}
	n := a.pacer.Update()
	if n == 0 {
		return true
	}
	a.sess.SetLogicalFrames(n)
	if a.ex.Advance() == frame.Terminated {
		log.Printf("window: application finished")
		a.finish(nil)
		return false
	}
	if err := a.sess.Err(); err != nil {
		log.Printf("window: present failed: %v", err)
		a.finish(err)
		return false
	}
	a.sess.EndFrame()
	return true
}

func (a *Adapter) finish(err error) {
	a.done = true
	a.err = err
	a.ex.Close()
	a.surf.Quit()
}

// Err returns the error that ended the run, nil after a normal return
func (a *Adapter) Err() error { return a.err }

// Close aborts a still running application, unwinding its task
func (a *Adapter) Close() {
	a.done = true
	if a.ex != nil {
		a.ex.Close()
	}
}

// OnKeyDown reports a physical key press. Printable keys are only tracked as
// held here, their typed form arrives through OnChar with the layout applied.
func (a *Adapter) OnKeyDown(k input.Key, mods input.KeyMods, repeat bool) {
	if a.sess == nil || !k.IsSome() || !k.Valid() {
		return
	}
	if !k.IsPrintable() {
		a.sess.PushKey(input.Typed(k, mods, repeat))
	}
	a.sess.KeyDown(k)
}

// OnKeyUp reports a physical key release
func (a *Adapter) OnKeyUp(k input.Key) {
	if a.sess == nil {
		return
	}
	a.sess.KeyUp(k)
}

// OnChar reports a character produced by the keyboard layout. Control
// characters are accepted only with ctrl held and are mapped back to the
// letter or punctuation that produced them.
func (a *Adapter) OnChar(r rune, mods input.KeyMods, repeat bool) {
	if a.sess == nil || r > maxChar {
		return
	}
	if r < ' ' {
		if !mods.Ctrl {
			return
		}
		base := '`'
		if mods.Shift || r > 26 {
			base = '@'
		}
		r += base
	}
	var k input.Key
	switch {
	case r == ' ':
		k = input.KeySpace
	case unicode.IsGraphic(r):
		k = input.Char(r)
	default:
		return
	}
	mods.Shift = false
	a.sess.PushKey(input.NewKeyTyped(k, mods, repeat))
}

// OnMouseMove reports the pointer position in surface pixels
func (a *Adapter) OnMouseMove(p image.Point) {
	if a.sess == nil {
		return
	}
	a.sess.MouseMove(p)
}

// OnMouseDown reports a button press, p is the pointer position
func (a *Adapter) OnMouseDown(p image.Point, b input.MouseButton) {
	if a.sess == nil {
		return
	}
	a.sess.MouseMove(p)
	a.sess.MouseDown(b)
}

func (a *Adapter) OnMouseUp(p image.Point, b input.MouseButton) {
	if a.sess == nil {
		return
	}
	a.sess.MouseMove(p)
	a.sess.MouseUp(b)
}

// OnWheel reports a wheel motion in toolkit units where positive dy scrolls
// up and positive dx scrolls left. Each axis is reduced to its sign.
func (a *Adapter) OnWheel(dx, dy float64) {
	if a.sess == nil {
		return
	}
	d := image.Pt(sign(-dx), sign(-dy))
	if d != (image.Point{}) {
		a.sess.Scroll(d)
	}
}

func sign(v float64) int {
	switch {
	case v > 0:
		return 1
	case v < 0:
		return -1
	}
	return 0
}

// OnFocus reports focus changes, losing focus releases all held keys
func (a *Adapter) OnFocus(focused bool) {
	if a.sess == nil || focused {
		return
	}
	log.Printf("window: focus lost")
	a.sess.ReleaseAll()
}

// Host interface

func (a *Adapter) PresentChars(w, h int, cells []core.CharCell) (render.Projection, error) {
	cell := a.surf.CellSize()
	v := FitCanvas(a.surf.Size(), w*cell.X, h*cell.Y)
	if cap(a.glyphs) < len(cells) {
		a.glyphs = make([]Glyph, len(cells))
	}
	a.glyphs = a.glyphs[:len(cells)]
	for i, c := range cells {
		a.glyphs[i] = Glyph{Rune: c.DisplayGlyph(), Fg: a.pal.Color(c.Fg), Bg: a.pal.Color(c.Bg)}
	}
	proj := render.Projection{Offset: v.Offset, Div: image.Pt(v.Scale*cell.X, v.Scale*cell.Y)}
	return proj, a.surf.PresentChars(v, w, h, a.glyphs)
}

func (a *Adapter) PresentPixels(w, h int, pix []core.Rgba) (render.Projection, error) {
	v := FitCanvas(a.surf.Size(), w, h)
	proj := render.Projection{Offset: v.Offset, Div: image.Pt(v.Scale, v.Scale)}
	return proj, a.surf.PresentPixels(v, w, h, pix)
}

// SetPalette replaces the system color rendition from the next frame on
func (a *Adapter) SetPalette(p core.Palette) { a.pal = p }

func (a *Adapter) PixelResolution() (int, int) {
	s := a.surf.Size()
	return s.X, s.Y
}

// CharResolution zooms by integer factors until the grid fits the requested
// maximum, a non-positive maximum leaves that axis unconstrained
func (a *Adapter) CharResolution(maxW, maxH int) (int, int) {
	size, cell := a.surf.Size(), a.surf.CellSize()
	if cell.X <= 0 || cell.Y <= 0 {
		return 0, 0
	}
	n := 1
	for maxW > 0 && size.X/n/cell.X > maxW {
		n++
	}
	for maxH > 0 && size.Y/n/cell.Y > maxH {
		n++
	}
	return size.X / n / cell.X, size.Y / n / cell.Y
}
