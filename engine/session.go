package engine

import (
	"image"
	"time"

	"github.com/lixenwraith/cellframe/core"
	"github.com/lixenwraith/cellframe/frame"
	"github.com/lixenwraith/cellframe/input"
	"github.com/lixenwraith/cellframe/render"
)

// Host is implemented by adapters to present frames. The returned
// projection maps later pointer coordinates into buffer space.
type Host interface {
	PresentChars(w, h int, cells []core.CharCell) (render.Projection, error)
	PresentPixels(w, h int, pix []core.Rgba) (render.Projection, error)
	PixelResolution() (w, h int)
	CharResolution(maxW, maxH int) (w, h int)
	SetPalette(p core.Palette)
}

// Session holds per-frame input state shared between an adapter and the
// application task. The adapter only touches it while the task is
// suspended, so no locking is needed.
type Session struct {
	kind  Kind
	host  Host
	clock frame.Clock
	y     *frame.Yielder

	keys   input.Keypresses
	held   *input.HeldKeys
	mouse  input.MouseState
	proj   render.Projection
	frames int
	err    error
}

// NewSession creates a session presenting through host
func NewSession(kind Kind, host Host, held *input.HeldKeys, clock frame.Clock) *Session {
	if held == nil {
		held = input.NewHeldKeys()
	}
	if clock == nil {
		clock = frame.WallClock
	}
	return &Session{kind: kind, host: host, held: held, clock: clock, frames: 1}
}

// Task adapts app to a frame.Task bound to this session
func (s *Session) Task(app App) frame.Task {
	return func(y *frame.Yielder) {
		s.y = y
		app(s)
	}
}

// Err returns the first presentation error
func (s *Session) Err() error { return s.err }

// Backend interface

func (s *Session) Kind() Kind { return s.kind }

func (s *Session) Keypress() input.KeyTyped { return s.keys.Current() }

func (s *Session) IsDown(k input.Key) bool { return s.held.IsDown(k) }

func (s *Session) MouseState() input.MouseState { return s.mouse }

func (s *Session) Now() time.Time { return s.clock.Now() }

func (s *Session) LogicalFrames() int { return s.frames }

func (s *Session) PixelResolution() (int, int) { return s.host.PixelResolution() }

func (s *Session) CharResolution(maxW, maxH int) (int, int) {
	return s.host.CharResolution(maxW, maxH)
}

func (s *Session) SetPalette(p core.Palette) { s.host.SetPalette(p) }

// DrawChars presents a character buffer and ends the frame
func (s *Session) DrawChars(w, h int, cells []core.CharCell) {
	core.CheckBuffer(w, h, len(cells))
	if s.err == nil {
		s.proj, s.err = s.host.PresentChars(w, h, cells)
	}
	s.NextFrame()
}

// DrawPixels presents a pixel buffer and ends the frame
func (s *Session) DrawPixels(w, h int, pix []core.Rgba) {
	core.CheckBuffer(w, h, len(pix))
	if s.err == nil {
		s.proj, s.err = s.host.PresentPixels(w, h, pix)
	}
	s.NextFrame()
}

// NextFrame suspends the application until the next frame
func (s *Session) NextFrame() {
	if s.y == nil {
		panic("engine: NextFrame called outside the session task")
	}
	s.y.Yield()
}

// Producer side, called by adapters between frames

// PushKey queues a typed key
func (s *Session) PushKey(kt input.KeyTyped) {
	s.keys.Push(kt)
}

// KeyDown records a physical key press for IsDown
func (s *Session) KeyDown(k input.Key) { s.held.Press(k) }

// KeyUp records a physical key release
func (s *Session) KeyUp(k input.Key) { s.held.Release(k) }

// ReleaseAll forgets held keys, used on focus loss
func (s *Session) ReleaseAll() { s.held.Clear() }

// MouseMove sets the pointer position from host coordinates
func (s *Session) MouseMove(p image.Point) {
	s.mouse.MoveTo(s.proj.Apply(p))
}

func (s *Session) MouseDown(b input.MouseButton) { s.mouse.ButtonDown(b) }

func (s *Session) MouseUp(b input.MouseButton) { s.mouse.ButtonUp(b) }

// Scroll records a wheel step, each axis in -1..1
func (s *Session) Scroll(d image.Point) { s.mouse.Scroll(d) }

// SetLogicalFrames records how many frame periods the coming frame covers
func (s *Session) SetLogicalFrames(n int) {
	s.frames = max(n, 1)
}

// EndFrame drops the current keypress and expires one-frame mouse states
func (s *Session) EndFrame() {
	s.keys.Advance()
	s.mouse.FrameUpdate()
}
