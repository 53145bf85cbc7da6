package engine

import (
	"time"

	"github.com/lixenwraith/cellframe/core"
	"github.com/lixenwraith/cellframe/input"
)

// Kind identifies the display class of a backend
type Kind uint8

const (
	KindTerminal Kind = iota // character terminal, pixels drawn as half blocks
	KindWindow               // windowed graphics surface
)

func (k Kind) String() string {
	if k == KindWindow {
		return "window"
	}
	return "terminal"
}

// Backend is the application-facing API. Input accessors report the state
// of the current frame. DrawChars, DrawPixels and NextFrame end the frame
// and return when the next one begins.
type Backend interface {
	Kind() Kind

	// Keypress is the key typed this frame, or a zero value
	Keypress() input.KeyTyped
	// IsDown reports a held key. Best effort on terminals.
	IsDown(k input.Key) bool
	MouseState() input.MouseState

	DrawChars(w, h int, cells []core.CharCell)
	DrawPixels(w, h int, pix []core.Rgba)
	NextFrame()

	PixelResolution() (w, h int)
	// CharResolution returns the grid size, zooming window backends so it
	// does not exceed maxW x maxH (zero means unbounded)
	CharResolution(maxW, maxH int) (w, h int)

	// SetPalette changes how system colors 0..15 are drawn. Terminals keep
	// their own theme and ignore it.
	SetPalette(p core.Palette)

	Now() time.Time
	// LogicalFrames is how many frame periods the last frame covered,
	// greater than 1 when the application falls behind
	LogicalFrames() int
}

// App is the application main loop
type App func(b Backend)
