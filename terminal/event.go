package terminal

import (
	"errors"
	"image"

	"github.com/lixenwraith/cellframe/input"
	"github.com/lixenwraith/cellframe/render"
)

// ErrNotTerminal is returned when the tty driver input is not a terminal
var ErrNotTerminal = errors.New("not a terminal")

// EventType distinguishes input event categories
type EventType uint8

const (
	EventKey EventType = iota
	EventMouse
	EventResize
	EventFocus
	EventError  // read error, Err is set
	EventClosed // input closed
)

// MouseAction is the pointer change carried by an EventMouse
type MouseAction uint8

const (
	MouseMove MouseAction = iota
	MousePress
	MouseRelease
	MouseScroll
)

func (a MouseAction) String() string {
	switch a {
	case MousePress:
		return "Press"
	case MouseRelease:
		return "Release"
	case MouseScroll:
		return "Scroll"
	}
	return "Move"
}

// Event is a driver input event. Positions are 0-based terminal cells.
type Event struct {
	Type EventType

	Key input.KeyTyped // EventKey

	Action MouseAction // EventMouse
	Button input.MouseButton
	Pos    image.Point
	Scroll image.Point // -1..1 per axis

	Width, Height int // EventResize

	Focused bool // EventFocus

	Err error // EventError
}

// Driver is a concrete terminal device
type Driver interface {
	// Init takes over the terminal and starts event delivery
	Init() error
	// Fini restores the terminal. Safe to call more than once.
	Fini()
	// Size returns the terminal dimensions in cells
	Size() (cols, rows int)
	// Sink is the output target for frame rendering
	Sink() render.Sink
	// Events delivers input until Fini
	Events() <-chan Event
}
