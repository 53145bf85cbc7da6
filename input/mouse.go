package input

import (
	"fmt"
	"image"
)

// MouseButton identifies a pointer button
type MouseButton uint8

const (
	ButtonLeft MouseButton = iota
	ButtonMiddle
	ButtonRight
)

func (b MouseButton) String() string {
	switch b {
	case ButtonLeft:
		return "Left"
	case ButtonMiddle:
		return "Middle"
	case ButtonRight:
		return "Right"
	}
	return fmt.Sprintf("Button(%d)", uint8(b))
}

// MouseKind is the active variant of a MouseState
type MouseKind uint8

const (
	MouseUnpressed MouseKind = iota // hovering, no button down
	MousePressed                    // button held, dragging from origin
	MouseReleased                   // button released this frame
	MouseScrolled                   // wheel moved this frame
)

func (k MouseKind) String() string {
	switch k {
	case MouseUnpressed:
		return "Unpressed"
	case MousePressed:
		return "Pressed"
	case MouseReleased:
		return "Released"
	case MouseScrolled:
		return "Scrolled"
	}
	return fmt.Sprintf("MouseKind(%d)", uint8(k))
}

// MouseState is the immediate-mode pointer state for one frame.
// Released and Scrolled last exactly one frame, see FrameUpdate.
// The zero value is Unpressed at the origin.
type MouseState struct {
	kind   MouseKind
	pos    image.Point
	origin image.Point // press position for Pressed and Released
	delta  image.Point // wheel delta for Scrolled
	button MouseButton
}

// UnpressedAt returns a hover state
func UnpressedAt(p image.Point) MouseState {
	return MouseState{kind: MouseUnpressed, pos: p}
}

// PressedAt returns a drag in progress from origin to p
func PressedAt(p, origin image.Point, b MouseButton) MouseState {
	return MouseState{kind: MousePressed, pos: p, origin: origin, button: b}
}

// ReleasedAt returns a finished drag from origin to p
func ReleasedAt(p, origin image.Point, b MouseButton) MouseState {
	return MouseState{kind: MouseReleased, pos: p, origin: origin, button: b}
}

// ScrolledAt returns a wheel event at p
func ScrolledAt(p, delta image.Point) MouseState {
	return MouseState{kind: MouseScrolled, pos: p, delta: delta}
}

func (m MouseState) Kind() MouseKind { return m.kind }

// Pos is the current cursor position
func (m MouseState) Pos() image.Point { return m.pos }

// Origin returns where the button went down, ok only for Pressed and Released
func (m MouseState) Origin() (image.Point, bool) {
	if m.kind == MousePressed || m.kind == MouseReleased {
		return m.origin, true
	}
	return image.Point{}, false
}

// Button returns the held or released button
func (m MouseState) Button() (MouseButton, bool) {
	if m.kind == MousePressed || m.kind == MouseReleased {
		return m.button, true
	}
	return 0, false
}

// ScrollDelta is the wheel movement, zero outside Scrolled
func (m MouseState) ScrollDelta() image.Point {
	if m.kind == MouseScrolled {
		return m.delta
	}
	return image.Point{}
}

// IsPressed reports button b currently held
func (m MouseState) IsPressed(b MouseButton) bool {
	return m.kind == MousePressed && m.button == b
}

// IsReleased reports button b released this frame
func (m MouseState) IsReleased(b MouseButton) bool {
	return m.kind == MouseReleased && m.button == b
}

// ButtonDown starts a drag. Presses are ignored while another press or an
// unconsumed release is pending.
func (m *MouseState) ButtonDown(b MouseButton) {
	switch m.kind {
	case MouseUnpressed, MouseScrolled:
		*m = PressedAt(m.pos, m.pos, b)
	}
}

// ButtonUp ends the drag when b is the held button
func (m *MouseState) ButtonUp(b MouseButton) {
	if m.kind == MousePressed && m.button == b {
		m.kind = MouseReleased
	}
}

// Scroll enters Scrolled at the current position from any state
func (m *MouseState) Scroll(delta image.Point) {
	*m = ScrolledAt(m.pos, delta)
}

// MoveTo updates only the cursor position
func (m *MouseState) MoveTo(p image.Point) {
	m.pos = p
}

// FrameUpdate collapses the one-frame Released and Scrolled states
func (m *MouseState) FrameUpdate() {
	if m.kind == MouseReleased || m.kind == MouseScrolled {
		*m = UnpressedAt(m.pos)
	}
}

// Translate shifts the position and any drag origin by d
func (m *MouseState) Translate(d image.Point) {
	m.pos = m.pos.Add(d)
	if m.kind == MousePressed || m.kind == MouseReleased {
		m.origin = m.origin.Add(d)
	}
}

func (m MouseState) String() string {
	switch m.kind {
	case MousePressed, MouseReleased:
		return fmt.Sprintf("%s(%v, from %v, %s)", m.kind, m.pos, m.origin, m.button)
	case MouseScrolled:
		return fmt.Sprintf("Scrolled(%v, %v)", m.pos, m.delta)
	}
	return fmt.Sprintf("Unpressed(%v)", m.pos)
}
