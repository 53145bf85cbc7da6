package input

import (
	"image"
	"testing"
)

func TestMouseClickCycle(t *testing.T) {
	p := image.Pt(3, 4)
	m := UnpressedAt(p)

	m.ButtonDown(ButtonLeft)
	if want := PressedAt(p, p, ButtonLeft); m != want {
		t.Fatalf("after press: %v, want %v", m, want)
	}

	m.ButtonDown(ButtonRight)
	if b, _ := m.Button(); m.Kind() != MousePressed || b != ButtonLeft {
		t.Fatalf("second press should be ignored, got %v", m)
	}

	m.ButtonUp(ButtonRight)
	if m.Kind() != MousePressed {
		t.Fatalf("release of other button should be ignored, got %v", m)
	}

	m.ButtonUp(ButtonLeft)
	if want := ReleasedAt(p, p, ButtonLeft); m != want {
		t.Fatalf("after release: %v, want %v", m, want)
	}

	m.FrameUpdate()
	if want := UnpressedAt(p); m != want {
		t.Fatalf("after frame: %v, want %v", m, want)
	}
}

func TestMouseDragKeepsOrigin(t *testing.T) {
	m := UnpressedAt(image.Pt(5, 5))
	m.ButtonDown(ButtonLeft)
	m.MoveTo(image.Pt(6, 5))

	want := PressedAt(image.Pt(6, 5), image.Pt(5, 5), ButtonLeft)
	if m != want {
		t.Errorf("got %v, want %v", m, want)
	}
	if o, ok := m.Origin(); !ok || o != image.Pt(5, 5) {
		t.Errorf("Origin() = %v, %v", o, ok)
	}
}

func TestMouseReleaseIgnoresPress(t *testing.T) {
	m := ReleasedAt(image.Pt(1, 1), image.Pt(0, 0), ButtonLeft)
	m.ButtonDown(ButtonMiddle)
	if m.Kind() != MouseReleased {
		t.Errorf("press during release frame should be ignored, got %v", m)
	}
}

func TestMouseScroll(t *testing.T) {
	tests := []struct {
		name  string
		start MouseState
	}{
		{"from unpressed", UnpressedAt(image.Pt(2, 2))},
		{"from pressed", PressedAt(image.Pt(2, 2), image.Pt(0, 0), ButtonLeft)},
		{"from released", ReleasedAt(image.Pt(2, 2), image.Pt(0, 0), ButtonRight)},
		{"from scrolled", ScrolledAt(image.Pt(2, 2), image.Pt(1, 0))},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := tt.start
			m.Scroll(image.Pt(0, -1))
			if want := ScrolledAt(image.Pt(2, 2), image.Pt(0, -1)); m != want {
				t.Errorf("got %v, want %v", m, want)
			}
			m.FrameUpdate()
			if want := UnpressedAt(image.Pt(2, 2)); m != want {
				t.Errorf("after frame: %v, want %v", m, want)
			}
		})
	}
}

func TestMouseScrolledThenPress(t *testing.T) {
	m := ScrolledAt(image.Pt(7, 1), image.Pt(0, 1))
	m.ButtonDown(ButtonRight)
	if want := PressedAt(image.Pt(7, 1), image.Pt(7, 1), ButtonRight); m != want {
		t.Errorf("got %v, want %v", m, want)
	}
}

func TestMousePressedSurvivesFrame(t *testing.T) {
	m := PressedAt(image.Pt(1, 2), image.Pt(1, 1), ButtonLeft)
	m.FrameUpdate()
	if m.Kind() != MousePressed {
		t.Errorf("Pressed must persist across frames, got %v", m)
	}
}

func TestMouseTranslate(t *testing.T) {
	m := PressedAt(image.Pt(4, 4), image.Pt(2, 2), ButtonLeft)
	m.Translate(image.Pt(-1, -2))
	if want := PressedAt(image.Pt(3, 2), image.Pt(1, 0), ButtonLeft); m != want {
		t.Errorf("got %v, want %v", m, want)
	}

	s := ScrolledAt(image.Pt(1, 1), image.Pt(0, 1))
	s.Translate(image.Pt(1, 1))
	if s.ScrollDelta() != image.Pt(0, 1) {
		t.Errorf("scroll delta should not be translated, got %v", s.ScrollDelta())
	}
}
