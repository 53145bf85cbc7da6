package terminal

import (
	"fmt"
	"slices"
	"testing"
)

func describe(ev Event) string {
	switch ev.Type {
	case EventKey:
		return ev.Key.String()
	case EventMouse:
		switch ev.Action {
		case MousePress, MouseRelease:
			return fmt.Sprintf("%s %s %v", ev.Action, ev.Button, ev.Pos)
		case MouseScroll:
			return fmt.Sprintf("Scroll %v %v", ev.Scroll, ev.Pos)
		}
		return fmt.Sprintf("Move %v", ev.Pos)
	case EventFocus:
		if ev.Focused {
			return "focus in"
		}
		return "focus out"
	}
	return fmt.Sprintf("event %d", ev.Type)
}

func parseAll(chunks ...string) []string {
	var got []string
	p := newParser(func(ev Event) { got = append(got, describe(ev)) })
	for _, c := range chunks {
		p.feed([]byte(c))
	}
	return got
}

func TestParser(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want []string
	}{
		{"letter", "a", []string{"a"}},
		{"upper", "A", []string{"A"}},
		{"space", " ", []string{"Sp"}},
		{"utf8", "é", []string{"é"}},
		{"ctrl letter", "\x01", []string{"C-a"}},
		{"ctrl space", "\x00", []string{"C-Sp"}},
		{"ctrl backslash", "\x1c", []string{`C-\`}},
		{"enter", "\r", []string{"Ret"}},
		{"tab", "\t", []string{"Tab"}},
		{"backspace", "\x7f", []string{"Bksp"}},
		{"ctrl h backspace", "\x08", []string{"Bksp"}},
		{"arrow", "\x1b[A", []string{"Up"}},
		{"ctrl arrow", "\x1b[1;5C", []string{"C-Right"}},
		{"shift arrow", "\x1b[1;2D", []string{"S-Left"}},
		{"ss3 arrow", "\x1bOB", []string{"Down"}},
		{"delete", "\x1b[3~", []string{"Del"}},
		{"alt page up", "\x1b[5;3~", []string{"A-PgUp"}},
		{"f1 ss3", "\x1bOP", []string{"F1"}},
		{"f5", "\x1b[15~", []string{"F5"}},
		{"f12", "\x1b[24~", []string{"F12"}},
		{"backtab", "\x1b[Z", []string{"S-Tab"}},
		{"alt letter", "\x1bx", []string{"A-x"}},
		{"alt escape", "\x1b\x1b", []string{"A-Esc"}},
		{"alt ctrl", "\x1b\x03", []string{"A-C-c"}},
		{"focus", "\x1b[I\x1b[O", []string{"focus in", "focus out"}},
		{"unknown csi", "\x1b[99~", nil},
		{"mixed", "x\x1b[Ay", []string{"x", "Up", "y"}},

		{"left press", "\x1b[<0;5;3M", []string{"Press Left (4,2)"}},
		{"left release", "\x1b[<0;5;3m", []string{"Release Left (4,2)"}},
		{"middle press", "\x1b[<1;1;1M", []string{"Press Middle (0,0)"}},
		{"right press", "\x1b[<2;1;1M", []string{"Press Right (0,0)"}},
		{"drag", "\x1b[<32;10;2M", []string{"Move (9,1)"}},
		{"hover", "\x1b[<35;10;2M", []string{"Move (9,1)"}},
		{"wheel up", "\x1b[<64;1;1M", []string{"Scroll (0,-1) (0,0)"}},
		{"wheel down", "\x1b[<65;2;1M", []string{"Scroll (0,1) (1,0)"}},
		{"wheel right", "\x1b[<67;1;1M", []string{"Scroll (1,0) (0,0)"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := parseAll(tt.in); !slices.Equal(got, tt.want) {
				t.Errorf("parse %q = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestParserSplitInput(t *testing.T) {
	tests := []struct {
		name   string
		chunks []string
		want   []string
	}{
		{"csi", []string{"\x1b[", "1;5", "A"}, []string{"C-Up"}},
		{"utf8", []string{"\xc3", "\xa9"}, []string{"é"}},
		{"mouse", []string{"\x1b[<0;1", "2;7M"}, []string{"Press Left (11,6)"}},
		{"escape then key", []string{"\x1b", "[B"}, []string{"Down"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := parseAll(tt.chunks...); !slices.Equal(got, tt.want) {
				t.Errorf("parse %q = %q, want %q", tt.chunks, got, tt.want)
			}
		})
	}
}

func TestParserIdleEscape(t *testing.T) {
	var got []string
	p := newParser(func(ev Event) { got = append(got, describe(ev)) })

	p.feed([]byte{0x1b})
	if len(got) != 0 {
		t.Fatalf("lone ESC emitted early: %q", got)
	}
	p.idle()
	if !slices.Equal(got, []string{"Esc"}) {
		t.Errorf("after idle got %q, want [Esc]", got)
	}

	// a complete sequence never waits for idle
	got = nil
	p.feed([]byte("\x1b["))
	p.feed([]byte("C"))
	if !slices.Equal(got, []string{"Right"}) {
		t.Errorf("got %q, want [Right]", got)
	}
}

func TestParserIdleFlushesIntroducer(t *testing.T) {
	tests := []struct {
		name    string
		pending string
		want    []string
	}{
		{"alt bracket", "\x1b[", []string{"A-[", "C"}},
		{"alt shift O", "\x1bO", []string{"A-O", "C"}},
		{"stalled csi", "\x1b[1;", []string{"C"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var got []string
			p := newParser(func(ev Event) { got = append(got, describe(ev)) })
			p.feed([]byte(tt.pending))
			if len(got) != 0 {
				t.Fatalf("pending %q emitted early: %q", tt.pending, got)
			}
			p.idle()
			p.feed([]byte("C"))
			if !slices.Equal(got, tt.want) {
				t.Errorf("got %q, want %q", got, tt.want)
			}
		})
	}
}
