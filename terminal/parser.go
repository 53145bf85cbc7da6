package terminal

import (
	"image"
	"unicode"
	"unicode/utf8"

	"github.com/lixenwraith/cellframe/input"
)

// parser turns the raw terminal byte stream into events. Incomplete
// sequences stay buffered until more bytes arrive or the stream goes idle.
type parser struct {
	buf  []byte
	emit func(Event)
}

func newParser(emit func(Event)) *parser {
	return &parser{buf: make([]byte, 0, 256), emit: emit}
}

// feed appends data and parses as much as possible
func (p *parser) feed(data []byte) {
	p.buf = append(p.buf, data...)
	consumed := p.parse(p.buf)
	n := copy(p.buf, p.buf[consumed:])
	p.buf = p.buf[:n]
}

// idle is called when no input arrived within the escape timeout. A pending
// ESC is then the Escape key, and ESC with only a CSI or SS3 introducer is
// Alt with that character. Longer stalled sequences are dropped.
func (p *parser) idle() {
	if len(p.buf) == 0 || p.buf[0] != 0x1b {
		return
	}
	switch {
	case len(p.buf) == 1:
		p.key(input.KeyEsc, input.KeyMods{})
	case len(p.buf) == 2 && (p.buf[1] == '[' || p.buf[1] == 'O'):
		p.key(input.Char(rune(p.buf[1])), input.KeyMods{Alt: true})
	}
	p.buf = p.buf[:0]
}

func (p *parser) key(k input.Key, mods input.KeyMods) {
	p.emit(Event{Type: EventKey, Key: input.Typed(k, mods, false)})
}

// parse returns the number of bytes consumed, stopping at an incomplete
// sequence
func (p *parser) parse(data []byte) int {
	i := 0
	for i < len(data) {
		b := data[i]
		switch {
		case b == 0x1b:
			if i+1 >= len(data) {
				return i
			}
			n := p.parseEscape(data[i:])
			if n == 0 {
				return i
			}
			i += n

		case b < 0x20:
			k, mods := controlKey(b)
			p.key(k, mods)
			i++

		case b == 0x7f:
			p.key(input.KeyBackspace, input.KeyMods{})
			i++

		default:
			if !utf8.FullRune(data[i:]) {
				return i
			}
			r, size := utf8.DecodeRune(data[i:])
			i += size
			if k, ok := runeKey(r); ok {
				p.key(k, input.KeyMods{})
			}
		}
	}
	return i
}

func runeKey(r rune) (input.Key, bool) {
	if r == ' ' {
		return input.KeySpace, true
	}
	if r == utf8.RuneError || !unicode.IsGraphic(r) {
		return input.KeyNone, false
	}
	return input.Char(r), true
}

// controlKey maps C0 control bytes. Backspace, Tab and Enter take their
// historical codes, the rest are Ctrl chords.
func controlKey(b byte) (input.Key, input.KeyMods) {
	ctrl := input.KeyMods{Ctrl: true}
	switch {
	case b == 0x00:
		return input.KeySpace, ctrl
	case b == 0x08:
		return input.KeyBackspace, input.KeyMods{}
	case b == 0x09:
		return input.KeyTab, input.KeyMods{}
	case b == 0x0a || b == 0x0d:
		return input.KeyEnter, input.KeyMods{}
	case b == 0x1b:
		return input.KeyEsc, input.KeyMods{}
	case b <= 0x1a:
		return input.Char(rune('a' + b - 1)), ctrl
	}
	// 0x1c..0x1f
	return input.Char(rune("\\]^_"[b-0x1c])), ctrl
}

// parseEscape handles data starting with ESC, returns 0 when incomplete
func (p *parser) parseEscape(data []byte) int {
	switch b := data[1]; {
	case b == '[':
		return p.parseCSI(data)
	case b == 'O':
		return p.parseSS3(data)
	case b == 0x1b:
		p.key(input.KeyEsc, input.KeyMods{Alt: true})
		return 2
	case b < 0x20:
		k, mods := controlKey(b)
		mods.Alt = true
		p.key(k, mods)
		return 2
	case b == 0x7f:
		p.key(input.KeyBackspace, input.KeyMods{Alt: true})
		return 2
	}

	// Alt+character
	if !utf8.FullRune(data[1:]) {
		return 0
	}
	r, size := utf8.DecodeRune(data[1:])
	if k, ok := runeKey(r); ok {
		p.key(k, input.KeyMods{Alt: true})
	}
	return 1 + size
}

func (p *parser) parseSS3(data []byte) int {
	if len(data) < 3 {
		return 0
	}
	if k, ok := finalKey(data[2]); ok {
		p.key(k, input.KeyMods{})
	}
	return 3
}

// finalKey maps the final byte of SS3 and parameterless-style CSI keys
func finalKey(b byte) (input.Key, bool) {
	switch b {
	case 'A':
		return input.KeyUp, true
	case 'B':
		return input.KeyDown, true
	case 'C':
		return input.KeyRight, true
	case 'D':
		return input.KeyLeft, true
	case 'H':
		return input.KeyHome, true
	case 'F':
		return input.KeyEnd, true
	case 'P', 'Q', 'R', 'S':
		return input.F(int(b-'P') + 1), true
	}
	return input.KeyNone, false
}

// tildeKeys maps the first parameter of ESC [ n ~ sequences
var tildeKeys = map[int]input.Key{
	1:  input.KeyHome,
	2:  input.KeyInsert,
	3:  input.KeyDelete,
	4:  input.KeyEnd,
	5:  input.KeyPageUp,
	6:  input.KeyPageDown,
	7:  input.KeyHome,
	8:  input.KeyEnd,
	11: input.F(1),
	12: input.F(2),
	13: input.F(3),
	14: input.F(4),
	15: input.F(5),
	17: input.F(6),
	18: input.F(7),
	19: input.F(8),
	20: input.F(9),
	21: input.F(10),
	23: input.F(11),
	24: input.F(12),
}

// maxCSI bounds the scan for a CSI final byte
const maxCSI = 32

func (p *parser) parseCSI(data []byte) int {
	if len(data) < 3 {
		return 0
	}
	if data[2] == '<' {
		return p.parseSGRMouse(data)
	}

	end := 2
	for ; end < len(data); end++ {
		b := data[end]
		if b >= 0x40 && b <= 0x7e {
			break
		}
		if b < 0x20 || b > 0x3f || end >= maxCSI {
			// malformed, drop the introducer
			return 2
		}
	}
	if end >= len(data) {
		return 0
	}

	params := parseParams(data[2:end])
	final := data[end]
	n := end + 1

	var mods input.KeyMods
	if len(params) > 1 && params[1] > 1 {
		m := params[1] - 1
		mods = input.KeyMods{
			Shift: m&1 != 0,
			Alt:   m&2 != 0,
			Ctrl:  m&4 != 0,
			Logo:  m&8 != 0,
		}
	}

	switch final {
	case '~':
		if len(params) > 0 {
			if k, ok := tildeKeys[params[0]]; ok {
				p.key(k, mods)
			}
		}
	case 'Z':
		p.key(input.KeyTab, input.KeyMods{Shift: true})
	case 'I':
		p.emit(Event{Type: EventFocus, Focused: true})
	case 'O':
		p.emit(Event{Type: EventFocus, Focused: false})
	default:
		if k, ok := finalKey(final); ok {
			p.key(k, mods)
		}
	}
	return n
}

// parseParams reads semicolon separated decimal parameters, empty ones are 0
func parseParams(b []byte) []int {
	var params []int
	val, have := 0, false
	for _, c := range b {
		switch {
		case c >= '0' && c <= '9':
			if val < 10000 {
				val = val*10 + int(c-'0')
			}
			have = true
		case c == ';':
			params = append(params, val)
			val, have = 0, false
		}
	}
	if have || len(params) > 0 {
		params = append(params, val)
	}
	return params
}

// parseSGRMouse parses ESC [ < Btn ; X ; Y (M|m)
func (p *parser) parseSGRMouse(data []byte) int {
	end := 3
	for end < len(data) && data[end] != 'M' && data[end] != 'm' {
		if end >= maxCSI {
			return 3
		}
		if c := data[end]; c != ';' && (c < '0' || c > '9') {
			return 3
		}
		end++
	}
	if end >= len(data) {
		return 0
	}

	params := parseParams(data[3:end])
	if len(params) != 3 {
		return end + 1
	}
	btn := params[0]
	ev := Event{Type: EventMouse, Pos: image.Pt(params[1]-1, params[2]-1)}

	// bits 0-1 button, 32 motion, 64 wheel
	id := btn & 0x03
	switch {
	case btn&64 != 0:
		ev.Action = MouseScroll
		ev.Scroll = [...]image.Point{{0, -1}, {0, 1}, {-1, 0}, {1, 0}}[id]
	case btn&32 != 0:
		ev.Action = MouseMove
	default:
		if id == 3 {
			// legacy release without a button
			ev.Action = MouseMove
			break
		}
		ev.Button = [...]input.MouseButton{input.ButtonLeft, input.ButtonMiddle, input.ButtonRight}[id]
		ev.Action = MousePress
		if data[end] == 'm' {
			ev.Action = MouseRelease
		}
	}
	p.emit(ev)
	return end + 1
}
