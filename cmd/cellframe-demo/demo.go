package main

import (
	"fmt"
	"image"
	"math"

	"github.com/lixenwraith/cellframe/core"
	"github.com/lixenwraith/cellframe/engine"
	"github.com/lixenwraith/cellframe/input"
)

// Demo actions
const (
	actionQuit   = "quit"
	actionPixels = "pixels"
	actionClear  = "clear"
	actionTheme  = "theme"
)

const (
	gridMaxW   = 80
	gridMaxH   = 25
	pixelMaxW  = 160
	pixelMaxH  = 100
	historyLen = 8
)

func defaultKeymap() *input.Keymap {
	km := input.NewKeymap()
	// built-in codes are known to parse
	_ = km.Bind(actionQuit, "Esc", "q", "C-c")
	_ = km.Bind(actionPixels, "Tab")
	_ = km.Bind(actionClear, "C-l")
	_ = km.Bind(actionTheme, "F2")
	return km
}

// held keys shown in the status line
var watched = []input.Key{
	input.KeyUp, input.KeyDown, input.KeyLeft, input.KeyRight,
	input.KeyShift, input.KeyCtrl, input.KeyAlt, input.KeySpace,
}

type demo struct {
	km      *input.Keymap
	hint    string
	pixels  bool
	light   bool
	history []string
	frames  int
	dropped int
	cells   []core.CharCell
	pix     []core.Rgba
}

func newDemo(km *input.Keymap) *demo {
	hint := "keys"
	for _, action := range []string{actionQuit, actionPixels, actionTheme} {
		if keys := km.Keys(action); len(keys) > 0 {
			hint += fmt.Sprintf("  %s:%s", keys[0], action)
		}
	}
	return &demo{km: km, hint: hint}
}

// Run is the engine.App
func (d *demo) Run(b engine.Backend) {
	for {
		kt := b.Keypress()
		if kt.IsSome() {
			switch action, _ := d.km.Action(kt); action {
			case actionQuit:
				return
			case actionPixels:
				d.pixels = !d.pixels
			case actionClear:
				d.history = d.history[:0]
			case actionTheme:
				d.light = !d.light
				b.SetPalette(themePalette(d.light))
			default:
				d.record(kt.String())
			}
		}
		d.frames++
		d.dropped += b.LogicalFrames() - 1

		if d.pixels {
			d.drawPixels(b)
		} else {
			d.drawChars(b)
		}
	}
}

// themePalette swaps background and foreground for a light theme
func themePalette(light bool) core.Palette {
	p := core.DefaultPalette()
	if light {
		p[core.Background], p[core.Foreground] = p[core.BoldForeground], p[core.Background]
	}
	return p
}

func (d *demo) record(s string) {
	d.history = append(d.history, s)
	if len(d.history) > historyLen {
		d.history = d.history[1:]
	}
}

func putString(buf []core.CharCell, w, x, y int, s string, fg, bg core.X256) int {
	if y < 0 || y >= len(buf)/max(w, 1) {
		return x
	}
	for _, r := range s {
		if x >= w {
			break
		}
		if x >= 0 {
			buf[y*w+x] = core.NewCell(r, fg, bg)
		}
		x++
	}
	return x
}

func (d *demo) drawChars(b engine.Backend) {
	w, h := b.CharResolution(gridMaxW, gridMaxH)
	if w <= 0 || h <= 0 {
		b.NextFrame()
		return
	}
	if len(d.cells) != w*h {
		d.cells = core.NewBuffer(w, h)
	}
	buf := d.cells
	for i := range buf {
		buf[i] = core.Blank
	}

	putString(buf, w, 0, 0, fmt.Sprintf("cellframe %s %dx%d frame %d late %d", b.Kind(), w, h, d.frames, d.dropped), core.BoldForeground, core.Navy)
	m := b.MouseState()
	putString(buf, w, 0, 1, "mouse "+m.String(), core.Aqua, core.Background)

	x := putString(buf, w, 0, 2, "held", core.Gray, core.Background)
	for _, k := range watched {
		if b.IsDown(k) {
			x = putString(buf, w, x+1, 2, k.String(), core.Yellow, core.Background)
		}
	}

	for i := range 16 {
		putString(buf, w, i*2, 3, "  ", core.Foreground, core.X256(i))
	}
	for i := 16; i < 256 && i-16 < w; i++ {
		putString(buf, w, i-16, 4, " ", core.Foreground, core.X256(i))
	}

	putString(buf, w, 0, 6, d.hint, core.Gray, core.Background)
	for i, s := range d.history {
		putString(buf, w, 2, 7+i, s, core.Lime, core.Background)
	}

	if p := m.Pos(); p.In(image.Rect(0, 0, w, h)) {
		c := &buf[p.Y*w+p.X]
		c.Fg, c.Bg = core.Background, core.Foreground
		if m.Kind() == input.MousePressed {
			c.Bg = core.Red
		}
	}
	b.DrawChars(w, h, buf)
}

func (d *demo) drawPixels(b engine.Backend) {
	w, h := b.PixelResolution()
	w, h = min(w, pixelMaxW), min(h, pixelMaxH)
	if w <= 0 || h <= 0 {
		b.NextFrame()
		return
	}
	if len(d.pix) != w*h {
		d.pix = make([]core.Rgba, w*h)
	}
	phase := float64(b.Now().UnixMilli()%4000) / 4000 * 2 * math.Pi
	for y := range h {
		for x := range w {
			v := math.Sin(float64(x)/8+phase) + math.Cos(float64(y)/6-phase)
			c := uint8((v + 2) * 63)
			d.pix[y*w+x] = core.Rgba{R: c, G: uint8(x * 255 / w), B: 255 - c, A: 0xff}
		}
	}
	if p := b.MouseState().Pos(); p.In(image.Rect(0, 0, w, h)) {
		d.pix[p.Y*w+p.X] = core.Rgba{R: 0xff, G: 0xff, B: 0xff, A: 0xff}
	}
	b.DrawPixels(w, h, d.pix)
}
