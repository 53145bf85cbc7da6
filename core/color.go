package core

// X256 is an xterm 256-color palette index.
// Indices 0..15 are system colors whose actual rendering depends on the
// host theme, 16..231 form a 6x6x6 cube and 232..255 a greyscale ramp.
type X256 uint8

// System color names
const (
	Background X256 = iota // terminal background, may be black or white
	Maroon
	Green
	Brown
	Navy
	Purple
	Teal
	Foreground // terminal foreground
	Gray
	Red
	Lime
	Yellow
	Blue
	Fuchsia
	Aqua
	BoldForeground
)

// IsBright reports a system color in the 8..15 range, drawn bold on terminals
func (c X256) IsBright() bool {
	return c >= 8 && c < 16
}

// Rgba expands the index to a full color using an EGA-style system palette
func (c X256) Rgba() Rgba {
	switch {
	case c < 16:
		return systemPalette[c]
	case c < 232:
		x := uint8(c - 16)
		return Rgba{R: cubeLevel(x / 36), G: cubeLevel((x / 6) % 6), B: cubeLevel(x % 6), A: 0xff}
	default:
		v := 8 + 10*uint8(c-232)
		return Rgba{R: v, G: v, B: v, A: 0xff}
	}
}

func cubeLevel(i uint8) uint8 {
	if i == 0 {
		return 0
	}
	return i*40 + 55
}

// Palette is a rendition of the 16 system colors
type Palette [16]Rgba

// DefaultPalette is the built-in system palette
func DefaultPalette() Palette { return systemPalette }

// Color resolves an index, system colors through the palette
func (p *Palette) Color(c X256) Rgba {
	if c < 16 {
		return p[c]
	}
	return c.Rgba()
}

var systemPalette = [16]Rgba{
	{0x00, 0x00, 0x00, 0xff},
	{0xaa, 0x00, 0x00, 0xff},
	{0x00, 0xaa, 0x00, 0xff},
	{0xaa, 0x55, 0x00, 0xff},
	{0x22, 0x22, 0xcc, 0xff},
	{0xaa, 0x00, 0xaa, 0xff},
	{0x00, 0xaa, 0xaa, 0xff},
	{0xaa, 0xaa, 0xaa, 0xff},
	{0x55, 0x55, 0x55, 0xff},
	{0xff, 0x55, 0x55, 0xff},
	{0x55, 0xff, 0x55, 0xff},
	{0xff, 0xff, 0x55, 0xff},
	{0x55, 0x55, 0xff, 0xff},
	{0xff, 0x55, 0xff, 0xff},
	{0x55, 0xff, 0xff, 0xff},
	{0xff, 0xff, 0xff, 0xff},
}

// Rgba is a 32-bit full color
type Rgba struct {
	R, G, B, A uint8
}

// SquareDist is the squared redmean color distance
func (c Rgba) SquareDist(o Rgba) float32 {
	f := func(x uint8) float32 { return float32(x) / 255 }
	dr, dg, db, da := f(c.R)-f(o.R), f(c.G)-f(o.G), f(c.B)-f(o.B), f(c.A)-f(o.A)
	rm := (f(c.R) + f(o.R)) / 2
	return (2+rm)*dr*dr + 4*dg*dg + (3-rm)*db*db + da*da
}

// Greyscale returns the luma of the color
func (c Rgba) Greyscale() uint8 {
	return uint8(0.2126*float32(c.R) + 0.7152*float32(c.G) + 0.0722*float32(c.B))
}

// IsTransparent reports zero alpha
func (c Rgba) IsTransparent() bool {
	return c.A == 0
}

// X256 returns the nearest palette entry from the color cube or the
// greyscale ramp. System colors are never chosen.
func (c Rgba) X256() X256 {
	snap := func(x uint8) uint8 {
		v := (int(x) - 35) / 40
		if v < 0 {
			v = 0
		}
		return uint8(v)
	}
	cube := X256(16 + snap(c.R)*36 + snap(c.G)*6 + snap(c.B))

	g := (int(c.Greyscale()) - 3) / 10
	g = max(0, min(23, g))
	grey := X256(232 + g)

	if cube.Rgba().SquareDist(c) < grey.Rgba().SquareDist(c) {
		return cube
	}
	return grey
}
