package render

import "github.com/lixenwraith/cellframe/core"

// Style is the terminal rendition derived from a cell's color pair.
// Unset colors mean the host default.
type Style struct {
	Fg, Bg       core.X256
	FgSet, BgSet bool
	Reverse      bool
	Bold         bool
}

// StyleOf maps cell colors to a terminal style:
//   - Background used as foreground over a colored background is reverse
//     video of that background
//   - Foreground and BoldForeground leave the foreground at default
//   - system colors 8..15 in the foreground are drawn bold
//   - Background as background leaves the background at default
func StyleOf(c core.CharCell) Style {
	var s Style
	inverse := c.Fg == core.Background && c.Bg != core.Background

	fg := c.Fg
	if inverse {
		fg = c.Bg
		s.Reverse = true
	} else if c.Bg != core.Background {
		s.Bg, s.BgSet = c.Bg, true
	}

	if fg != core.Foreground && fg != core.BoldForeground {
		s.Fg, s.FgSet = fg, true
	}
	if fg.IsBright() && !inverse {
		s.Bold = true
	}
	return s
}
