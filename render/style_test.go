package render

import (
	"testing"

	"github.com/lixenwraith/cellframe/core"
)

func TestStyleOf(t *testing.T) {
	tests := []struct {
		name string
		fg   core.X256
		bg   core.X256
		want Style
	}{
		{"default", core.Foreground, core.Background, Style{}},
		{"plain color", core.Green, core.Background, Style{Fg: core.Green, FgSet: true}},
		{"bright is bold", core.Red, core.Background, Style{Fg: core.Red, FgSet: true, Bold: true}},
		{"bold foreground", core.BoldForeground, core.Background, Style{Bold: true}},
		{"background color", core.Foreground, core.Navy, Style{Bg: core.Navy, BgSet: true}},
		{"reverse video", core.Background, core.Teal, Style{Fg: core.Teal, FgSet: true, Reverse: true}},
		{"reverse of bright is not bold", core.Background, core.Yellow, Style{Fg: core.Yellow, FgSet: true, Reverse: true}},
		{"background on background", core.Background, core.Background, Style{Fg: core.Background, FgSet: true}},
		{"cube colors", 196, 21, Style{Fg: 196, FgSet: true, Bg: 21, BgSet: true}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := StyleOf(core.NewCell('x', tt.fg, tt.bg)); got != tt.want {
				t.Errorf("StyleOf = %+v, want %+v", got, tt.want)
			}
		})
	}
}
