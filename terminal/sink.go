package terminal

import (
	"bufio"
	"io"

	"github.com/lixenwraith/cellframe/render"
)

// ansiSink writes frames as ANSI sequences. Each frame is wrapped in a
// synchronized update that opens on the first operation and closes on
// Flush.
type ansiSink struct {
	w       *bufio.Writer
	syncing bool
}

func newANSISink(w io.Writer) *ansiSink {
	return &ansiSink{w: bufio.NewWriterSize(w, 131072)} // 128KB buffer
}

func (s *ansiSink) begin() {
	if !s.syncing {
		s.w.Write(csiSyncBegin)
		s.syncing = true
	}
}

func (s *ansiSink) Clear() {
	s.begin()
	s.w.Write(csiSGR0)
	s.w.Write(csiClear)
}

func (s *ansiSink) MoveTo(x, y int) {
	s.begin()
	writeCursorPos(s.w, x, y)
}

// SetStyle emits a single SGR that resets attributes first
func (s *ansiSink) SetStyle(st render.Style) {
	s.begin()
	w := s.w
	w.WriteString("\x1b[0")
	if st.Reverse {
		w.WriteString(";7")
	}
	if st.BgSet {
		w.WriteString(";48;5;")
		writeInt(w, int(st.Bg))
	}
	if st.FgSet {
		w.WriteString(";38;5;")
		writeInt(w, int(st.Fg))
	}
	if st.Bold {
		w.WriteString(";1")
	}
	w.WriteByte('m')
}

func (s *ansiSink) PutGlyph(r rune) {
	s.begin()
	s.w.WriteRune(r)
}

func (s *ansiSink) Flush() error {
	if s.syncing {
		s.w.Write(csiSyncEnd)
		s.syncing = false
	}
	return s.w.Flush()
}

// writeRaw sends control sequences outside of frame rendering
func (s *ansiSink) writeRaw(seqs ...[]byte) error {
	for _, seq := range seqs {
		s.w.Write(seq)
	}
	return s.w.Flush()
}
