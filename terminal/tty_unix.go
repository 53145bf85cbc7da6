//go:build linux || darwin || dragonfly || freebsd || netbsd || openbsd

package terminal

import (
	"fmt"
	"log"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"golang.org/x/sys/unix"
	"golang.org/x/term"

	"github.com/lixenwraith/cellframe/engine"
	"github.com/lixenwraith/cellframe/render"
)

// escapeTimeout is how long input must stay idle after ESC before it is
// taken as the Escape key
const escapeTimeout = 50 * time.Millisecond

// ttyDriver drives an xterm-compatible terminal with raw ANSI sequences
type ttyDriver struct {
	in, out *os.File
	inFd    int
	outFd   int
	mouse   bool

	oldState *term.State
	active   bool
	sink     *ansiSink
	events   chan Event

	stopCh chan struct{}
	wg     sync.WaitGroup
	once   sync.Once
}

// NewTTY creates a driver reading in and writing out, normally the
// process stdin and stdout
func NewTTY(in, out *os.File, mouse bool) Driver {
	return &ttyDriver{
		in:     in,
		out:    out,
		inFd:   int(in.Fd()),
		outFd:  int(out.Fd()),
		mouse:  mouse,
		sink:   newANSISink(out),
		events: make(chan Event, 256),
		stopCh: make(chan struct{}),
	}
}

func (d *ttyDriver) Init() error {
	if !term.IsTerminal(d.inFd) {
		return fmt.Errorf("tty driver: %w", ErrNotTerminal)
	}
	old, err := term.MakeRaw(d.inFd)
	if err != nil {
		return fmt.Errorf("tty driver: raw mode: %w", err)
	}
	d.oldState = old

	seqs := [][]byte{csiAltScreenEnter, csiCursorHide, csiAutoWrapOff, csiSGR0, csiClear, csiFocusOn}
	if d.mouse {
		seqs = append(seqs, csiMouseOn)
	}
	if err := d.sink.writeRaw(seqs...); err != nil {
		term.Restore(d.inFd, old)
		return fmt.Errorf("tty driver: setup: %w", err)
	}

	// registered before the watchers start so no resize is lost
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGWINCH)

	d.active = true
	d.wg.Add(2)
	engine.Go(d.readLoop)
	engine.Go(func() { d.resizeLoop(sigCh) })

	cols, rows := d.Size()
	log.Printf("terminal: tty initialized %dx%d", cols, rows)
	return nil
}

func (d *ttyDriver) Fini() {
	d.once.Do(func() {
		close(d.stopCh)
		if !d.active {
			return
		}
		// the reader polls with a timeout, give it one period to notice
		done := make(chan struct{})
		go func() {
			d.wg.Wait()
			close(done)
		}()
		select {
		case <-done:
		case <-time.After(2 * escapeTimeout):
		}

		seqs := [][]byte{csiSGR0, csiFocusOff}
		if d.mouse {
			seqs = append(seqs, csiMouseOff)
		}
		seqs = append(seqs, csiCursorShow, csiAltScreenExit, csiAutoWrapOn)
		d.sink.writeRaw(seqs...)

		if d.oldState != nil {
			if err := term.Restore(d.inFd, d.oldState); err != nil {
				log.Printf("terminal: restore failed: %v", err)
				resetTerminalMode()
			}
		}
		log.Printf("terminal: tty finalized")
	})
}

func (d *ttyDriver) Size() (int, int) {
	return terminalSize(d.outFd)
}

func (d *ttyDriver) Sink() render.Sink { return d.sink }

func (d *ttyDriver) Events() <-chan Event { return d.events }

func (d *ttyDriver) send(ev Event) bool {
	select {
	case d.events <- ev:
		return true
	case <-d.stopCh:
		return false
	}
}

func (d *ttyDriver) readLoop() {
	defer d.wg.Done()

	p := newParser(func(ev Event) { d.send(ev) })
	buf := make([]byte, 256)
	fds := []unix.PollFd{{Fd: int32(d.inFd), Events: unix.POLLIN}}

	for {
		select {
		case <-d.stopCh:
			return
		default:
		}

		n, err := unix.Poll(fds, int(escapeTimeout/time.Millisecond))
		if err != nil {
			if err == unix.EINTR {
				continue
			}
			d.send(Event{Type: EventError, Err: err})
			return
		}
		if n == 0 {
			p.idle()
			continue
		}

		rn, err := unix.Read(d.inFd, buf)
		if err != nil {
			if err == unix.EINTR || err == unix.EAGAIN {
				continue
			}
			d.send(Event{Type: EventError, Err: err})
			return
		}
		if rn == 0 {
			d.send(Event{Type: EventClosed})
			return
		}
		p.feed(buf[:rn])
	}
}

func (d *ttyDriver) resizeLoop(sigCh chan os.Signal) {
	defer d.wg.Done()
	defer signal.Stop(sigCh)

	for {
		select {
		case <-d.stopCh:
			return
		case <-sigCh:
			cols, rows := d.Size()
			if !d.send(Event{Type: EventResize, Width: cols, Height: rows}) {
				return
			}
		}
	}
}

// terminalSize returns the size of the terminal on fd, 80x24 if unknown
func terminalSize(fd int) (int, int) {
	ws, err := unix.IoctlGetWinsize(fd, unix.TIOCGWINSZ)
	if err != nil || ws.Col == 0 || ws.Row == 0 {
		return 80, 24
	}
	return int(ws.Col), int(ws.Row)
}

// resetTerminalMode restores cooked mode through /dev/tty when the saved
// state could not be applied. Errors are ignored.
func resetTerminalMode() {
	tty, err := os.OpenFile("/dev/tty", os.O_RDWR, 0)
	if err != nil {
		return
	}
	defer tty.Close()
	fd := int(tty.Fd())
	if termios, err := unix.IoctlGetTermios(fd, ioctlGetTermios); err == nil {
		termios.Lflag |= unix.ECHO | unix.ICANON | unix.ISIG | unix.IEXTEN
		termios.Iflag |= unix.ICRNL
		unix.IoctlSetTermios(fd, ioctlSetTermios, termios)
	}
}

func init() {
	engine.Register("tty", func(opts engine.Options) (engine.Adapter, error) {
		return NewAdapter(NewTTY(os.Stdin, os.Stdout, opts.Mouse), opts), nil
	})
}
