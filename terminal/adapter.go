package terminal

import (
	"fmt"
	"image"
	"io"
	"log"
	"time"

	"github.com/lixenwraith/cellframe/core"
	"github.com/lixenwraith/cellframe/engine"
	"github.com/lixenwraith/cellframe/frame"
	"github.com/lixenwraith/cellframe/input"
	"github.com/lixenwraith/cellframe/render"
)

// Adapter runs an application on a terminal Driver. It implements
// engine.Adapter and engine.Host.
type Adapter struct {
	drv  Driver
	opts engine.Options

	renderer  *render.DiffRenderer
	counter   *frame.Counter
	sess      *engine.Session
	focusLost bool
}

// NewAdapter creates an adapter for drv
func NewAdapter(drv Driver, opts engine.Options) *Adapter {
	return &Adapter{drv: drv, opts: opts}
}

// Run takes over the terminal, runs app until it returns and restores the
// terminal on every exit path
func (a *Adapter) Run(app engine.App) error {
	if err := a.drv.Init(); err != nil {
		return err
	}
	restorer := engine.NewRestorer(a.drv.Fini)
	defer restorer.Restore()
	defer engine.Recover(restorer)
	stop := engine.WatchSignals(restorer)
	defer stop()

	cols, rows := a.drv.Size()
	a.renderer = render.NewDiffRenderer(a.drv.Sink(), cols, rows)
	a.counter = frame.NewCounter(a.opts.FrameDuration(), nil)
	a.sess = engine.NewSession(engine.KindTerminal, a,
		input.NewTimedHeldKeys(a.opts.HoldWindow, nil), nil)

	ex := frame.New(a.sess.Task(app))
	defer ex.Close()

	for {
		if ex.Advance() == frame.Terminated {
			log.Printf("terminal: application finished")
			return nil
		}
		if err := a.sess.Err(); err != nil {
			return err
		}
		a.sess.EndFrame()
		if err := a.processEvents(); err != nil {
			return err
		}
	}
}

// processEvents handles ready input, sleeps while focus is lost and then
// waits out the rest of the frame while still taking input
func (a *Adapter) processEvents() error {
	events := a.drv.Events()
	for {
		if a.focusLost {
			ev, ok := <-events
			if err := a.handle(ev, ok); err != nil {
				return err
			}
			continue
		}

		select {
		case ev, ok := <-events:
			if err := a.handle(ev, ok); err != nil {
				return err
			}
			continue
		default:
		}
		break
	}

	timer := time.NewTimer(a.counter.Remaining())
	defer timer.Stop()
	for waiting := true; waiting; {
		select {
		case ev, ok := <-events:
			if err := a.handle(ev, ok); err != nil {
				return err
			}
		case <-timer.C:
			waiting = false
		}
	}

	n := a.counter.MissedFrames()
	a.counter.Tick()
	a.sess.SetLogicalFrames(n)
	return nil
}

func (a *Adapter) handle(ev Event, ok bool) error {
	if !ok {
		return fmt.Errorf("terminal input: %w", io.EOF)
	}
	if a.focusLost {
		// waking up restarts frame timing
		a.focusLost = false
		a.counter.Reset()
	}

	switch ev.Type {
	case EventKey:
		if ev.Key.IsSome() {
			a.sess.PushKey(ev.Key)
			a.sess.KeyDown(ev.Key.Key())
		}
	case EventMouse:
		a.sess.MouseMove(ev.Pos)
		switch ev.Action {
		case MousePress:
			a.sess.MouseDown(ev.Button)
		case MouseRelease:
			a.sess.MouseUp(ev.Button)
		case MouseScroll:
			a.sess.Scroll(ev.Scroll)
		}
	case EventResize:
		log.Printf("terminal: resized to %dx%d", ev.Width, ev.Height)
		a.renderer.SetScreenSize(ev.Width, ev.Height)
	case EventFocus:
		if !ev.Focused {
			a.focusLost = true
			a.sess.ReleaseAll()
		}
	case EventError:
		return fmt.Errorf("terminal input: %w", ev.Err)
	case EventClosed:
		return fmt.Errorf("terminal input: %w", io.EOF)
	}
	return nil
}

// Host implementation

func (a *Adapter) PresentChars(w, h int, cells []core.CharCell) (render.Projection, error) {
	if _, err := a.renderer.Render(w, h, cells); err != nil {
		return render.Projection{}, err
	}
	return render.Projection{Offset: a.renderer.Offset()}, nil
}

// PresentPixels draws two pixel rows per cell, pointer rows scale back up
func (a *Adapter) PresentPixels(w, h int, pix []core.Rgba) (render.Projection, error) {
	cw, ch, cells := render.Downsample(w, h, pix)
	proj, err := a.PresentChars(cw, ch, cells)
	proj.Mul = image.Pt(1, 2)
	return proj, err
}

// SetPalette is a no-op, system colors follow the terminal theme
func (a *Adapter) SetPalette(core.Palette) {}

func (a *Adapter) PixelResolution() (int, int) {
	cols, rows := a.renderer.ScreenSize()
	return cols, rows * 2
}

// CharResolution is the terminal size, terminals cannot zoom
func (a *Adapter) CharResolution(maxW, maxH int) (int, int) {
	return a.renderer.ScreenSize()
}
