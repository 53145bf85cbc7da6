package engine

import (
	"bytes"
	"fmt"
	"io"
	"log"
	"os"
	"os/signal"
	"runtime/debug"
	"sync"
	"sync/atomic"
	"syscall"

	"github.com/lixenwraith/cellframe/frame"
)

// Restorer runs a display cleanup function at most once, whichever of
// normal exit, signal or panic gets there first
type Restorer struct {
	once sync.Once
	fn   func()
}

// NewRestorer wraps fn
func NewRestorer(fn func()) *Restorer {
	return &Restorer{fn: fn}
}

// Restore runs the cleanup if it has not run yet
func (r *Restorer) Restore() {
	if r == nil {
		return
	}
	r.once.Do(func() {
		if r.fn != nil {
			r.fn()
		}
	})
}

var crashRestorer atomic.Pointer[Restorer]

var (
	osExit = os.Exit
	exit   = osExit
)

// WatchSignals restores the display and exits with status 1 on SIGTERM,
// SIGINT or SIGHUP. The returned function stops watching.
func WatchSignals(r *Restorer) (stop func()) {
	crashRestorer.Store(r)

	sigCh := make(chan os.Signal, 1)
	done := make(chan struct{})
	signal.Notify(sigCh, syscall.SIGTERM, syscall.SIGINT, syscall.SIGHUP)

	go func() {
		select {
		case sig := <-sigCh:
			log.Printf("engine: received %v, restoring display", sig)
			r.Restore()
			exit(1)
		case <-done:
		}
	}()

	var once sync.Once
	return func() {
		once.Do(func() {
			signal.Stop(sigCh)
			close(done)
			crashRestorer.CompareAndSwap(r, nil)
		})
	}
}

// Recover is deferred by adapters around their run loop. A panic restores
// the display, prints the stack and exits.
func Recover(r *Restorer) {
	if v := recover(); v != nil {
		crash(os.Stderr, v, r)
		exit(1)
	}
}

// HandleCrash restores the registered display and exits after a panic in
// a helper goroutine
func HandleCrash(v any) {
	if v == nil {
		return
	}
	crash(os.Stderr, v, crashRestorer.Load())
	exit(1)
}

// Go runs fn in a goroutine that routes panics to HandleCrash
func Go(fn func()) {
	go func() {
		defer func() {
			if v := recover(); v != nil {
				HandleCrash(v)
			}
		}()
		fn()
	}()
}

func crash(w io.Writer, v any, r *Restorer) {
	r.Restore()
	os.Stdout.Sync()

	// task panics carry the stack of the task goroutine
	stack := debug.Stack()
	if pe, ok := v.(*frame.PanicError); ok {
		v, stack = pe.Value, pe.Stack
	}

	// \r\n keeps the trace readable if raw mode could not be undone
	fmt.Fprintf(w, "\r\n\x1b[31mCRASH DETECTED: %v\x1b[0m\r\n", v)
	fmt.Fprintf(w, "Stack Trace:\r\n%s\r\n", bytes.ReplaceAll(stack, []byte("\n"), []byte("\r\n")))
	log.Printf("engine: crash: %v", v)
}
