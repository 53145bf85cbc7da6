//go:build unix

package engine

import (
	"os"
	"syscall"
	"testing"
	"time"
)

func TestWatchSignalsRestoresOnSignal(t *testing.T) {
	codes := make(chan int, 1)
	exit = func(c int) { codes <- c }
	defer func() { exit = osExit }()

	restores := 0
	r := NewRestorer(func() { restores++ })
	stop := WatchSignals(r)
	defer stop()

	if err := syscall.Kill(os.Getpid(), syscall.SIGHUP); err != nil {
		t.Fatal(err)
	}

	select {
	case code := <-codes:
		if code != 1 {
			t.Errorf("exit code %d, want 1", code)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("signal did not trigger exit")
	}
	// a later restore on the normal exit path is a no-op
	r.Restore()
	if restores != 1 {
		t.Errorf("restore ran %d times, want 1", restores)
	}
}
