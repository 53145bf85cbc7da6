// Package frame steps an application task one rendering frame at a time.
//
// The task runs on its own goroutine but never concurrently with the host:
// control passes back and forth over unbuffered channels, so exactly one
// side executes at any instant.
package frame

import (
	"fmt"
	"runtime/debug"
)

// Status is the outcome of one Advance call
type Status uint8

const (
	Yielded    Status = iota // task reached its end-of-frame yield
	Terminated               // task returned, or was closed
)

func (s Status) String() string {
	if s == Yielded {
		return "Yielded"
	}
	return "Terminated"
}

// Task is the application main loop. It calls y.Yield once per frame.
type Task func(y *Yielder)

// PanicError carries a task panic back to the host goroutine
type PanicError struct {
	Value any
	Stack []byte
}

func (e *PanicError) Error() string {
	return fmt.Sprintf("frame task panicked: %v\n%s", e.Value, e.Stack)
}

// Unwrap exposes a panicked error value
func (e *PanicError) Unwrap() error {
	if err, ok := e.Value.(error); ok {
		return err
	}
	return nil
}

type outcome struct {
	finished bool
	panicked *PanicError
}

// Yielder is the task's handle to the end-of-frame suspension point
type Yielder struct {
	resume  chan struct{}
	suspend chan outcome
}

// abortSignal unwinds a task abandoned by Close
type abortSignal struct{}

// Yield suspends the task until the host advances the next frame
func (y *Yielder) Yield() {
	y.suspend <- outcome{}
	if _, ok := <-y.resume; !ok {
		panic(abortSignal{})
	}
}

// Executor owns a Task and steps it frame by frame
type Executor struct {
	task    Task
	y       *Yielder
	started bool
	done    bool
	exited  chan struct{}
}

// New wraps task without starting it
func New(task Task) *Executor {
	return &Executor{
		task: task,
		y: &Yielder{
			resume:  make(chan struct{}),
			suspend: make(chan outcome),
		},
		exited: make(chan struct{}),
	}
}

// Advance runs the task until its next Yield or until it returns.
// Once Terminated is returned every later call returns Terminated without
// running task code. A panic inside the task is re-raised here as a
// *PanicError.
func (e *Executor) Advance() Status {
	if e.done {
		return Terminated
	}

	if !e.started {
		e.started = true
		go e.run()
	} else {
		e.y.resume <- struct{}{}
	}

	out := <-e.y.suspend
	if !out.finished {
		return Yielded
	}

	e.done = true
	<-e.exited
	if out.panicked != nil {
		panic(out.panicked)
	}
	return Terminated
}

// Done reports whether the task has terminated or been closed
func (e *Executor) Done() bool {
	return e.done
}

// Close abandons a suspended task, unwinding it from its pending Yield.
// Deferred calls in the task run before Close returns.
func (e *Executor) Close() {
	if e.done {
		return
	}
	e.done = true
	if !e.started {
		return
	}
	close(e.y.resume)
	<-e.exited
}

func (e *Executor) run() {
	defer close(e.exited)
	defer func() {
		r := recover()
		if _, ok := r.(abortSignal); ok {
			return
		}
		out := outcome{finished: true}
		if r != nil {
			out.panicked = &PanicError{Value: r, Stack: debug.Stack()}
		}
		e.y.suspend <- out
	}()
	e.task(e.y)
}
