// Package render presents character buffers on a cell grid host.
//
// DiffRenderer keeps a snapshot of the last presented frame and sends only
// changed cells to a Sink. Sinks translate the abstract operations into
// ANSI bytes or tcell calls.
package render
