// Package terminal runs applications on character terminals.
//
// Two drivers are provided:
//   - tty: raw ANSI output and a byte-stream input parser over the
//     controlling terminal (x/term raw mode, x/sys/unix poll, SIGWINCH)
//   - tcell: a tcell.Screen, for terminals that need terminfo
//
// Both register themselves with the engine under the names "tty" and
// "tcell". Output goes through render.DiffRenderer so only changed cells
// are written each frame.
package terminal
