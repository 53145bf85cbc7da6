// Package core holds the value types shared by every backend: character
// cells, xterm-256 color indices and full-color pixels.
package core
