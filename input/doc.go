// Package input defines the backend-independent keyboard and mouse model.
//
// Terminal byte streams and window key-down/key-up/char callbacks are both
// normalized into KeyTyped values and a MouseState machine. Keys have a
// canonical text form ("C-x", "A-S-Left", "Sp") used by keymaps.
package input
