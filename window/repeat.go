package window

import "github.com/lixenwraith/cellframe/input"

// RepeatTracker flags auto-repeat for hosts whose key events carry no repeat
// bit. Keys are tracked by Key.Lower, so a release reported without shift
// still matches a press reported with it.
type RepeatTracker struct {
	down map[input.Key]bool
}

func NewRepeatTracker() *RepeatTracker {
	return &RepeatTracker{down: make(map[input.Key]bool)}
}

// Press records k and reports whether it was already down
func (t *RepeatTracker) Press(k input.Key) (repeat bool) {
	if !k.IsSome() {
		return false
	}
	k = k.Lower()
	repeat = t.down[k]
	t.down[k] = true
	return repeat
}

func (t *RepeatTracker) Release(k input.Key) {
	delete(t.down, k.Lower())
}

// Clear forgets all keys, used on focus loss
func (t *RepeatTracker) Clear() {
	clear(t.down)
}
