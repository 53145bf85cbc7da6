package input

import "time"

// Keypresses is the per-session key queue. The front element is the
// keypress visible to the application for the current frame and is
// dropped at the frame boundary whether it was read or not.
type Keypresses struct {
	q []KeyTyped
}

// Push appends a keypress
func (k *Keypresses) Push(kt KeyTyped) {
	k.q = append(k.q, kt)
}

// Current returns the front keypress, or the zero KeyTyped when empty
func (k *Keypresses) Current() KeyTyped {
	if len(k.q) == 0 {
		return KeyTyped{}
	}
	return k.q[0]
}

// Advance drops the front keypress
func (k *Keypresses) Advance() {
	if len(k.q) == 0 {
		return
	}
	copy(k.q, k.q[1:])
	k.q[len(k.q)-1] = KeyTyped{}
	k.q = k.q[:len(k.q)-1]
}

func (k *Keypresses) Len() int { return len(k.q) }

// Reset discards all pending keypresses
func (k *Keypresses) Reset() {
	k.q = k.q[:0]
}

// HeldKeys tracks physical keys currently down, keyed by Key.Lower.
//
// In exact mode presses and releases come from the host. In timed mode
// (terminals, which report no releases) a key counts as held for a window
// after its last press or auto-repeat; a zero window disables tracking.
type HeldKeys struct {
	exact  bool
	window time.Duration
	now    func() time.Time
	down   map[Key]time.Time
}

// NewHeldKeys returns an exact tracker driven by key-down and key-up events
func NewHeldKeys() *HeldKeys {
	return &HeldKeys{exact: true, now: time.Now, down: make(map[Key]time.Time)}
}

// NewTimedHeldKeys returns a best-effort tracker for hosts without release events
func NewTimedHeldKeys(window time.Duration, now func() time.Time) *HeldKeys {
	if now == nil {
		now = time.Now
	}
	return &HeldKeys{window: window, now: now, down: make(map[Key]time.Time)}
}

// Press records k as down
func (h *HeldKeys) Press(k Key) {
	if !h.exact && h.window <= 0 {
		return
	}
	h.down[k.Lower()] = h.now()
}

// Release records k as up
func (h *HeldKeys) Release(k Key) {
	delete(h.down, k.Lower())
}

// IsDown reports whether k is held
func (h *HeldKeys) IsDown(k Key) bool {
	t, ok := h.down[k.Lower()]
	if !ok {
		return false
	}
	if h.exact {
		return true
	}
	if h.now().Sub(t) < h.window {
		return true
	}
	delete(h.down, k.Lower())
	return false
}

// Clear forgets all held keys, used when the host loses focus
func (h *HeldKeys) Clear() {
	clear(h.down)
}
