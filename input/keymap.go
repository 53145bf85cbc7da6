package input

import (
	"fmt"
	"os"
	"slices"

	"github.com/BurntSushi/toml"
)

// Keymap binds action names to key codes
//
//	[bindings]
//	quit = ["C-c", "q", "Esc"]
//	left = ["h", "Left"]
type Keymap struct {
	bindings map[string][]KeyTyped
	order    []string
}

type keymapFile struct {
	Bindings map[string][]KeyTyped `toml:"bindings"`
}

// NewKeymap returns an empty keymap
func NewKeymap() *Keymap {
	return &Keymap{bindings: make(map[string][]KeyTyped)}
}

// LoadKeymap parses TOML keymap data. Key codes use the canonical text
// form and are validated on load.
func LoadKeymap(data []byte) (*Keymap, error) {
	var f keymapFile
	if _, err := toml.Decode(string(data), &f); err != nil {
		return nil, fmt.Errorf("keymap parse: %w", err)
	}

	km := NewKeymap()
	for action, keys := range f.Bindings {
		if len(keys) == 0 {
			return nil, fmt.Errorf("keymap: action %q has no keys", action)
		}
		for _, k := range keys {
			km.add(action, k)
		}
	}
	return km, nil
}

// LoadKeymapFile reads and parses a keymap file
func LoadKeymapFile(path string) (*Keymap, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("keymap read: %w", err)
	}
	return LoadKeymap(data)
}

// Bind adds key codes to an action
func (m *Keymap) Bind(action string, codes ...string) error {
	for _, c := range codes {
		kt, err := ParseKeyTyped(c)
		if err != nil {
			return fmt.Errorf("bind %s: %w", action, err)
		}
		m.add(action, kt)
	}
	return nil
}

// Merge overlays other on m, replacing whole actions
func (m *Keymap) Merge(other *Keymap) {
	if other == nil {
		return
	}
	for action, keys := range other.bindings {
		if _, ok := m.bindings[action]; !ok {
			m.order = append(m.order, action)
		}
		m.bindings[action] = slices.Clone(keys)
	}
	slices.Sort(m.order)
}

func (m *Keymap) add(action string, kt KeyTyped) {
	if _, ok := m.bindings[action]; !ok {
		m.order = append(m.order, action)
		slices.Sort(m.order)
	}
	kt = kt.IgnoreRepeat()
	if !slices.Contains(m.bindings[action], kt) {
		m.bindings[action] = append(m.bindings[action], kt)
	}
}

// Action returns the first action, in name order, bound to kt
func (m *Keymap) Action(kt KeyTyped) (string, bool) {
	kt = kt.IgnoreRepeat()
	for _, action := range m.order {
		if slices.Contains(m.bindings[action], kt) {
			return action, true
		}
	}
	return "", false
}

// Bound reports whether kt triggers action
func (m *Keymap) Bound(action string, kt KeyTyped) bool {
	return slices.Contains(m.bindings[action], kt.IgnoreRepeat())
}

// Keys returns the codes bound to action
func (m *Keymap) Keys(action string) []KeyTyped {
	return slices.Clone(m.bindings[action])
}
