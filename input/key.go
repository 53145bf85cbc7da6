package input

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"unicode"
	"unicode/utf8"
)

// ErrInvalidEncoding is returned when key text cannot be parsed
var ErrInvalidEncoding = errors.New("invalid key encoding")

// Code identifies the kind of a Key
type Code uint8

const (
	CodeNone Code = iota
	CodeUp
	CodeDown
	CodeLeft
	CodeRight
	CodeTab
	CodeEnter
	CodeEsc
	CodeBackspace
	CodeDelete
	CodeInsert
	CodeHome
	CodeEnd
	CodePageUp
	CodePageDown
	CodeShift
	CodeCtrl
	CodeAlt
	CodeIcon // logo / super key
	CodeF    // function key, index in Key.Fn
	CodeChar // printable character, value in Key.Rune
)

// MaxFn is the highest function key index
const MaxFn = 12

// Key is a physical or logical key. It is comparable and usable as a map key.
type Key struct {
	Code Code
	Rune rune  // CodeChar only
	Fn   uint8 // CodeF only, 1..MaxFn
}

// Named keys
var (
	KeyNone      = Key{}
	KeyUp        = Key{Code: CodeUp}
	KeyDown      = Key{Code: CodeDown}
	KeyLeft      = Key{Code: CodeLeft}
	KeyRight     = Key{Code: CodeRight}
	KeyTab       = Key{Code: CodeTab}
	KeyEnter     = Key{Code: CodeEnter}
	KeyEsc       = Key{Code: CodeEsc}
	KeyBackspace = Key{Code: CodeBackspace}
	KeyDelete    = Key{Code: CodeDelete}
	KeyInsert    = Key{Code: CodeInsert}
	KeyHome      = Key{Code: CodeHome}
	KeyEnd       = Key{Code: CodeEnd}
	KeyPageUp    = Key{Code: CodePageUp}
	KeyPageDown  = Key{Code: CodePageDown}
	KeyShift     = Key{Code: CodeShift}
	KeyCtrl      = Key{Code: CodeCtrl}
	KeyAlt       = Key{Code: CodeAlt}
	KeyIcon      = Key{Code: CodeIcon}
	KeySpace     = Key{Code: CodeChar, Rune: ' '}
)

// Char returns the printable key for r
func Char(r rune) Key {
	return Key{Code: CodeChar, Rune: r}
}

// F returns function key n (1-based)
func F(n int) Key {
	return Key{Code: CodeF, Fn: uint8(n)}
}

// IsPrintable reports whether the key produces a character
func (k Key) IsPrintable() bool {
	return k.Code == CodeChar
}

// IsSome reports any key other than None
func (k Key) IsSome() bool {
	return k.Code != CodeNone
}

// IsModifier reports the bare modifier keys
func (k Key) IsModifier() bool {
	switch k.Code {
	case CodeShift, CodeCtrl, CodeAlt, CodeIcon:
		return true
	}
	return false
}

// Valid reports whether the key can be encoded
func (k Key) Valid() bool {
	switch k.Code {
	case CodeF:
		return k.Fn >= 1 && k.Fn <= MaxFn && k.Rune == 0
	case CodeChar:
		return k.Fn == 0 && (k.Rune == ' ' || unicode.IsGraphic(k.Rune))
	default:
		return k.Code < CodeF && k.Rune == 0 && k.Fn == 0
	}
}

// Lower folds printable keys to lower case so one value stands for the
// physical key regardless of shift state
func (k Key) Lower() Key {
	if k.Code == CodeChar {
		k.Rune = unicode.ToLower(k.Rune)
	}
	return k
}

var keyNames = [...]string{
	CodeNone:      "none",
	CodeUp:        "Up",
	CodeDown:      "Down",
	CodeLeft:      "Left",
	CodeRight:     "Right",
	CodeTab:       "Tab",
	CodeEnter:     "Ret",
	CodeEsc:       "Esc",
	CodeBackspace: "Bksp",
	CodeDelete:    "Del",
	CodeInsert:    "Ins",
	CodeHome:      "Home",
	CodeEnd:       "End",
	CodePageUp:    "PgUp",
	CodePageDown:  "PgDn",
	CodeShift:     "Shift",
	CodeCtrl:      "Ctrl",
	CodeAlt:       "Alt",
	CodeIcon:      "Icon",
}

var keysByName = func() map[string]Key {
	m := make(map[string]Key, len(keyNames)+MaxFn+1)
	for c, name := range keyNames {
		m[name] = Key{Code: Code(c)}
	}
	for i := 1; i <= MaxFn; i++ {
		m["F"+strconv.Itoa(i)] = F(i)
	}
	m["Sp"] = KeySpace
	return m
}()

// String returns the key token of the canonical encoding
func (k Key) String() string {
	switch k.Code {
	case CodeF:
		return "F" + strconv.Itoa(int(k.Fn))
	case CodeChar:
		if k.Rune == ' ' {
			return "Sp"
		}
		return string(k.Rune)
	}
	if int(k.Code) < len(keyNames) {
		return keyNames[k.Code]
	}
	return fmt.Sprintf("Code(%d)", k.Code)
}

// ParseKey parses a single key token
func ParseKey(s string) (Key, error) {
	if k, ok := keysByName[s]; ok {
		return k, nil
	}
	if r, size := utf8.DecodeRuneInString(s); size > 0 && size == len(s) && !(r == utf8.RuneError && size == 1) {
		if r != ' ' && unicode.IsGraphic(r) {
			return Char(r), nil
		}
	}
	return KeyNone, fmt.Errorf("%w: bad key %q", ErrInvalidEncoding, s)
}

// KeyMods is the modifier state accompanying a key
type KeyMods struct {
	Shift bool
	Ctrl  bool
	Alt   bool
	Logo  bool
}

// KeyTyped is a key press with its modifiers and auto-repeat flag.
// A printable key never carries shift, the case of the rune implies it.
type KeyTyped struct {
	key    Key
	mods   KeyMods
	repeat bool
}

// NewKeyTyped panics on an invalid key or on shift combined with a
// printable key
func NewKeyTyped(k Key, mods KeyMods, repeat bool) KeyTyped {
	if !k.Valid() {
		panic(fmt.Sprintf("input: invalid key %#v", k))
	}
	if k.IsPrintable() && mods.Shift {
		panic("input: shift modifier on printable key " + k.String())
	}
	return KeyTyped{key: k, mods: mods, repeat: repeat}
}

// Typed builds a KeyTyped from raw backend input, dropping the shift flag
// from printable keys
func Typed(k Key, mods KeyMods, repeat bool) KeyTyped {
	if k.IsPrintable() {
		mods.Shift = false
	}
	return NewKeyTyped(k, mods, repeat)
}

func (kt KeyTyped) Key() Key { return kt.key }

func (kt KeyTyped) Mods() KeyMods { return kt.mods }

func (kt KeyTyped) IsRepeat() bool { return kt.repeat }

// IsSome reports a non-None key, modifier-only events included
func (kt KeyTyped) IsSome() bool { return kt.key.IsSome() }

// IgnoreRepeat returns the event with the repeat flag cleared, for
// comparisons against stored bindings
func (kt KeyTyped) IgnoreRepeat() KeyTyped {
	kt.repeat = false
	return kt
}

// Matches parses code and compares ignoring the repeat flag.
// Unparseable codes never match.
func (kt KeyTyped) Matches(code string) bool {
	other, err := ParseKeyTyped(code)
	if err != nil {
		return false
	}
	return kt.IgnoreRepeat() == other
}

// String encodes the value with prefixes in fixed D- A- C- S- order.
// The repeat flag is not part of the encoding.
func (kt KeyTyped) String() string {
	var sb strings.Builder
	if kt.mods.Logo {
		sb.WriteString("D-")
	}
	if kt.mods.Alt {
		sb.WriteString("A-")
	}
	if kt.mods.Ctrl {
		sb.WriteString("C-")
	}
	if kt.mods.Shift && !kt.key.IsPrintable() {
		sb.WriteString("S-")
	}
	sb.WriteString(kt.key.String())
	return sb.String()
}

// ParseKeyTyped decodes canonical key text. Prefixes are accepted in any
// order, M- is an alias for A-.
func ParseKeyTyped(s string) (KeyTyped, error) {
	var kt KeyTyped
	rest := s
	for {
		// Prefix needs a key token after it: "C--" is ctrl+'-', "C-" is invalid
		if len(rest) > 2 && rest[1] == '-' {
			switch rest[0] {
			case 'D':
				kt.mods.Logo = true
				rest = rest[2:]
				continue
			case 'A', 'M':
				kt.mods.Alt = true
				rest = rest[2:]
				continue
			case 'C':
				kt.mods.Ctrl = true
				rest = rest[2:]
				continue
			case 'S':
				kt.mods.Shift = true
				rest = rest[2:]
				continue
			}
		}
		break
	}

	k, err := ParseKey(rest)
	if err != nil {
		return KeyTyped{}, fmt.Errorf("parse %q: %w", s, err)
	}
	if k.IsPrintable() && kt.mods.Shift {
		return KeyTyped{}, fmt.Errorf("%w: shift modifier on printable key in %q", ErrInvalidEncoding, s)
	}
	kt.key = k
	return kt, nil
}

// MarshalText implements encoding.TextMarshaler
func (kt KeyTyped) MarshalText() ([]byte, error) {
	return []byte(kt.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler
func (kt *KeyTyped) UnmarshalText(b []byte) error {
	v, err := ParseKeyTyped(string(b))
	if err != nil {
		return err
	}
	*kt = v
	return nil
}
