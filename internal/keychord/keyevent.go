package keychord

// Key is a key code, independent of any particular terminal library —
// handlers and tests operate on this value, not raw terminal escapes.
type Key int

const (
	KeyNone Key = iota
	KeyChar
	KeyEnter
	KeyEsc
	KeyBackspace
	KeyTab
	KeyDelete
	KeyInsert
	KeyF1
	KeyLeft
	KeyRight
	KeyUp
	KeyDown
	KeyHome
	KeyEnd
	KeyPageUp
	KeyPageDown
)

// Modifiers is a bitmask of held modifier keys.
type Modifiers int

const (
	ModNone    Modifiers = 0
	ModControl Modifiers = 1 << iota
	ModAlt
	ModShift
)

// KeyEvent is one terminal key press (spec §4.8).
type KeyEvent struct {
	Key  Key
	Char rune // valid when Key == KeyChar
	Mods Modifiers
}

func Char(c rune) KeyEvent { return KeyEvent{Key: KeyChar, Char: c} }

func (k KeyEvent) Equal(other KeyEvent) bool {
	return k.Key == other.Key && k.Char == other.Char && k.Mods == other.Mods
}

// String renders a key event for chord-prefix hints and the debug log
// (spec §4.8, §C.3), e.g. "Ctrl+C", "y", "Enter".
func (k KeyEvent) String() string {
	var prefix string
	if k.Mods&ModControl != 0 {
		prefix += "Ctrl+"
	}
	if k.Mods&ModAlt != 0 {
		prefix += "Alt+"
	}
	if k.Mods&ModShift != 0 {
		prefix += "Shift+"
	}
	switch k.Key {
	case KeyChar:
		return prefix + string(k.Char)
	case KeyEnter:
		return prefix + "Enter"
	case KeyEsc:
		return prefix + "Esc"
	case KeyBackspace:
		return prefix + "Backspace"
	case KeyTab:
		return prefix + "Tab"
	case KeyDelete:
		return prefix + "Del"
	case KeyInsert:
		return prefix + "Ins"
	case KeyF1:
		return prefix + "F1"
	case KeyLeft:
		return prefix + "Left"
	case KeyRight:
		return prefix + "Right"
	case KeyUp:
		return prefix + "Up"
	case KeyDown:
		return prefix + "Down"
	case KeyHome:
		return prefix + "Home"
	case KeyEnd:
		return prefix + "End"
	case KeyPageUp:
		return prefix + "PgUp"
	case KeyPageDown:
		return prefix + "PgDn"
	default:
		return prefix + "?"
	}
}
