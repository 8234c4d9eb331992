// Package keymap implements KeyMapper: a two-tier (global + per-mode)
// key-to-Action table with vi-style numeric-prefix accumulation,
// ported from the original sql-cli's key_mapper.rs (spec §4.8).
package keymap

import (
	"strconv"

	"sqlcli/internal/action"
	"sqlcli/internal/keychord"
)

type keyCombo struct {
	Key  keychord.Key
	Char rune
	Mods keychord.Modifiers
}

func comboOf(k keychord.KeyEvent) keyCombo {
	return keyCombo{Key: k.Key, Char: k.Char, Mods: k.Mods}
}

// Mapper holds the global and per-mode key tables plus a vi-style
// count buffer for motion actions.
type Mapper struct {
	global map[keyCombo]action.Action
	modes  map[action.Mode]map[keyCombo]action.Action

	countBuffer string
}

// New builds a Mapper with the default global and Results/Command
// mode bindings. The global table maps F1 to ShowHelp and Ctrl-C to
// ExitCurrentMode; there is no ForceQuit action.
func New() *Mapper {
	m := &Mapper{
		global: make(map[keyCombo]action.Action),
		modes:  make(map[action.Mode]map[keyCombo]action.Action),
	}
	m.initGlobal()
	m.initResults()
	m.initCommand()
	return m
}

func (m *Mapper) initGlobal() {
	m.global[keyCombo{Key: keychord.KeyF1}] = action.Action{Kind: action.KindShowHelp}
	m.global[keyCombo{Key: keychord.KeyChar, Char: 'c', Mods: keychord.ModControl}] = action.Action{Kind: action.KindExitCurrentMode}
}

func (m *Mapper) initResults() {
	mappings := make(map[keyCombo]action.Action)
	mappings[keyCombo{Key: keychord.KeyUp}] = action.Navigate(action.Up, 1)
	mappings[keyCombo{Key: keychord.KeyDown}] = action.Navigate(action.Down, 1)
	mappings[keyCombo{Key: keychord.KeyLeft}] = action.Navigate(action.Left, 1)
	mappings[keyCombo{Key: keychord.KeyRight}] = action.Navigate(action.Right, 1)
	mappings[keyCombo{Key: keychord.KeyPageUp}] = action.Navigate(action.PageUp, 1)
	mappings[keyCombo{Key: keychord.KeyPageDown}] = action.Navigate(action.PageDown, 1)
	mappings[keyCombo{Key: keychord.KeyHome}] = action.Navigate(action.Top, 1)
	mappings[keyCombo{Key: keychord.KeyEnd}] = action.Navigate(action.Bottom, 1)

	mappings[keyCombo{Key: keychord.KeyChar, Char: 'h'}] = action.Navigate(action.Left, 1)
	mappings[keyCombo{Key: keychord.KeyChar, Char: 'j'}] = action.Navigate(action.Down, 1)
	mappings[keyCombo{Key: keychord.KeyChar, Char: 'k'}] = action.Navigate(action.Up, 1)
	mappings[keyCombo{Key: keychord.KeyChar, Char: 'l'}] = action.Navigate(action.Right, 1)

	mappings[keyCombo{Key: keychord.KeyEsc}] = action.Action{Kind: action.KindExitCurrentMode}
	mappings[keyCombo{Key: keychord.KeyTab}] = action.SwitchMode(action.ModeCommand)
	mappings[keyCombo{Key: keychord.KeyChar, Char: 'p'}] = action.Action{Kind: action.KindToggleColumnPin}
	mappings[keyCombo{Key: keychord.KeyChar, Char: 's'}] = action.Action{Kind: action.KindSort}
	mappings[keyCombo{Key: keychord.KeyChar, Char: '/'}] = action.SwitchMode(action.ModeSearch)
	mappings[keyCombo{Key: keychord.KeyChar, Char: 'F'}] = action.SwitchMode(action.ModeFilter)

	m.modes[action.ModeResults] = mappings
}

func (m *Mapper) initCommand() {
	mappings := make(map[keyCombo]action.Action)
	mappings[keyCombo{Key: keychord.KeyEnter}] = action.ExecuteQuery("")
	mappings[keyCombo{Key: keychord.KeyTab}] = action.SwitchMode(action.ModeResults)
	m.modes[action.ModeCommand] = mappings
}

// MapKey maps a key event to an Action given the active mode, handling
// vi-style numeric-prefix accumulation in Results mode (spec §4.8).
func (m *Mapper) MapKey(key keychord.KeyEvent, mode action.Mode) (action.Action, bool) {
	if mode == action.ModeResults && key.Key == keychord.KeyChar && key.Char >= '0' && key.Char <= '9' {
		if !(key.Char == '0' && m.countBuffer == "") { // leading zero alone isn't a count
			m.countBuffer += string(key.Char)
			return action.Action{}, false
		}
	}

	act, ok := m.mapKeyInternal(key, mode)

	if m.countBuffer != "" {
		if ok {
			if count, err := strconv.Atoi(m.countBuffer); err == nil {
				act = applyCount(act, count)
			}
			m.countBuffer = ""
			return act, true
		}
		m.countBuffer = ""
	}
	return act, ok
}

func (m *Mapper) mapKeyInternal(key keychord.KeyEvent, mode action.Mode) (action.Action, bool) {
	combo := comboOf(key)
	if act, ok := m.global[combo]; ok {
		return act, true
	}
	if mapping, ok := m.modes[mode]; ok {
		if act, ok := mapping[combo]; ok {
			return act, true
		}
	}
	return action.Action{}, false
}

// applyCount multiplies a Navigate action's count by the vi-style
// prefix; other actions are returned unchanged (the count buffer is
// still cleared — spec §4.8: "A non-motion action clears the count buffer").
func applyCount(act action.Action, count int) action.Action {
	if act.Kind == action.KindNavigate {
		act.Count = count
	}
	return act
}

func (m *Mapper) ClearPending()        { m.countBuffer = "" }
func (m *Mapper) IsCollectingCount() bool { return m.countBuffer != "" }
func (m *Mapper) CountBuffer() string   { return m.countBuffer }
