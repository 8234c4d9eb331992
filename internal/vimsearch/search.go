// Package vimsearch implements the Inactive/Typing/Navigating state
// machine for incremental forward search over a DataView (spec §4.7),
// ported from the original sql-cli's VimSearchManager: live crosshair
// repositioning while typing, confirm-to-navigate on Enter, n/N
// wraparound, and a sticky case-sensitivity flag.
package vimsearch

import (
	"strings"

	"sqlcli/internal/dataview"
	"sqlcli/internal/viewport"
)

// State enumerates the search state machine's three states.
type State int

const (
	Inactive State = iota
	Typing
	Navigating
)

// Match is a single search hit: a cell whose stringified value
// contains the pattern.
type Match struct {
	Row   int
	Col   int
	Value string
}

// Manager drives vim-style forward search over a DataView, repositioning
// a ViewportManager's crosshair as matches are found and navigated.
type Manager struct {
	state         State
	pattern       string
	matches       []Match
	cursor        int
	caseSensitive bool
	lastPattern   string
}

func New() *Manager {
	return &Manager{}
}

func (m *Manager) State() State       { return m.state }
func (m *Manager) Pattern() string    { return m.pattern }
func (m *Manager) IsActive() bool     { return m.state != Inactive }
func (m *Manager) IsTyping() bool     { return m.state == Typing }
func (m *Manager) IsNavigating() bool { return m.state == Navigating }

// MatchInfo returns (1-based cursor, total matches) while navigating.
func (m *Manager) MatchInfo() (int, int, bool) {
	if m.state != Navigating {
		return 0, 0, false
	}
	return m.cursor + 1, len(m.matches), true
}

func (m *Manager) SetCaseSensitive(cs bool) { m.caseSensitive = cs }
func (m *Manager) CaseSensitive() bool      { return m.caseSensitive }

// StartSearch enters Typing with an empty pattern (the `/` key, spec §4.7).
func (m *Manager) StartSearch() {
	m.state = Typing
	m.pattern = ""
}

// UpdatePattern is called on every keystroke while typing: it rescans
// the view, repositions the crosshair to the first match for live
// feedback, and returns that match (if any).
func (m *Manager) UpdatePattern(pattern string, view *dataview.DataView, vp *viewport.ViewportManager) (Match, bool) {
	m.state = Typing
	m.pattern = pattern
	if pattern == "" {
		return Match{}, false
	}
	matches := m.findMatches(pattern, view)
	if len(matches) == 0 {
		return Match{}, false
	}
	first := matches[0]
	m.navigateTo(first, vp)
	return first, true
}

// ConfirmSearch transitions Typing -> Navigating on Enter. An empty
// pattern or zero matches returns to Inactive.
func (m *Manager) ConfirmSearch(view *dataview.DataView, vp *viewport.ViewportManager) bool {
	if m.state != Typing {
		return false
	}
	if m.pattern == "" {
		m.CancelSearch()
		return false
	}
	matches := m.findMatches(m.pattern, view)
	if len(matches) == 0 {
		m.CancelSearch()
		return false
	}
	m.navigateTo(matches[0], vp)
	m.matches = matches
	m.cursor = 0
	m.state = Navigating
	m.lastPattern = m.pattern
	return true
}

// NextMatch advances the cursor modulo match count (`n`, spec §4.7).
func (m *Manager) NextMatch(vp *viewport.ViewportManager) (Match, bool) {
	if m.state != Navigating || len(m.matches) == 0 {
		return Match{}, false
	}
	m.cursor = (m.cursor + 1) % len(m.matches)
	match := m.matches[m.cursor]
	m.navigateTo(match, vp)
	return match, true
}

// PreviousMatch moves the cursor back modulo match count (`N`, spec §4.7).
func (m *Manager) PreviousMatch(vp *viewport.ViewportManager) (Match, bool) {
	if m.state != Navigating || len(m.matches) == 0 {
		return Match{}, false
	}
	m.cursor = (m.cursor - 1 + len(m.matches)) % len(m.matches)
	match := m.matches[m.cursor]
	m.navigateTo(match, vp)
	return match, true
}

// CancelSearch returns to Inactive, discarding the pattern.
func (m *Manager) CancelSearch() {
	m.state = Inactive
	m.pattern = ""
	m.matches = nil
	m.cursor = 0
}

// ExitNavigation returns to Inactive but preserves the pattern for
// ResumeLastSearch (Escape from Navigating, spec §4.7).
func (m *Manager) ExitNavigation() {
	if m.state == Navigating {
		m.lastPattern = m.pattern
	}
	m.state = Inactive
}

// ResumeLastSearch re-enters Navigating with the last confirmed pattern.
func (m *Manager) ResumeLastSearch(view *dataview.DataView, vp *viewport.ViewportManager) bool {
	if m.lastPattern == "" {
		return false
	}
	matches := m.findMatches(m.lastPattern, view)
	if len(matches) == 0 {
		return false
	}
	m.navigateTo(matches[0], vp)
	m.pattern = m.lastPattern
	m.matches = matches
	m.cursor = 0
	m.state = Navigating
	return true
}

func (m *Manager) findMatches(pattern string, view *dataview.DataView) []Match {
	needle := pattern
	if !m.caseSensitive {
		needle = strings.ToLower(pattern)
	}
	var matches []Match
	for row := 0; row < view.RowCount(); row++ {
		dr := view.GetRow(row)
		for col, v := range dr.Values {
			s := v.String()
			cmp := s
			if !m.caseSensitive {
				cmp = strings.ToLower(s)
			}
			if strings.Contains(cmp, needle) {
				matches = append(matches, Match{Row: row, Col: col, Value: s})
			}
		}
	}
	return matches
}

// navigateTo positions the ViewportManager's crosshair on a match,
// which itself scrolls the window to include it unless locked (spec
// §4.7, §4.6).
func (m *Manager) navigateTo(match Match, vp *viewport.ViewportManager) {
	if vp == nil {
		return
	}
	vp.SetCrosshair(match.Row, match.Col)
}
