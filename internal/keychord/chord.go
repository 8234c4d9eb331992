// Package keychord implements chord buffering with timeout and
// abandonment semantics, ported from the original sql-cli's
// KeyChordHandler (src/key_chord_handler.rs): keys accumulate into a
// buffer; an exact match emits CompleteChord, a proper-prefix match
// emits PartialChord, and a non-matching multi-key buffer is abandoned
// by re-emitting its first key as SingleKey (spec §4.8, "Design Notes:
// Key-chord abandonment").
package keychord

import (
	"strings"
	"time"
)

// ResultKind discriminates ChordResult.
type ResultKind int

const (
	ResultSingleKey ResultKind = iota
	ResultPartialChord
	ResultCompleteChord
	ResultCancelled
)

// ChordResult is what processing a key event produces.
type ChordResult struct {
	Kind        ResultKind
	Key         KeyEvent // valid when Kind == ResultSingleKey
	Description string   // valid when Kind == ResultPartialChord
	ActionName  string   // valid when Kind == ResultCompleteChord
}

// DefaultTimeout is the chord abandonment timeout (spec §4.8).
const DefaultTimeout = 1000 * time.Millisecond

// Handler buffers key events into chords and resolves them against a
// registered chord table.
type Handler struct {
	chordMap map[string]string // notation (e.g. "yy") -> action name

	current    []KeyEvent
	chordStart time.Time
	timeout    time.Duration

	keyHistory []string
	maxHistory int

	chordModeActive      bool
	chordModeDescription string

	now func() time.Time
}

// New builds a Handler with the default yank-family chords registered
// (spec §4.8): yy/yr -> Yank(Row), yc -> Yank(Column), ya -> Yank(All),
// yv -> Yank(Cell), yq -> Yank(Query).
func New(now func() time.Time) *Handler {
	if now == nil {
		now = time.Now
	}
	h := &Handler{
		chordMap:   make(map[string]string),
		timeout:    DefaultTimeout,
		maxHistory: 50,
		now:        now,
	}
	h.RegisterChord("yy", "yank_row")
	h.RegisterChord("yr", "yank_row")
	h.RegisterChord("yc", "yank_column")
	h.RegisterChord("ya", "yank_all")
	h.RegisterChord("yv", "yank_cell")
	h.RegisterChord("yq", "yank_query")
	return h
}

// RegisterChord binds a notation string (each rune a plain Char key,
// no modifiers) to an action name.
func (h *Handler) RegisterChord(notation, actionName string) {
	if notation == "" {
		return
	}
	h.chordMap[notation] = actionName
}

func (h *Handler) SetTimeout(d time.Duration) { h.timeout = d }

// notationOf renders a key buffer to a chord-map lookup key; only
// plain character chords are supported, matching the original's
// from_notation (which only builds Char/no-modifier sequences).
func notationOf(keys []KeyEvent) (string, bool) {
	var b strings.Builder
	for _, k := range keys {
		if k.Key != KeyChar || k.Mods != ModNone {
			return "", false
		}
		b.WriteRune(k.Char)
	}
	return b.String(), true
}

// ProcessKey appends key to the in-flight chord buffer and returns the
// resulting ChordResult (spec §4.8 steps 1-4).
func (h *Handler) ProcessKey(key KeyEvent) ChordResult {
	h.logKeyPress(key)

	if !h.chordStart.IsZero() && h.now().Sub(h.chordStart) > h.timeout {
		h.reset()
		return h.processKeyInternal(key)
	}

	if key.Key == KeyEsc && len(h.current) > 0 {
		h.reset()
		return ChordResult{Kind: ResultCancelled}
	}

	return h.processKeyInternal(key)
}

func (h *Handler) processKeyInternal(key KeyEvent) ChordResult {
	h.current = append(h.current, key)
	if len(h.current) == 1 {
		h.chordStart = h.now()
	}

	if notation, ok := notationOf(h.current); ok {
		if action, ok := h.chordMap[notation]; ok {
			h.reset()
			return ChordResult{Kind: ResultCompleteChord, ActionName: action}
		}
	}

	var possible []string
	hasPartial := false
	for chordNotation, action := range h.chordMap {
		if len(chordNotation) <= len(h.current) {
			continue
		}
		if !h.isPrefix(chordNotation) {
			continue
		}
		hasPartial = true
		nextKey := string(chordNotation[len(h.current)])
		possible = append(possible, nextKey+" -> "+action)
	}

	if hasPartial {
		description := "Waiting for: " + strings.Join(possible, ", ")
		if len(h.current) == 1 && h.current[0].Key == KeyChar && h.current[0].Char == 'y' {
			description = "Yank mode: y=row, c=column, a=all, ESC=cancel"
		}
		h.chordModeActive = true
		h.chordModeDescription = description
		return ChordResult{Kind: ResultPartialChord, Description: description}
	}

	var result ChordResult
	if len(h.current) == 1 {
		result = ChordResult{Kind: ResultSingleKey, Key: key}
	} else {
		result = ChordResult{Kind: ResultSingleKey, Key: h.current[0]}
	}
	h.reset()
	return result
}

// isPrefix reports whether h.current (as plain-char notation) is a
// proper prefix of chordNotation.
func (h *Handler) isPrefix(chordNotation string) bool {
	notation, ok := notationOf(h.current)
	if !ok {
		return false
	}
	return strings.HasPrefix(chordNotation, notation)
}

func (h *Handler) reset() {
	h.current = nil
	h.chordStart = time.Time{}
	h.chordModeActive = false
	h.chordModeDescription = ""
}

func (h *Handler) CancelChord() { h.reset() }

func (h *Handler) IsChordModeActive() bool       { return h.chordModeActive }
func (h *Handler) ChordModeDescription() string  { return h.chordModeDescription }

func (h *Handler) logKeyPress(key KeyEvent) {
	if len(h.keyHistory) >= h.maxHistory {
		h.keyHistory = h.keyHistory[1:]
	}
	h.keyHistory = append(h.keyHistory, key.String())
}

func (h *Handler) History() []string { return h.keyHistory }

func (h *Handler) ClearHistory() { h.keyHistory = nil }
