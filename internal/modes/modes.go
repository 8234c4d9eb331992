// Package modes implements the mode state machine and the shadow-state
// transition observer (spec §4.9; supplemented feature C.2, ported
// from the original's ShadowStateManager in ui/shadow_state.rs).
package modes

import (
	"fmt"
	"strings"
	"time"

	"sqlcli/internal/action"
)

// Machine tracks the single active mode (spec §4.9: "Command (SQL
// editing) <-> Results (DataView navigation). From Results the user
// may enter Search, Filter, ...").
type Machine struct {
	current action.Mode
	shadow  *ShadowState
}

// New starts in Command mode, matching the original's default state.
func New(now func() time.Time) *Machine {
	return &Machine{
		current: action.ModeCommand,
		shadow:  NewShadowState(now),
	}
}

func (m *Machine) Current() action.Mode { return m.current }

// Transition moves to mode, recording the transition in the shadow
// log if it actually changed (spec §4.9: "logs every transition with
// trigger, previous mode, new mode").
func (m *Machine) Transition(mode action.Mode, trigger string) {
	m.shadow.Observe(m.current, mode, trigger)
	m.current = mode
}

// ExitToResults implements "each non-Results mode returns to Results
// on Escape or commit" (spec §4.9).
func (m *Machine) ExitToResults(trigger string) {
	if m.current != action.ModeResults {
		m.Transition(action.ModeResults, trigger)
	}
}

func (m *Machine) Shadow() *ShadowState { return m.shadow }

// transition is one recorded mode change.
type transition struct {
	timestamp time.Time
	from, to  action.Mode
	trigger   string
}

// ShadowState observes mode transitions without controlling them,
// logging trigger/previous/new mode and the expected side effects for
// the last maxHistory transitions (ported from ui/shadow_state.rs).
type ShadowState struct {
	now        func() time.Time
	history    []transition
	maxHistory int
	count      int
}

// NewShadowState builds an observer; now defaults to time.Now when nil.
func NewShadowState(now func() time.Time) *ShadowState {
	if now == nil {
		now = time.Now
	}
	return &ShadowState{now: now, maxHistory: 100}
}

// Observe records a transition from -> to if they differ; redundant
// transitions to the same mode are dropped silently.
func (s *ShadowState) Observe(from, to action.Mode, trigger string) {
	if from == to {
		return
	}
	s.count++
	s.history = append(s.history, transition{
		timestamp: s.now(),
		from:      from,
		to:        to,
		trigger:   trigger,
	})
	if len(s.history) > s.maxHistory {
		s.history = s.history[1:]
	}
}

func (s *ShadowState) TransitionCount() int { return s.count }

// ExpectedSideEffects names the cleanup a transition should trigger,
// mirroring log_expected_side_effects's known pairs; unrecognized
// pairs return "".
func ExpectedSideEffects(from, to action.Mode) string {
	switch {
	case from == action.ModeCommand && to == action.ModeResults:
		return "clear searches, reset viewport, enable nav keys"
	case from == action.ModeResults && isSearchLike(to):
		return "clear other searches, set up search UI"
	case isSearchLike(from) && to == action.ModeResults:
		return "clear search UI, restore nav keys"
	default:
		return ""
	}
}

func isSearchLike(m action.Mode) bool {
	switch m {
	case action.ModeSearch, action.ModeFilter, action.ModeFuzzyFilter, action.ModeColumnSearch:
		return true
	default:
		return false
	}
}

// DebugInfo renders the last 5 transitions for Debug mode (spec §4.9,
// supplemented feature C.2).
func (s *ShadowState) DebugInfo() string {
	var b strings.Builder
	fmt.Fprintf(&b, "Shadow state (transitions: %d)\n", s.count)
	if len(s.history) == 0 {
		return b.String()
	}
	b.WriteString("\nRecent transitions:\n")
	start := len(s.history) - 5
	if start < 0 {
		start = 0
	}
	for i := len(s.history) - 1; i >= start; i-- {
		t := s.history[i]
		effects := ExpectedSideEffects(t.from, t.to)
		if effects != "" {
			fmt.Fprintf(&b, "  %s -> %s (trigger: %s; expected: %s)\n", t.from, t.to, t.trigger, effects)
		} else {
			fmt.Fprintf(&b, "  %s -> %s (trigger: %s)\n", t.from, t.to, t.trigger)
		}
	}
	return b.String()
}

// LastTransitionTrigger returns the trigger string of the most recent
// transition, or "" if none occurred.
func (s *ShadowState) LastTransitionTrigger() string {
	if len(s.history) == 0 {
		return ""
	}
	return s.history[len(s.history)-1].trigger
}
