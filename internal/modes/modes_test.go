package modes

import (
	"strings"
	"testing"
	"time"

	"sqlcli/internal/action"
)

func fixedClock(t *time.Time) func() time.Time {
	return func() time.Time { return *t }
}

func TestMachineStartsInCommandMode(t *testing.T) {
	m := New(nil)
	if m.Current() != action.ModeCommand {
		t.Fatalf("expected initial mode Command, got %v", m.Current())
	}
}

func TestTransitionRecordsShadowHistory(t *testing.T) {
	now := time.Now()
	m := New(fixedClock(&now))
	m.Transition(action.ModeResults, "tab")
	if m.Shadow().TransitionCount() != 1 {
		t.Fatalf("expected 1 transition, got %d", m.Shadow().TransitionCount())
	}
	if m.Shadow().LastTransitionTrigger() != "tab" {
		t.Fatalf("expected trigger %q, got %q", "tab", m.Shadow().LastTransitionTrigger())
	}
}

func TestRedundantTransitionIsNotRecorded(t *testing.T) {
	now := time.Now()
	m := New(fixedClock(&now))
	m.Transition(action.ModeCommand, "noop")
	if m.Shadow().TransitionCount() != 0 {
		t.Fatalf("expected redundant transition to the same mode to be dropped")
	}
}

func TestExitToResultsFromSearch(t *testing.T) {
	now := time.Now()
	m := New(fixedClock(&now))
	m.Transition(action.ModeResults, "tab")
	m.Transition(action.ModeSearch, "/")
	m.ExitToResults("esc")
	if m.Current() != action.ModeResults {
		t.Fatalf("expected mode Results after ExitToResults, got %v", m.Current())
	}
}

func TestExpectedSideEffectsKnownPairs(t *testing.T) {
	if got := ExpectedSideEffects(action.ModeCommand, action.ModeResults); got == "" {
		t.Fatalf("expected a known side effect for Command -> Results")
	}
	if got := ExpectedSideEffects(action.ModeResults, action.ModeSearch); got == "" {
		t.Fatalf("expected a known side effect for Results -> Search")
	}
	if got := ExpectedSideEffects(action.ModeHelp, action.ModeDebug); got != "" {
		t.Fatalf("expected no known side effect for an unrelated pair, got %q", got)
	}
}

func TestDebugInfoCapsAtFiveRecentTransitions(t *testing.T) {
	now := time.Now()
	m := New(fixedClock(&now))
	modesSeq := []action.Mode{
		action.ModeResults, action.ModeSearch, action.ModeResults,
		action.ModeFilter, action.ModeResults, action.ModeHelp, action.ModeResults,
	}
	for i, mode := range modesSeq {
		m.Transition(mode, string(rune('a'+i)))
	}
	info := m.Shadow().DebugInfo()
	if info == "" {
		t.Fatalf("expected non-empty debug info")
	}
	if got := strings.Count(info, " -> "); got != 5 {
		t.Fatalf("expected 5 of the 7 transitions listed, got %d:\n%s", got, info)
	}
}

func TestShadowHistoryBoundedAt100(t *testing.T) {
	now := time.Now()
	s := NewShadowState(fixedClock(&now))
	modeA, modeB := action.ModeResults, action.ModeCommand
	cur := modeA
	for i := 0; i < 250; i++ {
		next := modeB
		if cur == modeB {
			next = modeA
		}
		s.Observe(cur, next, "x")
		cur = next
	}
	if s.TransitionCount() != 250 {
		t.Fatalf("expected count to track all transitions, got %d", s.TransitionCount())
	}
	if len(s.history) != 100 {
		t.Fatalf("expected history capped at 100, got %d", len(s.history))
	}
}
