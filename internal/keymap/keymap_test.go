package keymap

import (
	"testing"

	"sqlcli/internal/action"
	"sqlcli/internal/keychord"
)

func TestBasicNavigationMapping(t *testing.T) {
	m := New()
	act, ok := m.MapKey(keychord.Char('j'), action.ModeResults)
	if !ok {
		t.Fatalf("expected j to map to an action in Results mode")
	}
	if act.Kind != action.KindNavigate || act.Direction != action.Down || act.Count != 1 {
		t.Fatalf("expected Navigate(Down, 1), got %+v", act)
	}
}

func TestVimCountMotion(t *testing.T) {
	m := New()

	if _, ok := m.MapKey(keychord.Char('5'), action.ModeResults); ok {
		t.Fatalf("digit key should not produce an action by itself")
	}
	if !m.IsCollectingCount() {
		t.Fatalf("expected count buffer to be collecting after '5'")
	}

	act, ok := m.MapKey(keychord.Char('j'), action.ModeResults)
	if !ok {
		t.Fatalf("expected j to resolve to an action")
	}
	if act.Kind != action.KindNavigate || act.Direction != action.Down || act.Count != 5 {
		t.Fatalf("expected Navigate(Down, 5), got %+v", act)
	}
	if m.IsCollectingCount() {
		t.Fatalf("count buffer should be cleared after resolving")
	}
}

// TestCountThenNonMotionClearsBuffer is spec §8 scenario 5: keystrokes
// 5,x where x is not a motion clear the count buffer and the raw key
// passes through unmapped (no action produced, since 'x' has no binding).
func TestCountThenNonMotionClearsBuffer(t *testing.T) {
	m := New()
	m.MapKey(keychord.Char('5'), action.ModeResults)

	act, ok := m.MapKey(keychord.Char('x'), action.ModeResults)
	if ok {
		t.Fatalf("expected unmapped key 'x' to produce no action, got %+v", act)
	}
	if m.IsCollectingCount() {
		t.Fatalf("count buffer should be cleared after the unmapped key")
	}
}

func TestGlobalMappingOverridesMode(t *testing.T) {
	m := New()
	act, ok := m.MapKey(keychord.KeyEvent{Key: keychord.KeyF1}, action.ModeResults)
	if !ok || act.Kind != action.KindShowHelp {
		t.Fatalf("expected F1 to map to ShowHelp globally, got %+v ok=%v", act, ok)
	}

	act, ok = m.MapKey(keychord.KeyEvent{Key: keychord.KeyF1}, action.ModeCommand)
	if !ok || act.Kind != action.KindShowHelp {
		t.Fatalf("expected F1 to map to ShowHelp in every mode, got %+v ok=%v", act, ok)
	}
}

func TestCommandModeEnterExecutesQuery(t *testing.T) {
	m := New()
	act, ok := m.MapKey(keychord.KeyEvent{Key: keychord.KeyEnter}, action.ModeCommand)
	if !ok || act.Kind != action.KindExecuteQuery {
		t.Fatalf("expected Enter to map to ExecuteQuery in Command mode, got %+v ok=%v", act, ok)
	}
}

func TestTabSwitchesBetweenResultsAndCommand(t *testing.T) {
	m := New()
	act, ok := m.MapKey(keychord.KeyEvent{Key: keychord.KeyTab}, action.ModeResults)
	if !ok || act.Kind != action.KindSwitchMode || act.Mode != action.ModeCommand {
		t.Fatalf("expected Tab in Results to SwitchMode(Command), got %+v ok=%v", act, ok)
	}

	act, ok = m.MapKey(keychord.KeyEvent{Key: keychord.KeyTab}, action.ModeCommand)
	if !ok || act.Kind != action.KindSwitchMode || act.Mode != action.ModeResults {
		t.Fatalf("expected Tab in Command to SwitchMode(Results), got %+v ok=%v", act, ok)
	}
}

func TestClearPendingResetsCountBuffer(t *testing.T) {
	m := New()
	m.MapKey(keychord.Char('4'), action.ModeResults)
	m.MapKey(keychord.Char('2'), action.ModeResults)
	if m.CountBuffer() != "42" {
		t.Fatalf("expected count buffer %q, got %q", "42", m.CountBuffer())
	}
	m.ClearPending()
	if m.IsCollectingCount() {
		t.Fatalf("expected ClearPending to reset the count buffer")
	}
}
