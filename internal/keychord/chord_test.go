package keychord

import (
	"testing"
	"time"
)

func fixedClock(t *time.Time) func() time.Time {
	return func() time.Time { return *t }
}

func TestSingleKeyPassthrough(t *testing.T) {
	now := time.Now()
	h := New(fixedClock(&now))
	result := h.ProcessKey(Char('x'))
	if result.Kind != ResultSingleKey {
		t.Fatalf("expected SingleKey, got %v", result.Kind)
	}
}

func TestChordCompletion(t *testing.T) {
	now := time.Now()
	h := New(fixedClock(&now))

	r1 := h.ProcessKey(Char('y'))
	if r1.Kind != ResultPartialChord {
		t.Fatalf("expected PartialChord after first y, got %v", r1.Kind)
	}

	r2 := h.ProcessKey(Char('y'))
	if r2.Kind != ResultCompleteChord || r2.ActionName != "yank_row" {
		t.Fatalf("expected CompleteChord yank_row, got %v %q", r2.Kind, r2.ActionName)
	}
}

func TestChordAbandonmentReemitsFirstKey(t *testing.T) {
	now := time.Now()
	h := New(fixedClock(&now))

	h.ProcessKey(Char('y')) // partial
	result := h.ProcessKey(Char('z'))
	if result.Kind != ResultSingleKey {
		t.Fatalf("expected SingleKey on abandonment, got %v", result.Kind)
	}
	if result.Key.Char != 'y' {
		t.Fatalf("expected abandoned chord to re-emit first key 'y', got %q", result.Key.Char)
	}
}

func TestChordTimeoutAbandonsAndStartsNewSequence(t *testing.T) {
	now := time.Now()
	h := New(fixedClock(&now))

	h.ProcessKey(Char('y')) // partial, starts timer
	now = now.Add(DefaultTimeout + time.Millisecond)
	result := h.ProcessKey(Char('y'))
	// Timed out: the old buffer is abandoned and this 'y' starts a fresh
	// chord, which is itself a partial match (not an immediate complete).
	if result.Kind != ResultPartialChord {
		t.Fatalf("expected fresh PartialChord after timeout, got %v", result.Kind)
	}
}

func TestEscapeCancelsChord(t *testing.T) {
	now := time.Now()
	h := New(fixedClock(&now))
	h.ProcessKey(Char('y'))
	result := h.ProcessKey(KeyEvent{Key: KeyEsc})
	if result.Kind != ResultCancelled {
		t.Fatalf("expected Cancelled, got %v", result.Kind)
	}
}

func TestMultipleAlternativeChordsForSameAction(t *testing.T) {
	now := time.Now()
	h := New(fixedClock(&now))
	h.ProcessKey(Char('y'))
	result := h.ProcessKey(Char('r'))
	if result.Kind != ResultCompleteChord || result.ActionName != "yank_row" {
		t.Fatalf("expected yr to also complete yank_row, got %v %q", result.Kind, result.ActionName)
	}
}
