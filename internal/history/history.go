// Package history persists executed queries to a YAML file under the
// user's config directory (SPEC_FULL.md §A, §C.4), tracking how many
// times each query text has been re-run, grounded in the original's
// history_input_handler.rs (Ctrl+R cycling) and the teacher's
// settings.SettingsService YAML read/write pattern.
package history

import (
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	"gopkg.in/yaml.v3"
)

// Entry is one persisted query (spec §6, "Persisted state": "a
// history file (list of previous queries with timestamps, success
// flag, and execution counter)"). ID is stable across re-runs of the
// same query text, giving callers (e.g. a future sync surface) an
// identifier that survives ExecutionCount bumps.
type Entry struct {
	ID             string    `yaml:"id"`
	Query          string    `yaml:"query"`
	LastRun        time.Time `yaml:"last_run"`
	Success        bool      `yaml:"success"`
	ExecutionCount int       `yaml:"execution_count"`
}

// Store holds the in-memory history plus an optional on-disk path and
// a search cursor for Ctrl+R-style cycling.
type Store struct {
	path    string
	entries []Entry
	maxSize int

	searchCursor  int
	searchPattern string

	now func() time.Time
}

const defaultMaxEntries = 1000

// Load reads path (if it exists) into a new Store; a missing file
// yields an empty store, matching the original's "create an empty
// history file if it doesn't exist" behavior.
func Load(path string, now func() time.Time) (*Store, error) {
	if now == nil {
		now = time.Now
	}
	s := &Store{path: path, maxSize: defaultMaxEntries, now: now}
	b, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return s, nil
		}
		return nil, err
	}
	if err := yaml.Unmarshal(b, &s.entries); err != nil {
		return nil, err
	}
	return s, nil
}

// Save writes the store to its configured path, creating parent
// directories as needed.
func (s *Store) Save() error {
	if s.path == "" {
		return nil
	}
	b, err := yaml.Marshal(s.entries)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(s.path), 0o755); err != nil {
		return err
	}
	return os.WriteFile(s.path, b, 0o644)
}

// Record appends a new entry, or — if query text matches any existing
// entry — bumps that entry's execution counter, last-run time and
// success flag in place, without moving it (spec
// C.4: "a counter of how many times each query text was re-run").
func (s *Store) Record(query string, success bool) {
	for i := range s.entries {
		if s.entries[i].Query == query {
			s.entries[i].ExecutionCount++
			s.entries[i].LastRun = s.now()
			s.entries[i].Success = success
			return
		}
	}
	s.entries = append(s.entries, Entry{
		ID:             uuid.NewString(),
		Query:          query,
		LastRun:        s.now(),
		Success:        success,
		ExecutionCount: 1,
	})
	if len(s.entries) > s.maxSize {
		s.entries = s.entries[len(s.entries)-s.maxSize:]
	}
}

// All returns entries oldest-first.
func (s *Store) All() []Entry { return s.entries }

// Recent returns up to n entries newest-first.
func (s *Store) Recent(n int) []Entry {
	out := make([]Entry, 0, n)
	for i := len(s.entries) - 1; i >= 0 && len(out) < n; i-- {
		out = append(out, s.entries[i])
	}
	return out
}

// StartSearch begins a Ctrl+R-style incremental search (spec C.4;
// ported from the original's history_search_* operations).
func (s *Store) StartSearch() {
	s.searchPattern = ""
	s.searchCursor = len(s.entries)
}

func (s *Store) UpdateSearchPattern(pattern string) {
	s.searchPattern = pattern
	s.searchCursor = len(s.entries)
}

// SearchNext cycles to the next (older) match for the search pattern,
// wrapping to the newest when scan reaches the beginning.
func (s *Store) SearchNext() (Entry, bool) {
	return s.searchStep(-1)
}

// SearchPrevious cycles to the previous (newer) match.
func (s *Store) SearchPrevious() (Entry, bool) {
	return s.searchStep(1)
}

func (s *Store) searchStep(dir int) (Entry, bool) {
	if len(s.entries) == 0 {
		return Entry{}, false
	}
	cursor := s.searchCursor
	for i := 0; i < len(s.entries); i++ {
		cursor += dir
		if cursor < 0 {
			cursor = len(s.entries) - 1
		} else if cursor >= len(s.entries) {
			cursor = 0
		}
		if s.searchPattern == "" || strings.Contains(s.entries[cursor].Query, s.searchPattern) {
			s.searchCursor = cursor
			return s.entries[cursor], true
		}
	}
	return Entry{}, false
}
