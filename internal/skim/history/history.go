// Package history implements the plain newline-delimited query history
// file described in §12 (`--history`/`--history-size`): accepted
// queries are appended on submit, and the TUI's ctrl+up/ctrl+down cycle
// through them whatever the query line currently holds.
package history

import (
	"fmt"
	"os"
	"strings"
)

// History holds one file-backed list of past queries plus the in-memory
// cursor used while cycling with up/down.
type History struct {
	path    string
	maxSize int
	entries []string // oldest first, as persisted

	cursor int    // index into entries the browsing cursor currently sits at; len(entries) means "not browsing"
	draft  string // the query text in place before the first Up, restored by Down past the newest entry
}

// Load reads path (creating no file if absent, matching the original's
// tolerant "history file doesn't exist yet" behavior) and returns a
// History capped at maxSize entries. maxSize <= 0 means unbounded.
func Load(path string, maxSize int) (*History, error) {
	h := &History{path: path, maxSize: maxSize}
	if path == "" {
		return h, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return h, nil
		}
		return nil, fmt.Errorf("read history file: %w", err)
	}
	text := string(data)
	if text == "" {
		return h, nil
	}
	h.entries = strings.Split(text, "\n")
	h.trim()
	h.cursor = len(h.entries)
	return h, nil
}

// Append records query as the newest history entry and persists the
// file, evicting the oldest entries beyond maxSize. Empty queries are
// not recorded, matching the original's behavior of only saving
// submitted, non-blank queries.
func (h *History) Append(query string) error {
	if query == "" {
		return nil
	}
	h.entries = append(h.entries, query)
	h.trim()
	h.resetCursor()
	if h.path == "" {
		return nil
	}
	if err := os.WriteFile(h.path, []byte(strings.Join(h.entries, "\n")), 0o644); err != nil {
		return fmt.Errorf("write history file: %w", err)
	}
	return nil
}

func (h *History) trim() {
	if h.maxSize > 0 && len(h.entries) > h.maxSize {
		h.entries = h.entries[len(h.entries)-h.maxSize:]
	}
}

// resetCursor points browsing back at "not currently browsing", so the
// next Up starts from the newest entry again.
func (h *History) resetCursor() {
	h.cursor = len(h.entries)
	h.draft = ""
}

// Up moves one entry further into the past, remembering current (the
// query line's live text) as the draft to restore once Down cycles back
// past the newest entry. Returns the entry to display and ok=false if
// there is no older entry (cursor already at the oldest).
func (h *History) Up(current string) (string, bool) {
	if h.cursor == len(h.entries) {
		h.draft = current
	}
	if h.cursor == 0 {
		return "", false
	}
	h.cursor--
	return h.entries[h.cursor], true
}

// Down moves one entry back toward the present. Past the newest entry it
// returns the draft saved by the Up that started this browsing session.
func (h *History) Down() (string, bool) {
	if h.cursor >= len(h.entries) {
		return "", false
	}
	h.cursor++
	if h.cursor == len(h.entries) {
		return h.draft, true
	}
	return h.entries[h.cursor], true
}

// Reset abandons any in-progress browsing without touching the on-disk
// file, used when the query line changes by direct edit rather than
// Up/Down (the original's event.rs draws this same distinction).
func (h *History) Reset() {
	h.resetCursor()
}

// Len reports how many entries are currently loaded.
func (h *History) Len() int { return len(h.entries) }
