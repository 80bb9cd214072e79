// Package session holds the state of one interactive calculator session.
package session

import (
	"strconv"
	"sync"

	"github.com/google/uuid"

	"github.com/zephyrtronium/calc"
)

// Entry is one successfully evaluated expression.
type Entry struct {
	Expr   string
	Result calc.Value
}

// String formats the entry as "expr = result".
func (e Entry) String() string {
	return e.Expr + " = " + e.Result.String()
}

// History is the ordered log of a session's evaluations. It is safe for
// concurrent use. History is never persisted.
type History struct {
	id uuid.UUID

	mu      sync.Mutex
	entries []Entry
}

// New creates an empty history with a fresh session ID.
func New() *History {
	return &History{id: uuid.New()}
}

// ID returns the session ID. It is used to correlate log records.
func (h *History) ID() uuid.UUID {
	return h.id
}

// Append adds an entry to the end of the history.
func (h *History) Append(expr string, result calc.Value) {
	h.mu.Lock()
	h.entries = append(h.entries, Entry{Expr: expr, Result: result})
	h.mu.Unlock()
}

// Entries returns a copy of the history in insertion order.
func (h *History) Entries() []Entry {
	h.mu.Lock()
	defer h.mu.Unlock()
	if len(h.entries) == 0 {
		return nil
	}
	r := make([]Entry, len(h.entries))
	copy(r, h.entries)
	return r
}

// At returns the i'th entry counting back from the most recent, which is 0.
func (h *History) At(i int) (Entry, bool) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if i < 0 || i >= len(h.entries) {
		return Entry{}, false
	}
	return h.entries[len(h.entries)-1-i], true
}

// Len returns the number of entries.
func (h *History) Len() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.entries)
}

// Clear removes all entries. The session ID is unchanged.
func (h *History) Clear() {
	h.mu.Lock()
	h.entries = nil
	h.mu.Unlock()
}

// Lines formats the history as numbered lines, "N: expr = result", starting
// from 1. An empty history has no lines.
func (h *History) Lines() []string {
	entries := h.Entries()
	if len(entries) == 0 {
		return nil
	}
	r := make([]string, len(entries))
	for i, e := range entries {
		r[i] = strconv.Itoa(i+1) + ": " + e.String()
	}
	return r
}
