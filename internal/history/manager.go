// Package history keeps the shared linear undo/redo log of board mutations.
package history

import (
	"slices"

	"taskboard/internal/board"
	"taskboard/internal/protocol"
)

// DefaultLimit is how many entries are kept before the oldest is evicted.
const DefaultLimit = 50

// Manager is a bounded list of entries with a cursor on the last applied
// one. Cursor -1 means nothing is left to undo. Like the store it is not
// safe for concurrent use.
type Manager struct {
	entries []Entry
	cursor  int
	limit   int
}

func NewManager(limit int) *Manager {
	if limit <= 0 {
		limit = DefaultLimit
	}
	return &Manager{cursor: -1, limit: limit}
}

// Record appends an applied mutation. Entries past the cursor are dropped
// first; when the log overflows the oldest entry goes.
func (m *Manager) Record(e Entry) {
	m.entries = append(m.entries[:m.cursor+1], e)
	m.cursor = len(m.entries) - 1
	if len(m.entries) > m.limit {
		m.entries = slices.Delete(m.entries, 0, 1)
		m.cursor--
	}
}

// Undo inverts the entry under the cursor and steps back. It reports false
// when there is nothing to undo.
func (m *Manager) Undo(s *board.Store) ([]protocol.Fact, bool) {
	if !m.CanUndo() {
		return nil, false
	}
	facts := m.entries[m.cursor].Undo(s)
	m.cursor--
	return facts, true
}

// Redo steps forward and reapplies the entry now under the cursor.
func (m *Manager) Redo(s *board.Store) ([]protocol.Fact, bool) {
	if !m.CanRedo() {
		return nil, false
	}
	m.cursor++
	return m.entries[m.cursor].Redo(s), true
}

func (m *Manager) CanUndo() bool { return m.cursor > -1 }

func (m *Manager) CanRedo() bool { return m.cursor < len(m.entries)-1 }

func (m *Manager) Cursor() int { return m.cursor }

func (m *Manager) Len() int { return len(m.entries) }

// State is the history position as broadcast to clients.
func (m *Manager) State() protocol.HistoryChanged {
	return protocol.HistoryChanged{
		CurrentIndex: m.cursor,
		CanUndo:      m.CanUndo(),
		CanRedo:      m.CanRedo(),
	}
}
