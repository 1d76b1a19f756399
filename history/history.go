// ABOUTME: Undo/redo stack of timeline snapshots with burst debouncing
// ABOUTME: Coalesces rapid edits into single entries using a logical deadline against an injected clock

// Package history coalesces a stream of timeline snapshots into a
// bounded undo/redo stack. Edits arriving within the debounce window
// collapse into one entry holding the state at the end of the burst, so
// drag motion and rapid keystrokes don't flood history.
package history

import (
	"time"

	"cutroom/timeline"
)

// Entry is an immutable full snapshot of the timeline plus a monotonic
// sequence number
type Entry struct {
	Seq      uint64
	Snapshot *timeline.Timeline
}

// Manager owns the history stack. The clock is injected so debounce
// behavior is deterministic under test; production hosts pass time.Now.
//
// The stack is linear: pushing while the cursor is not at the head
// discards everything after the cursor.
type Manager struct {
	entries  []Entry
	cursor   int // index of the current entry; -1 when empty
	maxDepth int
	debounce time.Duration
	now      func() time.Time
	seq      uint64

	// Pending burst: the latest snapshot seen inside the debounce window
	// and the logical deadline after which it commits
	pending         *timeline.Timeline
	pendingDeadline time.Time
}

// NewManager creates a history manager with the given maximum depth and
// debounce window
func NewManager(maxDepth int, debounce time.Duration, now func() time.Time) *Manager {
	if now == nil {
		now = time.Now
	}

	return &Manager{
		cursor:   -1,
		maxDepth: maxDepth,
		debounce: debounce,
		now:      now,
	}
}

// Push records a committed edit. Within the debounce window the pending
// snapshot is replaced and the deadline extended; only the state at the
// end of the burst becomes an entry.
func (m *Manager) Push(snap *timeline.Timeline) {
	t := m.now()

	if m.pending != nil && t.Before(m.pendingDeadline) {
		m.pending = snap.Clone()
		m.pendingDeadline = t.Add(m.debounce)

		return
	}

	// A burst that already expired commits before the new one starts
	m.commitPending()

	m.pending = snap.Clone()
	m.pendingDeadline = t.Add(m.debounce)
}

// Flush commits any pending burst immediately. Hosts call this before
// undo/redo and on save so the user never lands mid-burst.
func (m *Manager) Flush() {
	m.commitPending()
}

// Undo moves the cursor back and returns the snapshot to restore.
// At the bottom of the stack it is a no-op returning current unchanged.
func (m *Manager) Undo(current *timeline.Timeline) *timeline.Timeline {
	m.commitPending()

	if m.cursor <= 0 {
		return current
	}

	m.cursor--

	return m.entries[m.cursor].Snapshot.Clone()
}

// Redo moves the cursor forward and returns the snapshot to restore.
// At the head it is a no-op returning current unchanged.
func (m *Manager) Redo(current *timeline.Timeline) *timeline.Timeline {
	m.commitPending()

	if m.cursor < 0 || m.cursor >= len(m.entries)-1 {
		return current
	}

	m.cursor++

	return m.entries[m.cursor].Snapshot.Clone()
}

// CanUndo reports whether an undo would change state
func (m *Manager) CanUndo() bool {
	if m.pending != nil && m.cursor >= 0 {
		return true
	}

	return m.cursor > 0
}

// CanRedo reports whether a redo would change state
func (m *Manager) CanRedo() bool {
	return m.pending == nil && m.cursor >= 0 && m.cursor < len(m.entries)-1
}

// Len returns the number of committed entries
func (m *Manager) Len() int {
	return len(m.entries)
}

// commitPending turns the pending burst into a stack entry, truncating
// any redo tail and enforcing the depth bound
func (m *Manager) commitPending() {
	if m.pending == nil {
		return
	}

	snap := m.pending
	m.pending = nil

	// Linear history: drop entries after the cursor
	m.entries = m.entries[:m.cursor+1]

	m.seq++
	m.entries = append(m.entries, Entry{Seq: m.seq, Snapshot: snap})

	// Oldest entries fall off when the stack exceeds the depth bound
	if len(m.entries) > m.maxDepth {
		m.entries = m.entries[len(m.entries)-m.maxDepth:]
	}

	m.cursor = len(m.entries) - 1
}
