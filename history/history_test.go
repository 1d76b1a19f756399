// ABOUTME: Tests for history stack operations and debounce coalescing
// ABOUTME: Uses a fake clock so burst boundaries are deterministic

package history

import (
	"fmt"
	"testing"
	"time"

	"cutroom/timeline"
)

// fakeClock advances only when told to
type fakeClock struct {
	t time.Time
}

func newFakeClock() *fakeClock {
	return &fakeClock{t: time.Unix(1000, 0)}
}

func (c *fakeClock) now() time.Time {
	return c.t
}

func (c *fakeClock) advance(d time.Duration) {
	c.t = c.t.Add(d)
}

// snapAt builds a distinguishable snapshot: one clip ending at d seconds
func snapAt(d float64) *timeline.Timeline {
	tl := timeline.NewTimeline("p")
	tl.Tracks[0] = &timeline.Track{
		Index: 0,
		Name:  "Track 1",
		Type:  timeline.TrackVideo,
		Clips: []timeline.Clip{{ID: "c1", Start: 0, End: d, SourceDuration: 1000, TrackIndex: 0}},
	}

	return tl
}

func clipEnd(t *testing.T, tl *timeline.Timeline) float64 {
	t.Helper()

	track, ok := tl.Tracks[0]
	if !ok || len(track.Clips) == 0 {
		t.Fatal("snapshot has no clip")
	}

	return track.Clips[0].End
}

const debounce = 300 * time.Millisecond

func TestPushUndo_RestoresPrevious(t *testing.T) {
	clock := newFakeClock()
	m := NewManager(50, debounce, clock.now)

	m.Push(snapAt(1))
	clock.advance(time.Second)
	m.Push(snapAt(2))
	clock.advance(time.Second)

	restored := m.Undo(snapAt(2))

	if got := clipEnd(t, restored); got != 1 {
		t.Errorf("undo restored end=%.0f, want 1", got)
	}
}

func TestUndo_AtBottomIsNoOp(t *testing.T) {
	clock := newFakeClock()
	m := NewManager(50, debounce, clock.now)

	current := snapAt(7)

	// Empty stack
	if got := m.Undo(current); got != current {
		t.Error("undo on empty stack should return current unchanged")
	}

	// Single entry: cursor at bottom
	m.Push(snapAt(1))
	clock.advance(time.Second)

	if got := m.Undo(current); got != current {
		t.Error("undo at bottom should return current unchanged")
	}
}

func TestRedo_AtHeadIsNoOp(t *testing.T) {
	clock := newFakeClock()
	m := NewManager(50, debounce, clock.now)

	m.Push(snapAt(1))
	clock.advance(time.Second)

	current := snapAt(1)
	if got := m.Redo(current); got != current {
		t.Error("redo at head should return current unchanged")
	}
}

func TestUndoRedo_Cycle(t *testing.T) {
	clock := newFakeClock()
	m := NewManager(50, debounce, clock.now)

	for i := 1; i <= 3; i++ {
		m.Push(snapAt(float64(i)))
		clock.advance(time.Second)
	}

	s := m.Undo(snapAt(3))
	if got := clipEnd(t, s); got != 2 {
		t.Fatalf("first undo end=%.0f, want 2", got)
	}

	s = m.Undo(s)
	if got := clipEnd(t, s); got != 1 {
		t.Fatalf("second undo end=%.0f, want 1", got)
	}

	s = m.Redo(s)
	if got := clipEnd(t, s); got != 2 {
		t.Fatalf("redo end=%.0f, want 2", got)
	}
}

func TestPush_TruncatesRedoTail(t *testing.T) {
	clock := newFakeClock()
	m := NewManager(50, debounce, clock.now)

	for i := 1; i <= 3; i++ {
		m.Push(snapAt(float64(i)))
		clock.advance(time.Second)
	}

	s := m.Undo(snapAt(3))

	// New edit from the undone state discards the redo tail
	m.Push(snapAt(9))
	clock.advance(time.Second)

	if m.CanRedo() {
		t.Error("redo should be impossible after push")
	}

	if got := m.Redo(s); clipEnd(t, got) != clipEnd(t, s) {
		t.Error("redo after truncation should be a no-op")
	}
}

func TestMaxDepth_DropsOldest(t *testing.T) {
	clock := newFakeClock()
	m := NewManager(3, debounce, clock.now)

	for i := 1; i <= 5; i++ {
		m.Push(snapAt(float64(i)))
		clock.advance(time.Second)
	}

	if got := m.Len(); got != 3 {
		t.Fatalf("stack len = %d, want 3", got)
	}

	// Undo all the way: the oldest reachable state is entry 3
	s := m.Undo(snapAt(5))
	s = m.Undo(s)

	if got := clipEnd(t, s); got != 3 {
		t.Errorf("bottom of stack end=%.0f, want 3 (oldest dropped)", got)
	}

	// Further undo is a boundary no-op
	if got := m.Undo(s); clipEnd(t, got) != 3 {
		t.Error("undo past bottom should be a no-op")
	}
}

func TestDebounce_CoalescesBurst(t *testing.T) {
	clock := newFakeClock()
	m := NewManager(50, debounce, clock.now)

	// Pre-burst state
	m.Push(snapAt(1))
	clock.advance(time.Second)

	// A drag burst: many pushes within the window
	for i := 2; i <= 10; i++ {
		m.Push(snapAt(float64(i)))
		clock.advance(50 * time.Millisecond)
	}

	clock.advance(time.Second)
	m.Flush()

	// Only pre-burst and post-burst survive
	if got := m.Len(); got != 2 {
		t.Fatalf("stack len = %d, want 2 (burst coalesced)", got)
	}

	s := m.Undo(snapAt(10))
	if got := clipEnd(t, s); got != 1 {
		t.Errorf("undo after burst end=%.0f, want pre-burst 1", got)
	}
}

func TestDebounce_ExpiredBurstCommits(t *testing.T) {
	clock := newFakeClock()
	m := NewManager(50, debounce, clock.now)

	m.Push(snapAt(1))
	clock.advance(time.Second) // window expires

	m.Push(snapAt(2))
	clock.advance(time.Second)

	m.Flush()

	if got := m.Len(); got != 2 {
		t.Errorf("stack len = %d, want 2 (separate bursts)", got)
	}
}

func TestUndo_FlushesPendingBurst(t *testing.T) {
	clock := newFakeClock()
	m := NewManager(50, debounce, clock.now)

	m.Push(snapAt(1))
	clock.advance(time.Second)

	// Burst still pending when undo arrives
	m.Push(snapAt(2))

	s := m.Undo(snapAt(2))
	if got := clipEnd(t, s); got != 1 {
		t.Errorf("undo during burst end=%.0f, want 1 (burst flushed first)", got)
	}
}

func TestSequenceNumbers_Monotonic(t *testing.T) {
	clock := newFakeClock()
	m := NewManager(3, debounce, clock.now)

	for i := 1; i <= 5; i++ {
		m.Push(snapAt(float64(i)))
		clock.advance(time.Second)
	}

	m.Flush()

	var last uint64
	for i, e := range m.entries {
		if e.Seq <= last {
			t.Fatalf("entry %d seq %d not monotonic (prev %d)", i, e.Seq, last)
		}
		last = e.Seq
	}
}

func TestSnapshotsAreIsolated(t *testing.T) {
	clock := newFakeClock()
	m := NewManager(50, debounce, clock.now)

	src := snapAt(1)
	m.Push(src)
	clock.advance(time.Second)
	m.Flush()

	// Mutating the source after push must not corrupt history
	src.Tracks[0].Clips[0].End = 99

	m.Push(snapAt(2))
	clock.advance(time.Second)

	restored := m.Undo(snapAt(2))
	if got := clipEnd(t, restored); got != 1 {
		t.Errorf("history entry shares storage with caller: end=%.0f", got)
	}
}

// Example documents the host pattern: push the loaded state, flush, then
// push after every committed edit.
func Example() {
	m := NewManager(50, 300*time.Millisecond, time.Now)

	loaded := timeline.NewTimeline("demo")
	m.Push(loaded)
	m.Flush()

	fmt.Println(m.Len())
	// Output: 1
}
