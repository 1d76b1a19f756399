// ABOUTME: Tests for Model mutators and invariant enforcement
// ABOUTME: Covers sparse track creation, patch merging, overlap and bounds rejection

package timeline

import (
	"errors"
	"testing"
)

const testMinDur = 0.1

func testClip(id string, trackIndex int, start, end, position float64) Clip {
	return Clip{
		ID:             id,
		AssetID:        "asset-" + id,
		Start:          start,
		End:            end,
		SourceDuration: 100,
		Position:       position,
		TrackIndex:     trackIndex,
	}
}

func TestUpdateTrack_SparseCreation(t *testing.T) {
	m := NewModel(testMinDur)

	track := m.UpdateTrack(5, TrackPatch{})

	if track.Name != "Track 6" {
		t.Errorf("track name = %q, want %q", track.Name, "Track 6")
	}

	if track.Type != TrackVideo {
		t.Errorf("track type = %q, want %q", track.Type, TrackVideo)
	}

	// No intervening tracks are created
	if got := len(m.Timeline().Tracks); got != 1 {
		t.Errorf("track count = %d, want 1", got)
	}

	for i := 0; i < 5; i++ {
		if m.Track(i) != nil {
			t.Errorf("track %d should not exist", i)
		}
	}
}

func TestUpdateTrack_PatchMerge(t *testing.T) {
	m := NewModel(testMinDur)

	nameA := "A"
	m.UpdateTrack(0, TrackPatch{Name: &nameA})

	nameB := "B"
	m.UpdateTrack(0, TrackPatch{Name: &nameB})

	if got := len(m.Timeline().Tracks); got != 1 {
		t.Fatalf("track count = %d, want 1 (update must not duplicate)", got)
	}

	if got := m.Track(0).Name; got != "B" {
		t.Errorf("track name = %q, want %q", got, "B")
	}

	// Patching name must not reset an earlier type patch
	audio := TrackAudio
	m.UpdateTrack(0, TrackPatch{Type: &audio})

	nameC := "C"
	m.UpdateTrack(0, TrackPatch{Name: &nameC})

	if got := m.Track(0).Type; got != TrackAudio {
		t.Errorf("track type = %q, want %q after unrelated patch", got, TrackAudio)
	}
}

func TestUpsertClip_OverlapRejected(t *testing.T) {
	m := NewModel(testMinDur)

	if err := m.UpsertClip(testClip("c1", 0, 0, 5, 0)); err != nil {
		t.Fatalf("first upsert failed: %v", err)
	}

	err := m.UpsertClip(testClip("c2", 0, 0, 5, 3))
	if err == nil {
		t.Fatal("overlapping upsert should fail")
	}

	var overlapErr *OverlapError
	if !errors.As(err, &overlapErr) {
		t.Fatalf("error type = %T, want *OverlapError", err)
	}

	if overlapErr.ConflictID != "c1" {
		t.Errorf("conflict id = %q, want %q", overlapErr.ConflictID, "c1")
	}

	// Rejection must not mutate state
	if got := m.ClipCount(); got != 1 {
		t.Errorf("clip count = %d, want 1 after rejected upsert", got)
	}
}

func TestUpsertClip_AdjacentClipsAllowed(t *testing.T) {
	m := NewModel(testMinDur)

	if err := m.UpsertClip(testClip("c1", 0, 0, 5, 0)); err != nil {
		t.Fatalf("c1: %v", err)
	}

	// [5, 10) starts exactly where [0, 5) ends
	if err := m.UpsertClip(testClip("c2", 0, 0, 5, 5)); err != nil {
		t.Errorf("adjacent clip rejected: %v", err)
	}
}

func TestUpsertClip_BoundsRejected(t *testing.T) {
	m := NewModel(testMinDur)

	cases := []struct {
		name string
		clip Clip
	}{
		{"negative start", Clip{ID: "c", Start: -1, End: 5, SourceDuration: 10}},
		{"end beyond source", Clip{ID: "c", Start: 0, End: 11, SourceDuration: 10}},
		{"below duration floor", Clip{ID: "c", Start: 0, End: 0.01, SourceDuration: 10}},
		{"negative position", Clip{ID: "c", Start: 0, End: 5, SourceDuration: 10, Position: -2}},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			err := m.UpsertClip(tc.clip)

			var boundsErr *BoundsError
			if !errors.As(err, &boundsErr) {
				t.Fatalf("error = %v, want *BoundsError", err)
			}

			if m.ClipCount() != 0 {
				t.Error("rejected upsert mutated state")
			}
		})
	}
}

func TestMoveClip_TransfersOwnership(t *testing.T) {
	m := NewModel(testMinDur)

	if err := m.UpsertClip(testClip("c1", 0, 0, 5, 0)); err != nil {
		t.Fatalf("upsert: %v", err)
	}

	if err := m.MoveClip("c1", 2, 10); err != nil {
		t.Fatalf("move: %v", err)
	}

	clip, ok := m.Clip("c1")
	if !ok {
		t.Fatal("clip lost after move")
	}

	if clip.TrackIndex != 2 || clip.Position != 10 {
		t.Errorf("clip at track %d pos %.1f, want track 2 pos 10", clip.TrackIndex, clip.Position)
	}

	if got := len(m.TrackClips(0)); got != 0 {
		t.Errorf("source track still owns %d clips", got)
	}
}

func TestMoveClip_DestinationOverlapRejected(t *testing.T) {
	m := NewModel(testMinDur)

	if err := m.UpsertClip(testClip("c1", 0, 0, 5, 0)); err != nil {
		t.Fatalf("c1: %v", err)
	}

	if err := m.UpsertClip(testClip("c2", 1, 0, 5, 2)); err != nil {
		t.Fatalf("c2: %v", err)
	}

	err := m.MoveClip("c1", 1, 4)
	if err == nil {
		t.Fatal("move onto occupied interval should fail")
	}

	var overlapErr *OverlapError
	if !errors.As(err, &overlapErr) {
		t.Fatalf("error type = %T, want *OverlapError", err)
	}

	// Clip stays where it was
	clip, _ := m.Clip("c1")
	if clip.TrackIndex != 0 || clip.Position != 0 {
		t.Errorf("rejected move changed clip: track %d pos %.1f", clip.TrackIndex, clip.Position)
	}
}

func TestRemoveClip(t *testing.T) {
	m := NewModel(testMinDur)

	if err := m.UpsertClip(testClip("c1", 0, 0, 5, 0)); err != nil {
		t.Fatalf("upsert: %v", err)
	}

	if !m.RemoveClip("c1") {
		t.Error("remove existing clip returned false")
	}

	if m.RemoveClip("c1") {
		t.Error("remove missing clip returned true")
	}
}

func TestSetTimeline_ReplacesWholesale(t *testing.T) {
	m := NewModel(testMinDur)

	if err := m.UpsertClip(testClip("c1", 0, 0, 5, 0)); err != nil {
		t.Fatalf("upsert: %v", err)
	}

	replacement := NewTimeline("p2")
	m.SetTimeline(replacement)

	if m.ClipCount() != 0 {
		t.Error("old clips survived SetTimeline")
	}

	m.SetTimeline(nil)

	if m.Timeline() == nil {
		t.Error("SetTimeline(nil) should reset to empty, not nil")
	}
}

func TestTotalDurationAndClipsAt(t *testing.T) {
	m := NewModel(testMinDur)

	if err := m.UpsertClip(testClip("c1", 0, 0, 5, 0)); err != nil {
		t.Fatalf("c1: %v", err)
	}

	if err := m.UpsertClip(testClip("c2", 1, 2, 8, 3)); err != nil {
		t.Fatalf("c2: %v", err)
	}

	if got := m.TotalDuration(); got != 9 {
		t.Errorf("total duration = %.1f, want 9", got)
	}

	active := m.ClipsAt(4)
	if len(active) != 2 {
		t.Fatalf("clips at t=4: %d, want 2", len(active))
	}

	// Half-open interval: c1 ends at 5 and is not active there
	active = m.ClipsAt(5)
	if len(active) != 1 || active[0].ID != "c2" {
		t.Errorf("clips at t=5 = %v, want only c2", active)
	}
}

func TestCommit_AtomicRejection(t *testing.T) {
	m := NewModel(testMinDur)

	if err := m.UpsertClip(testClip("c1", 0, 0, 5, 0)); err != nil {
		t.Fatalf("c1: %v", err)
	}

	if err := m.UpsertClip(testClip("c2", 0, 0, 5, 5)); err != nil {
		t.Fatalf("c2: %v", err)
	}

	// c1 grows over c2 while c2 stays: commit must reject both changes
	c1, _ := m.Clip("c1")
	c1.End = 7

	if err := m.Commit([]Clip{c1}); err == nil {
		t.Fatal("overlapping commit should fail")
	}

	got, _ := m.Clip("c1")
	if got.End != 5 {
		t.Errorf("rejected commit mutated clip: end = %.1f, want 5", got.End)
	}
}

func TestCommit_CoordinatedShift(t *testing.T) {
	m := NewModel(testMinDur)

	if err := m.UpsertClip(testClip("c1", 0, 0, 5, 0)); err != nil {
		t.Fatalf("c1: %v", err)
	}

	if err := m.UpsertClip(testClip("c2", 0, 0, 5, 5)); err != nil {
		t.Fatalf("c2: %v", err)
	}

	// Ripple-style commit: c1 grows, c2 shifts right in the same batch
	c1, _ := m.Clip("c1")
	c1.End = 7
	c2, _ := m.Clip("c2")
	c2.Position = 7

	if err := m.Commit([]Clip{c1, c2}); err != nil {
		t.Fatalf("coordinated commit failed: %v", err)
	}

	got1, _ := m.Clip("c1")
	got2, _ := m.Clip("c2")

	if got1.End != 7 || got2.Position != 7 {
		t.Errorf("commit landed c1.end=%.1f c2.pos=%.1f, want 7/7", got1.End, got2.Position)
	}
}
