// ABOUTME: Tests for the SQLite project store
// ABOUTME: Runs against a real database file in a temp directory

package store

import (
	"path/filepath"
	"testing"
	"time"

	"cutroom/timeline"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()

	s, err := Open(filepath.Join(t.TempDir(), "projects.db"))
	if err != nil {
		t.Fatal(err)
	}

	t.Cleanup(func() { _ = s.Close() })

	return s
}

func sampleTimeline(projectID string) *timeline.Timeline {
	tl := timeline.NewTimeline(projectID)
	tl.Tracks[0] = &timeline.Track{
		Index: 0,
		Name:  "Track 1",
		Type:  timeline.TrackVideo,
		Clips: []timeline.Clip{
			{ID: "c1", Start: 0, End: 5, SourceDuration: 10, Position: 0},
			{ID: "c2", Start: 2, End: 6, SourceDuration: 10, Position: 5},
		},
	}

	return tl
}

func TestSaveLoad_RoundTrip(t *testing.T) {
	s := openTestStore(t)

	if err := s.SaveTimeline(sampleTimeline("proj-1")); err != nil {
		t.Fatal(err)
	}

	loaded, err := s.LoadTimeline("proj-1")
	if err != nil {
		t.Fatal(err)
	}

	if loaded.ProjectID != "proj-1" {
		t.Errorf("projectID = %q, want proj-1", loaded.ProjectID)
	}

	track, ok := loaded.Tracks[0]
	if !ok {
		t.Fatal("track 0 missing after load")
	}

	if len(track.Clips) != 2 {
		t.Fatalf("got %d clips, want 2", len(track.Clips))
	}

	if track.Clips[1].Position != 5 {
		t.Errorf("clip position = %.1f, want 5", track.Clips[1].Position)
	}
}

func TestSave_UpsertsExistingProject(t *testing.T) {
	s := openTestStore(t)

	tl := sampleTimeline("proj-1")
	if err := s.SaveTimeline(tl); err != nil {
		t.Fatal(err)
	}

	tl.Tracks[0].Clips = tl.Tracks[0].Clips[:1]
	if err := s.SaveTimeline(tl); err != nil {
		t.Fatal(err)
	}

	loaded, err := s.LoadTimeline("proj-1")
	if err != nil {
		t.Fatal(err)
	}

	if got := len(loaded.Tracks[0].Clips); got != 1 {
		t.Errorf("got %d clips after upsert, want 1", got)
	}

	infos, err := s.ListProjects()
	if err != nil {
		t.Fatal(err)
	}

	if len(infos) != 1 {
		t.Errorf("got %d projects, want 1 (save should upsert, not insert)", len(infos))
	}
}

func TestSave_RejectsEmptyProjectID(t *testing.T) {
	s := openTestStore(t)

	if err := s.SaveTimeline(timeline.NewTimeline("")); err == nil {
		t.Error("saving without a project ID should fail")
	}
}

func TestLoad_UnknownProjectFails(t *testing.T) {
	s := openTestStore(t)

	if _, err := s.LoadTimeline("nope"); err == nil {
		t.Error("loading an unknown project should fail")
	}
}

func TestListProjects_MostRecentFirst(t *testing.T) {
	s := openTestStore(t)

	base := time.Unix(10000, 0)
	s.now = func() time.Time { return base }

	if err := s.SaveTimeline(sampleTimeline("old")); err != nil {
		t.Fatal(err)
	}

	s.now = func() time.Time { return base.Add(time.Hour) }

	if err := s.SaveTimeline(sampleTimeline("new")); err != nil {
		t.Fatal(err)
	}

	infos, err := s.ListProjects()
	if err != nil {
		t.Fatal(err)
	}

	if len(infos) != 2 {
		t.Fatalf("got %d projects, want 2", len(infos))
	}

	if infos[0].ID != "new" || infos[1].ID != "old" {
		t.Errorf("order = [%s %s], want [new old]", infos[0].ID, infos[1].ID)
	}

	if infos[0].Tracks != 1 || infos[0].Clips != 2 {
		t.Errorf("summary = %d tracks %d clips, want 1 track 2 clips", infos[0].Tracks, infos[0].Clips)
	}
}

func TestDeleteProject(t *testing.T) {
	s := openTestStore(t)

	if err := s.SaveTimeline(sampleTimeline("proj-1")); err != nil {
		t.Fatal(err)
	}

	if err := s.DeleteProject("proj-1"); err != nil {
		t.Fatal(err)
	}

	if _, err := s.LoadTimeline("proj-1"); err == nil {
		t.Error("deleted project still loads")
	}

	if err := s.DeleteProject("never-existed"); err != nil {
		t.Errorf("deleting an unknown project should be a no-op, got %v", err)
	}
}
