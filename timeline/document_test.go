// ABOUTME: Tests for timeline document JSON round-tripping
// ABOUTME: Verifies save/load fidelity, defaults on load, and backup-on-write

package timeline

import (
	"os"
	"path/filepath"
	"testing"
)

func TestDocumentRoundTrip(t *testing.T) {
	tl := NewTimeline("proj-1")
	tl.Output = Output{Width: 1920, Height: 1080, FPS: 30, Bitrate: 8000, Format: "mp4"}
	tl.Tracks[0] = &Track{
		Index: 0,
		Name:  "Main",
		Type:  TrackVideo,
		Clips: []Clip{
			{ID: "c1", AssetID: "a1", Start: 1, End: 6, SourceDuration: 10, Position: 0, TrackIndex: 0},
		},
	}
	tl.Tracks[3] = &Track{Index: 3, Name: "Music", Type: TrackAudio}

	path := filepath.Join(t.TempDir(), "project.json")

	if err := SaveDocument(path, tl); err != nil {
		t.Fatalf("save: %v", err)
	}

	loaded, err := LoadDocument(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}

	if loaded.ProjectID != "proj-1" {
		t.Errorf("project id = %q", loaded.ProjectID)
	}

	if len(loaded.Tracks) != 2 {
		t.Fatalf("track count = %d, want 2", len(loaded.Tracks))
	}

	if loaded.Tracks[3] == nil || loaded.Tracks[3].Type != TrackAudio {
		t.Error("sparse track 3 lost or mistyped")
	}

	clip := loaded.Tracks[0].Clips[0]
	if clip.Start != 1 || clip.End != 6 || clip.SourceDuration != 10 {
		t.Errorf("clip trim window mangled: %+v", clip)
	}

	if loaded.Output.FPS != 30 {
		t.Errorf("output fps = %.1f", loaded.Output.FPS)
	}
}

func TestSaveDocument_CreatesBackup(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "project.json")

	tl := NewTimeline("proj-1")

	if err := SaveDocument(path, tl); err != nil {
		t.Fatalf("first save: %v", err)
	}

	if err := SaveDocument(path, tl); err != nil {
		t.Fatalf("second save: %v", err)
	}

	if _, err := os.Stat(path + ".bak"); err != nil {
		t.Errorf("backup not created: %v", err)
	}
}

func TestFromDocument_AppliesDefaults(t *testing.T) {
	doc := Document{
		ProjectID: "p",
		Tracks: []Track{
			{Index: 2, Clips: []Clip{{ID: "c1", End: 5, SourceDuration: 10}}},
		},
	}

	tl := FromDocument(doc)

	track := tl.Tracks[2]
	if track.Name != "Track 3" {
		t.Errorf("default name = %q, want %q", track.Name, "Track 3")
	}

	if track.Type != TrackVideo {
		t.Errorf("default type = %q, want video", track.Type)
	}

	// Clip track index is normalized to the owning track
	if track.Clips[0].TrackIndex != 2 {
		t.Errorf("clip track index = %d, want 2", track.Clips[0].TrackIndex)
	}
}

func TestFromDocument_AssignsMissingClipIDs(t *testing.T) {
	doc := Document{
		ProjectID: "p",
		Tracks: []Track{
			{Index: 0, Clips: []Clip{
				{End: 5, SourceDuration: 10},
				{End: 4, SourceDuration: 10, Position: 6},
			}},
		},
	}

	tl := FromDocument(doc)

	clips := tl.Tracks[0].Clips
	if clips[0].ID == "" || clips[1].ID == "" {
		t.Fatal("clips loaded without ids")
	}

	if clips[0].ID == clips[1].ID {
		t.Error("assigned ids are not unique")
	}
}

func TestClone_IsDeep(t *testing.T) {
	tl := NewTimeline("p")
	tl.Tracks[0] = &Track{
		Index: 0,
		Name:  "Main",
		Type:  TrackVideo,
		Clips: []Clip{{ID: "c1", End: 5, SourceDuration: 10, Crop: &Crop{Width: 100}}},
	}

	clone := tl.Clone()
	clone.Tracks[0].Clips[0].End = 3
	clone.Tracks[0].Clips[0].Crop.Width = 50

	if tl.Tracks[0].Clips[0].End != 5 {
		t.Error("clone shares clip storage with original")
	}

	if tl.Tracks[0].Clips[0].Crop.Width != 100 {
		t.Error("clone shares crop storage with original")
	}
}
