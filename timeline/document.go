// ABOUTME: Handles reading and writing timeline project documents as JSON
// ABOUTME: Converts between the sparse in-memory aggregate and the ordered document form

package timeline

import (
	"encoding/json"
	"fmt"
	"os"
	"sort"
)

// Document is the persisted form of a timeline: tracks as an ordered
// list rather than a sparse map. The core treats it as a value.
type Document struct {
	ProjectID string  `json:"projectId"`
	Tracks    []Track `json:"tracks"`
	Output    Output  `json:"output"`
}

// ToDocument converts the aggregate to its persisted form, tracks sorted
// by index
func (t *Timeline) ToDocument() Document {
	doc := Document{
		ProjectID: t.ProjectID,
		Output:    t.Output,
		Tracks:    make([]Track, 0, len(t.Tracks)),
	}

	for _, track := range t.Tracks {
		clips := make([]Clip, len(track.Clips))
		copy(clips, track.Clips)

		sort.Slice(clips, func(i, j int) bool {
			return clips[i].Position < clips[j].Position
		})

		doc.Tracks = append(doc.Tracks, Track{
			Index: track.Index,
			Name:  track.Name,
			Type:  track.Type,
			Clips: clips,
		})
	}

	sort.Slice(doc.Tracks, func(i, j int) bool {
		return doc.Tracks[i].Index < doc.Tracks[j].Index
	})

	return doc
}

// FromDocument builds the in-memory aggregate from a persisted document
func FromDocument(doc Document) *Timeline {
	t := NewTimeline(doc.ProjectID)
	t.Output = doc.Output

	for _, track := range doc.Tracks {
		tr := track
		if tr.Name == "" {
			tr.Name = DefaultTrackName(tr.Index)
		}

		if tr.Type == "" {
			tr.Type = TrackVideo
		}

		for i := range tr.Clips {
			tr.Clips[i].TrackIndex = tr.Index

			// Hand-edited documents may omit ids
			if tr.Clips[i].ID == "" {
				tr.Clips[i].ID = NewClipID()
			}
		}

		t.Tracks[tr.Index] = &tr
	}

	return t
}

// LoadDocument reads a timeline document from a JSON file
func LoadDocument(path string) (*Timeline, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read project: %w", err)
	}

	var doc Document
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("failed to parse project: %w", err)
	}

	return FromDocument(doc), nil
}

// SaveDocument writes a timeline document to a JSON file.
// Creates a backup (.bak) of the existing file before overwriting.
func SaveDocument(path string, t *Timeline) error {
	if _, err := os.Stat(path); err == nil {
		backupPath := path + ".bak"
		if err := os.Rename(path, backupPath); err != nil {
			return fmt.Errorf("failed to create backup: %w", err)
		}
	}

	data, err := json.MarshalIndent(t.ToDocument(), "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode project: %w", err)
	}

	if err := os.WriteFile(path, append(data, '\n'), 0644); err != nil {
		return fmt.Errorf("failed to write project: %w", err)
	}

	return nil
}
