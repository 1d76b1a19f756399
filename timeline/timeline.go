// ABOUTME: Defines the core timeline aggregate: Timeline, Track, Clip and Output
// ABOUTME: Pure data types with geometry helpers, no I/O or validation logic

// Package timeline holds the authoritative in-memory representation of a
// project timeline: sparse index-keyed tracks, trimmed clips placed on them,
// and the invariant-preserving Model that mutates the aggregate.
package timeline

import (
	"fmt"

	"github.com/google/uuid"
)

// TrackType distinguishes video and audio lanes
type TrackType string

const (
	TrackVideo TrackType = "video"
	TrackAudio TrackType = "audio"
)

// Output holds global render settings for the project
type Output struct {
	Width   int     `json:"width"`
	Height  int     `json:"height"`
	FPS     float64 `json:"fps"`
	Bitrate int     `json:"bitrate"`
	Format  string  `json:"format"`
}

// Crop is an optional rectangular region applied to a clip
type Crop struct {
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

// Clip is a trimmed reference to a media asset placed on a track.
// Start/End form the trim window into the source (seconds), Position is
// where the trimmed-in point lands on the master clock.
type Clip struct {
	ID             string  `json:"id"`
	AssetID        string  `json:"assetId"`
	FilePath       string  `json:"filePath"`
	Mime           string  `json:"mime"`
	Start          float64 `json:"start"`
	End            float64 `json:"end"`
	SourceDuration float64 `json:"sourceDuration"`
	Position       float64 `json:"timelinePosition"`
	TrackIndex     int     `json:"trackIndex"`
	Crop           *Crop   `json:"crop,omitempty"`
}

// Duration returns the trimmed length of the clip in seconds
func (c Clip) Duration() float64 {
	return c.End - c.Start
}

// EndPosition returns where the clip's trimmed-out point lands on the master clock
func (c Clip) EndPosition() float64 {
	return c.Position + c.Duration()
}

// Contains reports whether timeline time t falls inside the clip's interval.
// The interval is half-open: [Position, Position+Duration)
func (c Clip) Contains(t float64) bool {
	return t >= c.Position && t < c.EndPosition()
}

// SourceTimeAt maps a timeline time inside the clip to a source time
func (c Clip) SourceTimeAt(t float64) float64 {
	return t - c.Position + c.Start
}

// NewClipID generates a unique clip identifier
func NewClipID() string {
	return uuid.NewString()
}

// Track is an ordered lane holding non-overlapping clips of one media type.
// Tracks are sparse: they exist only at the indices that have been referenced.
type Track struct {
	Index int       `json:"index"`
	Name  string    `json:"name"`
	Type  TrackType `json:"type"`
	Clips []Clip    `json:"clips"`
}

// DefaultTrackName returns the display name used when none is set
func DefaultTrackName(index int) string {
	return fmt.Sprintf("Track %d", index+1)
}

// Timeline is the root aggregate: project id, sparse index-keyed tracks and
// global output settings. Replaced wholesale when a new project loads.
type Timeline struct {
	ProjectID string
	Tracks    map[int]*Track
	Output    Output
}

// NewTimeline creates an empty timeline for a project
func NewTimeline(projectID string) *Timeline {
	return &Timeline{
		ProjectID: projectID,
		Tracks:    make(map[int]*Track),
	}
}

// Clone returns a deep copy of the timeline, suitable for history snapshots
func (t *Timeline) Clone() *Timeline {
	if t == nil {
		return nil
	}

	out := &Timeline{
		ProjectID: t.ProjectID,
		Tracks:    make(map[int]*Track, len(t.Tracks)),
		Output:    t.Output,
	}

	for idx, track := range t.Tracks {
		clips := make([]Clip, len(track.Clips))
		copy(clips, track.Clips)

		for i := range clips {
			if clips[i].Crop != nil {
				crop := *clips[i].Crop
				clips[i].Crop = &crop
			}
		}

		out.Tracks[idx] = &Track{
			Index: track.Index,
			Name:  track.Name,
			Type:  track.Type,
			Clips: clips,
		}
	}

	return out
}
