// ABOUTME: Invariant-preserving mutation layer over the Timeline aggregate
// ABOUTME: Direct mutators validate bounds and per-track overlap atomically before committing

package timeline

import (
	"sort"
)

// Model owns a single timeline and guards every mutation with the
// no-overlap and bounds invariants. Mutations are all-or-nothing: a
// validation failure leaves the timeline untouched.
//
// Model is not safe for concurrent use; the host serializes edits and
// scheduler ticks on one logical owner (see the playback package).
type Model struct {
	timeline *Timeline
	minDur   float64 // minimum clip duration floor in seconds
}

// TrackPatch is a partial update for a track. Nil fields are left alone;
// defaults apply only when the field is absent both here and on any
// existing track.
type TrackPatch struct {
	Name *string
	Type *TrackType
}

// NewModel creates a model with an empty timeline and the given minimum
// clip duration floor
func NewModel(minClipDuration float64) *Model {
	return &Model{
		timeline: NewTimeline(""),
		minDur:   minClipDuration,
	}
}

// MinClipDuration returns the configured duration floor
func (m *Model) MinClipDuration() float64 {
	return m.minDur
}

// SetTimeline replaces the whole aggregate. Passing nil resets to an
// empty timeline. There is no partial merge.
func (m *Model) SetTimeline(t *Timeline) {
	if t == nil {
		m.timeline = NewTimeline("")

		return
	}

	m.timeline = t
}

// Timeline returns the current aggregate. Callers must treat it as
// read-only; mutations go through the model.
func (m *Model) Timeline() *Timeline {
	return m.timeline
}

// Snapshot returns a deep copy of the current timeline for history
func (m *Model) Snapshot() *Timeline {
	return m.timeline.Clone()
}

// Restore replaces the timeline with a deep copy of the given snapshot
func (m *Model) Restore(t *Timeline) {
	m.SetTimeline(t.Clone())
}

// UpdateTrack creates or updates the track at index, merging the patch
// field by field. Tracks are sparse: referencing index 5 creates only
// index 5, never the intervening tracks.
func (m *Model) UpdateTrack(index int, patch TrackPatch) *Track {
	track, ok := m.timeline.Tracks[index]
	if !ok {
		track = &Track{
			Index: index,
			Name:  DefaultTrackName(index),
			Type:  TrackVideo,
		}
		m.timeline.Tracks[index] = track
	}

	if patch.Name != nil {
		track.Name = *patch.Name
	}

	if patch.Type != nil {
		track.Type = *patch.Type
	}

	return track
}

// Track returns the track at index, or nil if it was never referenced
func (m *Model) Track(index int) *Track {
	return m.timeline.Tracks[index]
}

// TrackIndices returns the existing track indices in ascending order
func (m *Model) TrackIndices() []int {
	indices := make([]int, 0, len(m.timeline.Tracks))
	for idx := range m.timeline.Tracks {
		indices = append(indices, idx)
	}

	sort.Ints(indices)

	return indices
}

// Clip returns a copy of the clip with the given id
func (m *Model) Clip(id string) (Clip, bool) {
	for _, track := range m.timeline.Tracks {
		for _, c := range track.Clips {
			if c.ID == id {
				return c, true
			}
		}
	}

	return Clip{}, false
}

// TrackClips returns copies of the clips on a track, sorted by timeline position
func (m *Model) TrackClips(index int) []Clip {
	track, ok := m.timeline.Tracks[index]
	if !ok {
		return nil
	}

	clips := make([]Clip, len(track.Clips))
	copy(clips, track.Clips)

	sort.Slice(clips, func(i, j int) bool {
		return clips[i].Position < clips[j].Position
	})

	return clips
}

// ClipCount returns the total number of clips on the timeline
func (m *Model) ClipCount() int {
	n := 0
	for _, track := range m.timeline.Tracks {
		n += len(track.Clips)
	}

	return n
}

// ClipsAt returns copies of all clips whose interval contains timeline time t
func (m *Model) ClipsAt(t float64) []Clip {
	var active []Clip

	for _, track := range m.timeline.Tracks {
		for _, c := range track.Clips {
			if c.Contains(t) {
				active = append(active, c)
			}
		}
	}

	sort.Slice(active, func(i, j int) bool {
		return active[i].TrackIndex < active[j].TrackIndex
	})

	return active
}

// TotalDuration returns the timeline time at which the last clip ends
func (m *Model) TotalDuration() float64 {
	var total float64

	for _, track := range m.timeline.Tracks {
		for _, c := range track.Clips {
			if end := c.EndPosition(); end > total {
				total = end
			}
		}
	}

	return total
}

// UpsertClip inserts or replaces a single clip. The destination track is
// created lazily. Fails with BoundsError or OverlapError without
// mutating state.
func (m *Model) UpsertClip(c Clip) error {
	if err := m.validateBounds(c); err != nil {
		return err
	}

	if conflict, ok := m.findOverlap(c); ok {
		return &OverlapError{ClipID: c.ID, ConflictID: conflict, TrackIndex: c.TrackIndex}
	}

	m.removeClipByID(c.ID)
	track := m.UpdateTrack(c.TrackIndex, TrackPatch{})
	track.Clips = append(track.Clips, c)
	m.sortTrack(track)

	return nil
}

// RemoveClip deletes a clip by id, reporting whether it existed
func (m *Model) RemoveClip(id string) bool {
	return m.removeClipByID(id)
}

// MoveClip transfers a clip to a (possibly different) track and position.
// Ownership moves with it; the destination track's overlap invariant is
// re-validated before anything changes.
func (m *Model) MoveClip(id string, trackIndex int, position float64) error {
	clip, ok := m.Clip(id)
	if !ok {
		return &BoundsError{ClipID: id, Field: "id", Value: 0, Min: 0, Max: 0}
	}

	clip.TrackIndex = trackIndex
	clip.Position = position

	if position < 0 {
		return &BoundsError{ClipID: id, Field: "timelinePosition", Value: position, Min: 0, Max: m.TotalDuration()}
	}

	if conflict, ok := m.findOverlap(clip); ok {
		return &OverlapError{ClipID: id, ConflictID: conflict, TrackIndex: trackIndex}
	}

	m.removeClipByID(id)
	track := m.UpdateTrack(trackIndex, TrackPatch{})
	track.Clips = append(track.Clips, clip)
	m.sortTrack(track)

	return nil
}

// Commit atomically replaces a set of existing clips with new geometry.
// Used by the edit engine to land a resolved gesture: every clip is
// validated against bounds and the final overlap state of its track
// before any of them is written.
func (m *Model) Commit(clips []Clip) error {
	for _, c := range clips {
		if err := m.validateBounds(c); err != nil {
			return err
		}
	}

	// Build the post-commit clip set per affected track and check overlap
	// against it, so clips moving in the same commit don't conflict with
	// their own old positions.
	updated := make(map[string]Clip, len(clips))
	for _, c := range clips {
		updated[c.ID] = c
	}

	byTrack := make(map[int][]Clip)

	for _, track := range m.timeline.Tracks {
		for _, c := range track.Clips {
			if repl, ok := updated[c.ID]; ok {
				c = repl
				delete(updated, c.ID)
			}
			byTrack[c.TrackIndex] = append(byTrack[c.TrackIndex], c)
		}
	}

	// Anything left in updated is a new clip introduced by the commit
	for _, c := range updated {
		byTrack[c.TrackIndex] = append(byTrack[c.TrackIndex], c)
	}

	for trackIndex, trackClips := range byTrack {
		sort.Slice(trackClips, func(i, j int) bool {
			return trackClips[i].Position < trackClips[j].Position
		})

		for i := 1; i < len(trackClips); i++ {
			prev, cur := trackClips[i-1], trackClips[i]
			if cur.Position < prev.EndPosition()-overlapEpsilon {
				return &OverlapError{ClipID: cur.ID, ConflictID: prev.ID, TrackIndex: trackIndex}
			}
		}
	}

	// Validation passed; rebuild every track's clip slice. Tracks whose
	// clips all migrated elsewhere keep existing, just empty.
	for idx, track := range m.timeline.Tracks {
		track.Clips = byTrack[idx]
		delete(byTrack, idx)
	}

	for trackIndex, trackClips := range byTrack {
		track := m.UpdateTrack(trackIndex, TrackPatch{})
		track.Clips = trackClips
	}

	return nil
}

// overlapEpsilon absorbs float64 noise when two clips are exactly adjacent
const overlapEpsilon = 1e-9

func (m *Model) validateBounds(c Clip) error {
	if c.Start < 0 || c.Start > c.SourceDuration {
		return &BoundsError{ClipID: c.ID, Field: "start", Value: c.Start, Min: 0, Max: c.SourceDuration}
	}

	if c.End < c.Start || c.End > c.SourceDuration {
		return &BoundsError{ClipID: c.ID, Field: "end", Value: c.End, Min: c.Start, Max: c.SourceDuration}
	}

	if c.Duration() < m.minDur {
		return &BoundsError{ClipID: c.ID, Field: "duration", Value: c.Duration(), Min: m.minDur, Max: c.SourceDuration}
	}

	if c.Position < 0 {
		return &BoundsError{ClipID: c.ID, Field: "timelinePosition", Value: c.Position, Min: 0, Max: 0}
	}

	return nil
}

// findOverlap checks candidate against the other clips on its destination
// track, returning the id of the first conflicting clip
func (m *Model) findOverlap(candidate Clip) (string, bool) {
	track, ok := m.timeline.Tracks[candidate.TrackIndex]
	if !ok {
		return "", false
	}

	for _, c := range track.Clips {
		if c.ID == candidate.ID {
			continue
		}

		if candidate.Position < c.EndPosition()-overlapEpsilon && c.Position < candidate.EndPosition()-overlapEpsilon {
			return c.ID, true
		}
	}

	return "", false
}

func (m *Model) removeClipByID(id string) bool {
	for _, track := range m.timeline.Tracks {
		for i, c := range track.Clips {
			if c.ID == id {
				track.Clips = append(track.Clips[:i], track.Clips[i+1:]...)

				return true
			}
		}
	}

	return false
}

func (m *Model) sortTrack(track *Track) {
	sort.Slice(track.Clips, func(i, j int) bool {
		return track.Clips[i].Position < track.Clips[j].Position
	})
}
