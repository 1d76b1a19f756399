// ABOUTME: Typed errors for timeline mutations
// ABOUTME: OverlapError and BoundsError are returned by direct mutators, never by gesture clamping

package timeline

import "fmt"

// OverlapError reports that a mutation would violate the per-track
// no-overlap invariant. The mutation is rejected without changing state.
type OverlapError struct {
	ClipID     string // the clip being placed
	ConflictID string // the existing clip it would overlap
	TrackIndex int
}

func (e *OverlapError) Error() string {
	return fmt.Sprintf("clip %s overlaps clip %s on track %d", e.ClipID, e.ConflictID, e.TrackIndex)
}

// BoundsError reports that a proposed start/end/duration falls outside
// [0, sourceDuration] or below the minimum clip duration.
type BoundsError struct {
	ClipID string
	Field  string
	Value  float64
	Min    float64
	Max    float64
}

func (e *BoundsError) Error() string {
	return fmt.Sprintf("clip %s: %s %.4f out of bounds [%.4f, %.4f]", e.ClipID, e.Field, e.Value, e.Min, e.Max)
}
