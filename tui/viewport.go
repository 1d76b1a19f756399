// ABOUTME: Viewport manager mapping timeline seconds to terminal columns
// ABOUTME: Handles zoom clamping and playhead-follow scrolling

package tui

// Viewport maps a window of timeline time onto a fixed number of
// terminal columns. Zoom is expressed as columns per second so the
// ruler, lanes and playhead all share one conversion.
type Viewport struct {
	width      int     // Lane width in columns
	offset     float64 // Timeline time at the left edge, seconds
	colsPerSec float64
	minZoom    float64
	maxZoom    float64
}

// NewViewport creates a viewport with zoom bounds from config
func NewViewport(minZoom, maxZoom float64) *Viewport {
	return &Viewport{
		colsPerSec: 10,
		minZoom:    minZoom,
		maxZoom:    maxZoom,
	}
}

// SetWidth updates the lane width in columns
func (v *Viewport) SetWidth(width int) {
	v.width = width
}

// Width returns the lane width in columns
func (v *Viewport) Width() int {
	return v.width
}

// Offset returns the timeline time at the left edge
func (v *Viewport) Offset() float64 {
	return v.offset
}

// VisibleDuration returns how many seconds fit in the viewport
func (v *Viewport) VisibleDuration() float64 {
	if v.width <= 0 {
		return 0
	}

	return float64(v.width) / v.colsPerSec
}

// ColumnOf converts a timeline time to a column, which may fall outside
// [0, width) when the time is off screen
func (v *Viewport) ColumnOf(t float64) int {
	return int((t - v.offset) * v.colsPerSec)
}

// TimeOf converts a column back to a timeline time
func (v *Viewport) TimeOf(col int) float64 {
	return v.offset + float64(col)/v.colsPerSec
}

// Visible reports whether a timeline time falls inside the viewport
func (v *Viewport) Visible(t float64) bool {
	col := v.ColumnOf(t)

	return col >= 0 && col < v.width
}

// ZoomIn increases columns per second by 25%, clamped to the max
func (v *Viewport) ZoomIn() {
	v.colsPerSec *= 1.25
	if v.colsPerSec > v.maxZoom {
		v.colsPerSec = v.maxZoom
	}
}

// ZoomOut decreases columns per second by 25%, clamped to the min
func (v *Viewport) ZoomOut() {
	v.colsPerSec /= 1.25
	if v.colsPerSec < v.minZoom {
		v.colsPerSec = v.minZoom
	}
}

// Follow scrolls so that t stays visible, keeping a margin of one
// quarter viewport when the playhead runs off either edge
func (v *Viewport) Follow(t float64) {
	if v.width <= 0 {
		return
	}

	visible := v.VisibleDuration()
	margin := visible / 4

	if t < v.offset {
		v.offset = t - margin
	} else if t >= v.offset+visible {
		v.offset = t - visible + margin
	}

	if v.offset < 0 {
		v.offset = 0
	}
}
