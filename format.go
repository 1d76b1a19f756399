// ABOUTME: Timecode formatting for timeline positions and durations
// ABOUTME: Formats seconds with just enough precision for the context

package main

import (
	"fmt"
	"math"
)

// FormatTimecode renders a timeline position as m:ss.mmm, growing to
// h:mm:ss.mmm past an hour. Negative inputs clamp to zero; positions
// before the timeline start are not representable.
func FormatTimecode(seconds float64) string {
	if seconds < 0 || math.IsNaN(seconds) {
		seconds = 0
	}

	millis := int(math.Round(seconds * 1000))
	h := millis / 3600000
	m := millis / 60000 % 60
	s := millis / 1000 % 60
	ms := millis % 1000

	if h > 0 {
		return fmt.Sprintf("%d:%02d:%02d.%03d", h, m, s, ms)
	}

	return fmt.Sprintf("%d:%02d.%03d", m, s, ms)
}

// FormatRulerTick renders a position for the timeline ruler, dropping
// milliseconds since tick marks land on whole seconds
func FormatRulerTick(seconds float64) string {
	if seconds < 0 || math.IsNaN(seconds) {
		seconds = 0
	}

	total := int(math.Round(seconds))
	h := total / 3600
	m := total / 60 % 60
	s := total % 60

	if h > 0 {
		return fmt.Sprintf("%d:%02d:%02d", h, m, s)
	}

	return fmt.Sprintf("%d:%02d", m, s)
}