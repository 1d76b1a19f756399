// ABOUTME: Rendering for the timeline editor TUI
// ABOUTME: Implements the Bubble Tea View() function: ruler, lanes, status bar

package tui

import (
	"fmt"
	"math"
	"strings"
	"time"

	"cutroom/edit"
	"cutroom/timeline"
)

// View renders the editor
func (m model) View() string {
	if m.quitting {
		return ""
	}

	if m.width == 0 {
		return "Loading..."
	}

	var b strings.Builder

	state := m.deps.Transport.State()
	playheadCol := m.viewport.ColumnOf(state.CurrentTime)

	b.WriteString(m.renderTitle(state.IsPlaying))
	b.WriteString("\n")
	b.WriteString(m.renderRuler(playheadCol))
	b.WriteString("\n")

	for _, index := range m.deps.Model.TrackIndices() {
		track := m.deps.Model.Track(index)
		if track == nil {
			continue
		}

		b.WriteString(m.renderTrack(track, playheadCol))
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(m.renderStatus(state.CurrentTime, state.TotalDuration))
	b.WriteString("\n")
	b.WriteString(m.renderHelp())

	return b.String()
}

// renderTitle renders the top bar with project name and transport state
func (m model) renderTitle(isPlaying bool) string {
	indicator := "⏸"
	if isPlaying {
		indicator = "▶"
	}

	return titleStyle.Render(fmt.Sprintf(" %s cutroom · %s", indicator, m.opts.ProjectName))
}

// renderRuler renders second markers aligned with the lanes
func (m model) renderRuler(playheadCol int) string {
	width := m.viewport.Width()
	if width <= 0 {
		return ""
	}

	ruler := make([]rune, width)
	for i := range ruler {
		ruler[i] = ' '
	}

	// A tick every whole second that lands on its own column
	start := math.Ceil(m.viewport.Offset())
	for t := start; ; t++ {
		col := m.viewport.ColumnOf(t)
		if col >= width {
			break
		}

		if col < 0 {
			continue
		}

		label := formatRulerTick(t)
		if col+len(label) < width {
			copy(ruler[col:], []rune("|"+label))
		} else {
			ruler[col] = '|'
		}

		// Skip ahead so labels don't overlap at low zoom
		next := m.viewport.TimeOf(col + len(label) + 2)
		if next > t {
			t = math.Floor(next)
		}
	}

	line := string(ruler)
	line = overlayPlayhead(line, playheadCol, "▼")

	return strings.Repeat(" ", trackLabelWidth+lanePadding) + rulerStyle.Render(line)
}

// renderTrack renders one lane with its label column
func (m model) renderTrack(track *timeline.Track, playheadCol int) string {
	width := m.viewport.Width()
	if width <= 0 {
		return ""
	}

	lane := make([]rune, width)
	for i := range lane {
		lane[i] = '·'
	}

	for _, clip := range track.Clips {
		m.drawClip(lane, clip)
	}

	label := truncate(track.Name, trackLabelWidth)
	label = fmt.Sprintf("%-*s", trackLabelWidth, label)

	indices := m.deps.Model.TrackIndices()
	current := len(indices) > m.trackPos && indices[m.trackPos] == track.Index

	if current {
		label = "▸" + label[1:]
	}

	line := overlayPlayhead(string(lane), playheadCol, "│")

	return trackLabelStyle.Render(label) + strings.Repeat(" ", lanePadding) + line
}

// drawClip writes one clip into the lane buffer. The selected clip is
// drawn with braces and its active handle marked.
func (m model) drawClip(lane []rune, clip timeline.Clip) {
	width := len(lane)

	c0 := m.viewport.ColumnOf(clip.Position)
	c1 := m.viewport.ColumnOf(clip.EndPosition())

	if c1 <= 0 || c0 >= width || c1 <= c0 {
		return
	}

	selected := clip.ID == m.selectedClip

	body := '='
	if selected {
		body = '■'
	}

	for col := c0; col < c1; col++ {
		if col >= 0 && col < width {
			lane[col] = body
		}
	}

	// Edge markers, with the active handle highlighted on selection
	setRune(lane, c0, '[')
	setRune(lane, c1-1, ']')

	if selected {
		if m.handle == edit.HandleLeft {
			setRune(lane, c0, '◀')
		} else {
			setRune(lane, c1-1, '▶')
		}
	}

	// Clip label inside the body when there's room
	if room := c1 - c0 - 2; room > 0 {
		for i, r := range truncate(clip.ID, room) {
			setRune(lane, c0+1+i, r)
		}
	}
}

// setRune writes into the lane buffer, ignoring out-of-range columns
func setRune(lane []rune, col int, r rune) {
	if col >= 0 && col < len(lane) {
		lane[col] = r
	}
}

// overlayPlayhead replaces the rune at col with a styled marker
func overlayPlayhead(line string, col int, marker string) string {
	runes := []rune(line)
	if col < 0 || col >= len(runes) {
		return line
	}

	return string(runes[:col]) + playheadStyle.Render(marker) + string(runes[col+1:])
}

// renderStatus renders the bottom status bar
func (m model) renderStatus(currentTime, totalDuration float64) string {
	parts := []string{
		fmt.Sprintf("%s / %s", formatTimecode(currentTime), formatTimecode(totalDuration)),
		fmt.Sprintf("mode: %s", m.mode),
		fmt.Sprintf("handle: %s", m.handle),
	}

	if m.selectedClip != "" {
		parts = append(parts, fmt.Sprintf("clip: %s", truncate(m.selectedClip, 12)))
	}

	if m.lastDelta != 0 {
		parts = append(parts, fmt.Sprintf("trim: %s (%d moved)", formatDelta(m.lastDelta), m.lastAffected))
	}

	if m.statusMsg != "" && time.Since(m.statusMsgAge) < statusMessageDuration {
		parts = append(parts, m.statusMsg)
	}

	return statusStyle.Render(strings.Join(parts, "  │  "))
}

// renderHelp renders the key hint line
func (m model) renderHelp() string {
	return helpStyle.Render(" space play  s stop  ←/→ scrub  [/] clip  i/o handle  1-5 mode  ,/. trim  a add  x del  u undo  w save  q quit")
}

// formatTimecode renders seconds as m:ss.mmm, growing past an hour
func formatTimecode(seconds float64) string {
	if seconds < 0 || math.IsNaN(seconds) {
		seconds = 0
	}

	millis := int(math.Round(seconds * 1000))
	h := millis / 3600000
	mins := millis / 60000 % 60
	s := millis / 1000 % 60
	ms := millis % 1000

	if h > 0 {
		return fmt.Sprintf("%d:%02d:%02d.%03d", h, mins, s, ms)
	}

	return fmt.Sprintf("%d:%02d.%03d", mins, s, ms)
}

// formatDelta renders a trim delta with an explicit sign so the status
// bar always shows direction
func formatDelta(seconds float64) string {
	return fmt.Sprintf("%+.3fs", seconds)
}

// formatRulerTick renders a whole-second tick label
func formatRulerTick(seconds float64) string {
	total := int(seconds)
	h := total / 3600
	mins := total / 60 % 60
	s := total % 60

	if h > 0 {
		return fmt.Sprintf("%d:%02d:%02d", h, mins, s)
	}

	return fmt.Sprintf("%d:%02d", mins, s)
}
