// ABOUTME: Event handling and state updates for the TUI
// ABOUTME: Implements the Bubble Tea Update() function and gesture handlers

package tui

import (
	"runtime/debug"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"cutroom/edit"
	"cutroom/timeline"
)

// Update handles messages and updates the model
//
//nolint:ireturn // Bubble Tea framework requires returning tea.Model interface
func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	defer func() {
		if r := recover(); r != nil {
			m.deps.Debugf("[PANIC] Update panic: %v", r)
			m.deps.Debugf("[PANIC] Stack trace: %s", string(debug.Stack()))
			panic(r) // Re-panic so Bubble Tea can handle it
		}
	}()

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height

		laneWidth := msg.Width - trackLabelWidth - lanePadding
		if laneWidth < minLaneWidth {
			laneWidth = minLaneWidth
		}

		m.viewport.SetWidth(laneWidth)

		return m, nil

	case tickMsg:
		state := m.deps.Transport.State()
		if state.IsPlaying {
			m.deps.Transport.SyncClipsAtTime(state.CurrentTime+m.tickEvery.Seconds(), false)
		}

		m.viewport.Follow(m.deps.Transport.State().CurrentTime)

		return m, tick(m.tickEvery)

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, keys.Quit):
			return m.handleQuitKey()

		case key.Matches(msg, keys.PlayPause):
			m.handlePlayPauseKey()

		case key.Matches(msg, keys.Stop):
			m.deps.Transport.Stop()

		case key.Matches(msg, keys.ScrubBack):
			m.scrub(-scrubStep)

		case key.Matches(msg, keys.ScrubFwd):
			m.scrub(scrubStep)

		case key.Matches(msg, keys.Home):
			m.scrubTo(0)

		case key.Matches(msg, keys.End):
			m.scrubTo(m.deps.Model.TotalDuration())

		case key.Matches(msg, keys.TrackUp):
			m.moveTrack(-1)

		case key.Matches(msg, keys.TrackDown):
			m.moveTrack(1)

		case key.Matches(msg, keys.PrevClip):
			m.selectClip(-1)

		case key.Matches(msg, keys.NextClip):
			m.selectClip(1)

		case key.Matches(msg, keys.InHandle):
			m.handle = edit.HandleLeft

		case key.Matches(msg, keys.OutHandle):
			m.handle = edit.HandleRight

		case key.Matches(msg, keys.NudgeBack):
			m.nudge(-nudgeStep)

		case key.Matches(msg, keys.NudgeFwd):
			m.nudge(nudgeStep)

		case key.Matches(msg, keys.CoarseBk):
			m.nudge(-coarseNudgeStep)

		case key.Matches(msg, keys.CoarseFwd):
			m.nudge(coarseNudgeStep)

		case key.Matches(msg, keys.AddClip):
			m.addClip()

		case key.Matches(msg, keys.Delete):
			m.deleteClip()

		case key.Matches(msg, keys.Undo):
			m.undo()

		case key.Matches(msg, keys.Redo):
			m.redo()

		case key.Matches(msg, keys.Save):
			m.save()

		case key.Matches(msg, keys.ZoomIn):
			m.viewport.ZoomIn()

		case key.Matches(msg, keys.ZoomOut):
			m.viewport.ZoomOut()

		default:
			m.handleModeKey(msg.String())
		}
	}

	return m, nil
}

// handleQuitKey handles the quit key press
func (m *model) handleQuitKey() (model, tea.Cmd) {
	m.quitting = true
	m.deps.Transport.Stop()
	m.deps.History.Flush()

	return *m, tea.Quit
}

// handlePlayPauseKey starts playback from idle, otherwise toggles pause
func (m *model) handlePlayPauseKey() {
	state := m.deps.Transport.State()

	if !state.IsPlaying && state.CurrentTime == 0 {
		m.deps.Transport.PlayAll()

		return
	}

	m.deps.Transport.TogglePlayPause()
}

// handleModeKey selects the trim mode from number keys
func (m *model) handleModeKey(s string) {
	modes := map[string]edit.Mode{
		"1": edit.ModeNormal,
		"2": edit.ModeRipple,
		"3": edit.ModeRoll,
		"4": edit.ModeSlip,
		"5": edit.ModeSlide,
	}

	if mode, ok := modes[s]; ok {
		m.mode = mode
		m.setStatus("%s mode", mode)
	}
}

// scrub moves the playhead relative to its current position
func (m *model) scrub(delta float64) {
	m.scrubTo(m.deps.Transport.State().CurrentTime + delta)
}

// scrubTo moves the playhead to an absolute time, clamped to the timeline
func (m *model) scrubTo(t float64) {
	if t < 0 {
		t = 0
	}

	if total := m.deps.Model.TotalDuration(); t > total {
		t = total
	}

	m.deps.Transport.SyncClipsAtTime(t, true)
	m.viewport.Follow(t)
}

// trackIndex returns the track index under the track cursor
func (m *model) trackIndex() (int, bool) {
	indices := m.deps.Model.TrackIndices()
	if len(indices) == 0 {
		return 0, false
	}

	if m.trackPos >= len(indices) {
		m.trackPos = len(indices) - 1
	}

	return indices[m.trackPos], true
}

// moveTrack moves the track cursor and reselects the nearest clip
func (m *model) moveTrack(delta int) {
	indices := m.deps.Model.TrackIndices()
	if len(indices) == 0 {
		return
	}

	m.trackPos += delta
	if m.trackPos < 0 {
		m.trackPos = 0
	}

	if m.trackPos >= len(indices) {
		m.trackPos = len(indices) - 1
	}

	clips := m.deps.Model.TrackClips(indices[m.trackPos])
	if len(clips) > 0 {
		m.selectedClip = clips[0].ID
	} else {
		m.selectedClip = ""
	}
}

// selectClip moves the clip selection along the current track
func (m *model) selectClip(delta int) {
	index, ok := m.trackIndex()
	if !ok {
		return
	}

	clips := m.deps.Model.TrackClips(index)
	if len(clips) == 0 {
		return
	}

	pos := 0

	for i, clip := range clips {
		if clip.ID == m.selectedClip {
			pos = i + delta

			break
		}
	}

	if pos < 0 {
		pos = 0
	}

	if pos >= len(clips) {
		pos = len(clips) - 1
	}

	m.selectedClip = clips[pos].ID
	m.viewport.Follow(clips[pos].Position)
}

// modsFor maps the active trim mode back to gesture modifiers
func modsFor(mode edit.Mode) edit.Modifiers {
	switch mode {
	case edit.ModeRipple:
		return edit.Modifiers{Ripple: true}
	case edit.ModeRoll:
		return edit.Modifiers{Roll: true}
	case edit.ModeSlip:
		return edit.Modifiers{Slip: true}
	default:
		return edit.Modifiers{}
	}
}

// nudge runs one full trim gesture: begin, resolve against the step,
// apply, and record the result in history. The history debounce window
// coalesces a burst of nudges into a single undo entry.
func (m *model) nudge(delta float64) {
	if m.selectedClip == "" {
		return
	}

	var (
		session *edit.Session
		err     error
	)

	if m.mode == edit.ModeSlide {
		session, err = m.deps.Engine.BeginSlide(m.selectedClip)
	} else {
		session, err = m.deps.Engine.Begin(m.selectedClip, m.handle, modsFor(m.mode))
	}

	if err != nil {
		m.setStatus("trim failed: %v", err)

		return
	}

	m.deps.Engine.Resolve(session, delta)

	if session.Delta == 0 {
		m.setStatus("trim blocked (%s)", m.mode)

		return
	}

	if err := m.deps.Engine.Apply(session); err != nil {
		m.setStatus("trim failed: %v", err)

		return
	}

	m.lastDelta = session.Delta
	m.lastAffected = len(session.Affected)
	m.deps.History.Push(m.deps.Model.Snapshot())
	m.resyncPlayback()
}

// addClip inserts a clip for the next library asset at the playhead on
// the current track. Repeated presses cycle through the probed assets.
func (m *model) addClip() {
	assets := m.deps.Assets()
	if len(assets) == 0 {
		m.setStatus("no probed assets to add")

		return
	}

	asset := assets[m.assetCursor%len(assets)]

	dur := asset.Duration
	if dur <= 0 {
		dur = defaultClipDuration
	}

	index, _ := m.trackIndex()

	clip := timeline.Clip{
		ID:             timeline.NewClipID(),
		AssetID:        asset.Path,
		FilePath:       asset.Path,
		Mime:           asset.Mime,
		End:            dur,
		SourceDuration: dur,
		Position:       m.deps.Transport.State().CurrentTime,
		TrackIndex:     index,
	}

	if err := m.deps.Model.UpsertClip(clip); err != nil {
		m.setStatus("add failed: %v", err)

		return
	}

	m.assetCursor++
	m.selectedClip = clip.ID
	m.deps.History.Push(m.deps.Model.Snapshot())
	m.resyncPlayback()
	m.setStatus("added %s", truncate(asset.Title, 20))
}

// deleteClip removes the selected clip and selects its neighbor
func (m *model) deleteClip() {
	if m.selectedClip == "" {
		return
	}

	index, ok := m.trackIndex()
	if !ok {
		return
	}

	removed := m.selectedClip
	m.selectClip(1)

	if m.selectedClip == removed {
		m.selectClip(-1)
	}

	if !m.deps.Model.RemoveClip(removed) {
		return
	}

	m.deps.Forget(removed)

	if m.selectedClip == removed {
		m.selectedClip = ""

		if clips := m.deps.Model.TrackClips(index); len(clips) > 0 {
			m.selectedClip = clips[0].ID
		}
	}

	m.deps.History.Push(m.deps.Model.Snapshot())
	m.resyncPlayback()
	m.setStatus("deleted clip %s", truncate(removed, 12))
}

// undo steps history back and restores the model
func (m *model) undo() {
	if !m.deps.History.CanUndo() {
		m.setStatus("nothing to undo")

		return
	}

	m.restoreSnapshot(m.deps.History.Undo(m.deps.Model.Snapshot()))
	m.setStatus("undo")
}

// redo steps history forward and restores the model
func (m *model) redo() {
	if !m.deps.History.CanRedo() {
		m.setStatus("nothing to redo")

		return
	}

	m.restoreSnapshot(m.deps.History.Redo(m.deps.Model.Snapshot()))
	m.setStatus("redo")
}

// restoreSnapshot swaps the model state and revalidates the selection
func (m *model) restoreSnapshot(snap *timeline.Timeline) {
	m.deps.Model.Restore(snap)

	if m.selectedClip != "" {
		if _, ok := m.deps.Model.Clip(m.selectedClip); !ok {
			m.selectedClip = ""
		}
	}

	if m.selectedClip == "" {
		for _, index := range m.deps.Model.TrackIndices() {
			if clips := m.deps.Model.TrackClips(index); len(clips) > 0 {
				m.selectedClip = clips[0].ID

				break
			}
		}
	}

	m.resyncPlayback()
}

// resyncPlayback reconciles active media against the edited timeline
func (m *model) resyncPlayback() {
	state := m.deps.Transport.State()
	if state.IsPlaying {
		m.deps.Transport.SyncClipsAtTime(state.CurrentTime, false)
	}
}

// save persists the project through the injected saver
func (m *model) save() {
	if m.opts.DryRun {
		m.setStatus("dry-run: not saving")

		return
	}

	if err := m.deps.Save(); err != nil {
		m.deps.Debugf("[TUI] Save failed: %v", err)
		m.setStatus("save failed: %v", err)

		return
	}

	m.setStatus("project saved")
}
