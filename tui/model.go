// ABOUTME: Terminal UI model and core state management
// ABOUTME: Bubble Tea model implementation wrapping the editing core

// Package tui provides an interactive terminal editor over the timeline
// core: lane rendering, trim gestures, transport control and undo.
package tui

import (
	"fmt"
	"time"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"cutroom/edit"
	"cutroom/media"
)

// Layout constants for UI dimensions
const (
	trackLabelWidth = 12 // Left column with track names
	lanePadding     = 1  // Space between label and lane

	// UI chrome heights (elements that reduce available lane space)
	titleHeight     = 1
	rulerHeight     = 1
	statusBarHeight = 1
	helpHeight      = 1
	totalUIChrome   = titleHeight + rulerHeight + statusBarHeight + helpHeight

	// Minimum lane dimensions to ensure usability
	minLaneWidth = 20
)

// Interaction constants
const (
	scrubStep             = 0.25 // Seconds per scrub key press
	nudgeStep             = 0.1  // Seconds per fine trim nudge
	coarseNudgeStep       = 1.0  // Seconds per coarse trim nudge
	defaultClipDuration   = 5.0  // Seconds for assets whose container hides the length
	statusMessageDuration = 5 * time.Second
)

// tickMsg drives the playback sync loop
type tickMsg time.Time

// model holds the TUI state
type model struct {
	// Dependencies (concrete types following Go philosophy)
	deps Dependencies
	opts Options

	// Selection
	trackPos     int    // Index into the model's sorted track indices
	selectedClip string // Clip ID, stable across edits
	assetCursor  int    // Next library asset the add key inserts
	handle       edit.Handle
	mode         edit.Mode

	// Last resolved gesture, for the status bar
	lastDelta    float64
	lastAffected int

	// UI state
	width        int
	height       int
	quitting     bool
	statusMsg    string
	statusMsgAge time.Time
	viewport     *Viewport
	tickEvery    time.Duration // playback sync interval, from the frame budget
}

// Key bindings
type keyMap struct {
	Quit      key.Binding
	PlayPause key.Binding
	Stop      key.Binding
	ScrubBack key.Binding
	ScrubFwd  key.Binding
	Home      key.Binding
	End       key.Binding
	TrackUp   key.Binding
	TrackDown key.Binding
	PrevClip  key.Binding
	NextClip  key.Binding
	InHandle  key.Binding
	OutHandle key.Binding
	NudgeBack key.Binding
	NudgeFwd  key.Binding
	CoarseBk  key.Binding
	CoarseFwd key.Binding
	AddClip   key.Binding
	Delete    key.Binding
	Undo      key.Binding
	Redo      key.Binding
	Save      key.Binding
	ZoomIn    key.Binding
	ZoomOut   key.Binding
}

var keys = keyMap{
	Quit: key.NewBinding(
		key.WithKeys("q", "ctrl+c"),
		key.WithHelp("q", "quit"),
	),
	PlayPause: key.NewBinding(
		key.WithKeys(" "),
		key.WithHelp("space", "play/pause"),
	),
	Stop: key.NewBinding(
		key.WithKeys("s"),
		key.WithHelp("s", "stop"),
	),
	ScrubBack: key.NewBinding(
		key.WithKeys("left", "h"),
		key.WithHelp("←/h", "scrub back"),
	),
	ScrubFwd: key.NewBinding(
		key.WithKeys("right", "l"),
		key.WithHelp("→/l", "scrub forward"),
	),
	Home: key.NewBinding(
		key.WithKeys("home", "g"),
		key.WithHelp("home/g", "to start"),
	),
	End: key.NewBinding(
		key.WithKeys("end", "G"),
		key.WithHelp("end/G", "to end"),
	),
	TrackUp: key.NewBinding(
		key.WithKeys("up", "k"),
		key.WithHelp("↑/k", "track up"),
	),
	TrackDown: key.NewBinding(
		key.WithKeys("down", "j"),
		key.WithHelp("↓/j", "track down"),
	),
	PrevClip: key.NewBinding(
		key.WithKeys("["),
		key.WithHelp("[", "prev clip"),
	),
	NextClip: key.NewBinding(
		key.WithKeys("]"),
		key.WithHelp("]", "next clip"),
	),
	InHandle: key.NewBinding(
		key.WithKeys("i"),
		key.WithHelp("i", "in handle"),
	),
	OutHandle: key.NewBinding(
		key.WithKeys("o"),
		key.WithHelp("o", "out handle"),
	),
	NudgeBack: key.NewBinding(
		key.WithKeys(","),
		key.WithHelp(",", "trim -0.1s"),
	),
	NudgeFwd: key.NewBinding(
		key.WithKeys("."),
		key.WithHelp(".", "trim +0.1s"),
	),
	CoarseBk: key.NewBinding(
		key.WithKeys("<"),
		key.WithHelp("<", "trim -1s"),
	),
	CoarseFwd: key.NewBinding(
		key.WithKeys(">"),
		key.WithHelp(">", "trim +1s"),
	),
	AddClip: key.NewBinding(
		key.WithKeys("a"),
		key.WithHelp("a", "add clip"),
	),
	Delete: key.NewBinding(
		key.WithKeys("x"),
		key.WithHelp("x", "delete clip"),
	),
	Undo: key.NewBinding(
		key.WithKeys("u"),
		key.WithHelp("u", "undo"),
	),
	Redo: key.NewBinding(
		key.WithKeys("ctrl+r"),
		key.WithHelp("ctrl+r", "redo"),
	),
	Save: key.NewBinding(
		key.WithKeys("w"),
		key.WithHelp("w", "save"),
	),
	ZoomIn: key.NewBinding(
		key.WithKeys("+", "="),
		key.WithHelp("+", "zoom in"),
	),
	ZoomOut: key.NewBinding(
		key.WithKeys("-"),
		key.WithHelp("-", "zoom out"),
	),
}

// Styles
var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("12"))

	trackLabelStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("10"))

	rulerStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("241"))

	statusStyle = lipgloss.NewStyle().
			Background(lipgloss.Color("236")).
			Foreground(lipgloss.Color("15")).
			Padding(0, 1)

	helpStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("241"))

	playheadStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("9")).
			Bold(true)
)

// Run starts the TUI editor with injected dependencies
func Run(opts Options, deps Dependencies) error {
	m := initModel(opts, deps)

	p := tea.NewProgram(m, tea.WithAltScreen())

	finalModel, err := p.Run()
	if err != nil {
		return fmt.Errorf("TUI error: %w", err)
	}

	// Save the project on exit (unless dry-run mode)
	if m, ok := finalModel.(model); ok {
		if m.opts.DryRun {
			fmt.Println("\n--dry-run mode: project not modified")

			return nil
		}

		if err := m.deps.Save(); err != nil {
			return fmt.Errorf("failed to save project: %w", err)
		}

		fmt.Println("\nSaved project.")
	}

	return nil
}

// initModel creates the initial model with injected dependencies
func initModel(opts Options, deps Dependencies) model {
	if deps.Debugf == nil {
		deps.Debugf = func(string, ...interface{}) {}
	}

	if deps.Assets == nil {
		deps.Assets = func() []*media.Asset { return nil }
	}

	if deps.Forget == nil {
		deps.Forget = func(string) {}
	}

	cfg := deps.SharedConfig.Get()

	m := model{
		deps:      deps,
		opts:      opts,
		viewport:  NewViewport(cfg.MinPixelsPerSecond, cfg.MaxPixelsPerSecond),
		mode:      edit.ModeNormal,
		handle:    edit.HandleRight,
		tickEvery: time.Duration(cfg.FrameBudgetMs) * time.Millisecond,
	}

	// Select the first clip so trim keys work immediately
	for _, index := range deps.Model.TrackIndices() {
		clips := deps.Model.TrackClips(index)
		if len(clips) > 0 {
			m.selectedClip = clips[0].ID

			break
		}

		m.trackPos++
	}

	return m
}

// Init starts the playback sync loop
func (m model) Init() tea.Cmd {
	return tick(m.tickEvery)
}

// tick schedules the next playback sync
func tick(every time.Duration) tea.Cmd {
	return tea.Tick(every, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

// setStatus sets a transient status bar message
func (m *model) setStatus(format string, args ...interface{}) {
	m.statusMsg = fmt.Sprintf(format, args...)
	m.statusMsgAge = time.Now()
}

// truncate shortens a string to maxLen, adding "..." if truncated
func truncate(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}

	if maxLen <= 3 {
		return s[:maxLen]
	}

	return s[:maxLen-3] + "..."
}
