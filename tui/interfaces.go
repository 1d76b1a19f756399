// ABOUTME: Interfaces defining dependencies for the TUI package
// ABOUTME: Allows clean separation and easy testing with fakes

package tui

import "cutroom/playback"

// Transport drives playback from the editor. Satisfied by the playback
// scheduler; tests substitute a fake to avoid async provisioning.
type Transport interface {
	PlayAll()
	Stop()
	TogglePlayPause()
	SyncClipsAtTime(t float64, isScrubbing bool)
	State() playback.State
}

// Saver persists the current timeline wherever the project came from
type Saver func() error
