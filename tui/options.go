// ABOUTME: TUI mode configuration and dependency wiring
// ABOUTME: Defines input parameters for running the editor

package tui

import (
	"cutroom/config"
	"cutroom/edit"
	"cutroom/history"
	"cutroom/media"
	"cutroom/timeline"
)

// Options contains configuration for running the TUI
type Options struct {
	ProjectName string // Shown in the title bar
	DryRun      bool   // If true, don't save changes to disk
	DebugLog    bool   // Enable debug logging to file
}

// Dependencies holds all external dependencies for the TUI
// This allows for clean dependency injection and easy testing
type Dependencies struct {
	Model        *timeline.Model
	Engine       *edit.Engine
	History      *history.Manager
	Transport    Transport
	SharedConfig *config.SharedConfig
	Save         Saver
	Assets       func() []*media.Asset // Probed media available for insertion
	Forget       func(clipID string)   // Releases cached media for a removed clip
	Debugf       func(string, ...interface{})
}
