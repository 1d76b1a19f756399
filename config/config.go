// ABOUTME: Configuration management for editor behavior
// ABOUTME: Handles loading/saving TOML config files with fallback to defaults

package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
)

// EditorConfig holds all tunable editor parameters
type EditorConfig struct {
	// Editing
	MinClipDuration float64 `toml:"min_clip_duration"` // seconds, floor for any trim

	// History
	MaxHistory        int `toml:"max_history"`         // snapshots kept before the oldest is dropped
	HistoryDebounceMs int `toml:"history_debounce_ms"` // edits closer than this coalesce into one entry

	// Playback sync
	PlayToleranceMs  int `toml:"play_tolerance_ms"`  // drift allowed during playback before a corrective seek
	ScrubToleranceMs int `toml:"scrub_tolerance_ms"` // looser drift allowance while scrubbing

	// Viewport
	MinPixelsPerSecond float64 `toml:"min_pixels_per_second"`
	MaxPixelsPerSecond float64 `toml:"max_pixels_per_second"`

	// Render loop
	FrameBudgetMs int `toml:"frame_budget_ms"` // playback sync tick interval
}

// GetConfigPath returns the default config file path
// First tries current directory, then falls back to ~/.config/cutroom/config.toml
func GetConfigPath() string {
	if _, err := os.Stat("./cutroom.toml"); err == nil {
		return "./cutroom.toml"
	}

	home, err := os.UserHomeDir()
	if err != nil {
		return "./cutroom.toml"
	}

	return filepath.Join(home, ".config", "cutroom", "config.toml")
}

// LoadConfig loads configuration from a TOML file
// If the file doesn't exist or fails to load, returns default config
func LoadConfig(path string) (EditorConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return DefaultConfig(), nil
		}

		return DefaultConfig(), fmt.Errorf("failed to read config file: %w", err)
	}

	var config EditorConfig
	if err := toml.Unmarshal(data, &config); err != nil {
		return DefaultConfig(), fmt.Errorf("failed to parse config file: %w", err)
	}

	return config.sanitized(), nil
}

// SaveConfig saves configuration to a TOML file
func SaveConfig(path string, config EditorConfig) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create config file: %w", err)
	}
	defer func() {
		if err := f.Close(); err != nil {
			fmt.Printf("Warning: failed to close config file: %v\n", err)
		}
	}()

	encoder := toml.NewEncoder(f)
	if err := encoder.Encode(config); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}

	return nil
}

// DefaultConfig returns the default editor configuration
func DefaultConfig() EditorConfig {
	return EditorConfig{
		MinClipDuration:    0.1,
		MaxHistory:         100,
		HistoryDebounceMs:  500,
		PlayToleranceMs:    50,
		ScrubToleranceMs:   300,
		MinPixelsPerSecond: 2,
		MaxPixelsPerSecond: 400,
		FrameBudgetMs:      33,
	}
}

// sanitized replaces zero or nonsensical values with defaults so a
// partial config file still produces a usable editor
func (c EditorConfig) sanitized() EditorConfig {
	defaults := DefaultConfig()

	if c.MinClipDuration <= 0 {
		c.MinClipDuration = defaults.MinClipDuration
	}

	if c.MaxHistory <= 0 {
		c.MaxHistory = defaults.MaxHistory
	}

	if c.HistoryDebounceMs < 0 {
		c.HistoryDebounceMs = defaults.HistoryDebounceMs
	}

	if c.PlayToleranceMs <= 0 {
		c.PlayToleranceMs = defaults.PlayToleranceMs
	}

	if c.ScrubToleranceMs <= 0 {
		c.ScrubToleranceMs = defaults.ScrubToleranceMs
	}

	if c.MinPixelsPerSecond <= 0 {
		c.MinPixelsPerSecond = defaults.MinPixelsPerSecond
	}

	if c.MaxPixelsPerSecond <= c.MinPixelsPerSecond {
		c.MaxPixelsPerSecond = defaults.MaxPixelsPerSecond
	}

	if c.FrameBudgetMs <= 0 {
		c.FrameBudgetMs = defaults.FrameBudgetMs
	}

	return c
}
