// ABOUTME: Thread-safe wrapper around the editor config
// ABOUTME: The TUI writes tuned values while background work reads them

package config

import "sync"

// SharedConfig allows safe concurrent access to editor parameters.
// The TUI updates values while the playback tick loop reads them.
type SharedConfig struct {
	mu     sync.RWMutex
	config EditorConfig
}

// NewSharedConfig wraps a config for concurrent use
func NewSharedConfig(config EditorConfig) *SharedConfig {
	return &SharedConfig{config: config}
}

// Get returns a copy of the current config (thread-safe read)
func (sc *SharedConfig) Get() EditorConfig {
	sc.mu.RLock()
	defer sc.mu.RUnlock()

	return sc.config
}

// Update updates the config (thread-safe write)
func (sc *SharedConfig) Update(config EditorConfig) {
	sc.mu.Lock()
	defer sc.mu.Unlock()
	sc.config = config
}
