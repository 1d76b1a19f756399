// ABOUTME: Boundary contracts for media handles and the provisioning collaborator
// ABOUTME: Handles are playable/seekable proxies for a clip's underlying asset

// Package playback owns the single authoritative playback clock and
// keeps every provisioned media handle phase-locked to it. Decoding and
// rendering live behind the Handle and Provisioner interfaces; this
// package only coordinates.
package playback

import (
	"fmt"

	"cutroom/timeline"
)

// Handle is a playable, seekable proxy for one clip's media. Handles are
// owned exclusively by the Scheduler once provisioned; nothing else
// aliases them.
type Handle interface {
	Play()
	Pause()
	// Seek positions the handle at a source time in seconds
	Seek(t float64)
	// CurrentTime reports the handle's source-time position in seconds
	CurrentTime() float64
	// Ready reports whether the handle has buffered enough to obey
	// Play/Seek immediately
	Ready() bool
	SetMuted(muted bool)
}

// Provisioner supplies media handles for clips. Implementations may take
// unbounded wall-clock time and must be idempotent: repeated calls for
// the same clip return the same cached handle.
//
// The scheduler calls this from its own goroutine; implementations only
// need to be safe for concurrent calls with distinct clips.
type Provisioner interface {
	EnsureClipElement(clip timeline.Clip) (Handle, error)
}

// ProvisioningError reports a failed handle acquisition. The affected
// clip is skipped for the current tick and retried on the next one;
// playback of other clips continues.
type ProvisioningError struct {
	ClipID string
	Err    error
}

func (e *ProvisioningError) Error() string {
	return fmt.Sprintf("provisioning clip %s: %v", e.ClipID, e.Err)
}

func (e *ProvisioningError) Unwrap() error {
	return e.Err
}
