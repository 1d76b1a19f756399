// ABOUTME: Simulated media elements implementing the playback Handle contract
// ABOUTME: Provider is the provisioning collaborator: cached, idempotent, clock-driven

// Package media implements the provisioning side of playback: a cached
// Provider that hands out clock-driven media elements, an asset Library
// that probes file metadata, and a directory watcher that invalidates
// both when source files change on disk.
package media

import (
	"fmt"
	"os"
	"sync"
	"time"

	"cutroom/playback"
	"cutroom/timeline"
)

// Element is a playable, seekable media proxy. Position advances against
// an injected clock while playing, so behavior is deterministic under
// test and real-time in the editor. There is no decoding here; decoders
// live outside this core.
type Element struct {
	mu      sync.Mutex
	clock   func() time.Time
	readyAt time.Time
	playing bool
	muted   bool
	pos     float64   // source position at anchor
	anchor  time.Time // clock reading when playing started
}

func newElement(clock func() time.Time, readyDelay time.Duration) *Element {
	return &Element{
		clock:   clock,
		readyAt: clock().Add(readyDelay),
	}
}

// Play starts advancing the element's position
func (e *Element) Play() {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.playing {
		return
	}

	e.anchor = e.clock()
	e.playing = true
}

// Pause freezes the element's position
func (e *Element) Pause() {
	e.mu.Lock()
	defer e.mu.Unlock()

	if !e.playing {
		return
	}

	e.pos += e.clock().Sub(e.anchor).Seconds()
	e.playing = false
}

// Seek jumps to a source time in seconds
func (e *Element) Seek(t float64) {
	e.mu.Lock()
	defer e.mu.Unlock()

	e.pos = t
	e.anchor = e.clock()
}

// CurrentTime reports the element's source position in seconds
func (e *Element) CurrentTime() float64 {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.playing {
		return e.pos + e.clock().Sub(e.anchor).Seconds()
	}

	return e.pos
}

// Ready reports whether the simulated buffering delay has elapsed
func (e *Element) Ready() bool {
	e.mu.Lock()
	defer e.mu.Unlock()

	return !e.clock().Before(e.readyAt)
}

// SetMuted suppresses or restores audio output
func (e *Element) SetMuted(muted bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.muted = muted
}

// Muted reports the current mute state
func (e *Element) Muted() bool {
	e.mu.Lock()
	defer e.mu.Unlock()

	return e.muted
}

// Playing reports whether the element is advancing
func (e *Element) Playing() bool {
	e.mu.Lock()
	defer e.mu.Unlock()

	return e.playing
}

type cachedElement struct {
	element *Element
	path    string
}

// Provider provisions media elements for clips. Repeated calls for the
// same clip return the cached element, which is what makes provisioning
// idempotent from the scheduler's perspective.
type Provider struct {
	mu         sync.Mutex
	clock      func() time.Time
	readyDelay time.Duration
	elements   map[string]cachedElement
}

// NewProvider creates a provider. readyDelay simulates buffering: a
// fresh element reports Ready only after the delay elapses.
func NewProvider(clock func() time.Time, readyDelay time.Duration) *Provider {
	if clock == nil {
		clock = time.Now
	}

	return &Provider{
		clock:      clock,
		readyDelay: readyDelay,
		elements:   make(map[string]cachedElement),
	}
}

// EnsureClipElement implements playback.Provisioner. A clip referencing
// a file path that does not exist fails provisioning; the scheduler
// skips it and retries.
func (p *Provider) EnsureClipElement(clip timeline.Clip) (playback.Handle, error) {
	p.mu.Lock()
	if cached, ok := p.elements[clip.ID]; ok {
		p.mu.Unlock()

		return cached.element, nil
	}
	p.mu.Unlock()

	if clip.FilePath != "" {
		if _, err := os.Stat(clip.FilePath); err != nil {
			return nil, fmt.Errorf("source missing: %w", err)
		}
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	// Re-check under the lock: a concurrent call may have won
	if cached, ok := p.elements[clip.ID]; ok {
		return cached.element, nil
	}

	el := newElement(p.clock, p.readyDelay)
	p.elements[clip.ID] = cachedElement{element: el, path: clip.FilePath}

	return el, nil
}

// InvalidatePath drops cached elements backed by the given file, forcing
// re-provisioning the next time their clips become active. Called when
// the watcher sees the file change on disk.
func (p *Provider) InvalidatePath(path string) int {
	p.mu.Lock()
	defer p.mu.Unlock()

	n := 0

	for id, cached := range p.elements {
		if cached.path == path {
			delete(p.elements, id)
			n++
		}
	}

	return n
}

// Forget drops the cached element for one clip
func (p *Provider) Forget(clipID string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	delete(p.elements, clipID)
}
