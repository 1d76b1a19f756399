// ABOUTME: Playback scheduler: the authoritative clock and per-clip handle coordination
// ABOUTME: Derives the active-clip set each tick, corrects drift, and tolerates slow provisioning

package playback

import (
	"math"
	"sync"

	"cutroom/timeline"
)

// Tolerances are the drift thresholds beyond which a handle is reseeked.
// Reseeking every tick would stall hardware decoders, so small drift is
// left alone. Scrubbing tolerates more.
type Tolerances struct {
	Play  float64
	Scrub float64
}

// State is a read-only view of the playback machine
type State struct {
	IsPlaying     bool
	CurrentTime   float64
	TotalDuration float64
}

// provisionResult carries an asynchronous provisioning outcome back to
// the tick path. Tagged with the generation active when the request was
// issued; stale results are discarded, never applied.
type provisionResult struct {
	clipID string
	gen    uint64
	handle Handle
	err    error
}

// Scheduler keeps every active clip's handle phase-locked to the single
// playback clock. All methods run on the host's owner goroutine; the
// only concurrency is provisioning goroutines delivering results into a
// mutex-guarded queue drained at the start of each tick.
type Scheduler struct {
	model  *timeline.Model
	prov   Provisioner
	tol    Tolerances
	debugf func(string, ...interface{})

	playing     bool
	currentTime float64

	handles  *arena
	gen      map[string]uint64
	inflight map[string]bool

	resultMu sync.Mutex
	results  []provisionResult
}

// NewScheduler creates a scheduler over the model and provisioner.
// debugf may be nil.
func NewScheduler(model *timeline.Model, prov Provisioner, tol Tolerances, debugf func(string, ...interface{})) *Scheduler {
	if debugf == nil {
		debugf = func(string, ...interface{}) {}
	}

	return &Scheduler{
		model:    model,
		prov:     prov,
		tol:      tol,
		debugf:   debugf,
		handles:  newArena(),
		gen:      make(map[string]uint64),
		inflight: make(map[string]bool),
	}
}

// State returns the current playback state
func (s *Scheduler) State() State {
	return State{
		IsPlaying:     s.playing,
		CurrentTime:   s.currentTime,
		TotalDuration: s.model.TotalDuration(),
	}
}

// IsPlaying reports whether the clock is advancing
func (s *Scheduler) IsPlaying() bool {
	return s.playing
}

// CurrentTime returns the authoritative clock position in seconds
func (s *Scheduler) CurrentTime() float64 {
	return s.currentTime
}

// PlayAll transitions Idle -> Playing and provisions the clips under the
// playhead. With no clips on the timeline there is nothing to anchor
// playback, so the scheduler stays idle.
func (s *Scheduler) PlayAll() {
	if s.playing {
		return
	}

	if s.model.ClipCount() == 0 {
		s.debugf("[playback] playAll: empty timeline, staying idle")

		return
	}

	// Play pressed at the very end restarts from the top
	if s.currentTime >= s.model.TotalDuration() {
		s.currentTime = 0
	}

	s.playing = true
	s.debugf("[playback] playing from %.3fs", s.currentTime)
	s.SyncClipsAtTime(s.currentTime, false)
}

// Stop transitions Playing -> Idle, pausing (not destroying) every
// provisioned handle so an immediate scrub needs no re-provisioning.
// The clock stays at the last observed position.
func (s *Scheduler) Stop() {
	s.stop(s.currentTime)
}

// StopAt stops playback and sets the clock to finalTime
func (s *Scheduler) StopAt(finalTime float64) {
	s.stop(finalTime)
}

func (s *Scheduler) stop(finalTime float64) {
	s.handles.each(func(_ string, h Handle) {
		h.Pause()
	})

	if s.playing {
		s.debugf("[playback] stopped at %.3fs", finalTime)
	}

	s.playing = false
	s.currentTime = finalTime
}

// TogglePlayPause dispatches to PlayAll or Stop based on current state
func (s *Scheduler) TogglePlayPause() {
	if s.playing {
		s.Stop()
	} else {
		s.PlayAll()
	}
}

// SyncClipsAtTime is the per-tick/per-seek operation: recompute the
// active-clip set for the given time, provision newly-active clips,
// tear down out-of-range handles, and correct drift on the rest.
// isScrubbing mutes audio and widens the drift tolerance.
//
// The host drives this continuously while playing (e.g. once per
// animation frame) and on every manual scrub.
func (s *Scheduler) SyncClipsAtTime(t float64, isScrubbing bool) {
	s.currentTime = t

	s.drainResults()

	active := make(map[string]timeline.Clip)
	for _, c := range s.model.ClipsAt(t) {
		active[c.ID] = c
	}

	// Tear down handles for clips that fell out of range. Bumping the
	// generation discards any in-flight provisioning for them.
	var stale []string

	s.handles.each(func(clipID string, h Handle) {
		if _, ok := active[clipID]; !ok {
			h.Pause()
			stale = append(stale, clipID)
		}
	})

	for _, clipID := range stale {
		s.handles.remove(clipID)
		s.gen[clipID]++
		delete(s.inflight, clipID)
	}

	// A seek may also supersede provisioning that never produced a handle
	for clipID := range s.inflight {
		if _, ok := active[clipID]; !ok {
			s.gen[clipID]++
			delete(s.inflight, clipID)
		}
	}

	tol := s.tol.Play
	if isScrubbing {
		tol = s.tol.Scrub
	}

	for clipID, clip := range active {
		h, ok := s.handles.get(clipID)
		if !ok {
			s.requestProvision(clip)

			continue
		}

		if !h.Ready() {
			// Not buffered yet; skip this tick rather than block it
			continue
		}

		expected := clip.SourceTimeAt(t)
		if math.Abs(h.CurrentTime()-expected) > tol {
			h.Seek(expected)
		}

		h.SetMuted(isScrubbing)

		if s.playing && !isScrubbing {
			h.Play()
		} else {
			h.Pause()
		}
	}

	if total := s.model.TotalDuration(); s.playing && t >= total {
		s.StopAt(total)
	}
}

// ActiveHandleCount returns how many handles are currently provisioned
func (s *Scheduler) ActiveHandleCount() int {
	return s.handles.len()
}

// requestProvision kicks off asynchronous handle acquisition for a clip.
// Fire and forget: the result lands in the queue and is applied on a
// later tick, if its generation is still current.
func (s *Scheduler) requestProvision(clip timeline.Clip) {
	if s.inflight[clip.ID] {
		return
	}

	s.inflight[clip.ID] = true
	gen := s.gen[clip.ID]

	go func() {
		h, err := s.prov.EnsureClipElement(clip)

		s.resultMu.Lock()
		s.results = append(s.results, provisionResult{clipID: clip.ID, gen: gen, handle: h, err: err})
		s.resultMu.Unlock()
	}()
}

// drainResults applies queued provisioning outcomes on the tick path
func (s *Scheduler) drainResults() {
	s.resultMu.Lock()
	results := s.results
	s.results = nil
	s.resultMu.Unlock()

	for _, r := range results {
		if r.gen != s.gen[r.clipID] {
			s.debugf("[playback] discarding stale handle for clip %s (gen %d != %d)", r.clipID, r.gen, s.gen[r.clipID])

			continue
		}

		delete(s.inflight, r.clipID)

		if r.err != nil {
			// Skipped this tick, retried on the next one
			s.debugf("[playback] %v", &ProvisioningError{ClipID: r.clipID, Err: r.err})

			continue
		}

		s.handles.insert(r.clipID, r.handle)
	}
}
