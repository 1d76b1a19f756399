// ABOUTME: The five trim-mode algorithms: normal, ripple, roll, slip, slide
// ABOUTME: Every mode clamps the delta to its feasible interval before touching any geometry

package edit

import (
	"fmt"
	"math"

	"cutroom/timeline"
)

// Engine resolves trim gestures against the current timeline model
type Engine struct {
	model *timeline.Model
}

// NewEngine creates an edit engine over the given model
func NewEngine(model *timeline.Model) *Engine {
	return &Engine{model: model}
}

// Begin starts a trim gesture on a clip handle. The mode is selected
// from the active modifiers.
func (e *Engine) Begin(clipID string, handle Handle, mods Modifiers) (*Session, error) {
	clip, ok := e.model.Clip(clipID)
	if !ok {
		return nil, fmt.Errorf("unknown clip %s", clipID)
	}

	return &Session{
		ClipID: clipID,
		Handle: handle,
		Mode:   ModeForModifiers(mods),
		Orig:   clip,
	}, nil
}

// BeginSlide starts a slide gesture: move the clip, neighbors absorb
func (e *Engine) BeginSlide(clipID string) (*Session, error) {
	clip, ok := e.model.Clip(clipID)
	if !ok {
		return nil, fmt.Errorf("unknown clip %s", clipID)
	}

	return &Session{
		ClipID: clipID,
		Mode:   ModeSlide,
		Orig:   clip,
	}, nil
}

// Resolve finalizes the session for a pointer delta in timeline seconds.
// The delta is clamped to the tightest feasible bound; an infeasible
// gesture resolves to a no-op rather than partially applying. Resolve
// may be called repeatedly as the pointer moves; each call recomputes
// from the original geometry.
func (e *Engine) Resolve(s *Session, delta float64) {
	s.NewStart = s.Orig.Start
	s.NewEnd = s.Orig.End
	s.NewPosition = s.Orig.Position
	s.Affected = nil
	s.Delta = 0
	s.resolved = true

	switch s.Mode {
	case ModeSlip:
		e.resolveSlip(s, delta)
	case ModeRoll:
		e.resolveRoll(s, delta)
	case ModeRipple:
		e.resolveRipple(s, delta)
	case ModeSlide:
		e.resolveSlide(s, delta)
	default:
		e.resolveNormal(s, delta)
	}
}

// Apply commits a resolved session atomically to the model
func (e *Engine) Apply(s *Session) error {
	if !s.resolved {
		return fmt.Errorf("session for clip %s not resolved", s.ClipID)
	}

	clip := s.Orig
	clip.Start = s.NewStart
	clip.End = s.NewEnd
	clip.Position = s.NewPosition

	clips := []timeline.Clip{clip}

	for _, a := range s.Affected {
		sibling, ok := e.model.Clip(a.ID)
		if !ok {
			return fmt.Errorf("affected clip %s vanished", a.ID)
		}

		sibling.Start = a.NewStart
		sibling.End = a.NewEnd
		sibling.Position = a.NewPosition
		clips = append(clips, sibling)
	}

	return e.model.Commit(clips)
}

// interval is a feasible range for a gesture delta
type interval struct {
	lo, hi float64
}

func unbounded() interval {
	return interval{lo: math.Inf(-1), hi: math.Inf(1)}
}

// tighten intersects the interval with [lo, hi]. The final clamp picks
// the tightest of all accumulated bounds.
func (iv *interval) tighten(lo, hi float64) {
	if lo > iv.lo {
		iv.lo = lo
	}

	if hi < iv.hi {
		iv.hi = hi
	}
}

// clamp returns delta limited to the interval, or 0 when the interval
// is empty (infeasible gestures never partially apply)
func (iv interval) clamp(delta float64) float64 {
	if iv.lo > iv.hi {
		return 0
	}

	return math.Min(math.Max(delta, iv.lo), iv.hi)
}

// resolveNormal trims the dragged handle only. Adjacent clips stay
// exactly where they are; the drag is clamped at a neighbor's boundary
// instead of overlapping it.
func (e *Engine) resolveNormal(s *Session, delta float64) {
	c := s.Orig
	minDur := e.model.MinClipDuration()
	iv := unbounded()

	if s.Handle == HandleRight {
		iv.tighten(minDur-c.Duration(), c.SourceDuration-c.End)

		if next, ok := e.nextClip(c); ok {
			iv.tighten(math.Inf(-1), next.Position-c.EndPosition())
		}

		d := iv.clamp(delta)
		s.Delta = d
		s.NewEnd = c.End + d

		return
	}

	// Left handle: the in point and the timeline position move together
	iv.tighten(-c.Start, c.Duration()-minDur)
	iv.tighten(-c.Position, math.Inf(1))

	if prev, ok := e.prevClip(c); ok {
		iv.tighten(prev.EndPosition()-c.Position, math.Inf(1))
	}

	d := iv.clamp(delta)
	s.Delta = d
	s.NewStart = c.Start + d
	s.NewPosition = c.Position + d
}

// resolveRipple trims like normal but shifts every downstream clip on
// the track so gaps and adjacencies among them are preserved. Total
// program duration on the track changes by the delta.
func (e *Engine) resolveRipple(s *Session, delta float64) {
	c := s.Orig
	minDur := e.model.MinClipDuration()
	iv := unbounded()

	if s.Handle == HandleRight {
		iv.tighten(minDur-c.Duration(), c.SourceDuration-c.End)

		// Downstream clips shift with the out edge; none may cross zero
		downstream := e.clipsFrom(c, c.EndPosition())
		for _, sib := range downstream {
			iv.tighten(-sib.Position, math.Inf(1))
		}

		d := iv.clamp(delta)
		s.Delta = d
		s.NewEnd = c.End + d

		for _, sib := range downstream {
			s.Affected = append(s.Affected, shiftClip(sib, d))
		}

		return
	}

	// Left handle: the in point advances while the clip's timeline
	// position stays anchored; downstream closes up by the trimmed amount
	iv.tighten(-c.Start, c.Duration()-minDur)

	downstream := e.clipsFrom(c, c.EndPosition())
	for _, sib := range downstream {
		iv.tighten(math.Inf(-1), sib.Position)
	}

	d := iv.clamp(delta)
	s.Delta = d
	s.NewStart = c.Start + d

	for _, sib := range downstream {
		s.Affected = append(s.Affected, shiftClip(sib, -d))
	}
}

// resolveRoll moves the shared boundary between the dragged clip and its
// immediate neighbor; total track duration is unchanged. Without a
// neighbor on that side the gesture degrades to a normal trim.
func (e *Engine) resolveRoll(s *Session, delta float64) {
	c := s.Orig
	minDur := e.model.MinClipDuration()
	iv := unbounded()

	if s.Handle == HandleRight {
		next, ok := e.nextClip(c)
		if !ok {
			e.resolveNormal(s, delta)

			return
		}

		iv.tighten(minDur-c.Duration(), c.SourceDuration-c.End)
		iv.tighten(-next.Start, next.Duration()-minDur)

		d := iv.clamp(delta)
		s.Delta = d
		s.NewEnd = c.End + d
		s.Affected = append(s.Affected, AffectedClip{
			ID:          next.ID,
			OldStart:    next.Start,
			NewStart:    next.Start + d,
			OldEnd:      next.End,
			NewEnd:      next.End,
			OldPosition: next.Position,
			NewPosition: next.Position + d,
		})

		return
	}

	prev, ok := e.prevClip(c)
	if !ok {
		e.resolveNormal(s, delta)

		return
	}

	iv.tighten(-c.Start, c.Duration()-minDur)
	iv.tighten(minDur-prev.Duration(), prev.SourceDuration-prev.End)

	d := iv.clamp(delta)
	s.Delta = d
	s.NewStart = c.Start + d
	s.NewPosition = c.Position + d
	s.Affected = append(s.Affected, AffectedClip{
		ID:          prev.ID,
		OldStart:    prev.Start,
		NewStart:    prev.Start,
		OldEnd:      prev.End,
		NewEnd:      prev.End + d,
		OldPosition: prev.Position,
		NewPosition: prev.Position,
	})
}

// resolveSlip slides the trim window across the source without moving
// the clip on the timeline or changing its duration
func (e *Engine) resolveSlip(s *Session, delta float64) {
	c := s.Orig
	iv := unbounded()
	iv.tighten(-c.Start, c.SourceDuration-c.End)

	d := iv.clamp(delta)
	s.Delta = d
	s.NewStart = c.Start + d
	s.NewEnd = c.End + d
}

// resolveSlide moves the clip along the track; the previous neighbor's
// tail and the next neighbor's head absorb the change so the outer
// boundaries of the trio stay fixed
func (e *Engine) resolveSlide(s *Session, delta float64) {
	c := s.Orig
	minDur := e.model.MinClipDuration()
	iv := unbounded()

	prev, hasPrev := e.prevClip(c)
	next, hasNext := e.nextClip(c)

	iv.tighten(-c.Position, math.Inf(1))

	if hasPrev {
		// Prev's out point stretches/shrinks with the slide
		iv.tighten(minDur-prev.Duration(), prev.SourceDuration-prev.End)
	}

	if hasNext {
		// Next's in point trims so its out edge stays fixed
		iv.tighten(-next.Start, next.Duration()-minDur)
	}

	d := iv.clamp(delta)
	s.Delta = d
	s.NewPosition = c.Position + d

	if hasPrev {
		s.Affected = append(s.Affected, AffectedClip{
			ID:          prev.ID,
			OldStart:    prev.Start,
			NewStart:    prev.Start,
			OldEnd:      prev.End,
			NewEnd:      prev.End + d,
			OldPosition: prev.Position,
			NewPosition: prev.Position,
		})
	}

	if hasNext {
		s.Affected = append(s.Affected, AffectedClip{
			ID:          next.ID,
			OldStart:    next.Start,
			NewStart:    next.Start + d,
			OldEnd:      next.End,
			NewEnd:      next.End,
			OldPosition: next.Position,
			NewPosition: next.Position + d,
		})
	}
}

// shiftClip builds an AffectedClip that moves a sibling by d without
// touching its trim window
func shiftClip(c timeline.Clip, d float64) AffectedClip {
	return AffectedClip{
		ID:          c.ID,
		OldStart:    c.Start,
		NewStart:    c.Start,
		OldEnd:      c.End,
		NewEnd:      c.End,
		OldPosition: c.Position,
		NewPosition: c.Position + d,
	}
}

// prevClip returns the nearest clip ending at or before c's position on
// the same track
func (e *Engine) prevClip(c timeline.Clip) (timeline.Clip, bool) {
	var (
		best  timeline.Clip
		found bool
	)

	for _, sib := range e.model.TrackClips(c.TrackIndex) {
		if sib.ID == c.ID || sib.Position >= c.Position {
			continue
		}

		if !found || sib.Position > best.Position {
			best = sib
			found = true
		}
	}

	return best, found
}

// nextClip returns the nearest clip starting at or after c's end
// position on the same track
func (e *Engine) nextClip(c timeline.Clip) (timeline.Clip, bool) {
	var (
		best  timeline.Clip
		found bool
	)

	for _, sib := range e.model.TrackClips(c.TrackIndex) {
		if sib.ID == c.ID || sib.Position <= c.Position {
			continue
		}

		if !found || sib.Position < best.Position {
			best = sib
			found = true
		}
	}

	return best, found
}

// clipsFrom returns the clips on c's track whose position is at or past
// the given boundary, excluding c itself
func (e *Engine) clipsFrom(c timeline.Clip, boundary float64) []timeline.Clip {
	var out []timeline.Clip

	for _, sib := range e.model.TrackClips(c.TrackIndex) {
		if sib.ID == c.ID {
			continue
		}

		if sib.Position >= boundary-1e-9 {
			out = append(out, sib)
		}
	}

	return out
}
