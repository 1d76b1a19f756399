// ABOUTME: Edit session types: gesture state, handles, modes and modifier mapping
// ABOUTME: A Session captures one trim/move gesture from begin through resolve to apply

// Package edit computes the result of trim and move gestures over the
// timeline model. Each gesture runs in a Session: begin on the dragged
// clip, resolve against a pointer delta (clamped, never failing), then
// apply atomically to the model.
package edit

import (
	"fmt"

	"cutroom/timeline"
)

// Mode is the trim semantics applied to a gesture
type Mode int

const (
	ModeNormal Mode = iota
	ModeRipple
	ModeRoll
	ModeSlip
	ModeSlide
)

func (m Mode) String() string {
	switch m {
	case ModeNormal:
		return "normal"
	case ModeRipple:
		return "ripple"
	case ModeRoll:
		return "roll"
	case ModeSlip:
		return "slip"
	case ModeSlide:
		return "slide"
	default:
		return fmt.Sprintf("mode(%d)", int(m))
	}
}

// Handle identifies which edge of the clip is being dragged
type Handle int

const (
	HandleLeft Handle = iota
	HandleRight
)

func (h Handle) String() string {
	if h == HandleLeft {
		return "left"
	}

	return "right"
}

// Modifiers is the keyboard-modifier combination active when a trim
// gesture begins
type Modifiers struct {
	Slip   bool
	Roll   bool
	Ripple bool
}

// ModeForModifiers selects the trim mode from active modifiers.
// Priority: slip > roll > ripple > normal. Slide is a distinct gesture
// type and never modifier-selected.
func ModeForModifiers(mods Modifiers) Mode {
	switch {
	case mods.Slip:
		return ModeSlip
	case mods.Roll:
		return ModeRoll
	case mods.Ripple:
		return ModeRipple
	default:
		return ModeNormal
	}
}

// AffectedClip records a sibling clip changed by the gesture, with its
// original and resolved geometry
type AffectedClip struct {
	ID          string
	OldStart    float64
	NewStart    float64
	OldEnd      float64
	NewEnd      float64
	OldPosition float64
	NewPosition float64
}

// Session is the ephemeral working state of one gesture. Created by
// Engine.Begin / Engine.BeginSlide, finalized by Resolve, consumed by
// Apply or simply dropped to cancel.
type Session struct {
	ClipID string
	Handle Handle
	Mode   Mode

	// Original geometry of the dragged clip at gesture start
	Orig timeline.Clip

	// Resolved geometry, valid after Resolve
	Delta       float64 // the clamped delta that was actually applied
	NewStart    float64
	NewEnd      float64
	NewPosition float64
	Affected    []AffectedClip

	resolved bool
}

// Resolved reports whether the session holds a finalized geometry
func (s *Session) Resolved() bool {
	return s.resolved
}
