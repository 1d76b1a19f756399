// ABOUTME: Tests for timecode formatting
// ABOUTME: Covers rounding, hour rollover and negative clamping

package main

import (
	"math"
	"testing"
)

func TestFormatTimecode(t *testing.T) {
	tests := []struct {
		name    string
		seconds float64
		want    string
	}{
		{"zero", 0, "0:00.000"},
		{"sub-second", 0.5, "0:00.500"},
		{"rounds to millisecond", 1.2345, "0:01.235"},
		{"minute rollover", 61.25, "1:01.250"},
		{"hour rollover", 3661.5, "1:01:01.500"},
		{"negative clamps to zero", -5, "0:00.000"},
		{"nan clamps to zero", math.NaN(), "0:00.000"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := FormatTimecode(tt.seconds); got != tt.want {
				t.Errorf("FormatTimecode(%v) = %q, want %q", tt.seconds, got, tt.want)
			}
		})
	}
}

func TestFormatRulerTick(t *testing.T) {
	if got := FormatRulerTick(90); got != "1:30" {
		t.Errorf("FormatRulerTick(90) = %q, want 1:30", got)
	}

	if got := FormatRulerTick(3600); got != "1:00:00" {
		t.Errorf("FormatRulerTick(3600) = %q, want 1:00:00", got)
	}
}
