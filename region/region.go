// Package region converts an instrument's normalized slice parameters into
// an absolute playback region and its root pitch. Resolution is pure and
// re-runs on every trigger because instrument parameters may be edited live.
package region

import (
	"math"
	"strconv"
	"strings"

	"github.com/shaban/miditrig/host"
)

// Region is the resolved slice of a source to play, as fractions of the full
// source duration, plus the MIDI note at which it plays at natural speed.
type Region struct {
	Start float64 `json:"start"` // normalized [0,1]
	End   float64 `json:"end"`   // normalized [0,1], always > Start
	Root  int     `json:"root"`  // MIDI note number for rate 1.0
}

// Resolve reads the instrument's four normalized parameters and computes its
// playback region.
//
// Length is interpreted as a fraction of the span remaining after the start
// offset, not of the full source: end = start + (1-start)*length. A
// degenerate result (end <= start) resets to the full range [0,1] so a
// misconfigured instrument still produces audible output.
//
// The root note is the low end of the note range (normalized note-start
// parameter scaled over the MIDI note space) minus the formatted semitone
// offset; an unparseable offset defaults to 0.
func Resolve(inst host.Instrument) Region {
	start := clamp01(inst.Param(host.ParamStartOffset))
	length := clamp01(inst.Param(host.ParamLength))

	end := start + (1-start)*length
	if end <= start {
		start, end = 0, 1
	}

	noteStart := int(math.Round(inst.Param(host.ParamNoteStart) * 127))
	root := noteStart - ParseSemitoneOffset(inst.ParamFormatted(host.ParamPitchOffset))

	return Region{Start: start, End: end, Root: root}
}

// ParseSemitoneOffset extracts the leading signed integer from a formatted
// semitone string such as "-7 st", "+3", or "0 semitones". Anything after
// the integer part is ignored; input with no leading integer yields 0.
func ParseSemitoneOffset(s string) int {
	s = strings.TrimSpace(s)
	i := 0
	if i < len(s) && (s[i] == '+' || s[i] == '-') {
		i++
	}
	j := i
	for j < len(s) && s[j] >= '0' && s[j] <= '9' {
		j++
	}
	if j == i {
		return 0
	}
	n, err := strconv.Atoi(s[:j])
	if err != nil {
		return 0
	}
	return n
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
