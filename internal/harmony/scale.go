// Package harmony converts a detected fundamental into the quantized
// MIDI note the synthesized voice should play.
package harmony

import "math"

// Scale selects one of the built-in quantization tables.
type Scale int

const (
	Chromatic Scale = iota
	Major
	Minor
	MajorPentatonic
	MinorPentatonic
	Blues

	NumScales = 6
)

func (s Scale) String() string {
	switch s {
	case Chromatic:
		return "chromatic"
	case Major:
		return "major"
	case Minor:
		return "minor"
	case MajorPentatonic:
		return "majpent"
	case MinorPentatonic:
		return "minpent"
	case Blues:
		return "blues"
	default:
		return "unknown"
	}
}

const (
	notesPerScale = 15
	octaveShifts  = 5
)

// scaleTables holds the allowed MIDI pitches per scale. The tables
// start at C2 (MIDI 36), below the lowest guitar string, and span over
// two octaves in 15 notes so that the highest trackable fundamental
// plus the largest interval still finds a candidate inside the octave
// replications searched by Quantize. These are musical configuration
// data, not derived values.
var scaleTables = [NumScales][notesPerScale]float64{
	Chromatic:       {36, 37, 38, 39, 40, 41, 42, 43, 44, 45, 46, 47, 48, 49, 50},
	Major:           {36, 38, 40, 41, 43, 45, 47, 48, 50, 52, 53, 55, 57, 59, 60},
	Minor:           {36, 38, 39, 41, 43, 44, 46, 48, 50, 51, 53, 55, 56, 58, 60},
	MajorPentatonic: {36, 38, 40, 43, 45, 48, 50, 52, 55, 57, 60, 62, 64, 67, 69},
	MinorPentatonic: {36, 39, 41, 43, 46, 48, 51, 53, 55, 58, 60, 63, 65, 67, 70},
	Blues:           {36, 39, 41, 42, 43, 46, 48, 51, 53, 54, 55, 58, 60, 63, 65},
}

// Interval returns the harmony interval in semitones for this scale:
// a fifth for the pentatonic family, a third otherwise.
func (s Scale) Interval() float64 {
	if s >= MajorPentatonic {
		return 7
	}
	return 4
}

// Notes returns the scale's base table.
func (s Scale) Notes() [notesPerScale]float64 {
	return scaleTables[s.clamp()]
}

// Quantize snaps a continuous MIDI pitch to the nearest note of the
// scale, searching the table replicated across five octave shifts.
// The search always yields a candidate; there is no out-of-range case
// for any pitch reachable from the tracked fundamental range.
func (s Scale) Quantize(midi float64) float64 {
	table := &scaleTables[s.clamp()]
	closest := table[0]
	minDiff := math.Inf(1)
	for oct := 0; oct < octaveShifts; oct++ {
		shift := float64(oct * 12)
		for _, note := range table {
			candidate := note + shift
			diff := math.Abs(midi - candidate)
			if diff < minDiff {
				minDiff = diff
				closest = candidate
			}
		}
	}
	return closest
}

func (s Scale) clamp() Scale {
	if s < 0 || s >= NumScales {
		return Chromatic
	}
	return s
}
