// Package pitch estimates the fundamental frequency of a monophonic
// signal from the spacing of zero crossings. It is tuned for electric
// guitar: the input is lowpassed until the fundamental dominates, then
// rising edges through a hysteresis band are timed in samples.
package pitch

import "math"

const (
	// Accepted fundamental range. Candidates outside it are discarded
	// and the previous estimate is retained.
	MinFrequency = 60.0
	MaxFrequency = 1500.0

	// Hysteresis band around zero. Crossings must exceed +band to fire
	// and fall below -band to re-arm, so floor hiss never triggers.
	crossingBand = 0.002

	dcBlockCoeff = 0.995
	lowpassCoeff = 0.9

	// Accepted periods are blended into the running estimate instead
	// of replacing it.
	blendOld = 0.7
	blendNew = 0.3

	// Confidence drains geometrically every sample and refills to 1
	// when a period inside the accepted range is measured.
	confidenceDecay = 0.99995

	denormalFloor = 1e-6
)

// crossingState is the two-state detector for the rising-edge timer.
type crossingState int

const (
	stateBelow crossingState = iota
	stateAbove
)

// Tracker is a per-sample zero-crossing pitch estimator.
type Tracker struct {
	sampleRate float64
	minPeriod  int // hold-off in samples, derived from MaxFrequency

	state            crossingState
	samplesSinceEdge int

	freq       float64
	confidence float64

	filtered float64
	dcBlock  float64
	prevIn   float64
}

// NewTracker returns a tracker for the given sample rate.
func NewTracker(sampleRate float64) *Tracker {
	t := &Tracker{sampleRate: sampleRate}
	// The hold-off sits two samples below the shortest valid period so
	// a full period at MaxFrequency still clears it. With the hold-off
	// exactly at that period, a top-of-range fundamental would merge
	// two periods into one measurement and read an octave low.
	t.minPeriod = int(sampleRate/MaxFrequency) - 2
	if t.minPeriod < 1 {
		t.minPeriod = 1
	}
	t.Reset()
	return t
}

// Reset returns the tracker to its power-on state. The frequency
// estimate starts at A440 with zero confidence.
func (t *Tracker) Reset() {
	t.state = stateBelow
	t.samplesSinceEdge = 0
	t.freq = 440.0
	t.confidence = 0
	t.filtered = 0
	t.dcBlock = 0
	t.prevIn = 0
}

// Process consumes one input sample and updates the running estimate.
func (t *Tracker) Process(in float32) {
	x := float64(in)

	// One-pole DC blocker so an ADC offset can't pin the detector on
	// one side of zero.
	t.dcBlock = x - t.prevIn + dcBlockCoeff*t.dcBlock
	t.prevIn = x
	if math.Abs(t.dcBlock) < denormalFloor {
		t.dcBlock = 0
	}

	// One-pole lowpass strips harmonics above the fundamental so the
	// waveform crosses zero once per period.
	t.filtered = t.dcBlock*(1-lowpassCoeff) + t.filtered*lowpassCoeff
	if math.Abs(t.filtered) < denormalFloor {
		t.filtered = 0
	}

	switch t.state {
	case stateBelow:
		if t.filtered > crossingBand {
			t.state = stateAbove
			// Hold-off: a period shorter than the highest valid
			// fundamental is a pick transient, not a string.
			if t.samplesSinceEdge > t.minPeriod {
				candidate := t.sampleRate / float64(t.samplesSinceEdge)
				if candidate > MinFrequency && candidate < MaxFrequency {
					t.freq = t.freq*blendOld + candidate*blendNew
					t.confidence = 1.0
				}
				t.samplesSinceEdge = 0
			}
		}
	case stateAbove:
		if t.filtered < -crossingBand {
			t.state = stateBelow
		}
	}

	t.samplesSinceEdge++
	t.confidence *= confidenceDecay
	if t.confidence < denormalFloor {
		t.confidence = 0
	}
}

// Frequency returns the current estimate in Hz. On silence it holds
// the last measured value rather than inventing one.
func (t *Tracker) Frequency() float64 { return t.freq }

// Confidence returns the current trust in the estimate, in [0, 1].
func (t *Tracker) Confidence() float64 { return t.confidence }
