// Package envelope tracks the loudness of the input signal and derives
// the amplitude decisions from it: a smoothed RMS level, a hysteresis
// gate, and the soft VCA that shapes the harmony voice.
package envelope

import (
	"math"

	"github.com/cwbudde/algo-dsp/dsp/filter/biquad"
	"github.com/cwbudde/algo-dsp/dsp/filter/design"
)

const (
	// Corner of the mean-square smoother. 50 Hz gives a ~20 ms window,
	// slow enough that the envelope carries no audible ripple.
	rmsCornerHz = 50.0

	// Q of 0.5 is critical damping: no overshoot on note attacks.
	rmsQ = 0.5

	// Tiny DC bias keeps the filter state out of denormal territory.
	denormalOffset = 1e-9
)

// Follower is a per-sample RMS estimator: input squared, smoothed by a
// two-pole lowpass, square-rooted.
type Follower struct {
	lowpass *biquad.Section
	level   float64
}

// NewFollower returns an RMS follower for the given sample rate.
func NewFollower(sampleRate float64) *Follower {
	return &Follower{
		lowpass: biquad.NewSection(design.Lowpass(rmsCornerHz, rmsQ, sampleRate)),
	}
}

// Process consumes one input sample and updates the level estimate.
func (f *Follower) Process(in float32) {
	x := float64(in)
	ms := f.lowpass.ProcessSample(x*x + denormalOffset)
	// The filter can ring slightly below zero; clamp before the root
	// or a NaN would poison everything downstream.
	ms -= denormalOffset
	if ms < 0 {
		ms = 0
	}
	f.level = math.Sqrt(ms)
}

// Level returns the current smoothed RMS estimate, always >= 0.
func (f *Follower) Level() float64 { return f.level }

// Reset clears the filter state and the level.
func (f *Follower) Reset() {
	f.lowpass.Reset()
	f.level = 0
}
