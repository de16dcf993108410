// Package lfo provides the low-frequency oscillator used for vibrato.
// It runs continuously at its own rate, independent of note changes,
// and its output is added to the played pitch in semitone space.
package lfo

import "math"

// Waveform constants.
const (
	WaveSine = iota
	WaveTriangle
	WaveSquare
	WaveSaw
)

// LFO produces per-sample modulation in [-depth, +depth].
type LFO struct {
	depth    float64 // modulation depth in semitones
	rateHz   float64
	waveform int
	phase    float64 // current phase [0, 1)
}

// Set configures depth, rate and waveform. Unknown waveforms fall back
// to sine.
func (l *LFO) Set(depth, rateHz float64, waveform int) {
	l.depth = depth
	l.rateHz = rateHz
	if waveform < WaveSine || waveform > WaveSaw {
		waveform = WaveSine
	}
	l.waveform = waveform
}

// SetDepth changes only the modulation depth; the phase keeps running
// so depth changes never restart the vibrato cycle.
func (l *LFO) SetDepth(depth float64) {
	l.depth = depth
}

// Sample advances the LFO by one sample and returns its value. The
// phase advances even at zero depth, so the oscillator stays free
// running while the vibrato knob is down.
func (l *LFO) Sample(sampleRate float64) float64 {
	if l.rateHz == 0 || sampleRate == 0 {
		return 0
	}

	var waveVal float64
	switch l.waveform {
	case WaveTriangle:
		if l.phase < 0.5 {
			waveVal = 4.0*l.phase - 1.0
		} else {
			waveVal = 3.0 - 4.0*l.phase
		}
	case WaveSquare:
		if l.phase < 0.5 {
			waveVal = 1.0
		} else {
			waveVal = -1.0
		}
	case WaveSaw:
		waveVal = 1.0 - 2.0*l.phase
	default: // WaveSine
		waveVal = math.Sin(2 * math.Pi * l.phase)
	}

	l.phase += l.rateHz / sampleRate
	for l.phase >= 1.0 {
		l.phase -= 1.0
	}

	return waveVal * l.depth
}

// Active returns true if the LFO has non-zero depth and rate.
func (l *LFO) Active() bool {
	return l.depth != 0 && l.rateHz != 0
}

// Reset zeros the LFO phase.
func (l *LFO) Reset() {
	l.phase = 0
}
