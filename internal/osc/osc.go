// Package osc implements the harmony voice oscillator: a phase
// accumulator with a small set of selectable timbres.
package osc

import "math"

// Waveform selects the oscillator timbre.
type Waveform int

const (
	WaveSine Waveform = iota
	WaveTriangle
	WaveSaw
	WaveSquare
)

func (w Waveform) String() string {
	switch w {
	case WaveSine:
		return "sine"
	case WaveTriangle:
		return "triangle"
	case WaveSaw:
		return "saw"
	case WaveSquare:
		return "square"
	default:
		return "unknown"
	}
}

// Oscillator generates one sample per call at a runtime-settable
// frequency. Frequency changes are phase-continuous, which matters
// here because the pitch is re-set every sample by the glide and
// vibrato stages.
type Oscillator struct {
	sampleRate float64
	wave       Waveform
	amp        float64
	phase      float64 // [0, 1)
	phaseInc   float64
}

// New returns an oscillator at the given sample rate. The default
// amplitude is 1 and the default waveform is sine.
func New(sampleRate float64) *Oscillator {
	return &Oscillator{sampleRate: sampleRate, amp: 1}
}

// SetWaveform selects the timbre.
func (o *Oscillator) SetWaveform(w Waveform) {
	if w < WaveSine || w > WaveSquare {
		w = WaveSine
	}
	o.wave = w
}

// SetFreq sets the oscillator frequency in Hz. Frequencies at or above
// Nyquist are clamped just below it.
func (o *Oscillator) SetFreq(freqHz float64) {
	nyquist := o.sampleRate * 0.5
	if freqHz < 0 {
		freqHz = 0
	} else if freqHz >= nyquist {
		freqHz = nyquist * 0.999
	}
	o.phaseInc = freqHz / o.sampleRate
}

// SetAmp sets the output amplitude.
func (o *Oscillator) SetAmp(amp float64) {
	o.amp = amp
}

// Sample advances the oscillator one sample and returns its output.
func (o *Oscillator) Sample() float64 {
	var v float64
	switch o.wave {
	case WaveTriangle:
		if o.phase < 0.5 {
			v = 4.0*o.phase - 1.0
		} else {
			v = 3.0 - 4.0*o.phase
		}
	case WaveSaw:
		v = 1.0 - 2.0*o.phase
	case WaveSquare:
		if o.phase < 0.5 {
			v = 1.0
		} else {
			v = -1.0
		}
	default: // WaveSine
		v = math.Sin(2 * math.Pi * o.phase)
	}

	o.phase += o.phaseInc
	for o.phase >= 1.0 {
		o.phase -= 1.0
	}

	return v * o.amp
}

// Reset zeroes the phase.
func (o *Oscillator) Reset() {
	o.phase = 0
}

// ParseWaveform maps a name to a Waveform, for CLI flags.
func ParseWaveform(name string) (Waveform, bool) {
	switch name {
	case "sine", "sin":
		return WaveSine, true
	case "triangle", "tri":
		return WaveTriangle, true
	case "saw":
		return WaveSaw, true
	case "square", "sqr":
		return WaveSquare, true
	default:
		return WaveSine, false
	}
}
