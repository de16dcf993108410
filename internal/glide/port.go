// Package glide implements portamento: an exponential one-pole slide
// of the played pitch toward the harmony target.
package glide

import "math"

// Port slews its output toward a target with a configurable time
// constant. Pitch is smoothed in MIDI-semitone space, so equal glide
// times sound equal across the fretboard.
type Port struct {
	sampleRate float64
	coeff      float64
	current    float64
}

// NewPort returns a port at the given sample rate, starting on start
// with the given glide time.
func NewPort(sampleRate, glideSeconds, start float64) *Port {
	p := &Port{sampleRate: sampleRate, current: start}
	p.SetTime(glideSeconds)
	return p
}

// SetTime sets the glide time constant in seconds. Times at or below
// zero snap the port to its target on the next Process call.
func (p *Port) SetTime(seconds float64) {
	if seconds <= 0 {
		p.coeff = 1
		return
	}
	p.coeff = 1 - math.Exp(-1/(seconds*p.sampleRate))
}

// Process moves the output one sample toward target and returns it.
func (p *Port) Process(target float64) float64 {
	p.current += p.coeff * (target - p.current)
	return p.current
}

// Value returns the current output without advancing it.
func (p *Port) Value() float64 { return p.current }

// Reset jumps the output straight to value.
func (p *Port) Reset(value float64) { p.current = value }
