// Package control smooths and maps the raw knob values. Raw readings
// jump around; mapped straight onto filter cutoffs they crackle. Each
// value is therefore lowpassed once per audio block before the
// per-sample loop reads it.
package control

// smoothingCoeff is the per-block one-pole step toward the raw value.
const smoothingCoeff = 0.05

// Knobs carries the seven raw control values, each in [0, 1].
type Knobs struct {
	Glide   float64 // portamento time between harmony notes
	Cutoff  float64 // warmth filter cutoff
	Mix     float64 // dry/wet split
	Gate    float64 // minimum input level to open the VCA
	Vibrato float64 // depth of the pitch LFO
	Reverb  float64 // reverb wet amount
	Scale   float64 // scale selector, quantized to an index
}

// DefaultKnobs returns the power-on positions.
func DefaultKnobs() Knobs {
	return Knobs{
		Glide:   0.1,
		Cutoff:  0.5,
		Mix:     0.5,
		Gate:    0.1,
		Vibrato: 0.2,
		Reverb:  0.0,
		Scale:   0.25, // Major
	}
}

// Controls holds the raw targets and the smoothed values that the
// pipeline actually consumes.
type Controls struct {
	raw      Knobs
	smoothed Knobs
}

// New returns controls parked on the default knob positions.
func New() *Controls {
	k := DefaultKnobs()
	return &Controls{raw: k, smoothed: k}
}

// Set replaces the raw knob targets, clamped to [0, 1]. The smoothed
// values glide toward them over the following blocks.
func (c *Controls) Set(k Knobs) {
	c.raw = Knobs{
		Glide:   clamp01(k.Glide),
		Cutoff:  clamp01(k.Cutoff),
		Mix:     clamp01(k.Mix),
		Gate:    clamp01(k.Gate),
		Vibrato: clamp01(k.Vibrato),
		Reverb:  clamp01(k.Reverb),
		Scale:   clamp01(k.Scale),
	}
}

// Update advances every smoothed value one block step toward its raw
// target. Call once per audio block, before the per-sample loop. The
// scale selector is not smoothed: a fractional scale index is
// meaningless, so it switches as soon as the knob does.
func (c *Controls) Update() {
	c.smoothed.Glide += smoothingCoeff * (c.raw.Glide - c.smoothed.Glide)
	c.smoothed.Cutoff += smoothingCoeff * (c.raw.Cutoff - c.smoothed.Cutoff)
	c.smoothed.Mix += smoothingCoeff * (c.raw.Mix - c.smoothed.Mix)
	c.smoothed.Gate += smoothingCoeff * (c.raw.Gate - c.smoothed.Gate)
	c.smoothed.Vibrato += smoothingCoeff * (c.raw.Vibrato - c.smoothed.Vibrato)
	c.smoothed.Reverb += smoothingCoeff * (c.raw.Reverb - c.smoothed.Reverb)
}

// GlideTime maps the glide knob to a portamento time in seconds,
// 1 ms at the bottom of the travel and ~500 ms at the top.
func (c *Controls) GlideTime() float64 {
	return 0.001 + c.smoothed.Glide*0.5
}

// CutoffHz maps the cutoff knob to 100 Hz – 7.1 kHz.
func (c *Controls) CutoffHz() float64 {
	return 100 + c.smoothed.Cutoff*7000
}

// Mix returns the dry/wet split: 0 is pure dry, 1 is pure harmony.
func (c *Controls) Mix() float64 {
	return c.smoothed.Mix
}

// GateThreshold maps the gate knob to an RMS open threshold. The knob
// is squared because useful guitar RMS values cluster in a narrow low
// band; a linear mapping would waste most of the travel.
func (c *Controls) GateThreshold() float64 {
	return c.smoothed.Gate * c.smoothed.Gate * 0.05
}

// VibratoDepth maps the vibrato knob to a depth in semitones.
func (c *Controls) VibratoDepth() float64 {
	return c.smoothed.Vibrato
}

// ReverbAmount returns the reverb wet fraction.
func (c *Controls) ReverbAmount() float64 {
	return c.smoothed.Reverb
}

// ScaleIndex quantizes the scale knob to an index in [0, 5].
func (c *Controls) ScaleIndex() int {
	return int(c.raw.Scale * 5.99)
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
