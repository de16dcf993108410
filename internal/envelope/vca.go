package envelope

import "math"

const (
	// Asymmetric slew: the harmony swells in quickly when a note is
	// locked but decays over a couple hundred milliseconds when it
	// ends, so it never chops off mid-sustain.
	vcaAttackCoeff  = 0.01
	vcaReleaseCoeff = 0.0001

	vcaSnapEpsilon = 1e-6
)

// VCA is the software gain stage for the harmony voice. The gain
// approaches its target with a fast attack and a much slower release.
type VCA struct {
	gain float64
}

// Process moves the gain one sample toward target and returns it.
// The target is clamped to [0, 1] before use.
func (v *VCA) Process(target float64) float64 {
	if target < 0 {
		target = 0
	} else if target > 1 {
		target = 1
	}

	coeff := vcaReleaseCoeff
	if target > v.gain {
		coeff = vcaAttackCoeff
	}
	v.gain += coeff * (target - v.gain)
	// Snap once close enough; the exponential tail would otherwise
	// grind through denormals forever.
	if math.Abs(v.gain-target) < vcaSnapEpsilon {
		v.gain = target
	}
	return v.gain
}

// Gain returns the current gain without advancing it.
func (v *VCA) Gain() float64 { return v.gain }

// Reset zeroes the gain.
func (v *VCA) Reset() { v.gain = 0 }
