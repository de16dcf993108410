package harmony

import "math"

// Candidates closer than this to the current target do not replace
// it, so floating-point jitter at a quantization boundary can't make
// the harmony note flicker between two equally close scale tones.
const targetHysteresis = 0.5

// Engine holds the current harmony target note. The target only moves
// while the caller reports a confident pitch lock with the gate open;
// otherwise it freezes on its last value instead of snapping to an
// arbitrary pitch.
type Engine struct {
	target float64
}

// NewEngine returns an engine with the target parked on middle C.
func NewEngine() *Engine {
	return &Engine{target: 60}
}

// ComputeTarget derives the harmony note for the detected fundamental:
// frequency to MIDI, plus the scale's interval, quantized to the scale.
// It returns the current target, updated only when tracking is true and
// the new candidate clears the hysteresis.
func (e *Engine) ComputeTarget(freqHz float64, scale Scale, tracking bool) float64 {
	if !tracking {
		return e.target
	}
	raw := NoteFromFrequency(freqHz) + scale.Interval()
	candidate := scale.Quantize(raw)
	if math.Abs(candidate-e.target) > targetHysteresis {
		e.target = candidate
	}
	return e.target
}

// ComputeFixed is the unquantized variant: the harmony follows the
// input continuously at a constant interval with no scale snapping and
// no hysteresis, so bends and vibrato carry over to the harmony. The
// freeze semantics match ComputeTarget.
func (e *Engine) ComputeFixed(freqHz, semitones float64, tracking bool) float64 {
	if !tracking {
		return e.target
	}
	e.target = NoteFromFrequency(freqHz) + semitones
	return e.target
}

// Target returns the current harmony note.
func (e *Engine) Target() float64 { return e.target }

// Reset parks the target back on middle C.
func (e *Engine) Reset() { e.target = 60 }
