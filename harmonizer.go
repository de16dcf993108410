// Package ethereal is a real-time monophonic guitar harmonizer: it
// tracks the fundamental pitch of the input, synthesizes a harmony
// voice quantized to a musical scale, and blends it back with the dry
// signal. The whole pipeline runs sample-by-sample inside the audio
// callback with no allocation and no blocking.
package ethereal

import (
	"errors"

	"github.com/cwbudde/algo-dsp/dsp/filter/moog"

	"github.com/rljonesiii/ethereal/internal/control"
	"github.com/rljonesiii/ethereal/internal/effects"
	"github.com/rljonesiii/ethereal/internal/envelope"
	"github.com/rljonesiii/ethereal/internal/glide"
	"github.com/rljonesiii/ethereal/internal/harmony"
	"github.com/rljonesiii/ethereal/internal/lfo"
	"github.com/rljonesiii/ethereal/internal/osc"
	"github.com/rljonesiii/ethereal/internal/pitch"
)

// Waveform selects the harmony voice timbre.
type Waveform = osc.Waveform

const (
	WaveSine     = osc.WaveSine
	WaveTriangle = osc.WaveTriangle
	WaveSaw      = osc.WaveSaw
	WaveSquare   = osc.WaveSquare
)

// ParseWaveform maps a waveform name (and its short alias, e.g. "tri")
// to the Waveform it selects. The second result is false for names it
// does not know.
func ParseWaveform(name string) (Waveform, bool) {
	return osc.ParseWaveform(name)
}

// Scale names re-exported for knob mapping and CLI use.
type Scale = harmony.Scale

const (
	ScaleChromatic       = harmony.Chromatic
	ScaleMajor           = harmony.Major
	ScaleMinor           = harmony.Minor
	ScaleMajorPentatonic = harmony.MajorPentatonic
	ScaleMinorPentatonic = harmony.MinorPentatonic
	ScaleBlues           = harmony.Blues
)

// Knobs carries the seven control values, each normalized to [0, 1].
// Values are smoothed at the next block boundary, never mid-block.
type Knobs struct {
	Glide   float64 // portamento time, 1 ms – 500 ms
	Cutoff  float64 // warmth filter cutoff, 100 Hz – 7.1 kHz
	Mix     float64 // 0 = dry, 1 = harmony only
	Gate    float64 // input level needed to open the harmony
	Vibrato float64 // pitch LFO depth in semitones
	Reverb  float64 // reverb wet amount (ignored without WithReverb)
	Scale   float64 // scale selector, quantized to 6 scales
}

// DefaultKnobs returns the power-on knob positions.
func DefaultKnobs() Knobs {
	k := control.DefaultKnobs()
	return Knobs{
		Glide:   k.Glide,
		Cutoff:  k.Cutoff,
		Mix:     k.Mix,
		Gate:    k.Gate,
		Vibrato: k.Vibrato,
		Reverb:  k.Reverb,
		Scale:   k.Scale,
	}
}

const (
	// A pitch estimate is trusted once its confidence passes this.
	confidenceThreshold = 0.85

	vibratoRateHz = 6.0

	// The harmony volume follows the input envelope with a soft boost,
	// hard-clamped to unity inside the VCA.
	vcaBoost = 4.0

	warmthResonance = 0.3

	reverbRoomSize = 0.5
	reverbFeedback = 0.7

	// Tiny bias keeps the ladder filter state off denormals.
	denormalOffset = 1e-9
)

// Option configures a Harmonizer at construction time.
type Option func(*config)

type config struct {
	waveform      Waveform
	oscLevel      float64
	reverb        bool
	fixedMode     bool
	fixedInterval float64
}

func defaultConfig() config {
	return config{
		waveform: WaveSquare,
		oscLevel: 1.0,
	}
}

// WithWaveform selects the harmony voice timbre. Square is the
// default; triangle and saw give mellower flavors.
func WithWaveform(w Waveform) Option {
	return func(cfg *config) { cfg.waveform = w }
}

// WithOscLevel sets the harmony oscillator amplitude before the VCA.
func WithOscLevel(level float64) Option {
	return func(cfg *config) { cfg.oscLevel = level }
}

// WithReverb enables the ambience stage; its wet amount then follows
// the reverb knob.
func WithReverb() Option {
	return func(cfg *config) { cfg.reverb = true }
}

// WithFixedInterval bypasses scale quantization: the harmony follows
// the input continuously at a constant interval in semitones (7 is a
// perfect fifth). The scale knob is ignored in this mode.
func WithFixedInterval(semitones float64) Option {
	return func(cfg *config) {
		cfg.fixedMode = true
		cfg.fixedInterval = semitones
	}
}

// Harmonizer is the complete per-sample pipeline. It is not safe for
// concurrent use: exactly one goroutine may call ProcessBlock, which is
// the audio callback's execution context.
type Harmonizer struct {
	sampleRate float64

	controls *control.Controls
	tracker  *pitch.Tracker
	follower *envelope.Follower
	gate     *envelope.Gate
	vca      envelope.VCA
	engine   *harmony.Engine
	port     *glide.Port
	vibrato  lfo.LFO
	voice    *osc.Oscillator
	warmth   *moog.Filter
	reverb   *effects.Reverb // nil when the ambience stage is disabled

	fixedMode     bool
	fixedInterval float64

	locked bool
}

// New returns a harmonizer for the given sample rate.
func New(sampleRate int, opts ...Option) (*Harmonizer, error) {
	if sampleRate <= 0 {
		return nil, errors.New("sampleRate must be positive")
	}
	cfg := defaultConfig()
	for _, opt := range opts {
		opt(&cfg)
	}

	sr := float64(sampleRate)
	controls := control.New()

	warmth, err := moog.New(sr,
		moog.WithCutoffHz(controls.CutoffHz()),
		moog.WithResonance(warmthResonance),
	)
	if err != nil {
		return nil, err
	}

	h := &Harmonizer{
		sampleRate:    sr,
		controls:      controls,
		tracker:       pitch.NewTracker(sr),
		follower:      envelope.NewFollower(sr),
		gate:          envelope.NewGate(controls.GateThreshold()),
		engine:        harmony.NewEngine(),
		voice:         osc.New(sr),
		warmth:        warmth,
		fixedMode:     cfg.fixedMode,
		fixedInterval: cfg.fixedInterval,
	}
	h.port = glide.NewPort(sr, controls.GlideTime(), h.engine.Target())
	h.vibrato.Set(controls.VibratoDepth(), vibratoRateHz, lfo.WaveSine)
	h.voice.SetWaveform(cfg.waveform)
	h.voice.SetAmp(cfg.oscLevel)
	if cfg.reverb {
		h.reverb = effects.NewReverb(sampleRate, reverbRoomSize, reverbFeedback)
	}
	return h, nil
}

// SetKnobs stores new raw knob values. Safe to call between blocks;
// the control smoother folds them in at the next ProcessBlock.
func (h *Harmonizer) SetKnobs(k Knobs) {
	h.controls.Set(control.Knobs{
		Glide:   k.Glide,
		Cutoff:  k.Cutoff,
		Mix:     k.Mix,
		Gate:    k.Gate,
		Vibrato: k.Vibrato,
		Reverb:  k.Reverb,
		Scale:   k.Scale,
	})
}

// ProcessBlock runs the pipeline over one block: in is the mono input,
// outL and outR receive the same processed signal (dual mono). It
// processes min(len(in), len(outL), len(outR)) samples and never
// allocates.
func (h *Harmonizer) ProcessBlock(in, outL, outR []float32) {
	n := len(in)
	if len(outL) < n {
		n = len(outL)
	}
	if len(outR) < n {
		n = len(outR)
	}

	// Block-rate parameter update: the per-sample loop below only ever
	// sees the values computed here, which is the linearization point
	// for knob changes.
	h.controls.Update()
	h.port.SetTime(h.controls.GlideTime())
	h.vibrato.SetDepth(h.controls.VibratoDepth())
	h.gate.SetThreshold(h.controls.GateThreshold())
	// The knob mapping keeps the cutoff in 100 Hz – 7.1 kHz, always
	// below Nyquist for any supported sample rate.
	_ = h.warmth.SetCutoffHz(h.controls.CutoffHz())
	scale := harmony.Scale(h.controls.ScaleIndex())
	mix := float32(h.controls.Mix())
	if h.reverb != nil {
		h.reverb.SetWet(float32(h.controls.ReverbAmount()))
	}

	locked := false

	for i := 0; i < n; i++ {
		input := in[i]

		h.tracker.Process(input)
		h.follower.Process(input)
		level := h.follower.Level()
		h.gate.Process(level)

		tracking := h.tracker.Confidence() > confidenceThreshold && h.gate.IsOpen()
		if tracking {
			locked = true
		}

		var target float64
		if h.fixedMode {
			target = h.engine.ComputeFixed(h.tracker.Frequency(), h.fixedInterval, tracking)
		} else {
			target = h.engine.ComputeTarget(h.tracker.Frequency(), scale, tracking)
		}

		note := h.port.Process(target) + h.vibrato.Sample(h.sampleRate)
		h.voice.SetFreq(harmony.FrequencyFromNote(note))

		raw := h.voice.Sample()
		filtered := h.warmth.ProcessSample(raw+denormalOffset) - denormalOffset

		gainTarget := 0.0
		if tracking {
			gainTarget = level * vcaBoost
		}
		harm := float32(filtered * h.vca.Process(gainTarget))

		if h.reverb != nil {
			harm = h.reverb.Process(harm)
		}

		out := input*(1-mix) + harm*mix
		outL[i] = out
		outR[i] = out
	}

	h.locked = locked
}

// Locked reports whether the last block had a confident pitch lock
// with the gate open. Intended for an external indicator; updated once
// per block.
func (h *Harmonizer) Locked() bool { return h.locked }

// TargetNote returns the current harmony target as a MIDI note.
func (h *Harmonizer) TargetNote() float64 { return h.engine.Target() }

// SampleRate returns the pipeline sample rate in Hz.
func (h *Harmonizer) SampleRate() int { return int(h.sampleRate) }

// Reset returns every stateful component to its power-on state,
// including the knobs, which revert to defaults.
func (h *Harmonizer) Reset() {
	h.controls = control.New()
	h.tracker.Reset()
	h.follower.Reset()
	h.gate.Reset()
	h.vca.Reset()
	h.engine.Reset()
	h.port.Reset(h.engine.Target())
	h.vibrato.Reset()
	h.voice.Reset()
	h.warmth.Reset()
	if h.reverb != nil {
		h.reverb.Reset()
	}
	h.locked = false
}
