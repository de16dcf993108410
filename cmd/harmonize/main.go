package main

import (
	"flag"
	"fmt"
	"log"
	"math"
	"os"
	"strings"
	"time"

	"github.com/rljonesiii/ethereal"
)

func main() {
	var (
		inPath     = flag.String("in", "", "input WAV file (mono or first channel); omit for a demo tone")
		outPath    = flag.String("out", "", "output WAV path; omit to play through the sound card")
		sampleRate = flag.Int("sample-rate", 48000, "sample rate used when no input file is given")
		seconds    = flag.Float64("seconds", 3.0, "demo tone length")
		noteFreq   = flag.Float64("note", 110, "demo tone frequency in Hz")
		waveName   = flag.String("wave", "triangle", "harmony waveform: sine|triangle|saw|square")
		scaleName  = flag.String("scale", "major", "scale: chromatic|major|minor|majpent|minpent|blues")
		fixed      = flag.Float64("fixed-interval", 0, "harmonize a fixed interval in semitones instead of a scale")
		oscLevel   = flag.Float64("osc-level", 1.0, "harmony oscillator level")
		reverb     = flag.Float64("reverb", 0, "reverb wet amount (0 disables the reverb)")
		glide      = flag.Float64("glide", 0.1, "portamento knob")
		cutoff     = flag.Float64("cutoff", 0.5, "warmth filter cutoff knob")
		mix        = flag.Float64("mix", 0.5, "dry/harmony mix knob")
		gate       = flag.Float64("gate", 0.1, "gate threshold knob")
		vibrato    = flag.Float64("vibrato", 0.2, "vibrato depth knob")
		loop       = flag.Bool("loop", false, "loop the input during live playback")
	)
	flag.Parse()

	in, rate, err := resolveInput(*inPath, *sampleRate, *seconds, *noteFreq)
	if err != nil {
		log.Fatal(err)
	}

	knobs := ethereal.Knobs{
		Glide:   *glide,
		Cutoff:  *cutoff,
		Mix:     *mix,
		Gate:    *gate,
		Vibrato: *vibrato,
		Reverb:  *reverb,
	}
	scaleKnob, err := parseScale(*scaleName)
	if err != nil {
		log.Fatal(err)
	}
	knobs.Scale = scaleKnob

	wave, err := parseWaveform(*waveName)
	if err != nil {
		log.Fatal(err)
	}
	opts := []ethereal.Option{
		ethereal.WithWaveform(wave),
		ethereal.WithOscLevel(*oscLevel),
	}
	if *reverb > 0 {
		opts = append(opts, ethereal.WithReverb())
	}
	if *fixed != 0 {
		opts = append(opts, ethereal.WithFixedInterval(*fixed))
	}

	if *outPath != "" {
		out, err := ethereal.RenderSamples(in, rate, knobs, opts...)
		if err != nil {
			log.Fatal(err)
		}
		wav := ethereal.EncodeWAVFloat32LE(out, rate, 2)
		if err := os.WriteFile(*outPath, wav, 0o644); err != nil {
			log.Fatal(err)
		}
		fmt.Printf("wrote %s (%.2fs at %d Hz)\n", *outPath, float64(len(in))/float64(rate), rate)
		return
	}

	h, err := ethereal.New(rate, opts...)
	if err != nil {
		log.Fatal(err)
	}
	h.SetKnobs(knobs)

	// Half a second of silent tail lets the release and reverb ring down.
	src := ethereal.NewBufferSource(in, *loop, rate/2)
	pl, err := ethereal.NewLivePlayer(rate, src, h)
	if err != nil {
		log.Fatal(err)
	}
	pl.Play()
	for pl.IsPlaying() {
		time.Sleep(50 * time.Millisecond)
	}
	if err := pl.Stop(); err != nil {
		log.Fatal(err)
	}
	fmt.Println("playback completed")
}

// resolveInput loads the WAV file when one is given, otherwise builds
// a plucked demo tone so the gate and release paths are audible.
func resolveInput(path string, sampleRate int, seconds, freq float64) ([]float32, int, error) {
	if strings.TrimSpace(path) != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, 0, err
		}
		samples, rate, err := ethereal.DecodeWAVMono(data)
		if err != nil {
			return nil, 0, fmt.Errorf("decode %s: %w", path, err)
		}
		return samples, rate, nil
	}

	n := int(seconds * float64(sampleRate))
	out := make([]float32, n)
	attack := sampleRate / 100
	decay := 1.5 * float64(sampleRate)
	for i := range out {
		env := math.Exp(-float64(i) / decay)
		if i < attack {
			env *= float64(i) / float64(attack)
		}
		out[i] = float32(0.4 * env * math.Sin(2*math.Pi*freq*float64(i)/float64(sampleRate)))
	}
	return out, sampleRate, nil
}

func parseWaveform(name string) (ethereal.Waveform, error) {
	w, ok := ethereal.ParseWaveform(strings.ToLower(strings.TrimSpace(name)))
	if !ok {
		return 0, fmt.Errorf("invalid -wave %q (expected sine|triangle|saw|square)", name)
	}
	return w, nil
}

// parseScale maps a scale name to the knob position that selects it.
func parseScale(name string) (float64, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "chromatic":
		return 0.0, nil
	case "major":
		return 0.2, nil
	case "minor":
		return 0.35, nil
	case "majpent":
		return 0.55, nil
	case "minpent":
		return 0.7, nil
	case "blues":
		return 0.9, nil
	default:
		return 0, fmt.Errorf("invalid -scale %q (expected chromatic|major|minor|majpent|minpent|blues)", name)
	}
}
