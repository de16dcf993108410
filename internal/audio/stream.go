// Package audio streams the processed signal to the sound card through
// ebiten's shared audio context.
package audio

import (
	"encoding/binary"
	"fmt"
	"io"
	"math"
	"sync"
	"time"

	ebitaudio "github.com/hajimehoshi/ebiten/v2/audio"
)

// Source supplies mono input samples, one block at a time. It fills
// dst completely; a live input would block until samples arrive, a
// file-backed source pads with silence at EOF.
type Source interface {
	Process(dst []float32)
}

// FinishingSource is a Source that can signal the end of its material.
// When Finished returns true the stream returns io.EOF after the
// current block.
type FinishingSource interface {
	Source
	Finished() bool
}

// Pipeline turns a block of mono input into two output channels. The
// harmonizer implements this.
type Pipeline interface {
	ProcessBlock(in, outL, outR []float32)
}

// StreamReader adapts a Source and a Pipeline to the io.Reader the
// audio backend consumes: interleaved stereo float32, little endian.
type StreamReader struct {
	mu       sync.Mutex
	source   Source
	pipeline Pipeline
	in       []float32
	outL     []float32
	outR     []float32
}

func NewStreamReader(source Source, pipeline Pipeline) *StreamReader {
	return &StreamReader{source: source, pipeline: pipeline}
}

func (r *StreamReader) Read(p []byte) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	frames := len(p) / 8
	if frames == 0 {
		return 0, nil
	}
	if cap(r.in) < frames {
		r.in = make([]float32, frames)
		r.outL = make([]float32, frames)
		r.outR = make([]float32, frames)
	}
	r.in = r.in[:frames]
	r.outL = r.outL[:frames]
	r.outR = r.outR[:frames]

	r.source.Process(r.in)
	r.pipeline.ProcessBlock(r.in, r.outL, r.outR)

	for i := 0; i < frames; i++ {
		binary.LittleEndian.PutUint32(p[i*8:], math.Float32bits(r.outL[i]))
		binary.LittleEndian.PutUint32(p[i*8+4:], math.Float32bits(r.outR[i]))
	}
	n := frames * 8
	if fs, ok := r.source.(FinishingSource); ok && fs.Finished() {
		return n, io.EOF
	}
	return n, nil
}

func (r *StreamReader) Close() error { return nil }

// Player drives a StreamReader through the sound card.
type Player struct {
	player *ebitaudio.Player
	reader io.ReadCloser
}

var (
	audioContextOnce sync.Once
	audioContext     *ebitaudio.Context
	audioSampleRate  int
)

// sharedAudioContext returns the process-wide ebiten audio context.
// ebiten allows exactly one context per process, at one sample rate.
func sharedAudioContext(sampleRate int) (*ebitaudio.Context, error) {
	audioContextOnce.Do(func() {
		audioSampleRate = sampleRate
		audioContext = ebitaudio.NewContext(sampleRate)
	})
	if audioSampleRate != sampleRate {
		return nil, fmt.Errorf("audio context already initialized at %d Hz (requested %d Hz)", audioSampleRate, sampleRate)
	}
	return audioContext, nil
}

// NewPlayer wires source through pipeline into the sound card.
func NewPlayer(sampleRate int, source Source, pipeline Pipeline) (*Player, error) {
	ctx, err := sharedAudioContext(sampleRate)
	if err != nil {
		return nil, err
	}
	reader := NewStreamReader(source, pipeline)
	pl, err := ctx.NewPlayerF32(reader)
	if err != nil {
		return nil, err
	}
	return &Player{
		player: pl,
		reader: reader,
	}, nil
}

func (p *Player) Play()  { p.player.Play() }
func (p *Player) Pause() { p.player.Pause() }
func (p *Player) IsPlaying() bool {
	return p.player.IsPlaying()
}

// Position returns the playback position the listener actually hears.
func (p *Player) Position() time.Duration {
	return p.player.Position()
}

func (p *Player) Stop() error {
	p.player.Pause()
	if err := p.player.Close(); err != nil {
		return err
	}
	return p.reader.Close()
}
