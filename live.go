package ethereal

import (
	"github.com/rljonesiii/ethereal/internal/audio"
)

// SampleSource supplies mono input samples a block at a time, filling
// dst completely. Implementations that also expose Finished() bool end
// playback when they report true.
type SampleSource interface {
	Process(dst []float32)
}

// BufferSource replays an in-memory signal, optionally looping. When
// not looping it pads with silence past the end, and an extra tail of
// silence is played out so the release and reverb can ring down before
// the stream finishes.
type BufferSource struct {
	samples []float32
	pos     int
	loop    bool
	tail    int
}

// NewBufferSource wraps samples for playback. tailSamples of silence
// are appended after the material when not looping.
func NewBufferSource(samples []float32, loop bool, tailSamples int) *BufferSource {
	return &BufferSource{samples: samples, loop: loop, tail: tailSamples}
}

// Process fills dst with the next block.
func (b *BufferSource) Process(dst []float32) {
	for i := range dst {
		if b.pos < len(b.samples) {
			dst[i] = b.samples[b.pos]
			b.pos++
			continue
		}
		if b.loop && len(b.samples) > 0 {
			b.pos = 0
			dst[i] = b.samples[b.pos]
			b.pos++
			continue
		}
		dst[i] = 0
		b.pos++
	}
}

// Finished reports whether the material and the silent tail have both
// been played. Looping sources never finish.
func (b *BufferSource) Finished() bool {
	return !b.loop && b.pos >= len(b.samples)+b.tail
}

// LivePlayer streams a SampleSource through a Harmonizer to the sound
// card in real time.
type LivePlayer struct {
	backend *audio.Player
}

// NewLivePlayer wires src through h and prepares the audio backend.
// Call Play to start streaming.
func NewLivePlayer(sampleRate int, src SampleSource, h *Harmonizer) (*LivePlayer, error) {
	backend, err := audio.NewPlayer(sampleRate, src, h)
	if err != nil {
		return nil, err
	}
	return &LivePlayer{backend: backend}, nil
}

func (p *LivePlayer) Play()           { p.backend.Play() }
func (p *LivePlayer) Pause()          { p.backend.Pause() }
func (p *LivePlayer) IsPlaying() bool { return p.backend.IsPlaying() }

// Stop halts playback and releases the backend player.
func (p *LivePlayer) Stop() error { return p.backend.Stop() }
