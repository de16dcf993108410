package ethereal

import (
	"bytes"
	"encoding/binary"
	"math"
	"testing"
)

func TestRenderSamplesShape(t *testing.T) {
	in := sineF32(t, 196, 0.3, testSampleRate/2)
	out, err := RenderSamples(in, testSampleRate, DefaultKnobs(), WithWaveform(WaveSine))
	if err != nil {
		t.Fatal(err)
	}
	if len(out) != 2*len(in) {
		t.Fatalf("got %d interleaved samples for %d input samples", len(out), len(in))
	}
	for i, v := range out {
		if math.IsNaN(float64(v)) || math.IsInf(float64(v), 0) {
			t.Fatalf("sample %d is not finite: %f", i, v)
		}
	}
	for i := 0; i+1 < len(out); i += 2 {
		if out[i] != out[i+1] {
			t.Fatalf("frame %d: left %f != right %f", i/2, out[i], out[i+1])
		}
	}
}

func TestRenderSamplesRejectsBadSampleRate(t *testing.T) {
	if _, err := RenderSamples(make([]float32, 64), 0, DefaultKnobs()); err == nil {
		t.Error("expected an error for sample rate 0")
	}
}

func TestWAVFloat32RoundTrip(t *testing.T) {
	src := []float32{0, 0.5, -0.5, 1, -1, 0.125}
	wav := EncodeWAVFloat32LE(src, 44100, 1)
	got, rate, err := DecodeWAVMono(wav)
	if err != nil {
		t.Fatal(err)
	}
	if rate != 44100 {
		t.Errorf("rate = %d, want 44100", rate)
	}
	if len(got) != len(src) {
		t.Fatalf("got %d samples, want %d", len(got), len(src))
	}
	for i := range src {
		if got[i] != src[i] {
			t.Errorf("sample %d: got %f, want %f", i, got[i], src[i])
		}
	}
}

func TestWAVStereoDecodeTakesFirstChannel(t *testing.T) {
	interleaved := []float32{0.1, -0.9, 0.2, -0.8, 0.3, -0.7}
	wav := EncodeWAVFloat32LE(interleaved, 48000, 2)
	got, rate, err := DecodeWAVMono(wav)
	if err != nil {
		t.Fatal(err)
	}
	if rate != 48000 {
		t.Errorf("rate = %d, want 48000", rate)
	}
	want := []float32{0.1, 0.2, 0.3}
	if len(got) != len(want) {
		t.Fatalf("got %d samples, want %d", len(got), len(want))
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("sample %d: got %f, want %f", i, got[i], want[i])
		}
	}
}

func TestWAVDecodePCM16(t *testing.T) {
	samples := []int16{0, 16384, -16384, 32767, -32768}
	var data bytes.Buffer
	for _, s := range samples {
		binary.Write(&data, binary.LittleEndian, s)
	}

	var buf bytes.Buffer
	buf.WriteString("RIFF")
	binary.Write(&buf, binary.LittleEndian, uint32(4+8+16+8+data.Len()))
	buf.WriteString("WAVE")
	buf.WriteString("fmt ")
	binary.Write(&buf, binary.LittleEndian, uint32(16))
	binary.Write(&buf, binary.LittleEndian, uint16(1)) // PCM
	binary.Write(&buf, binary.LittleEndian, uint16(1)) // mono
	binary.Write(&buf, binary.LittleEndian, uint32(22050))
	binary.Write(&buf, binary.LittleEndian, uint32(22050*2))
	binary.Write(&buf, binary.LittleEndian, uint16(2))
	binary.Write(&buf, binary.LittleEndian, uint16(16))
	buf.WriteString("data")
	binary.Write(&buf, binary.LittleEndian, uint32(data.Len()))
	buf.Write(data.Bytes())

	got, rate, err := DecodeWAVMono(buf.Bytes())
	if err != nil {
		t.Fatal(err)
	}
	if rate != 22050 {
		t.Errorf("rate = %d, want 22050", rate)
	}
	if len(got) != len(samples) {
		t.Fatalf("got %d samples, want %d", len(got), len(samples))
	}
	for i, s := range samples {
		want := float32(s) / 32768
		if math.Abs(float64(got[i]-want)) > 1e-6 {
			t.Errorf("sample %d: got %f, want %f", i, got[i], want)
		}
	}
}

func TestWAVDecodeRejectsGarbage(t *testing.T) {
	cases := [][]byte{
		nil,
		[]byte("not a wav file at all"),
		[]byte("RIFF\x00\x00\x00\x00WAVE"), // no chunks
	}
	for i, data := range cases {
		if _, _, err := DecodeWAVMono(data); err == nil {
			t.Errorf("case %d: expected a decode error", i)
		}
	}
}
