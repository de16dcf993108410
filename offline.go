package ethereal

import (
	"encoding/binary"
	"errors"
	"fmt"
	"math"
)

// renderBlockSize is the block length used for offline rendering. It
// stands in for the hardware callback's buffer size: knob smoothing
// advances once per block, exactly as it would live.
const renderBlockSize = 64

// RenderSamples processes a mono input signal offline and returns the
// interleaved stereo output. The knobs are applied up front and
// smoothed over the first blocks, matching live behavior.
func RenderSamples(in []float32, sampleRate int, k Knobs, opts ...Option) ([]float32, error) {
	h, err := New(sampleRate, opts...)
	if err != nil {
		return nil, err
	}
	h.SetKnobs(k)

	out := make([]float32, len(in)*2)
	var outL, outR [renderBlockSize]float32
	for start := 0; start < len(in); start += renderBlockSize {
		end := start + renderBlockSize
		if end > len(in) {
			end = len(in)
		}
		n := end - start
		h.ProcessBlock(in[start:end], outL[:n], outR[:n])
		for i := 0; i < n; i++ {
			out[(start+i)*2] = outL[i]
			out[(start+i)*2+1] = outR[i]
		}
	}
	return out, nil
}

// EncodeWAVFloat32LE wraps samples in a RIFF/WAVE container with
// 32-bit float encoding.
func EncodeWAVFloat32LE(samples []float32, sampleRate int, channels int) []byte {
	dataSize := len(samples) * 4
	byteRate := sampleRate * channels * 4
	blockAlign := channels * 4
	chunkSize := 36 + dataSize
	out := make([]byte, 44+dataSize)
	copy(out[0:], []byte("RIFF"))
	binary.LittleEndian.PutUint32(out[4:], uint32(chunkSize))
	copy(out[8:], []byte("WAVE"))
	copy(out[12:], []byte("fmt "))
	binary.LittleEndian.PutUint32(out[16:], 16)
	binary.LittleEndian.PutUint16(out[20:], 3) // IEEE float
	binary.LittleEndian.PutUint16(out[22:], uint16(channels))
	binary.LittleEndian.PutUint32(out[24:], uint32(sampleRate))
	binary.LittleEndian.PutUint32(out[28:], uint32(byteRate))
	binary.LittleEndian.PutUint16(out[32:], uint16(blockAlign))
	binary.LittleEndian.PutUint16(out[34:], 32)
	copy(out[36:], []byte("data"))
	binary.LittleEndian.PutUint32(out[40:], uint32(dataSize))
	for i, s := range samples {
		binary.LittleEndian.PutUint32(out[44+i*4:], math.Float32bits(s))
	}
	return out
}

// DecodeWAVMono parses a RIFF/WAVE file and returns channel 0 as
// float32 samples plus the sample rate. 32-bit float and 16-bit PCM
// encodings are supported; other channels are dropped, matching the
// pedal's mono input.
func DecodeWAVMono(data []byte) ([]float32, int, error) {
	if len(data) < 12 || string(data[0:4]) != "RIFF" || string(data[8:12]) != "WAVE" {
		return nil, 0, errors.New("not a RIFF/WAVE file")
	}

	var (
		format     uint16
		channels   int
		sampleRate int
		bits       int
		haveFmt    bool
	)

	pos := 12
	for pos+8 <= len(data) {
		id := string(data[pos : pos+4])
		size := int(binary.LittleEndian.Uint32(data[pos+4 : pos+8]))
		body := pos + 8
		if body+size > len(data) {
			return nil, 0, errors.New("truncated WAV chunk")
		}
		switch id {
		case "fmt ":
			if size < 16 {
				return nil, 0, errors.New("short fmt chunk")
			}
			format = binary.LittleEndian.Uint16(data[body:])
			channels = int(binary.LittleEndian.Uint16(data[body+2:]))
			sampleRate = int(binary.LittleEndian.Uint32(data[body+4:]))
			bits = int(binary.LittleEndian.Uint16(data[body+14:]))
			haveFmt = true
		case "data":
			if !haveFmt {
				return nil, 0, errors.New("data chunk before fmt chunk")
			}
			if channels <= 0 {
				return nil, 0, errors.New("invalid channel count")
			}
			return decodeWAVData(data[body:body+size], format, channels, bits, sampleRate)
		}
		pos = body + size
		if size%2 == 1 {
			pos++ // chunks are word aligned
		}
	}
	return nil, 0, errors.New("no data chunk")
}

func decodeWAVData(body []byte, format uint16, channels, bits, sampleRate int) ([]float32, int, error) {
	switch {
	case format == 3 && bits == 32:
		frameBytes := channels * 4
		frames := len(body) / frameBytes
		out := make([]float32, frames)
		for i := 0; i < frames; i++ {
			u := binary.LittleEndian.Uint32(body[i*frameBytes:])
			out[i] = math.Float32frombits(u)
		}
		return out, sampleRate, nil
	case format == 1 && bits == 16:
		frameBytes := channels * 2
		frames := len(body) / frameBytes
		out := make([]float32, frames)
		for i := 0; i < frames; i++ {
			v := int16(binary.LittleEndian.Uint16(body[i*frameBytes:]))
			out[i] = float32(v) / 32768.0
		}
		return out, sampleRate, nil
	default:
		return nil, 0, fmt.Errorf("unsupported WAV encoding: format %d, %d bits", format, bits)
	}
}
