package harmony

import "math"

// NoteFromFrequency converts a frequency in Hz to a continuous MIDI
// note number (A4 = 440 Hz = 69).
func NoteFromFrequency(freqHz float64) float64 {
	return 12*math.Log2(freqHz/440.0) + 69
}

// FrequencyFromNote converts a continuous MIDI note number to Hz.
func FrequencyFromNote(midi float64) float64 {
	return 440.0 * math.Pow(2, (midi-69)/12)
}
