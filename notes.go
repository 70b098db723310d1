package gosinesynth

import "math"

// noteFrequencies maps MIDI note numbers to equal-tempered frequencies
// in Hz, with A4 (note 69) at 440 Hz.
var noteFrequencies = func() [128]float64 {
	var freqs [128]float64
	for n := range freqs {
		freqs[n] = 440.0 * math.Pow(2.0, float64(n-69)/12.0)
	}
	return freqs
}()

// NoteFrequency returns the oscillator frequency for a MIDI note.
// Notes above 127 are folded into the table range.
func NoteFrequency(note uint8) float64 {
	return noteFrequencies[note&0x7F]
}
