package gosinesynth

// Voice represents one sounding or decaying note
type Voice struct {
	note     uint8
	velocity uint8 // 0 marks a free slot

	phase          float64 // oscillator phase in radians, kept in [0, 2π)
	phaseIncrement float64 // radians per sample

	envelope Envelope
}

// Note returns the MIDI note the voice was started with
func (v *Voice) Note() uint8 { return v.note }

// Velocity returns the note-on velocity, or 0 for a free voice
func (v *Voice) Velocity() uint8 { return v.velocity }

// IsActive reports whether the voice slot is in use
func (v *Voice) IsActive() bool { return v.velocity > 0 }

// Envelope returns a copy of the voice's envelope state
func (v *Voice) Envelope() Envelope { return v.envelope }

// start seeds a free voice for a new note
func (v *Voice) start(note, velocity uint8, phaseIncrement float64, env Envelope) {
	v.note = note
	v.velocity = velocity
	v.phase = 0
	v.phaseIncrement = phaseIncrement
	v.envelope = env
}

// tick renders one sample of the voice: the oscillator value at the current
// phase scaled by the envelope level for this sample. The voice frees itself
// (velocity 0) when its envelope is done.
func (v *Voice) tick(wt *Wavetable) float32 {
	val := wt.Lookup(v.phase)

	v.phase += v.phaseIncrement
	if v.phase >= twoPi {
		v.phase = wrapPhase(v.phase)
	}

	v.envelope = v.envelope.Tick()
	if v.envelope.Done {
		v.velocity = 0
	}

	return val * float32(v.envelope.Level)
}
