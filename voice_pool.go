package gosinesynth

// MaxVoices is the polyphony ceiling
const MaxVoices = 128

// VoicePool is a fixed arena of voices plus a compact list of the slots in
// use. A slot is free when its velocity is 0; every busy slot appears in
// the active list exactly once. Nothing here allocates after construction.
type VoicePool struct {
	voices  [MaxVoices]Voice
	active  [MaxVoices]uint8
	nActive int

	// listed[slot] is set while slot is on the active list. A voice that
	// finished on the last sample of a render span is free but not yet
	// retired; handing it out again would list it twice.
	listed [MaxVoices]bool
}

// ActiveCount returns the number of voices in the active list
func (vp *VoicePool) ActiveCount() int {
	return vp.nActive
}

// Active returns the voice at position i of the active list
func (vp *VoicePool) Active(i int) *Voice {
	return &vp.voices[vp.active[i]]
}

// FindActive returns the sounding voice playing note, or nil
func (vp *VoicePool) FindActive(note uint8) *Voice {
	for i := 0; i < vp.nActive; i++ {
		voice := &vp.voices[vp.active[i]]
		if voice.velocity > 0 && voice.note == note {
			return voice
		}
	}
	return nil
}

// Allocate claims the first free slot and appends it to the active list.
// It returns nil when every slot is busy; the caller drops the note.
// The returned voice still has velocity 0 until the caller starts it.
func (vp *VoicePool) Allocate() *Voice {
	if vp.nActive >= MaxVoices {
		return nil
	}
	for i := range vp.voices {
		if vp.voices[i].velocity == 0 && !vp.listed[i] {
			vp.listed[i] = true
			vp.active[vp.nActive] = uint8(i)
			vp.nActive++
			return &vp.voices[i]
		}
	}
	return nil
}

// Retire removes entry i from the active list, shifting later entries down
// by one. The voice itself is left untouched. When called while iterating
// the active list, the caller must revisit position i.
func (vp *VoicePool) Retire(i int) {
	if i < 0 || i >= vp.nActive {
		return
	}
	vp.listed[vp.active[i]] = false
	vp.nActive--
	copy(vp.active[i:vp.nActive], vp.active[i+1:vp.nActive+1])
}

// Reset frees every voice and empties the active list
func (vp *VoicePool) Reset() {
	for i := range vp.voices {
		vp.voices[i].velocity = 0
		vp.listed[i] = false
	}
	vp.nActive = 0
}
