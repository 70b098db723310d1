package gosinesynth

import (
	"testing"
)

// startVoice allocates and starts a voice with a long sustained envelope
func startVoice(t *testing.T, vp *VoicePool, note uint8) *Voice {
	t.Helper()
	voice := vp.Allocate()
	if voice == nil {
		t.Fatalf("Failed to allocate a voice for note %d", note)
	}
	voice.start(note, 100, 0.01, NewEnvelope(10, 0, 10, 0.5, 10))
	return voice
}

func activeNotes(vp *VoicePool) []uint8 {
	notes := make([]uint8, 0, vp.ActiveCount())
	for i := 0; i < vp.ActiveCount(); i++ {
		notes = append(notes, vp.Active(i).Note())
	}
	return notes
}

func TestVoicePoolAllocateUntilFull(t *testing.T) {
	var vp VoicePool

	for i := 0; i < MaxVoices; i++ {
		startVoice(t, &vp, uint8(i))
	}
	if vp.ActiveCount() != MaxVoices {
		t.Fatalf("Expected %d active voices, got %d", MaxVoices, vp.ActiveCount())
	}

	if voice := vp.Allocate(); voice != nil {
		t.Error("Expected allocation to fail when every voice is busy")
	}
	if vp.ActiveCount() != MaxVoices {
		t.Errorf("Failed allocation changed the active count to %d", vp.ActiveCount())
	}
}

func TestVoicePoolFindActive(t *testing.T) {
	var vp VoicePool

	first := startVoice(t, &vp, 60)
	second := startVoice(t, &vp, 64)

	if got := vp.FindActive(60); got != first {
		t.Errorf("Expected FindActive(60) to return the first voice")
	}
	if got := vp.FindActive(64); got != second {
		t.Errorf("Expected FindActive(64) to return the second voice")
	}
	if got := vp.FindActive(67); got != nil {
		t.Errorf("Expected no voice for note 67, got note %d", got.Note())
	}

	// a voice that has finished no longer plays its note
	first.velocity = 0
	if got := vp.FindActive(60); got != nil {
		t.Error("Expected a finished voice to be ignored")
	}
}

func TestVoicePoolRetireKeepsOrder(t *testing.T) {
	var vp VoicePool

	voices := make([]*Voice, 5)
	for i := range voices {
		voices[i] = startVoice(t, &vp, uint8(10+i))
	}

	voices[2].velocity = 0
	vp.Retire(2)

	if vp.ActiveCount() != 4 {
		t.Fatalf("Expected 4 active voices, got %d", vp.ActiveCount())
	}

	want := []*Voice{voices[0], voices[1], voices[3], voices[4]}
	for i, voice := range want {
		if vp.Active(i) != voice {
			t.Errorf("Active entry %d: expected note %d, got note %d", i, voice.Note(), vp.Active(i).Note())
		}
	}

	// out of range is ignored
	vp.Retire(-1)
	vp.Retire(4)
	if vp.ActiveCount() != 4 {
		t.Errorf("Expected out-of-range retire to be ignored, got %d voices", vp.ActiveCount())
	}
}

func TestVoicePoolReusesRetiredSlot(t *testing.T) {
	var vp VoicePool

	first := startVoice(t, &vp, 60)
	startVoice(t, &vp, 62)

	first.velocity = 0
	vp.Retire(0)

	again := startVoice(t, &vp, 64)
	if again != first {
		t.Error("Expected the retired slot to be reused first")
	}

	notes := activeNotes(&vp)
	if len(notes) != 2 || notes[0] != 62 || notes[1] != 64 {
		t.Errorf("Expected active notes [62 64], got %v", notes)
	}
}

func TestVoicePoolSkipsUnretiredSlot(t *testing.T) {
	var vp VoicePool

	first := startVoice(t, &vp, 60)
	// finished but still listed
	first.velocity = 0

	second := startVoice(t, &vp, 62)
	if second == first {
		t.Fatal("Expected a slot still on the active list not to be handed out again")
	}
	if vp.ActiveCount() != 2 {
		t.Errorf("Expected 2 listed voices, got %d", vp.ActiveCount())
	}
}

func TestVoicePoolReset(t *testing.T) {
	var vp VoicePool

	for i := 0; i < 10; i++ {
		startVoice(t, &vp, uint8(i))
	}
	vp.Reset()

	if vp.ActiveCount() != 0 {
		t.Errorf("Expected no active voices after reset, got %d", vp.ActiveCount())
	}
	if vp.FindActive(3) != nil {
		t.Error("Expected no voice to play after reset")
	}
	for i := 0; i < MaxVoices; i++ {
		startVoice(t, &vp, uint8(i))
	}
}

func TestVoicePoolListedFlagsFollowActiveList(t *testing.T) {
	var vp VoicePool

	for i := 0; i < MaxVoices; i++ {
		startVoice(t, &vp, uint8(i))
	}

	// finish and retire every third voice, then refill the pool
	for i := vp.ActiveCount() - 1; i >= 0; i-- {
		if vp.Active(i).Note()%3 == 0 {
			vp.Active(i).velocity = 0
			vp.Retire(i)
		}
	}
	for vp.ActiveCount() < MaxVoices {
		startVoice(t, &vp, 200)
	}

	onList := make(map[uint8]bool)
	for i := 0; i < vp.ActiveCount(); i++ {
		slot := vp.active[i]
		if onList[slot] {
			t.Fatalf("Slot %d is listed twice", slot)
		}
		onList[slot] = true
	}
	for slot := 0; slot < MaxVoices; slot++ {
		if vp.listed[slot] != onList[uint8(slot)] {
			t.Errorf("Slot %d: listed flag %v, on active list %v", slot, vp.listed[slot], onList[uint8(slot)])
		}
	}

	vp.Reset()
	for slot := 0; slot < MaxVoices; slot++ {
		if vp.listed[slot] {
			t.Fatalf("Slot %d still flagged after reset", slot)
		}
	}
}
