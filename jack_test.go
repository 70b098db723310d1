//go:build jack
// +build jack

package gosinesynth

import (
	"testing"
)

func TestJackClientLifecycle(t *testing.T) {
	player, err := NewPlayer("testdata/default.synth", "")
	if err != nil {
		t.Fatalf("Failed to create player: %v", err)
	}

	jc, err := NewJackClient(player, "sinesynth-test")
	if err != nil {
		t.Skipf("JACK server not available: %v", err)
	}

	if jc.Synth() == nil {
		t.Fatal("Expected the client to own a synth")
	}
	if jc.Synth().SampleRate() != float64(jc.sampleRate) {
		t.Errorf("Expected the synth to run at the server rate %d, got %v", jc.sampleRate, jc.Synth().SampleRate())
	}
	if jc.Synth().Controls() != player.Controls() {
		t.Error("Expected the synth to read the player's controls")
	}
	if cap(jc.events) != maxBlockEvents || len(jc.left) != int(jc.bufferSize) {
		t.Error("Expected per-period buffers to be preallocated")
	}

	if err := jc.Start(); err != nil {
		t.Fatalf("Failed to start JACK client: %v", err)
	}
	if err := jc.Stop(); err != nil {
		t.Errorf("Failed to stop JACK client: %v", err)
	}
	if jc.Synth().ActiveVoices() != 0 {
		t.Error("Expected voices to be silenced on stop")
	}
	if err := jc.Close(); err != nil {
		t.Errorf("Failed to close JACK client: %v", err)
	}
}

func TestPlayerLiveOutput(t *testing.T) {
	player, err := NewPlayer("", "sinesynth-live-test")
	if err != nil {
		t.Fatalf("Failed to create player: %v", err)
	}
	if !player.Live() {
		t.Skip("JACK server not available")
	}

	if err := player.StopAndClose(); err != nil {
		t.Errorf("Failed to stop player: %v", err)
	}
	if player.Live() {
		t.Error("Expected live output to be gone after StopAndClose")
	}
}
