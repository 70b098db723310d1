//go:build !jack
// +build !jack

package gosinesynth

import (
	"errors"
	"strings"
	"testing"
)

func TestJackStubFunctionality(t *testing.T) {
	// JACK client creation should fail silently
	player, err := NewPlayer("testdata/default.synth", "test-client")
	if err != nil {
		t.Fatalf("Failed to create player: %v", err)
	}

	// Player should still be created successfully even without JACK
	if player == nil {
		t.Fatal("Expected player to be created even without JACK support")
	}

	if player.jackClient != nil || player.Live() {
		t.Error("Expected JACK client to be nil when JACK support is disabled")
	}

	// StopAndClose should work fine with no JACK client
	if err := player.StopAndClose(); err != nil {
		t.Errorf("StopAndClose should not error when no JACK client exists: %v", err)
	}
}

func TestJackStubMethods(t *testing.T) {
	_, err := NewJackClient(nil, "test-client")
	if !errors.Is(err, errJackDisabled) {
		t.Errorf("Expected NewJackClient to return errJackDisabled, got %v", err)
	}
	if err != nil && !strings.Contains(err.Error(), "-tags jack") {
		t.Errorf("Expected the error to say how to enable JACK, got %q", err)
	}

	client := &JackClient{}

	if err := client.Start(); !errors.Is(err, errJackDisabled) {
		t.Error("Expected Start() to return error for stub client")
	}

	if err := client.Stop(); !errors.Is(err, errJackDisabled) {
		t.Error("Expected Stop() to return error for stub client")
	}

	if err := client.Close(); !errors.Is(err, errJackDisabled) {
		t.Error("Expected Close() to return error for stub client")
	}

	if client.Synth() != nil {
		t.Error("Expected no synth for stub client")
	}
}
