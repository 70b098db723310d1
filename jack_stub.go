//go:build !jack
// +build !jack

package gosinesynth

import "errors"

// errJackDisabled is returned by every JackClient method in builds without
// the jack tag
var errJackDisabled = errors.New("sinesynth was built without JACK output; rebuild with '-tags jack' and the JACK development headers")

// JackClient is a placeholder so Player compiles without JACK. It never
// holds a synth.
type JackClient struct{}

// NewJackClient always fails; the player falls back to offline use
func NewJackClient(player *Player, clientName string) (*JackClient, error) {
	return nil, errJackDisabled
}

// Start reports that live output is unavailable
func (jc *JackClient) Start() error {
	return errJackDisabled
}

// Stop reports that live output is unavailable
func (jc *JackClient) Stop() error {
	return errJackDisabled
}

// Close reports that live output is unavailable
func (jc *JackClient) Close() error {
	return errJackDisabled
}

// Synth returns nil; no engine runs without JACK
func (jc *JackClient) Synth() *Synth {
	return nil
}
