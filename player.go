package gosinesynth

import (
	"fmt"

	"github.com/GeoffreyPlitt/debuggo"
)

var debug = debuggo.Debug("sinesynth:player")

// Player ties the engine to its surroundings: the shared controls, an
// optional preset that seeded them and, when built with JACK support, a
// live JACK client.
type Player struct {
	controls   *Controls
	preset     *Preset
	jackClient *JackClient
}

// NewPlayer creates a player. presetPath may be empty for default controls.
// When clientName is not empty a JACK client is opened and started; if that
// fails the player is still returned, without live output.
func NewPlayer(presetPath string, clientName string) (*Player, error) {
	debug("Creating new player (preset: %q, client: %q)", presetPath, clientName)

	p := &Player{
		controls: NewControls(),
	}

	if presetPath != "" {
		preset, err := ParsePresetFile(presetPath)
		if err != nil {
			return nil, fmt.Errorf("failed to create player: %w", err)
		}
		preset.Apply(p.controls)
		p.preset = preset
	}

	if clientName != "" {
		jackClient, err := NewJackClient(p, clientName)
		if err != nil {
			debug("JACK client not available: %v", err)
			return p, nil
		}
		if err := jackClient.Start(); err != nil {
			jackClient.Close()
			debug("Failed to start JACK client: %v", err)
			return p, nil
		}
		p.jackClient = jackClient
	}

	return p, nil
}

// Controls returns the parameter source shared by every synth the player
// creates
func (p *Player) Controls() *Controls {
	return p.controls
}

// Preset returns the preset the player was created with, or nil
func (p *Player) Preset() *Preset {
	return p.preset
}

// Live reports whether a JACK client is running
func (p *Player) Live() bool {
	return p.jackClient != nil
}

// SetParameter changes a control. Running synths see the change from their
// next block on.
func (p *Player) SetParameter(id ParamID, value float32) {
	p.controls.Set(id, value)
	debug("Parameter %s set to %.3f", id, p.controls.Get(id))
}

// NewSynth creates an engine at sampleRate reading the player's controls
func (p *Player) NewSynth(sampleRate float64) (*Synth, error) {
	return NewSynth(sampleRate, p.controls)
}

// RenderScore renders score offline at sampleRate
func (p *Player) RenderScore(score *Score, blockSize int, tail int) (*Rendering, error) {
	synth, err := p.NewSynth(score.SampleRate)
	if err != nil {
		return nil, fmt.Errorf("failed to render score: %w", err)
	}
	return RenderScore(synth, score, blockSize, tail)
}

// StopAndClose shuts down live output, if any
func (p *Player) StopAndClose() error {
	if p.jackClient == nil {
		return nil
	}

	if err := p.jackClient.Stop(); err != nil {
		debug("Failed to stop JACK client: %v", err)
	}
	err := p.jackClient.Close()
	p.jackClient = nil
	return err
}
