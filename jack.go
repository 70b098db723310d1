//go:build jack
// +build jack

package gosinesynth

import (
	"fmt"

	"github.com/GeoffreyPlitt/debuggo"
	"github.com/xthexder/go-jack"
)

var jackDebug = debuggo.Debug("sinesynth:jack")

// maxBlockEvents bounds the note events taken from one JACK period
const maxBlockEvents = 512

// JackClient runs the synth inside a JACK process callback: MIDI in,
// stereo audio out
type JackClient struct {
	client       *jack.Client
	player       *Player
	synth        *Synth
	midiInPort   *jack.Port
	leftOutPort  *jack.Port
	rightOutPort *jack.Port
	sampleRate   uint32
	bufferSize   uint32

	// Preallocated per-period buffers, only touched by the JACK thread
	events []Event
	left   []float32
	right  []float32
}

// NewJackClient opens a JACK client whose synth reads player's controls
func NewJackClient(player *Player, clientName string) (*JackClient, error) {
	jackDebug("Creating JACK client: %s", clientName)

	client, status := jack.ClientOpen(clientName, jack.NoStartServer)
	if status != 0 {
		return nil, fmt.Errorf("failed to open JACK client: %w", jackError(status))
	}

	sampleRate := client.GetSampleRate()
	bufferSize := client.GetBufferSize()

	synth, err := player.NewSynth(float64(sampleRate))
	if err != nil {
		client.Close()
		return nil, fmt.Errorf("failed to create synth: %w", err)
	}

	jc := &JackClient{
		client:     client,
		player:     player,
		synth:      synth,
		sampleRate: sampleRate,
		bufferSize: bufferSize,
		events:     make([]Event, 0, maxBlockEvents),
		left:       make([]float32, bufferSize),
		right:      make([]float32, bufferSize),
	}

	jc.midiInPort = client.PortRegister("midi_in", jack.DEFAULT_MIDI_TYPE, jack.PortIsInput, 0)
	jc.leftOutPort = client.PortRegister("out_left", jack.DEFAULT_AUDIO_TYPE, jack.PortIsOutput, 0)
	jc.rightOutPort = client.PortRegister("out_right", jack.DEFAULT_AUDIO_TYPE, jack.PortIsOutput, 0)
	if jc.midiInPort == nil || jc.leftOutPort == nil || jc.rightOutPort == nil {
		client.Close()
		return nil, fmt.Errorf("failed to register JACK ports")
	}

	if code := client.SetProcessCallback(jc.processCallback); code != 0 {
		client.Close()
		return nil, fmt.Errorf("failed to set process callback: %w", jackError(code))
	}

	jackDebug("JACK client created successfully (sample rate: %d Hz, buffer size: %d)",
		sampleRate, bufferSize)

	return jc, nil
}

// Start activates the JACK client and begins audio processing
func (jc *JackClient) Start() error {
	jackDebug("Starting JACK client")

	if code := jc.client.Activate(); code != 0 {
		return fmt.Errorf("failed to activate JACK client: %w", jackError(code))
	}

	jackDebug("JACK client activated successfully")
	return nil
}

// Stop deactivates the JACK client
func (jc *JackClient) Stop() error {
	jackDebug("Stopping JACK client")

	if code := jc.client.Deactivate(); code != 0 {
		return fmt.Errorf("failed to deactivate JACK client: %w", jackError(code))
	}
	jc.synth.Reset()

	jackDebug("JACK client deactivated")
	return nil
}

// Close closes the JACK client connection
func (jc *JackClient) Close() error {
	jackDebug("Closing JACK client")

	if code := jc.client.Close(); code != 0 {
		return fmt.Errorf("failed to close JACK client: %w", jackError(code))
	}

	jackDebug("JACK client closed")
	return nil
}

// Synth returns the engine driven by the process callback
func (jc *JackClient) Synth() *Synth {
	return jc.synth
}

// processCallback is called by JACK for each period
func (jc *JackClient) processCallback(nframes uint32) int {
	leftOut := jc.leftOutPort.GetBuffer(nframes)
	rightOut := jc.rightOutPort.GetBuffer(nframes)

	if int(nframes) > len(jc.left) {
		// buffer size grew; only happens on reconfiguration
		jc.left = make([]float32, nframes)
		jc.right = make([]float32, nframes)
	}
	left := jc.left[:nframes]
	right := jc.right[:nframes]

	jc.events = jc.collectEvents(jc.events[:0], nframes)
	jc.synth.Process(jc.events, left, right)

	for i := range left {
		leftOut[i] = jack.AudioSample(left[i])
		rightOut[i] = jack.AudioSample(right[i])
	}

	return 0
}

// collectEvents decodes this period's MIDI input into note events
func (jc *JackClient) collectEvents(dst []Event, nframes uint32) []Event {
	for _, midiEvent := range jc.midiInPort.GetMidiEvents(nframes) {
		if len(dst) == cap(dst) {
			break
		}
		ev, ok := DecodeMIDI(int(midiEvent.Time), midiEvent.Buffer)
		if !ok {
			continue
		}
		dst = append(dst, ev)
	}
	return dst
}

func jackError(code int) error {
	return fmt.Errorf("jack status %d: %s", code, jack.StrError(code))
}
