package gosinesynth

import (
	"fmt"
	"math"

	"github.com/GeoffreyPlitt/debuggo"
)

var synthDebug = debuggo.Debug("sinesynth:synth")

// Synth is the voice engine. It owns all mutable rendering state; one
// goroutine (the audio callback) drives it through Process. Nothing in
// Process allocates, blocks or takes a lock.
type Synth struct {
	sampleRate   float64
	samplesPerMs float64

	controls *Controls
	table    *Wavetable
	params   snapshot
	pool     VoicePool

	// output spans of the block being processed
	left  []float32
	right []float32
}

// NewSynth creates an engine for a fixed sample rate reading its parameters
// from controls. A nil controls gets defaults.
func NewSynth(sampleRate float64, controls *Controls) (*Synth, error) {
	if sampleRate <= 0 || math.IsNaN(sampleRate) || math.IsInf(sampleRate, 0) {
		return nil, fmt.Errorf("invalid sample rate: %v", sampleRate)
	}
	if controls == nil {
		controls = NewControls()
	}

	s := &Synth{
		sampleRate:   sampleRate,
		samplesPerMs: sampleRate / 1000.0,
		controls:     controls,
		table:        NewWavetable(),
	}
	s.params.recalculate(controls, s.samplesPerMs, s.table)

	synthDebug("Synth created (sample rate: %.0f Hz, polyphony: %d)", sampleRate, MaxVoices)
	return s, nil
}

// SampleRate returns the rate the engine was created with
func (s *Synth) SampleRate() float64 {
	return s.sampleRate
}

// Controls returns the parameter source the engine reads
func (s *Synth) Controls() *Controls {
	return s.controls
}

// Voices exposes the voice pool for inspection
func (s *Synth) Voices() *VoicePool {
	return &s.pool
}

// ActiveVoices returns the number of voices currently sounding
func (s *Synth) ActiveVoices() int {
	return s.pool.ActiveCount()
}

// Reset silences every voice at once
func (s *Synth) Reset() {
	s.pool.Reset()
	synthDebug("All voices reset")
}

// NoteOn starts a note. A note that still has a voice (typically one that
// is releasing) is re-attacked from its current level instead of taking a
// second voice. When all voices are busy the note is dropped. A velocity of
// 0 is a note-off.
func (s *Synth) NoteOn(note, velocity uint8) {
	if velocity == 0 {
		s.NoteOff(note)
		return
	}

	if voice := s.pool.FindActive(note); voice != nil {
		voice.envelope = voice.envelope.Reattack()
		return
	}

	voice := s.pool.Allocate()
	if voice == nil {
		return
	}

	p := &s.params
	voice.start(note, velocity,
		NoteFrequency(note)*twoPi/s.sampleRate,
		NewEnvelope(p.attack, p.hold, p.decay, p.sustain, p.release))
}

// NoteOff moves the voice playing note into its release stage. Unknown
// notes are ignored.
func (s *Synth) NoteOff(note uint8) {
	if voice := s.pool.FindActive(note); voice != nil {
		voice.envelope = voice.envelope.Release()
	}
}

// ReleaseAll starts the release of every sounding voice. Voices already
// releasing keep their place in the ramp.
func (s *Synth) ReleaseAll() {
	released := 0
	for i := 0; i < s.pool.ActiveCount(); i++ {
		voice := s.pool.Active(i)
		if voice.IsActive() && voice.envelope.Stage != StageRelease {
			voice.envelope = voice.envelope.Release()
			released++
		}
	}
	if released > 0 {
		synthDebug("Released %d held voices", released)
	}
}

// Apply dispatches a single event. Unknown kinds are ignored.
func (s *Synth) Apply(ev Event) {
	switch ev.Kind {
	case EventNoteOn:
		s.NoteOn(ev.Note, ev.Velocity)
	case EventNoteOff:
		s.NoteOff(ev.Note)
	}
}

// Process renders one block into left and right. The parameter snapshot is
// taken once at the start of the block. Events must be ordered by Offset;
// each one is applied exactly at its sample offset, with the audio before it
// rendered from the earlier voice state. Offsets outside the block, or
// before the previous event, are clamped rather than re-sorted.
func (s *Synth) Process(events []Event, left, right []float32) {
	n := len(left)
	if len(right) < n {
		n = len(right)
	}
	s.left = left[:n]
	s.right = right[:n]

	s.params.recalculate(s.controls, s.samplesPerMs, s.table)

	done := 0
	for _, ev := range events {
		offset := ev.Offset
		if offset < done {
			offset = done
		}
		if offset > n {
			offset = n
		}

		s.render(done, offset)
		done = offset

		s.Apply(ev)
	}
	s.render(done, n)

	s.left = nil
	s.right = nil
}

// render writes samples [from, to) of the current output spans
func (s *Synth) render(from, to int) {
	outLeft := s.left
	outRight := s.right
	volume := s.params.volume
	panLeft := s.params.panLeft * volume
	panRight := s.params.panRight * volume

	for pos := from; pos < to; pos++ {
		var l, r float32

		for i := 0; i < s.pool.nActive; i++ {
			voice := s.pool.Active(i)

			if voice.velocity == 0 {
				s.pool.Retire(i)
				i--
				continue
			}

			out := voice.tick(s.table)
			l += panLeft * out
			r += panRight * out

			if voice.velocity == 0 {
				// finished on this sample
				s.pool.Retire(i)
				i--
			}
		}

		outLeft[pos] = l
		outRight[pos] = r
	}
}
