package gosinesynth

import (
	"bytes"
	"math"
	"os"
	"path/filepath"
	"sort"
	"testing"

	"gitlab.com/gomidi/midi/v2"
	"gitlab.com/gomidi/midi/v2/smf"
)

// newTestSynth creates a synth with the given controls applied on top of
// the defaults
func newTestSynth(t *testing.T, sampleRate float64, settings map[ParamID]float32) *Synth {
	t.Helper()
	controls := NewControls()
	for id, v := range settings {
		controls.Set(id, v)
	}
	s, err := NewSynth(sampleRate, controls)
	if err != nil {
		t.Fatalf("Failed to create synth: %v", err)
	}
	return s
}

// processBlock renders n frames with the given events and returns both
// channels
func processBlock(s *Synth, n int, events ...Event) ([]float32, []float32) {
	left := make([]float32, n)
	right := make([]float32, n)
	s.Process(events, left, right)
	return left, right
}

// assertNear fails the test when got is further than tol from want
func assertNear(t *testing.T, name string, got, want, tol float64) {
	t.Helper()
	if math.IsNaN(got) || math.Abs(got-want) > tol {
		t.Errorf("Expected %s=%.6f, got %.6f", name, want, got)
	}
}

// assertFinite fails the test on the first NaN or Inf sample
func assertFinite(t *testing.T, name string, buf []float32) {
	t.Helper()
	for i, v := range buf {
		f := float64(v)
		if math.IsNaN(f) || math.IsInf(f, 0) {
			t.Fatalf("%s sample %d is not finite: %v", name, i, v)
		}
	}
}

// peak returns the largest absolute sample value
func peak(buf []float32) float64 {
	p := 0.0
	for _, v := range buf {
		if a := math.Abs(float64(v)); a > p {
			p = a
		}
	}
	return p
}

// createTestPresetFile writes content to a preset file in a temp dir
func createTestPresetFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "test.synth")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("Failed to write preset file: %v", err)
	}
	return path
}

// testNote is a note for buildTestSMF, timed in ticks at 960 per quarter
type testNote struct {
	key      uint8
	velocity uint8
	on, off  uint32
}

// buildTestSMF encodes notes as a single-track Standard MIDI File. Without
// a tempo event the file plays at 120 BPM, so 960 ticks are 500 ms.
func buildTestSMF(t *testing.T, notes []testNote, extra ...midi.Message) []byte {
	t.Helper()

	type timed struct {
		tick uint32
		msg  midi.Message
	}
	events := make([]timed, 0, 2*len(notes)+len(extra))
	for _, msg := range extra {
		events = append(events, timed{0, msg})
	}
	for _, n := range notes {
		events = append(events,
			timed{n.on, midi.NoteOn(0, n.key, n.velocity)},
			timed{n.off, midi.NoteOff(0, n.key)})
	}
	sort.SliceStable(events, func(i, j int) bool {
		return events[i].tick < events[j].tick
	})

	var tr smf.Track
	last := uint32(0)
	for _, e := range events {
		tr.Add(e.tick-last, e.msg)
		last = e.tick
	}
	tr.Close(0)

	s := smf.New()
	s.TimeFormat = smf.MetricTicks(960)
	if err := s.Add(tr); err != nil {
		t.Fatalf("Failed to add track: %v", err)
	}

	var buf bytes.Buffer
	if _, err := s.WriteTo(&buf); err != nil {
		t.Fatalf("Failed to write SMF: %v", err)
	}
	return buf.Bytes()
}
