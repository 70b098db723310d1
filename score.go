package gosinesynth

import (
	"cmp"
	"fmt"
	"io"
	"math"
	"os"
	"slices"

	"github.com/GeoffreyPlitt/debuggo"
	"gitlab.com/gomidi/midi/v2/smf"
)

var scoreDebug = debuggo.Debug("sinesynth:score")

// Score is a time-ordered list of note events for offline or scripted
// playback. Event offsets are absolute sample frames from the score start.
type Score struct {
	Events     []Event
	SampleRate float64
}

// Length returns the frame of the last event, or 0 for an empty score
func (sc *Score) Length() int64 {
	if len(sc.Events) == 0 {
		return 0
	}
	return int64(sc.Events[len(sc.Events)-1].Offset)
}

// LoadScore reads a Standard MIDI File and converts its notes to frames at
// sampleRate
func LoadScore(filePath string, sampleRate float64) (*Score, error) {
	scoreDebug("Loading score: %s", filePath)

	file, err := os.Open(filePath)
	if err != nil {
		return nil, fmt.Errorf("failed to open MIDI file: %w", err)
	}
	defer file.Close()

	return ReadScore(file, sampleRate)
}

// ReadScore decodes a Standard MIDI File from r. Notes from every track and
// channel are merged; everything but note-on and note-off is dropped.
func ReadScore(r io.Reader, sampleRate float64) (*Score, error) {
	if sampleRate <= 0 {
		return nil, fmt.Errorf("invalid sample rate: %v", sampleRate)
	}

	score := &Score{SampleRate: sampleRate}
	skipped := 0

	err := smf.ReadTracksFrom(r).Do(func(te smf.TrackEvent) {
		frame := math.Round(float64(te.AbsMicroSeconds) * sampleRate / 1e6)
		ev, ok := DecodeMIDI(int(frame), te.Message)
		if !ok {
			skipped++
			return
		}
		score.Events = append(score.Events, ev)
	}).Error()
	if err != nil {
		return nil, fmt.Errorf("failed to read MIDI file: %w", err)
	}

	// tracks are read one after another; merge them by time
	slices.SortStableFunc(score.Events, func(a, b Event) int {
		return cmp.Compare(a.Offset, b.Offset)
	})

	scoreDebug("Score loaded: %d note events, %d other events skipped, %d frames",
		len(score.Events), skipped, score.Length())
	return score, nil
}

// ScoreCursor walks a score block by block
type ScoreCursor struct {
	score *Score
	next  int   // index of the first event not yet delivered
	frame int64 // absolute frame of the next block start
}

// Cursor returns a cursor positioned at the score start
func (sc *Score) Cursor() *ScoreCursor {
	return &ScoreCursor{score: sc}
}

// NextBlock fills dst with the events that fall in the next n frames, with
// offsets relative to the block start, and advances the cursor by n.
// dst is reused from index 0; give it enough capacity to avoid allocation.
func (c *ScoreCursor) NextBlock(dst []Event, n int) []Event {
	dst = dst[:0]
	end := c.frame + int64(n)

	events := c.score.Events
	for c.next < len(events) && int64(events[c.next].Offset) < end {
		ev := events[c.next]
		rel := int64(ev.Offset) - c.frame
		if rel < 0 {
			rel = 0
		}
		ev.Offset = int(rel)
		dst = append(dst, ev)
		c.next++
	}

	c.frame = end
	return dst
}

// Frame returns the absolute frame of the next block
func (c *ScoreCursor) Frame() int64 {
	return c.frame
}

// Finished reports whether every event has been delivered
func (c *ScoreCursor) Finished() bool {
	return c.next >= len(c.score.Events)
}
