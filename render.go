package gosinesynth

import (
	"fmt"
)

// DefaultBlockSize is the block length used by offline rendering and
// streaming when none is given
const DefaultBlockSize = 512

// Rendering is a rendered stereo signal
type Rendering struct {
	Left       []float32
	Right      []float32
	SampleRate int
}

// Frames returns the number of stereo frames
func (r *Rendering) Frames() int {
	return len(r.Left)
}

// RenderScore plays score through s offline, block by block, exactly as a
// host would: each block gets its own event list and parameter snapshot.
// The frame of the last event is always rendered, so that event takes
// effect; rendering then continues for tail more frames so releases can
// finish.
func RenderScore(s *Synth, score *Score, blockSize int, tail int) (*Rendering, error) {
	if blockSize <= 0 {
		return nil, fmt.Errorf("invalid block size: %d", blockSize)
	}
	if tail < 0 {
		tail = 0
	}

	total := int(score.Length()) + 1 + tail
	out := &Rendering{
		Left:       make([]float32, total),
		Right:      make([]float32, total),
		SampleRate: int(s.SampleRate()),
	}

	cursor := score.Cursor()
	events := make([]Event, 0, 256)

	for pos := 0; pos < total; pos += blockSize {
		n := blockSize
		if pos+n > total {
			n = total - pos
		}
		events = cursor.NextBlock(events, n)
		s.Process(events, out.Left[pos:pos+n], out.Right[pos:pos+n])
	}

	synthDebug("Rendered %d frames in blocks of %d (%d events)", total, blockSize, len(score.Events))
	return out, nil
}
