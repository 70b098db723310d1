package gosinesynth

import (
	"encoding/binary"
	"io"
	"math"
	"sync/atomic"

	"github.com/GeoffreyPlitt/debuggo"
)

var streamDebug = debuggo.Debug("sinesynth:stream")

// bytesPerFrame is one interleaved stereo float32 frame
const bytesPerFrame = 8

// Stream plays a score through a synth as an io.Reader of interleaved
// stereo float32 little-endian frames, the layout audio devices such as
// oto's FormatFloat32LE expect. It renders in blocks of at most blockSize
// frames with buffers allocated up front.
type Stream struct {
	synth     *Synth
	cursor    *ScoreCursor
	blockSize int

	left   []float32
	right  []float32
	events []Event

	released bool
	finished bool

	// frames delivered so far; read from other goroutines
	played atomic.Int64
}

// NewStream returns a stream over score. blockSize <= 0 selects
// DefaultBlockSize.
func NewStream(s *Synth, score *Score, blockSize int) *Stream {
	if blockSize <= 0 {
		blockSize = DefaultBlockSize
	}
	return &Stream{
		synth:     s,
		cursor:    score.Cursor(),
		blockSize: blockSize,
		left:      make([]float32, blockSize),
		right:     make([]float32, blockSize),
		events:    make([]Event, 0, 256),
	}
}

// Read renders as many whole frames as fit in p. Notes still held after
// the last score event are released, and Read returns io.EOF once all
// voices have gone silent.
func (st *Stream) Read(p []byte) (int, error) {
	if st.Finished() {
		if !st.finished {
			st.finished = true
			streamDebug("Stream finished at frame %d", st.cursor.Frame())
		}
		return 0, io.EOF
	}
	if len(p) < bytesPerFrame {
		return 0, io.ErrShortBuffer
	}

	frames := len(p) / bytesPerFrame
	written := 0
	for written < frames {
		n := frames - written
		if n > st.blockSize {
			n = st.blockSize
		}

		// notes still held when the score runs out would never end
		if !st.released && st.cursor.Finished() {
			st.released = true
			streamDebug("Score ended at frame %d, releasing %d voices", st.cursor.Frame(), st.synth.ActiveVoices())
			st.synth.ReleaseAll()
		}

		st.events = st.cursor.NextBlock(st.events, n)
		st.synth.Process(st.events, st.left[:n], st.right[:n])

		buf := p[written*bytesPerFrame:]
		for i := 0; i < n; i++ {
			binary.LittleEndian.PutUint32(buf[i*bytesPerFrame:], math.Float32bits(st.left[i]))
			binary.LittleEndian.PutUint32(buf[i*bytesPerFrame+4:], math.Float32bits(st.right[i]))
		}
		written += n
	}
	st.played.Add(int64(written))

	return written * bytesPerFrame, nil
}

// Finished reports whether the score has played out and no voice sounds
func (st *Stream) Finished() bool {
	return st.cursor.Finished() && st.synth.ActiveVoices() == 0
}

// Played returns the number of frames delivered so far. It is safe to call
// while another goroutine reads the stream.
func (st *Stream) Played() int64 {
	return st.played.Load()
}
