package gosinesynth

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/GeoffreyPlitt/debuggo"
	"github.com/go-audio/audio"
	"github.com/go-audio/wav"
	"github.com/mewkiz/flac"
	"github.com/mewkiz/flac/frame"
	"github.com/mewkiz/flac/meta"
)

var exportDebug = debuggo.Debug("sinesynth:export")

const (
	exportBitDepth = 16

	flacBlockSize    = 4096
	flacMinBlockSize = 16
)

// WriteRendering saves a rendering as 16-bit stereo PCM. The format is
// chosen from the file extension: .wav or .flac.
func WriteRendering(filePath string, r *Rendering) error {
	if r == nil || len(r.Left) != len(r.Right) {
		return fmt.Errorf("invalid rendering: channel lengths differ")
	}
	if r.SampleRate <= 0 {
		return fmt.Errorf("invalid rendering sample rate: %d", r.SampleRate)
	}

	ext := strings.ToLower(filepath.Ext(filePath))

	var err error
	switch ext {
	case ".wav":
		err = writeWAV(filePath, r)
	case ".flac":
		err = writeFLAC(filePath, r)
	default:
		return fmt.Errorf("unsupported audio format: %s (supported: .wav, .flac)", ext)
	}
	if err != nil {
		return err
	}

	exportDebug("Wrote %s (rate: %d Hz, frames: %d)", filePath, r.SampleRate, r.Frames())
	return nil
}

// ReadRendering loads a stereo .wav or .flac file. Mono files are copied to
// both channels.
func ReadRendering(filePath string) (*Rendering, error) {
	if _, err := os.Stat(filePath); os.IsNotExist(err) {
		return nil, fmt.Errorf("audio file not found: %s", filePath)
	}

	ext := strings.ToLower(filepath.Ext(filePath))
	switch ext {
	case ".wav":
		return readWAV(filePath)
	case ".flac":
		return readFLAC(filePath)
	}
	return nil, fmt.Errorf("unsupported audio format: %s (supported: .wav, .flac)", ext)
}

// writeWAV writes a WAV file
func writeWAV(filePath string, r *Rendering) error {
	file, err := os.Create(filePath)
	if err != nil {
		return fmt.Errorf("failed to create WAV file %s: %w", filePath, err)
	}
	defer file.Close()

	encoder := wav.NewEncoder(file, r.SampleRate, exportBitDepth, 2, 1)

	buf := &audio.IntBuffer{
		Format: &audio.Format{
			NumChannels: 2,
			SampleRate:  r.SampleRate,
		},
		Data:           make([]int, 2*r.Frames()),
		SourceBitDepth: exportBitDepth,
	}
	for i := range r.Left {
		buf.Data[2*i] = int(toPCM16(r.Left[i]))
		buf.Data[2*i+1] = int(toPCM16(r.Right[i]))
	}

	if err := encoder.Write(buf); err != nil {
		return fmt.Errorf("failed to write audio data to %s: %w", filePath, err)
	}
	if err := encoder.Close(); err != nil {
		return fmt.Errorf("failed to finalize WAV file %s: %w", filePath, err)
	}
	return nil
}

// writeFLAC writes a FLAC file using verbatim subframes
func writeFLAC(filePath string, r *Rendering) error {
	if r.Frames() < flacMinBlockSize {
		return fmt.Errorf("rendering too short for FLAC: %d frames (minimum %d)", r.Frames(), flacMinBlockSize)
	}

	file, err := os.Create(filePath)
	if err != nil {
		return fmt.Errorf("failed to create FLAC file %s: %w", filePath, err)
	}
	defer file.Close()

	info := &meta.StreamInfo{
		BlockSizeMin:  flacMinBlockSize,
		BlockSizeMax:  65535,
		SampleRate:    uint32(r.SampleRate),
		NChannels:     2,
		BitsPerSample: exportBitDepth,
		NSamples:      uint64(r.Frames()),
	}

	encoder, err := flac.NewEncoder(file, info)
	if err != nil {
		return fmt.Errorf("failed to create FLAC encoder for %s: %w", filePath, err)
	}

	for _, block := range flacBlocks(r.Frames()) {
		start, n := block[0], block[1]

		left := make([]int32, n)
		right := make([]int32, n)
		for i := 0; i < n; i++ {
			left[i] = int32(toPCM16(r.Left[start+i]))
			right[i] = int32(toPCM16(r.Right[start+i]))
		}

		f := &frame.Frame{
			Header: frame.Header{
				HasFixedBlockSize: false,
				BlockSize:         uint16(n),
				SampleRate:        uint32(r.SampleRate),
				Channels:          frame.ChannelsLR,
				BitsPerSample:     exportBitDepth,
				Num:               uint64(start),
			},
			Subframes: []*frame.Subframe{
				verbatimSubframe(left),
				verbatimSubframe(right),
			},
		}
		if err := encoder.WriteFrame(f); err != nil {
			encoder.Close()
			return fmt.Errorf("failed to write FLAC frame to %s: %w", filePath, err)
		}
	}

	if err := encoder.Close(); err != nil {
		return fmt.Errorf("failed to finalize FLAC file %s: %w", filePath, err)
	}
	return nil
}

// flacBlocks splits frames into {start, length} blocks of flacBlockSize.
// Decoders reject a stream whose smallest block is under 16 frames, so a
// short remainder is merged into the block before it.
func flacBlocks(frames int) [][2]int {
	var blocks [][2]int
	for start := 0; start < frames; start += flacBlockSize {
		n := flacBlockSize
		if start+n > frames {
			n = frames - start
		}
		if n < flacMinBlockSize && len(blocks) > 0 {
			blocks[len(blocks)-1][1] += n
			break
		}
		blocks = append(blocks, [2]int{start, n})
	}
	return blocks
}

func verbatimSubframe(samples []int32) *frame.Subframe {
	return &frame.Subframe{
		SubHeader: frame.SubHeader{Pred: frame.PredVerbatim},
		Samples:   samples,
		NSamples:  len(samples),
	}
}

// readWAV loads a WAV file
func readWAV(filePath string) (*Rendering, error) {
	file, err := os.Open(filePath)
	if err != nil {
		return nil, fmt.Errorf("failed to open WAV file %s: %w", filePath, err)
	}
	defer file.Close()

	decoder := wav.NewDecoder(file)
	if !decoder.IsValidFile() {
		return nil, fmt.Errorf("invalid WAV file: %s", filePath)
	}

	buf, err := decoder.FullPCMBuffer()
	if err != nil {
		return nil, fmt.Errorf("failed to read audio data from %s: %w", filePath, err)
	}

	channels := buf.Format.NumChannels
	scale := fullScale(int(decoder.BitDepth))
	out := newRendering(len(buf.Data)/channels, buf.Format.SampleRate)
	for i := range out.Left {
		out.Left[i] = float32(float64(buf.Data[i*channels]) / scale)
		if channels > 1 {
			out.Right[i] = float32(float64(buf.Data[i*channels+1]) / scale)
		} else {
			out.Right[i] = out.Left[i]
		}
	}
	return out, nil
}

// readFLAC loads a FLAC file
func readFLAC(filePath string) (*Rendering, error) {
	file, err := os.Open(filePath)
	if err != nil {
		return nil, fmt.Errorf("failed to open FLAC file %s: %w", filePath, err)
	}
	defer file.Close()

	stream, err := flac.New(file)
	if err != nil {
		return nil, fmt.Errorf("failed to create FLAC decoder for %s: %w", filePath, err)
	}
	defer stream.Close()

	info := stream.Info
	if info == nil {
		return nil, fmt.Errorf("no stream info available for FLAC file: %s", filePath)
	}

	scale := fullScale(int(info.BitsPerSample))
	out := newRendering(0, int(info.SampleRate))
	for {
		f, err := stream.ParseNext()
		if err != nil {
			if errors.Is(err, io.EOF) {
				break
			}
			return nil, fmt.Errorf("failed to read FLAC frame from %s: %w", filePath, err)
		}

		left := f.Subframes[0].Samples
		right := left
		if len(f.Subframes) > 1 {
			right = f.Subframes[1].Samples
		}
		for i := range left {
			out.Left = append(out.Left, float32(float64(left[i])/scale))
			out.Right = append(out.Right, float32(float64(right[i])/scale))
		}
	}
	return out, nil
}

func newRendering(frames, sampleRate int) *Rendering {
	return &Rendering{
		Left:       make([]float32, frames),
		Right:      make([]float32, frames),
		SampleRate: sampleRate,
	}
}

// fullScale returns the integer magnitude of 1.0 at bitDepth
func fullScale(bitDepth int) float64 {
	switch bitDepth {
	case 24:
		return 8388608.0
	case 32:
		return 2147483648.0
	}
	return 32768.0
}

// toPCM16 clamps to [-1, 1] and converts to a 16-bit sample
func toPCM16(v float32) int16 {
	if v > 1.0 {
		v = 1.0
	}
	if v < -1.0 {
		v = -1.0
	}
	return int16(v * 32767)
}
