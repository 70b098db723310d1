package gosinesynth

import "math"

const (
	// TableSize is the number of entries in one wavetable period
	TableSize = 2048

	twoPi          = 2 * math.Pi
	tableIncrement = twoPi / TableSize
)

// Wavetable holds one precomputed sine period covering [0, 2π).
// It is immutable after NewWavetable and safe to share between voices.
type Wavetable struct {
	table [TableSize]float32
}

// NewWavetable fills a table with table[i] = sin(i * 2π / TableSize)
func NewWavetable() *Wavetable {
	wt := &Wavetable{}
	for i := range wt.table {
		wt.table[i] = float32(math.Sin(float64(i) * tableIncrement))
	}
	return wt
}

// Lookup returns the nearest table entry for phase (in radians).
// No interpolation is done. Any phase is accepted: it is wrapped into
// [0, 2π) first, so negative phases and phase + π/2 queries are safe.
func (wt *Wavetable) Lookup(phase float64) float32 {
	idx := int(math.Round(wrapPhase(phase) / tableIncrement))
	if idx >= TableSize || idx < 0 {
		// rounded up to a full period, or phase was not finite
		idx = 0
	}
	return wt.table[idx]
}

// wrapPhase reduces phase into [0, 2π)
func wrapPhase(phase float64) float64 {
	if phase >= 0 && phase < twoPi {
		return phase
	}
	phase = math.Mod(phase, twoPi)
	if phase < 0 {
		phase += twoPi
	}
	if phase >= twoPi {
		phase = 0
	}
	return phase
}
