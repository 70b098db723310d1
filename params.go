package gosinesynth

import (
	"fmt"
	"math"
	"strings"
	"sync/atomic"
)

// ParamID identifies a host-facing control value
type ParamID int

const (
	ParamVolume ParamID = iota
	ParamPanning
	ParamAttack
	ParamHold
	ParamDecay
	ParamSustain
	ParamRelease

	numParams
)

// ParamInfo describes the range and default of a control
type ParamInfo struct {
	Name    string
	Unit    string
	Min     float32
	Max     float32
	Default float32
}

var paramInfo = [numParams]ParamInfo{
	ParamVolume:  {Name: "volume", Unit: "dB", Min: -90, Max: 24, Default: -15},
	ParamPanning: {Name: "pan", Unit: "", Min: -1, Max: 1, Default: 0},
	ParamAttack:  {Name: "attack", Unit: "ms", Min: 0, Max: 5000, Default: 25},
	ParamHold:    {Name: "hold", Unit: "ms", Min: 0, Max: 5000, Default: 0},
	ParamDecay:   {Name: "decay", Unit: "ms", Min: 0, Max: 5000, Default: 25},
	ParamSustain: {Name: "sustain", Unit: "", Min: 0, Max: 1, Default: 0.7},
	ParamRelease: {Name: "release", Unit: "ms", Min: 0, Max: 5000, Default: 100},
}

// Info returns the range and default for id
func (id ParamID) Info() ParamInfo {
	if id < 0 || id >= numParams {
		return ParamInfo{Name: "unknown"}
	}
	return paramInfo[id]
}

func (id ParamID) String() string {
	return id.Info().Name
}

// ParamByName looks up a control by its preset/CLI name
func ParamByName(name string) (ParamID, error) {
	name = strings.ToLower(strings.TrimSpace(name))
	for id := ParamID(0); id < numParams; id++ {
		if paramInfo[id].Name == name {
			return id, nil
		}
	}
	return 0, fmt.Errorf("unknown parameter: %s", name)
}

// Control is a single float value that one goroutine may write while the
// audio goroutine reads it. Reads and writes are lock-free.
type Control struct {
	bits atomic.Uint32
}

// Load returns the current value
func (c *Control) Load() float32 {
	return math.Float32frombits(c.bits.Load())
}

// Store replaces the current value
func (c *Control) Store(v float32) {
	c.bits.Store(math.Float32bits(v))
}

// Controls is the parameter source the engine snapshots once per block.
// Writers (CLI, presets, a host binding) call Set; the new value is picked
// up at the start of the next processed block.
type Controls struct {
	values [numParams]Control
}

// NewControls returns controls initialised to their defaults
func NewControls() *Controls {
	c := &Controls{}
	c.ResetDefaults()
	return c
}

// ResetDefaults restores every control to its default value
func (c *Controls) ResetDefaults() {
	for id := ParamID(0); id < numParams; id++ {
		c.values[id].Store(paramInfo[id].Default)
	}
}

// Set clamps v to the control's range and stores it. Unknown ids and NaN
// values are ignored.
func (c *Controls) Set(id ParamID, v float32) {
	if id < 0 || id >= numParams || v != v {
		return
	}
	info := paramInfo[id]
	if v < info.Min {
		v = info.Min
	}
	if v > info.Max {
		v = info.Max
	}
	c.values[id].Store(v)
}

// Get returns the current value of id
func (c *Controls) Get(id ParamID) float32 {
	if id < 0 || id >= numParams {
		return 0
	}
	return c.values[id].Load()
}

// snapshot is the per-block copy of the controls, converted to the units the
// renderer works in. It is rebuilt at the start of every block and never
// changed while the block renders.
type snapshot struct {
	volume   float32 // linear gain
	panLeft  float32
	panRight float32

	attack  float64 // samples
	hold    float64
	decay   float64
	release float64
	sustain float64
}

// dbToGain converts decibels to a linear gain. -90 dB and below is silence.
func dbToGain(db float64) float64 {
	if db <= -90 {
		return 0
	}
	return math.Pow(10, db*0.05)
}

// recalculate refreshes the snapshot from controls
func (s *snapshot) recalculate(c *Controls, samplesPerMs float64, wt *Wavetable) {
	s.attack = float64(c.Get(ParamAttack)) * samplesPerMs
	s.hold = float64(c.Get(ParamHold)) * samplesPerMs
	s.decay = float64(c.Get(ParamDecay)) * samplesPerMs
	s.release = float64(c.Get(ParamRelease)) * samplesPerMs
	s.sustain = float64(c.Get(ParamSustain))

	s.volume = float32(dbToGain(float64(c.Get(ParamVolume))))
	s.panLeft, s.panRight = panGains(float64(c.Get(ParamPanning)), wt)
}

// panGains implements a constant-power pan law: pan -1 is hard left, 0 is
// centre (both gains √2/2), 1 is hard right.
func panGains(pan float64, wt *Wavetable) (left, right float32) {
	angle := pan * math.Pi / 4
	sin := wt.Lookup(angle)
	cos := wt.Lookup(angle + math.Pi/2)

	const root2over2 = math.Sqrt2 / 2
	return root2over2 * (cos - sin), root2over2 * (cos + sin)
}
