package gosinesynth

import "math"

// Stage is the current segment of an amplitude envelope
type Stage int

const (
	StageAttack Stage = iota
	StageHold
	StageDecay
	StageSustain
	StageRelease
)

func (s Stage) String() string {
	switch s {
	case StageAttack:
		return "Attack"
	case StageHold:
		return "Hold"
	case StageDecay:
		return "Decay"
	case StageSustain:
		return "Sustain"
	case StageRelease:
		return "Release"
	}
	return "Unknown"
}

// Envelope is the complete state of a linear attack-hold-decay-sustain-release
// generator. Durations and Index are counted in samples. The zero value is
// not meaningful; use NewEnvelope.
//
// Envelope is a value type: Tick, Release and Reattack take the state and
// return the next state without touching anything else.
type Envelope struct {
	Stage Stage
	Index float64 // samples elapsed in the current stage

	Level         float64 // level produced by the last Tick
	ReleasedLevel float64 // Level captured when Release was entered

	AttackLevel  float64
	SustainLevel float64

	AttackDuration  float64
	HoldDuration    float64
	DecayDuration   float64
	ReleaseDuration float64

	// Done is set once the envelope has nothing left to play: decay reached
	// a zero sustain level, or release ran out.
	Done bool
}

// NewEnvelope returns an envelope at the start of its attack stage with a
// peak level of 1. Negative durations are treated as zero.
func NewEnvelope(attack, hold, decay, sustainLevel, release float64) Envelope {
	return Envelope{
		Stage:           StageAttack,
		AttackLevel:     1,
		SustainLevel:    clamp(sustainLevel, 0, 1),
		AttackDuration:  nonNegative(attack),
		HoldDuration:    nonNegative(hold),
		DecayDuration:   nonNegative(decay),
		ReleaseDuration: nonNegative(release),
	}
}

// Tick computes the level for the current sample, applies any stage change
// that sample triggers, and advances Index. Index does not advance while
// sustaining.
func (e Envelope) Tick() Envelope {
	switch e.Stage {
	case StageAttack:
		if e.Index > e.AttackDuration {
			if e.HoldDuration > 0 {
				e.Stage = StageHold
			} else {
				e.Stage = StageDecay
			}
			e.Index = 0
			e.Level = e.AttackLevel
		} else {
			e.Level = ramp(0, e.AttackLevel, e.Index, e.AttackDuration)
		}

	case StageHold:
		if e.Index > e.HoldDuration {
			e.Stage = StageDecay
			e.Index = 0
		}
		e.Level = e.AttackLevel

	case StageDecay:
		if e.Index > e.DecayDuration {
			e.Level = e.SustainLevel
			if e.SustainLevel > 0 {
				e.Stage = StageSustain
				e.Index = 0
			} else {
				// nothing to sustain or release
				e.Done = true
			}
		} else {
			e.Level = ramp(e.AttackLevel, e.SustainLevel, e.Index, e.DecayDuration)
		}

	case StageSustain:
		e.Level = e.SustainLevel

	case StageRelease:
		if e.Index > e.ReleaseDuration {
			e.Level = 0
			e.Done = true
		} else {
			e.Level = ramp(e.ReleasedLevel, 0, e.Index, e.ReleaseDuration)
		}
	}

	if e.Stage != StageSustain {
		e.Index++
	}
	return e
}

// Release enters the release stage from whatever level the envelope is at
func (e Envelope) Release() Envelope {
	e.Stage = StageRelease
	e.ReleasedLevel = e.Level
	e.Index = 0
	return e
}

// Reattack restarts the attack stage from the current level. Index is placed
// where the attack ramp already equals Level, so the next Tick continues
// without a jump.
func (e Envelope) Reattack() Envelope {
	e.Stage = StageAttack
	e.Done = false
	if e.AttackLevel > 0 && e.AttackDuration > 0 {
		e.Index = e.AttackDuration * (clamp(e.Level, 0, e.AttackLevel) / e.AttackLevel)
	} else {
		e.Index = 0
	}
	return e
}

// ramp interpolates linearly from -> to over duration samples. A stage of
// zero (or negative) length is already complete and yields its end level.
func ramp(from, to, index, duration float64) float64 {
	if duration <= 0 {
		return to
	}
	return from + (to-from)*(index/duration)
}

func clamp(v, lo, hi float64) float64 {
	if v < lo || math.IsNaN(v) {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

func nonNegative(v float64) float64 {
	if v > 0 {
		return v
	}
	return 0
}
