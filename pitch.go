// pitch.go - zero-crossing period estimator and the validator/pitch gate
// that sits in front of the voice program engine.

package main

import "math"

// PitchBand selects the period window and template-validation policy a
// voice preset validates cycles against.
type PitchBand struct {
	PeriodHigh float32 // P_hi - shortest accepted period, in samples
	PeriodLow  float32 // P_lo - longest accepted period, in samples
}

var (
	// BandWhistle is the default whistle pitch band.
	BandWhistle = PitchBand{PeriodHigh: WhistlePeriodHigh, PeriodLow: WhistlePeriodLow}
	// BandVocal is the vocal pitch band.
	BandVocal = PitchBand{PeriodHigh: VocalPeriodHigh, PeriodLow: VocalPeriodLow}
)

// PitchState tracks zero-crossings of the input signal cycle by cycle.
type PitchState struct {
	positive                 bool
	previousSample           float32
	samplesSinceLastCrossing float32
	roughInputPeriod         float32
	cycles                   uint64
}

// NewPitchState returns a PitchState assuming a positive half-cycle,
// with the period estimate seeded to 40 samples.
func NewPitchState() *PitchState {
	return &PitchState{
		positive:         true,
		roughInputPeriod: 40,
	}
}

// Reset re-initializes pitch tracking state, used on a preset change so a
// stale period from the old timbre doesn't bleed into the new one.
func (p *PitchState) Reset() {
	*p = PitchState{positive: true, roughInputPeriod: 40}
}

// Cycles returns the monotonically increasing completed-cycle count.
func (p *PitchState) Cycles() uint64 {
	return p.cycles
}

// RoughPeriod returns the most recently estimated period, in samples.
func (p *PitchState) RoughPeriod() float32 {
	return p.roughInputPeriod
}

// CycleEvent describes a just-completed positive→negative crossing.
type CycleEvent struct {
	Adjustment float32 // fractional samples the crossing lies before s
	Period     float32 // rough_input_period at this crossing
}

// Step folds one input sample into the crossing detector. It returns
// completed=true exactly when a positive-to-negative crossing occurred,
// i.e. exactly once per cycle boundary.
// The caller must have already pushed s into the history buffer.
func (p *PitchState) Step(s float32) (completed bool, ev CycleEvent) {
	p.samplesSinceLastCrossing++

	if p.positive {
		if s < 0 {
			adjustment := s / (p.previousSample - s)
			if math.IsNaN(float64(adjustment)) {
				adjustment = 0
			}

			p.samplesSinceLastCrossing -= adjustment
			p.roughInputPeriod = p.samplesSinceLastCrossing

			p.cycles++
			p.positive = false
			p.samplesSinceLastCrossing = -adjustment

			completed = true
			ev = CycleEvent{Adjustment: adjustment, Period: p.roughInputPeriod}
		}
	} else if s > 0 {
		p.positive = true
	}

	p.previousSample = s
	return completed, ev
}

// ValidationStrategy selects which of the two template-validation
// formulas a preset gates cycles with. They are alternatives, never
// combined: a preset uses exactly one.
type ValidationStrategy int

const (
	// ValidateRMS rejects a cycle when the extrema sit badly AND the
	// scanned period is quiet: error > 5 && rms < 1e-4.
	ValidateRMS ValidationStrategy = iota
	// ValidateAmplitude rejects on peak-to-peak amplitude instead:
	// amplitude < 1e-3 || (amplitude < 1e-2 && error > 2).
	ValidateAmplitude
)

// validationResult carries the scan outputs a preset may additionally
// gate on (e.g. RequireAmplitude).
type validationResult struct {
	ok        bool
	amplitude float32
}

// validatePeriod gates a freshly-estimated period: it must fall in the
// band's strict interior, and the scanned samples must pass the
// preset's chosen validation formula — either the extrema sit where a
// sinusoid's would, or the signal is loud enough (by RMS or by
// amplitude, per strategy) that a noisy template doesn't matter.
func validatePeriod(hist *HistoryBuffer, period float32, band PitchBand, strategy ValidationStrategy) validationResult {
	if !(period > band.PeriodHigh && period < band.PeriodLow) {
		return validationResult{ok: false}
	}

	p := int(period)
	if p < 1 {
		p = 1
	}

	var sumSq float64
	sampleMax := hist.Get(0)
	sampleMin := hist.Get(0)
	locMax, locMin := 0, 0

	for age := 0; age < p; age++ {
		v := hist.Get(age)
		sumSq += float64(v) * float64(v)
		if v > sampleMax {
			sampleMax = v
			locMax = age
		}
		if v < sampleMin {
			sampleMin = v
			locMin = age
		}
	}

	rmsRough := sumSq / float64(p)
	amplitude := sampleMax - sampleMin

	quarter := float64(period) / 4
	threeQuarter := float64(period) * 3 / 4
	dMax := float64(locMax) - quarter
	dMin := float64(locMin) - threeQuarter
	errorMetric := dMax*dMax + dMin*dMin

	ok := true
	switch strategy {
	case ValidateAmplitude:
		if amplitude < validateAmpLow ||
			(amplitude < validateAmpMid && errorMetric > validateAmpErrMax) {
			ok = false
		}
	default:
		if errorMetric > validateRMSErrMax && rmsRough < validateRMSEps {
			ok = false
		}
	}

	return validationResult{
		ok:        ok,
		amplitude: amplitude,
	}
}
