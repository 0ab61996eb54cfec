// oscillator.go - the tagged-variant oscillator: one synthesis voice
// driven by the detected period, replayed against history (NAT), or
// synthesized (SQR/SIN).
//
// A mode tag plus a switch, not an interface: the bank holds at most 18
// voices and iterates them every sample, so the flat struct keeps the
// hot loop free of dynamic dispatch.

package main

import "math"

// OscMode selects how an active oscillator converts its phase position
// into a sample value.
type OscMode int

const (
	// OscNatural replays history at a fractional phase ("natural" mode).
	OscNatural OscMode = iota
	// OscSquare is sign(natural sample).
	OscSquare
	// OscSine is synthesized from phase relative to roughInputPeriod.
	OscSine
)

// Oscillator is one synthesis voice in the bank. Hot per-sample state
// first, then init-time-only configuration.
type Oscillator struct {
	active bool
	mode   OscMode

	pos   float32 // phase position, expressed as samples back in history
	speed float32 // phase increment per sample

	polarity float32 // +1 or -1
	vol      float32
	amp      float32 // current envelope level

	samples        int
	totalAmplitude float32

	duration int // remaining cycles before release

	lfoPos       float32
	lfoRate      float32
	lfoAmplitude float32
	lfoIsVolume  bool

	roughInputPeriod float32 // captured at init, for SIN mode
}

// Step advances this oscillator by one sample and returns its
// contribution. The caller must check Active first; Step does not
// check it itself so the bank's hot loop can skip inactive slots
// without a redundant branch inside.
func (o *Oscillator) Step(hist *HistoryBuffer) float32 {
	if o.duration > 0 {
		o.amp += 0.01 * (1 - o.amp)
	} else {
		o.amp *= 0.95
	}

	ageA := int(o.pos)
	ageB := int(o.pos + 1)
	amtA := o.pos - float32(ageA)

	sampleA := hist.Get(ageA)
	sampleB := hist.Get(ageB)
	val := sampleA*amtA + sampleB*(1-amtA)

	abs := val
	if abs < 0 {
		abs = -abs
	}
	o.totalAmplitude += abs
	o.samples++

	if o.mode != OscNatural {
		makeup := o.totalAmplitude / float32(o.samples)
		switch o.mode {
		case OscSquare:
			if val >= 0 {
				val = makeup
			} else {
				val = -makeup
			}
		case OscSine:
			phase := o.pos/o.roughInputPeriod + 0.5
			val = fastSin(twoPi32*phase) * makeup
		}
	}

	o.pos += o.speed

	val = o.amp * val * o.polarity * o.vol

	if o.lfoAmplitude > 0 {
		m := (fastSin(twoPi32*(o.lfoPos+0.5)) + 1) * o.lfoAmplitude
		if o.lfoIsVolume {
			val = val*m + val*(1-o.lfoAmplitude)
		} else {
			o.pos += m
		}
		o.lfoPos += 1 / o.lfoRate
	}

	return val
}

// Active reports whether this oscillator still contributes.
func (o *Oscillator) Active() bool { return o.active }

const twoPi32 = float32(2 * math.Pi)

// OscInit (re)configures an oscillator slot at a cycle boundary. cycle
// and mod implement the polarity sub-octave division rule: with mod set,
// polarity is -1 whenever floor(cycle*cycles) lands on a multiple of
// mod, so a sub-unity cycle toggles every 1/cycle cycles and divides
// the pitch a further octave down.
func OscInit(o *Oscillator, cycles uint64, adjustment float32, cfg OscConfig, roughInputPeriod float32) {
	o.active = true
	o.amp = 0
	o.pos = -adjustment
	o.samples = 0
	o.totalAmplitude = 0
	o.duration = OscDuration

	o.mode = cfg.Mode
	o.speed = cfg.Speed
	o.vol = cfg.Vol
	o.lfoRate = cfg.LFORate
	o.lfoAmplitude = cfg.LFOAmp
	o.lfoIsVolume = cfg.LFOIsVolume
	o.lfoPos = 0

	if cfg.Mod == 0 {
		o.polarity = 1
	} else if int64(cfg.Cycle*float64(cycles))%int64(cfg.Mod) == 0 {
		o.polarity = -1
	} else {
		o.polarity = 1
	}

	o.roughInputPeriod = roughInputPeriod
}
