package main

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func fillHistoryWithSine(h *HistoryBuffer, period float32, n int) {
	for i := 0; i < n; i++ {
		h.Push(float32(math.Sin(2 * math.Pi * float64(i) / float64(period))))
	}
}

func TestOscillatorEnvelopeAttacksTowardOneWhileDurationHeld(t *testing.T) {
	h := NewHistoryBuffer()
	fillHistoryWithSine(h, 40, HistoryLength)

	o := &Oscillator{}
	OscInit(o, 1, 0, OscConfig{Vol: 1, Mode: OscNatural, Speed: 0.5, Cycle: 1, Mod: 0}, 40)

	for i := 0; i < 200; i++ {
		o.Step(h)
	}

	assert.Greater(t, o.amp, float32(0.8))
	assert.LessOrEqual(t, o.amp, float32(1))
}

func TestOscillatorEnvelopeDecaysOnceDurationExpires(t *testing.T) {
	h := NewHistoryBuffer()
	fillHistoryWithSine(h, 40, HistoryLength)

	o := &Oscillator{}
	OscInit(o, 1, 0, OscConfig{Vol: 1, Mode: OscNatural, Speed: 0.5, Cycle: 1, Mod: 0}, 40)

	for i := 0; i < 200; i++ {
		o.Step(h)
	}
	peak := o.amp

	o.duration = 0
	for i := 0; i < 50; i++ {
		o.Step(h)
	}

	assert.Less(t, o.amp, peak)
}

func TestOscillatorPolarityFlipsEveryNthCycleWhenModSet(t *testing.T) {
	h := NewHistoryBuffer()
	fillHistoryWithSine(h, 40, HistoryLength)

	var polarities []float32
	for cycle := uint64(0); cycle < 4; cycle++ {
		o := &Oscillator{}
		OscInit(o, cycle, 0, OscConfig{Vol: 1, Mode: OscNatural, Speed: 0.5, Cycle: 1, Mod: 2}, 40)
		polarities = append(polarities, o.polarity)
	}

	// cycle*1 mod 2 == 0 on even cycles -> polarity -1, else +1.
	assert.Equal(t, float32(-1), polarities[0])
	assert.Equal(t, float32(1), polarities[1])
	assert.Equal(t, float32(-1), polarities[2])
	assert.Equal(t, float32(1), polarities[3])
}

func TestOscillatorPolarityFractionalCycleTogglesEveryNCycles(t *testing.T) {
	h := NewHistoryBuffer()
	fillHistoryWithSine(h, 40, HistoryLength)

	// cycle=0.125, mod=2: floor(0.125*cycles) steps to a new integer every
	// 8 cycles, and that integer's parity flips the sign every step - so
	// polarity stays constant for an 8-cycle run before flipping.
	var polarities []float32
	for cycle := uint64(0); cycle < 16; cycle++ {
		o := &Oscillator{}
		OscInit(o, cycle, 0, OscConfig{Vol: 1, Mode: OscNatural, Speed: 0.5, Cycle: 0.125, Mod: 2}, 40)
		polarities = append(polarities, o.polarity)
	}

	for i := 0; i < 8; i++ {
		assert.Equal(t, float32(-1), polarities[i], "cycle %d", i)
	}
	for i := 8; i < 16; i++ {
		assert.Equal(t, float32(1), polarities[i], "cycle %d", i)
	}
}

func TestOscillatorNoModAlwaysPositivePolarity(t *testing.T) {
	o := &Oscillator{}
	OscInit(o, 7, 0, OscConfig{Vol: 1, Mode: OscNatural, Speed: 0.5, Cycle: 1, Mod: 0}, 40)
	assert.Equal(t, float32(1), o.polarity)
}

func TestOscillatorSquareModeMatchesNaturalSign(t *testing.T) {
	h := NewHistoryBuffer()
	fillHistoryWithSine(h, 40, HistoryLength)

	o := &Oscillator{}
	OscInit(o, 1, 0, OscConfig{Vol: 1, Mode: OscSquare, Speed: 0.5, Cycle: 1, Mod: 0}, 40)

	for i := 0; i < 10; i++ {
		v := o.Step(h)
		assert.False(t, math.IsNaN(float64(v)))
	}
}

func TestOscillatorLFOVolumeModeModulatesAmplitudeNotPhase(t *testing.T) {
	h := NewHistoryBuffer()
	fillHistoryWithSine(h, 40, HistoryLength)

	o := &Oscillator{}
	OscInit(o, 1, 0, OscConfig{
		Vol: 1, Mode: OscNatural, Speed: 0.5, Cycle: 1, Mod: 0,
		LFORate: 50, LFOAmp: 0.5, LFOIsVolume: true,
	}, 40)

	posBefore := o.pos
	o.Step(h)
	// PM would have nudged pos by more than the bare speed increment; AM
	// only ever advances pos by speed.
	assert.InDelta(t, float64(posBefore+0.5), float64(o.pos), 1e-4)
}

func TestOscillatorLFOPhaseModeAdvancesPosBeyondSpeed(t *testing.T) {
	h := NewHistoryBuffer()
	fillHistoryWithSine(h, 40, HistoryLength)

	o := &Oscillator{}
	OscInit(o, 1, 0, OscConfig{
		Vol: 1, Mode: OscNatural, Speed: 0.5, Cycle: 1, Mod: 0,
		LFORate: 50, LFOAmp: 0.5, LFOIsVolume: false,
	}, 40)

	posBefore := o.pos
	o.Step(h)
	assert.NotEqual(t, posBefore+0.5, o.pos)
}

func TestOscInitResetsEnvelopeAndDurationOnSpawn(t *testing.T) {
	o := &Oscillator{amp: 0.9, duration: 0, samples: 500, totalAmplitude: 12}
	OscInit(o, 3, 0.2, OscConfig{Vol: 0.5, Mode: OscNatural, Speed: 0.5, Cycle: 1, Mod: 0}, 40)

	assert.True(t, o.active)
	assert.Equal(t, float32(0), o.amp)
	assert.Equal(t, OscDuration, o.duration)
	assert.Equal(t, 0, o.samples)
	assert.Equal(t, float32(0), o.totalAmplitude)
	assert.Equal(t, float32(-0.2), o.pos)
}
