package main

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDurationTrackerStartsAtZero(t *testing.T) {
	d := NewDurationTracker()
	assert.Equal(t, float32(0), d.Value())
}

func TestDurationTrackerRisesWithSustainedSignal(t *testing.T) {
	d := NewDurationTracker()
	for i := 0; i < DurationUnits*DurationBlocks; i++ {
		d.Update(0.5)
	}

	assert.Greater(t, d.Value(), float32(0))
	assert.LessOrEqual(t, d.Value(), float32(DurationMaxVal))
}

func TestDurationTrackerCapsAtDurationMaxVal(t *testing.T) {
	d := NewDurationTracker()
	for i := 0; i < DurationUnits*DurationBlocks*3; i++ {
		d.Update(1.0)
	}

	assert.LessOrEqual(t, d.Value(), float32(DurationMaxVal))
}

func TestDurationTrackerFallsAfterSilenceFollowsTone(t *testing.T) {
	d := NewDurationTracker()
	for i := 0; i < DurationUnits*DurationBlocks; i++ {
		d.Update(1.0)
	}
	sustained := d.Value()

	for i := 0; i < DurationUnits*DurationBlocks; i++ {
		d.Update(0)
	}

	assert.Less(t, d.Value(), sustained)
}

func TestDurationTrackerRectifiesNegativeSamples(t *testing.T) {
	pos := NewDurationTracker()
	neg := NewDurationTracker()
	for i := 0; i < DurationUnits*DurationBlocks; i++ {
		pos.Update(0.3)
		neg.Update(-0.3)
	}

	assert.Equal(t, pos.Value(), neg.Value())
}
